// pkg/logerr/classification.go
//
// Error classification for the log routing subsystem.
// Every error that leaves pkg/fileops, pkg/config or pkg/router is a
// *ClassifiedError so callers can branch on the kind instead of the text.

package logerr

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// ErrorKind classifies errors for appropriate handling
type ErrorKind int

const (
	// KindConfig - unresolvable or invalid destination directory / settings
	KindConfig ErrorKind = iota
	// KindIO - write failure: missing directory, disk fault
	KindIO
	// KindPermission - write failure caused by permission denial
	KindPermission
	// KindNetwork - remote forward failure, always non-fatal
	KindNetwork
	// KindInit - system log bridge misconfiguration during init
	KindInit
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindIO:
		return "io"
	case KindPermission:
		return "permission"
	case KindNetwork:
		return "network"
	case KindInit:
		return "init"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ClassifiedError wraps an error with its kind and the resource it concerns
type ClassifiedError struct {
	Kind     ErrorKind
	Message  string
	Resource string
	Cause    error
}

// Error implements the error interface
func (e *ClassifiedError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)
	if e.Resource != "" {
		sb.WriteString(" (")
		sb.WriteString(e.Resource)
		sb.WriteString(")")
	}
	if e.Cause != nil && e.Cause.Error() != e.Message {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	return sb.String()
}

// Unwrap returns the underlying error
func (e *ClassifiedError) Unwrap() error {
	return e.Cause
}

// NewConfigError creates an error for an unusable configuration value
func NewConfigError(message, resource string, cause error) error {
	return &ClassifiedError{Kind: KindConfig, Message: message, Resource: resource, Cause: cause}
}

// NewIOError creates an error for a failed filesystem write.
// Permission failures are promoted to KindPermission so callers can tell
// "fix the mode" apart from "the disk is gone".
func NewIOError(message, path string, cause error) error {
	kind := KindIO
	if errors.Is(cause, fs.ErrPermission) {
		kind = KindPermission
	}
	return &ClassifiedError{Kind: kind, Message: message, Resource: path, Cause: cause}
}

// NewNetworkError creates an error for a failed remote delivery
func NewNetworkError(message, endpoint string, cause error) error {
	return &ClassifiedError{Kind: KindNetwork, Message: message, Resource: endpoint, Cause: cause}
}

// NewInitError creates an error for a failed system log bridge init
func NewInitError(message, session string, cause error) error {
	return &ClassifiedError{Kind: KindInit, Message: message, Resource: session, Cause: cause}
}

// KindOf reports the kind of the first ClassifiedError in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified.Kind, true
	}
	return 0, false
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// IsIOError reports whether err is a filesystem write failure of any flavour.
func IsIOError(err error) bool {
	k, ok := KindOf(err)
	return ok && (k == KindIO || k == KindPermission)
}

func IsConfigError(err error) bool  { return IsKind(err, KindConfig) }
func IsNetworkError(err error) bool { return IsKind(err, KindNetwork) }
func IsInitError(err error) bool    { return IsKind(err, KindInit) }
