// Package entry holds the log event types shared by the router, the sinks
// and the system log bridge.
package entry

import (
	"fmt"
	"os"
	"strings"
)

// Category says where an entry is routed.
type Category int

const (
	Differential Category = iota
	Snapshot
	Status
)

func (c Category) String() string {
	switch c {
	case Differential:
		return "differential"
	case Snapshot:
		return "snapshot"
	case Status:
		return "status"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// Severity of a status entry. The numeric values match the host's status
// line severities (INFO=0 ... FATAL=3).
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
	SeverityFatal
	// SeverityNone is above every real severity; as a stderr threshold it
	// means "never echo".
	SeverityNone
)

// FileSeverities are the severities that own a destination file.
var FileSeverities = []Severity{SeverityInfo, SeverityWarning, SeverityError}

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	case SeverityFatal:
		return "FATAL"
	case SeverityNone:
		return "NONE"
	default:
		return fmt.Sprintf("SEVERITY(%d)", int(s))
	}
}

// Clamp maps out-of-range values onto the nearest real severity.
func (s Severity) Clamp() Severity {
	if s < SeverityInfo {
		return SeverityInfo
	}
	if s > SeverityFatal {
		return SeverityFatal
	}
	return s
}

// ParseSeverity accepts names (case-insensitive, WARN as WARNING) or digits.
func ParseSeverity(v string) (Severity, error) {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "INFO", "0":
		return SeverityInfo, nil
	case "WARNING", "WARN", "1":
		return SeverityWarning, nil
	case "ERROR", "2":
		return SeverityError, nil
	case "FATAL", "3":
		return SeverityFatal, nil
	case "NONE", "4":
		return SeverityNone, nil
	}
	return SeverityInfo, fmt.Errorf("unknown severity %q", v)
}

// LogEntry is one event handed to the router. Status entries carry
// severity and provenance; differential and snapshot entries only a payload.
type LogEntry struct {
	Category   Category
	Payload    string
	Severity   Severity
	SourceFile string
	SourceLine int
}

// NewStatus builds a status entry with provenance.
func NewStatus(sev Severity, file string, line int, msg string) LogEntry {
	return LogEntry{
		Category:   Status,
		Payload:    msg,
		Severity:   sev,
		SourceFile: file,
		SourceLine: line,
	}
}

// LogDestination is a file and the mode it is written with.
type LogDestination struct {
	Path string
	Mode os.FileMode
}
