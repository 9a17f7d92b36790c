// pkg/logerr/wrap.go

package logerr

import (
	cerr "github.com/cockroachdb/errors"
)

// WrapConfigError attaches a stack and an operator hint to a config failure.
func WrapConfigError(err error) error {
	return cerr.WithHint(cerr.WithStack(err), "check logger2_path and logger2_mode")
}

// WrapIOError attaches a stack and an operator hint to a write failure.
func WrapIOError(err error) error {
	return cerr.WithHint(cerr.WithStack(err), "check that the log directory exists and is writable")
}

// Hints returns the operator hints attached anywhere in err's chain.
func Hints(err error) []string {
	return cerr.GetAllHints(err)
}
