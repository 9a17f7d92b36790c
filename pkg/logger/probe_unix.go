//go:build unix

// pkg/logger/probe_unix.go

package logger

import (
	"golang.org/x/sys/unix"
)

// IsWritable reports whether the process may create files in dir.
func IsWritable(dir string) error {
	return unix.Access(dir, unix.W_OK)
}
