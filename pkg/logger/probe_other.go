//go:build !unix

// pkg/logger/probe_other.go

package logger

import (
	"os"
)

// IsWritable reports whether the process may create files in dir by
// creating and removing a scratch file.
func IsWritable(dir string) error {
	f, err := os.CreateTemp(dir, ".fslogger-probe-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}
