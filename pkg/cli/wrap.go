// pkg/cli/wrap.go

package cli

import (
	"context"

	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/logger"
	cerr "github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
)

// Wrap gives a command a RuntimeContext, panic recovery, and start/finish
// logging through the global otelzap logger.
func Wrap(fn func(rc *RuntimeContext, cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		parent := cmd.Context()
		if parent == nil {
			parent = context.Background()
		}
		base := otelzap.L().Logger
		rc := NewContext(parent, cmd.CommandPath(), base)
		defer rc.End(&err)
		defer rc.HandlePanic(&err)

		err = logger.WithCommandLogging(base, rc.Command, rc.TraceID, func() error {
			return fn(rc, cmd, args)
		})
		if err != nil {
			err = cerr.WithStack(err)
		}
		return err
	}
}
