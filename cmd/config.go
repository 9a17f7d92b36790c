/* cmd/config.go */

package cmd

import (
	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/cli"
	"github.com/spf13/cobra"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

func newConfigCmd(a *app) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective configuration",
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: cli.Wrap(func(rc *cli.RuntimeContext, cmd *cobra.Command, _ []string) error {
			out, err := a.cfg.YAML()
			if err != nil {
				return err
			}
			otelzap.Ctx(rc.Ctx).Debug("Showing configuration", zap.String("logger2_path", a.cfg.LogDir))
			_, err = cmd.OutOrStdout().Write(out)
			return err
		}),
	})
	return configCmd
}
