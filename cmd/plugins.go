/* cmd/plugins.go */

package cmd

import (
	"fmt"

	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/cli"
	"github.com/spf13/cobra"
)

func newPluginsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "plugins",
		Short: "List the registered logger plugins",
		Args:  cobra.NoArgs,
		RunE: cli.Wrap(func(_ *cli.RuntimeContext, cmd *cobra.Command, _ []string) error {
			for _, name := range a.registry.Names() {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
					return err
				}
			}
			return nil
		}),
	}
}
