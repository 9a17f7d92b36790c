// pkg/cli/cli.go
//
// Flag helpers and the viper binding shared by every fslogger command.
package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// AddStringFlag adds a persistent string flag and optionally marks it
// required. Env/Config are handled by Viper if you call BindFlagsToViper.
func AddStringFlag(cmd *cobra.Command, name, shorthand, def, help string, required bool) {
	cmd.PersistentFlags().StringP(name, shorthand, def, help)
	if required {
		if err := cmd.MarkPersistentFlagRequired(name); err != nil {
			// Cobra still validates required flags at runtime.
			fmt.Fprintf(os.Stderr, "warning: failed to mark flag %s as required: %v\n", name, err)
		}
	}
}

// AddBoolFlag adds a persistent boolean flag.
func AddBoolFlag(cmd *cobra.Command, name, shorthand string, def bool, help string) {
	cmd.PersistentFlags().BoolP(name, shorthand, def, help)
}

// AddDurationFlag adds a persistent duration flag.
func AddDurationFlag(cmd *cobra.Command, name string, def time.Duration, help string) {
	cmd.PersistentFlags().Duration(name, def, help)
}

// HideFlag keeps a flag working but out of --help.
func HideFlag(cmd *cobra.Command, name string) {
	if err := cmd.PersistentFlags().MarkHidden(name); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to hide flag %s: %v\n", name, err)
	}
}

// BindFlagsToViper binds all flags on a command to a Viper instance.
func BindFlagsToViper(cmd *cobra.Command, v *viper.Viper) error {
	var result error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if err := v.BindPFlag(f.Name, f); err != nil {
			result = multierror.Append(result, err)
		}
	})
	return result
}

// SetViperEnvPrefix lets Viper read env with prefix:
// logger2_path is FSLOGGER_LOGGER2_PATH.
func SetViperEnvPrefix(v *viper.Viper, prefix string) {
	v.SetEnvPrefix(prefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
}
