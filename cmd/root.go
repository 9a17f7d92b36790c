/* cmd/root.go */

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/cli"
	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/config"
	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/logerr"
	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/logger"
	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/metrics"
	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/registry"
	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/router"
	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/shared"
	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/telemetry"
	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// app is the state shared by every command of one invocation.
type app struct {
	cfgFile     string
	logLevel    string
	logColour   bool
	metricsAddr string
	traceFile   string
	envFile     string
	stderr      io.Writer

	cfg      *config.Config
	log      *zap.Logger
	registry *registry.Registry
	metrics  *metrics.Server
	undoLog  func()
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   shared.AppID,
		Short: "Route osquery results, snapshots and status lines to files and a remote collector",
		Long: `fslogger is the filesystem2 logger plugin as a command-line tool.

Differential results go to <logger2_path>/<binary>.results.log and, when
ip_address is set, are also POSTed to that collector. Snapshots go to
<binary>.snapshots.log. Status lines go to <session>.INFO/WARNING/ERROR files,
or to stderr when the directory is not writable.

Settings come from flags, FSLOGGER_* environment variables and
$XDG_CONFIG_HOME/fslogger/config.yaml.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default $XDG_CONFIG_HOME/fslogger/config.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "fslogger's own log level")
	root.PersistentFlags().BoolVar(&a.logColour, "log-colour", false, "colour fslogger's own log levels")
	root.PersistentFlags().StringVar(&a.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while running")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", "", "load FSLOGGER_* variables from this dotenv file first")
	root.PersistentFlags().StringVar(&a.traceFile, "trace-file", "", "write OpenTelemetry spans as JSON lines to this file")

	cli.AddStringFlag(root, config.KeyLogDir, "", "", "directory for the results, snapshot and status logs (default "+shared.DefaultLogDir+")", false)
	cli.AddStringFlag(root, config.KeyLegacyLogDir, "", "", "legacy name of --"+config.KeyLogDir, false)
	cli.HideFlag(root, config.KeyLegacyLogDir)
	cli.AddStringFlag(root, config.KeyLogMode, "", shared.DefaultLogMode, "octal permissions for the log files", false)
	cli.AddStringFlag(root, config.KeyRemoteEndpoint, "", "", "URL that differential results are POSTed to; empty disables forwarding", false)
	cli.AddStringFlag(root, config.KeyBinaryName, "", shared.DefaultBinaryName, "binary name used in the results and snapshot file names", false)
	cli.AddDurationFlag(root, config.KeyRemoteTimeout, 0, "timeout for one remote POST; 0 waits indefinitely")
	cli.AddBoolFlag(root, config.KeyRemoteInsecureTLS, "", false, "skip TLS verification of the collector (development only)")
	cli.AddStringFlag(root, config.KeyRemoteCAFile, "", "", "PEM file with the CA that signed the collector's certificate", false)

	root.AddCommand(newLogCmd(a), newPluginsCmd(a), newConfigCmd(a))
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	if !cmd.Flags().Changed("log-colour") {
		a.logColour = isTerminal(a.stderr)
	}
	a.log = logger.NewConsoleLogger(a.stderr, a.logLevel, a.logColour)
	a.undoLog = otelzap.ReplaceGlobals(otelzap.New(a.log))

	if err := telemetry.Init(shared.AppID, a.traceFile); err != nil {
		a.log.Warn("Tracing disabled", zap.Error(err))
	}

	if a.envFile != "" {
		// Variables already in the environment win.
		if err := godotenv.Load(a.envFile); err != nil {
			return logerr.NewConfigError("failed to load env file", a.envFile, err)
		}
	}

	v := viper.New()
	config.SetDefaults(v)
	cli.SetViperEnvPrefix(v, shared.EnvPrefix)
	if err := cli.BindFlagsToViper(cmd, v); err != nil {
		return logerr.NewConfigError("failed to bind flags", "", err)
	}
	cfg, err := config.Load(v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.registry = registry.New()
	a.registry.MustRegister(shared.PluginName, router.NewPlugin)

	if a.metricsAddr != "" {
		srv, err := metrics.Serve(a.metricsAddr, a.log)
		if err != nil {
			return err
		}
		a.metrics = srv
	}
	return nil
}

func (a *app) close(ctx context.Context) error {
	var result *multierror.Error
	if a.metrics != nil {
		result = multierror.Append(result, a.metrics.Shutdown(ctx))
	}
	result = multierror.Append(result, telemetry.Shutdown(ctx))
	if a.log != nil {
		// Syncing a console logger on stderr fails on some platforms; ignore.
		_ = a.log.Sync()
	}
	if a.undoLog != nil {
		a.undoLog()
	}
	return result.ErrorOrNil()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Run executes fslogger with args and releases everything it set up.
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	a := &app{stderr: stderr}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if closeErr := a.close(context.Background()); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}

// Execute runs fslogger with the process arguments and exits non-zero on
// failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		for _, hint := range logerr.Hints(err) {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}
		stop()
		os.Exit(1)
	}
}
