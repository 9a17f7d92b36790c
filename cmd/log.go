/* cmd/log.go */

package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/cli"
	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/entry"
	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/logger"
	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/registry"
	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/shared"
	"github.com/spf13/cobra"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// maxLineBytes bounds one entry read from stdin.
const maxLineBytes = 4 << 20

type writeFunc func(ctx context.Context, p registry.Plugin, payload string) error

func newLogCmd(a *app) *cobra.Command {
	logCmd := &cobra.Command{
		Use:   "log",
		Short: "Write entries through the filesystem2 logger",
		Long: `Runs one logger lifecycle: setUp (truncates the results log), init (starts the
status log session named after binary_name), then writes every argument, or
every stdin line when no arguments are given, as one entry.`,
	}

	resultCmd := &cobra.Command{
		Use:   "result [text...]",
		Short: "Log differential results (also forwarded to ip_address)",
		RunE: cli.Wrap(func(rc *cli.RuntimeContext, cmd *cobra.Command, args []string) error {
			return a.runLog(rc, cmd, args, entry.Differential, func(ctx context.Context, p registry.Plugin, s string) error {
				return p.LogString(ctx, s)
			})
		}),
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [text...]",
		Short: "Log snapshot entries",
		RunE: cli.Wrap(func(rc *cli.RuntimeContext, cmd *cobra.Command, args []string) error {
			return a.runLog(rc, cmd, args, entry.Snapshot, func(ctx context.Context, p registry.Plugin, s string) error {
				return p.LogSnapshot(ctx, s)
			})
		}),
	}

	var severity, file string
	var line int
	statusCmd := &cobra.Command{
		Use:   "status [text...]",
		Short: "Log status lines at a severity with source provenance",
		RunE: cli.Wrap(func(rc *cli.RuntimeContext, cmd *cobra.Command, args []string) error {
			sev, err := entry.ParseSeverity(severity)
			if err != nil {
				return err
			}
			return a.runLog(rc, cmd, args, entry.Status, func(ctx context.Context, p registry.Plugin, s string) error {
				return p.LogStatus(ctx, []entry.LogEntry{entry.NewStatus(sev, file, line, s)})
			})
		}),
	}
	statusCmd.Flags().StringVar(&severity, "severity", entry.SeverityInfo.String(), "INFO, WARNING, ERROR or FATAL")
	statusCmd.Flags().StringVar(&file, "file", "", "source file the line came from")
	statusCmd.Flags().IntVar(&line, "line", 0, "source line the line came from")

	logCmd.AddCommand(resultCmd, snapshotCmd, statusCmd)
	return logCmd
}

func (a *app) runLog(rc *cli.RuntimeContext, cmd *cobra.Command, args []string, category entry.Category, write writeFunc) error {
	log := otelzap.Ctx(rc.Ctx)

	lc := logger.NewLoggingContext(logger.Options{
		Stderr:   cmd.ErrOrStderr(),
		FileMode: a.cfg.FileMode(),
	})
	defer func() {
		if err := lc.Stop(); err != nil {
			log.Warn("Failed to close status logs", zap.Error(err))
		}
	}()

	plugin, err := a.registry.New(shared.PluginName, registry.Deps{
		Config:  a.cfg,
		Logger:  rc.Log,
		Logging: lc,
		Stderr:  cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	if err := plugin.SetUp(rc.Ctx); err != nil {
		return err
	}
	plugin.Init(a.cfg.BinaryName, []entry.LogEntry{startupEntry(a.cfg.BinaryName)})

	log.Debug("Writing entries",
		zap.String("category", category.String()),
		zap.Int("args", len(args)))

	written := 0
	next := func(payload string) error {
		if err := write(rc.Ctx, plugin, payload); err != nil {
			return err
		}
		written++
		return nil
	}

	if len(args) > 0 {
		for _, payload := range args {
			if err := next(payload); err != nil {
				return err
			}
		}
	} else if err := eachLine(rc.Ctx, cmd.InOrStdin(), next); err != nil {
		return err
	}

	log.Info("Entries written",
		zap.String("category", category.String()),
		zap.Int("count", written))
	return nil
}

// eachLine calls fn for every non-empty line of r until EOF or ctx is done.
func eachLine(ctx context.Context, r io.Reader, fn func(string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		if err := fn(line); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	return nil
}

// startupEntry is the status line buffered before the logger is ready,
// replayed by Init into the status logs.
func startupEntry(binary string) entry.LogEntry {
	_, file, line, _ := runtime.Caller(0)
	return entry.NewStatus(entry.SeverityInfo, filepath.Base(file), line,
		fmt.Sprintf("%s logger plugin started for %s", shared.PluginName, binary))
}
