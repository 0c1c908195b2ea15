package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/DeBrosOfficial/journal-exporter/pkg/config"
	"github.com/DeBrosOfficial/journal-exporter/pkg/decoder"
	"github.com/DeBrosOfficial/journal-exporter/pkg/errors"
	"github.com/DeBrosOfficial/journal-exporter/pkg/journal"
	"github.com/DeBrosOfficial/journal-exporter/pkg/journal/systemd"
	"github.com/DeBrosOfficial/journal-exporter/pkg/logging"
	"github.com/DeBrosOfficial/journal-exporter/pkg/sink"
	"github.com/DeBrosOfficial/journal-exporter/pkg/tail"
)

// exporter holds the process-level collaborators so tests can swap them.
type exporter struct {
	backend journal.Backend
	stdout  io.Writer
	stderr  io.Writer
}

// reportedError marks an error the logger already wrote out.
type reportedError struct{ error }

func (e reportedError) Unwrap() error { return e.error }

func (x *exporter) command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal-exporter",
		Short: "Forward new systemd journal entries to stdout",
		Long: `journal-exporter tails the systemd journal from its current end and writes
every new entry at or above the selected severity to stdout, one line per entry.
Diagnostics go to stderr. Send SIGINT or SIGTERM to stop.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return x.run(cmd.Context(), cmd.Flags())
		},
	}
	cmd.SetOut(x.stdout)
	cmd.SetErr(x.stderr)
	config.RegisterFlags(cmd.Flags())
	return cmd
}

func (x *exporter) run(ctx context.Context, fs *pflag.FlagSet) error {
	cfg, err := config.Load(fs)
	if err != nil {
		return err
	}
	rc, err := cfg.RunConfig()
	if err != nil {
		return err
	}

	logger, err := logging.NewColoredLogger(logging.ComponentExporter, logging.Options{
		Level:  rc.LogLevel,
		Format: rc.LogFormat,
		Output: x.stderr,
	})
	if err != nil {
		return err
	}
	defer logger.Close()

	logger.ComponentInfo(logging.ComponentConfig, "Configuration resolved",
		zap.String("unit", rc.Unit),
		zap.Stringer("min_priority", rc.MinPriority),
		zap.String("output", rc.Output),
		zap.String("journal_dir", rc.JournalDir),
		zap.Duration("wait_interval", rc.WaitInterval),
		zap.String("config_file", cfg.File))

	out, err := sink.New(rc.Output, x.stdout)
	if err != nil {
		return err
	}

	if cfg.File == "" {
		logger.ComponentDebug(logging.ComponentConfig, "No config file found, using flags, environment and defaults")
	}

	loop := tail.New(
		tail.AdapterOpener(x.backend, rc.JournalConfig(), logger.For(logging.ComponentJournal)),
		decoder.New(),
		out,
		tail.Config{WaitInterval: rc.WaitInterval},
		logger.For(logging.ComponentTail),
	)

	logger.ComponentInfo(logging.ComponentExporter, "Starting journal exporter")
	if err := loop.Run(ctx); err != nil {
		logger.ComponentError(logging.ComponentExporter, exitReason(err))
		return reportedError{err}
	}
	logger.ComponentInfo(logging.ComponentExporter, "Journal exporter stopped")
	return nil
}

// exitReason summarizes why the loop stopped for the final log line.
func exitReason(err error) string {
	switch {
	case errors.IsSeekFailed(err):
		return "Could not position the journal read pointer, exiting"
	case errors.IsStoreUnavailable(err):
		return "Journal became unavailable, exiting"
	case errors.IsSink(err):
		return "Output closed or failed, exiting"
	default:
		return "Journal exporter stopped on error"
	}
}

// execute runs the command and maps the outcome to a process exit code.
func (x *exporter) execute(ctx context.Context, args []string) int {
	cmd := x.command()
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var reported reportedError
	if !stderrors.As(err, &reported) {
		if errors.IsValidation(err) {
			fmt.Fprintln(x.stderr, "Invalid configuration:")
			for _, e := range multierr.Errors(err) {
				fmt.Fprintf(x.stderr, "  - %v\n", e)
			}
		} else {
			fmt.Fprintf(x.stderr, "Error: %v\n", err)
		}
	}
	return 1
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		cancel()
	}()

	x := &exporter{backend: systemd.New(), stdout: os.Stdout, stderr: os.Stderr}
	code := x.execute(ctx, os.Args[1:])
	cancel()
	os.Exit(code)
}
