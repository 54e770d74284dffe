// Package cli holds the process plumbing shared by the commands: exit codes,
// error reporting and the logger/tracer/metrics lifecycle.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dbtools/internal/config"
	"dbtools/internal/database"
	"dbtools/internal/logging"
	"dbtools/internal/metrics"
	tracing "dbtools/internal/otel"
	"dbtools/internal/service"
)

// Process exit codes.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitUsage       = 2
	ExitUnreachable = 3
)

// ErrUsage marks errors caused by bad flags, arguments or settings.
var ErrUsage = errors.New("usage error")

const shutdownTimeout = 5 * time.Second

// ExitCode maps a command error to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrUsage), errors.Is(err, service.ErrInvalidSeedOptions):
		return ExitUsage
	case errors.Is(err, database.ErrUnreachable):
		return ExitUnreachable
	default:
		return ExitFailure
	}
}

// Report prints err to w in the form the operator sees. store names the
// backend used in the connectivity hint.
func Report(w io.Writer, err error, store, hint string) {
	switch ExitCode(err) {
	case ExitOK:
	case ExitUsage:
		fmt.Fprintf(w, "error: %v\n", err)
	case ExitUnreachable:
		fmt.Fprintf(w, "cannot connect to %s\n", store)
		fmt.Fprintln(w, hint)
	default:
		fmt.Fprintf(w, "db error: %v\n", err)
	}
}

// Usage wraps err as a usage error.
func Usage(err error) error {
	return fmt.Errorf("%w: %w", ErrUsage, err)
}

// Harden makes cmd report flag and argument problems as usage errors and
// leaves printing to Report.
func Harden(cmd *cobra.Command) *cobra.Command {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return Usage(err)
	})
	args := cmd.Args
	if args == nil {
		args = cobra.NoArgs
	}
	cmd.Args = func(c *cobra.Command, a []string) error {
		if err := args(c, a); err != nil {
			return Usage(err)
		}
		return nil
	}
	return cmd
}

// Runtime is what every command sets up before touching a store.
type Runtime struct {
	Config  *config.AppConfig
	Logger  *zap.Logger
	Metrics *metrics.Metrics

	shutdownTracing tracing.ShutdownFunc
}

// Start loads configuration and builds the logger, tracer provider and
// metrics registry for app. Close must be called when the command ends.
func Start(ctx context.Context, app string) (*Runtime, error) {
	cfg := config.Load()

	logger, err := logging.New(app, cfg.Log)
	if err != nil {
		return nil, Usage(err)
	}

	shutdown, err := tracing.Init(ctx, app, logger)
	if err != nil {
		logger.Warn("tracing_disabled", zap.Error(err))
		shutdown = func(context.Context) error { return nil }
	}

	return &Runtime{
		Config:          cfg,
		Logger:          logger,
		Metrics:         metrics.New(),
		shutdownTracing: shutdown,
	}, nil
}

// Close pushes metrics, flushes spans and syncs the logger.
// Failures are logged; the command outcome is not changed by them.
func (r *Runtime) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := r.Metrics.Push(ctx, r.Config.Metrics.PushgatewayURL, r.Config.Metrics.Job); err != nil {
		r.Logger.Warn("metrics_push_failed", zap.Error(err))
	}
	if err := r.shutdownTracing(ctx); err != nil {
		r.Logger.Warn("tracing_shutdown_failed", zap.Error(err))
	}
	_ = r.Logger.Sync()
}
