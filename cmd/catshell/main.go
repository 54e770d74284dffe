package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dbtools/internal/cli"
	"dbtools/internal/database"
	"dbtools/internal/repository/mongo"
	"dbtools/internal/service"
	"dbtools/internal/shell"
)

const (
	appName      = "catshell"
	closeTimeout = 5 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := newCommand(stdin, stdout)
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	cli.Report(stderr, err, "mongodb", "check that mongodb is running and MONGO_URI is correct")
	return cli.ExitCode(err)
}

func newCommand(stdin io.Reader, stdout io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   appName,
		Short: "Interactive menu over the cats collection",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShell(cmd.Context(), stdin, stdout)
		},
	}
	return cli.Harden(cmd)
}

func runShell(ctx context.Context, stdin io.Reader, stdout io.Writer) error {
	rt, err := cli.Start(ctx, appName)
	if err != nil {
		return err
	}
	defer rt.Close()

	store, err := database.NewMongo(ctx, rt.Config.Mongo)
	if err != nil {
		return err
	}
	defer func() {
		// ctx may already be cancelled by SIGINT.
		closeCtx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			rt.Logger.Warn("mongo_disconnect_failed", zap.Error(err))
		}
	}()

	rt.Logger.Info("mongo_connected",
		zap.String("database", rt.Config.Mongo.Database),
		zap.String("collection", rt.Config.Mongo.Collection),
	)

	svc := service.NewCatService(mongo.NewCatMongo(store.Collection), stdout, rt.Logger, rt.Metrics)
	return shell.New(svc, stdin, stdout, rt.Logger).Run(ctx)
}
