package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"dbtools/internal/cli"
	"dbtools/internal/database"
	"dbtools/internal/database/schema"
)

const appName = "createtables"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newCommand(stdout)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	cli.Report(stderr, err, "postgres", "check that postgres is running and PGHOST/PGPORT are correct")
	return cli.ExitCode(err)
}

func newCommand(stdout io.Writer) *cobra.Command {
	var ifMissing bool

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Drop and recreate the users, status and tasks tables",
		Long: "Drop and recreate the users, status and tasks tables.\n" +
			"Existing rows are lost unless --if-missing is given and the tables already exist.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return createTables(cmd.Context(), stdout, ifMissing)
		},
	}
	cmd.Flags().BoolVar(&ifMissing, "if-missing", false, "only create the tables when they do not exist yet")

	return cli.Harden(cmd)
}

func createTables(ctx context.Context, stdout io.Writer, ifMissing bool) error {
	rt, err := cli.Start(ctx, appName)
	if err != nil {
		return err
	}
	defer rt.Close()

	db, err := database.NewPostgres(rt.Config.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if !ifMissing {
		if err := schema.Recreate(ctx, db, rt.Logger); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "tables created")
		return nil
	}

	created, err := schema.Ensure(ctx, db, rt.Logger)
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintln(stdout, "tables created")
	} else {
		fmt.Fprintln(stdout, "tables already exist")
	}
	return nil
}
