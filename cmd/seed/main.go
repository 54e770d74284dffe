package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"dbtools/internal/cli"
	"dbtools/internal/database"
	"dbtools/internal/repository/postgres"
	"dbtools/internal/service"
)

const appName = "seed"

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
	// Flags win over SEED_* environment variables, which win over defaults.
	v := viper.New()

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Fill the task manager tables with synthetic users and tasks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := service.SeedOptions{
				Users:       v.GetInt("users"),
				Tasks:       v.GetInt("tasks"),
				Locale:      v.GetString("locale"),
				NoDescRatio: v.GetFloat64("no-desc-ratio"),
				Reset:       v.GetBool("reset"),
				Seed:        v.GetUint64("seed"),
			}
			return seed(cmd.Context(), stdout, opts)
		},
	}

	f := cmd.Flags()
	f.Int("users", 20, "number of users to insert")
	f.Int("tasks", 100, "number of tasks to insert")
	f.String("locale", "uk_UA", "locale tag for generated data")
	f.Float64("no-desc-ratio", 0.2, "share of tasks inserted without a description")
	f.Bool("reset", false, "truncate users, status and tasks before seeding")
	f.Uint64("seed", 42, "random seed for generated data (0 picks a random seed)")

	v.SetEnvPrefix("SEED")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	cobra.CheckErr(v.BindPFlags(f))

	return cli.Harden(cmd)
}

func seed(ctx context.Context, stdout io.Writer, opts service.SeedOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}

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

	seeder := service.NewSeeder(postgres.NewTaskPostgres(db), rt.Logger, rt.Metrics)
	counts, err := seeder.Run(ctx, opts)
	if err != nil {
		rt.Logger.Error("seed_failed", zap.Error(err))
		return err
	}

	fmt.Fprintf(stdout, "seed completed: %d users, %d tasks\n", counts.Users, counts.Tasks)
	return nil
}
