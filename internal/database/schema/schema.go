package schema

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type step struct {
	Name string
	SQL  string
}

// Tables lists the task-manager tables in dependency order.
var Tables = []string{"users", "status", "tasks"}

var steps = []step{
	{Name: "drop_table_tasks", SQL: `DROP TABLE IF EXISTS tasks;`},
	{Name: "drop_table_status", SQL: `DROP TABLE IF EXISTS status;`},
	{Name: "drop_table_users", SQL: `DROP TABLE IF EXISTS users;`},
	{
		Name: "create_table_users",
		SQL: `CREATE TABLE users (
  id       SERIAL       PRIMARY KEY,
  fullname VARCHAR(100) NOT NULL,
  email    VARCHAR(100) NOT NULL UNIQUE
);`,
	},
	{
		Name: "create_table_status",
		SQL: `CREATE TABLE status (
  id   SERIAL      PRIMARY KEY,
  name VARCHAR(50) NOT NULL UNIQUE
);`,
	},
	{
		Name: "create_table_tasks",
		SQL: `CREATE TABLE tasks (
  id          SERIAL       PRIMARY KEY,
  title       VARCHAR(100) NOT NULL,
  description TEXT,
  status_id   INTEGER      NOT NULL REFERENCES status(id),
  user_id     INTEGER      NOT NULL REFERENCES users(id) ON DELETE CASCADE
);`,
	},
	{Name: "create_index_tasks_user_id", SQL: `CREATE INDEX idx_tasks_user_id ON tasks (user_id);`},
	{Name: "create_index_tasks_status_id", SQL: `CREATE INDEX idx_tasks_status_id ON tasks (status_id);`},
}

// Recreate drops the task-manager tables and creates them again, empty.
// Running it any number of times leaves the same schema behind.
func Recreate(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	start := time.Now()
	log := logger.With(zap.String("component", "database"))

	log.Info("db_schema_start", zap.String("status", "in_progress"), zap.Int("steps", len(steps)))

	for _, s := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, s.SQL); err != nil {
			log.Error("db_schema_failed",
				zap.String("status", "error"),
				zap.String("schema_step", s.Name),
				zap.Error(err),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
				zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
			)
			return fmt.Errorf("schema step %s failed: %w", s.Name, err)
		}

		log.Debug("db_schema_step",
			zap.String("status", "success"),
			zap.String("schema_step", s.Name),
			zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
		)
	}

	log.Info("db_schema_success",
		zap.String("status", "success"),
		zap.Strings("tables", Tables),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return nil
}

// Ensure recreates the schema only when the users table is missing.
// It reports whether tables were created.
func Ensure(ctx context.Context, db *sql.DB, logger *zap.Logger) (bool, error) {
	var exists bool
	const q = `SELECT to_regclass('public.users') IS NOT NULL`
	if err := db.QueryRowContext(ctx, q).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logger.Info("db_schema_skip",
			zap.String("component", "database"),
			zap.String("status", "success"),
			zap.String("detail", "schema already exists, skipping"),
		)
		return false, nil
	}

	if err := Recreate(ctx, db, logger); err != nil {
		return false, err
	}
	return true, nil
}
