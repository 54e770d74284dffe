package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"dbtools/internal/model"
	"dbtools/internal/repository"
)

const uniqueViolation = "23505"

// batchRows keeps every multi-row INSERT well below the 65535 bind parameter limit.
const batchRows = 1000

// TaskPostgres is a PostgreSQL implementation of repository.TaskRepository.
// It uses database/sql with parameterized queries and contains no business logic.
// Each statement runs in auto-commit mode.
type TaskPostgres struct {
	db *sql.DB
}

// NewTaskPostgres creates a new TaskPostgres repository.
func NewTaskPostgres(db *sql.DB) *TaskPostgres {
	return &TaskPostgres{db: db}
}

var _ repository.TaskRepository = (*TaskPostgres)(nil)

// Truncate empties every task-manager table and restarts the id sequences.
func (r *TaskPostgres) Truncate(ctx context.Context) error {
	const q = `TRUNCATE TABLE tasks, users, status RESTART IDENTITY`
	if _, err := r.db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}
	return nil
}

// UpsertStatuses inserts missing status names and returns the id of every status row.
func (r *TaskPostgres) UpsertStatuses(ctx context.Context, names []string) (map[string]int64, error) {
	if len(names) > 0 {
		q, args := valuesInsert(
			"INSERT INTO status (name) VALUES ",
			" ON CONFLICT (name) DO NOTHING",
			1, len(names),
			func(i int) []any { return []any{names[i]} },
		)
		if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
			return nil, fmt.Errorf("insert statuses: %w", err)
		}
	}

	const qList = `SELECT id, name FROM status ORDER BY id`
	rows, err := r.db.QueryContext(ctx, qList)
	if err != nil {
		return nil, fmt.Errorf("list statuses: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]int64)
	for rows.Next() {
		var s model.Status
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, err
		}
		ids[s.Name] = s.ID
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// InsertUsers inserts users in batches. A duplicate email maps to repository.ErrConflict.
func (r *TaskPostgres) InsertUsers(ctx context.Context, users []model.User) error {
	return r.insertBatches(ctx, "users", len(users), func(from, to int) (string, []any) {
		batch := users[from:to]
		return valuesInsert(
			"INSERT INTO users (fullname, email) VALUES ", "",
			2, len(batch),
			func(i int) []any { return []any{batch[i].FullName, batch[i].Email} },
		)
	})
}

// UserIDs returns every user id in ascending order.
func (r *TaskPostgres) UserIDs(ctx context.Context) ([]int64, error) {
	const q = `SELECT id FROM users ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list user ids: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// InsertTasks inserts tasks in batches. A nil description is stored as NULL.
func (r *TaskPostgres) InsertTasks(ctx context.Context, tasks []model.Task) error {
	return r.insertBatches(ctx, "tasks", len(tasks), func(from, to int) (string, []any) {
		batch := tasks[from:to]
		return valuesInsert(
			"INSERT INTO tasks (title, description, status_id, user_id) VALUES ", "",
			4, len(batch),
			func(i int) []any {
				t := batch[i]
				return []any{t.Title, t.Description, t.StatusID, t.UserID}
			},
		)
	})
}

// Counts returns the number of rows in users, status and tasks.
func (r *TaskPostgres) Counts(ctx context.Context) (*repository.Counts, error) {
	const q = `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM status),
			(SELECT COUNT(*) FROM tasks)
	`
	var c repository.Counts
	if err := r.db.QueryRowContext(ctx, q).Scan(&c.Users, &c.Statuses, &c.Tasks); err != nil {
		return nil, fmt.Errorf("count rows: %w", err)
	}
	return &c, nil
}

func (r *TaskPostgres) insertBatches(ctx context.Context, table string, n int, build func(from, to int) (string, []any)) error {
	for from := 0; from < n; from += batchRows {
		to := min(from+batchRows, n)
		q, args := build(from, to)
		if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("insert %s: %w: %v", table, repository.ErrConflict, err)
			}
			return fmt.Errorf("insert %s: %w", table, err)
		}
	}
	return nil
}

// valuesInsert renders "<prefix>($1, $2), ($3, $4)<suffix>" for n rows of cols columns.
func valuesInsert(prefix, suffix string, cols, n int, row func(i int) []any) (string, []any) {
	var b strings.Builder
	args := make([]any, 0, cols*n)

	b.WriteString(prefix)
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for c := 0; c < cols; c++ {
			if c > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "$%d", i*cols+c+1)
		}
		b.WriteByte(')')
		args = append(args, row(i)...)
	}
	b.WriteString(suffix)

	return b.String(), args
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
