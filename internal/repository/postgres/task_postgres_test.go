package postgres

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dbtools/internal/model"
	"dbtools/internal/repository"
)

func strPtr(s string) *string { return &s }

func TestTaskPostgres_Truncate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTaskPostgres(db)

	mock.ExpectExec(regexp.QuoteMeta("TRUNCATE TABLE tasks, users, status RESTART IDENTITY")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.Truncate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskPostgres_UpsertStatuses(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTaskPostgres(db)
	ctx := context.Background()

	t.Run("inserts missing and returns all ids", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta(
			"INSERT INTO status (name) VALUES ($1), ($2), ($3) ON CONFLICT (name) DO NOTHING")).
			WithArgs("new", "in progress", "completed").
			WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name FROM status ORDER BY id")).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
				AddRow(1, "new").
				AddRow(2, "in progress").
				AddRow(3, "completed"))

		ids, err := repo.UpsertStatuses(ctx, model.StatusNames())

		require.NoError(t, err)
		assert.Equal(t, map[string]int64{"new": 1, "in progress": 2, "completed": 3}, ids)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insert error", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO status").WillReturnError(errors.New("relation \"status\" does not exist"))

		ids, err := repo.UpsertStatuses(ctx, []string{"new"})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "insert statuses")
		assert.Nil(t, ids)
	})
}

func TestTaskPostgres_InsertUsers(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTaskPostgres(db)
	ctx := context.Background()

	users := []model.User{
		{FullName: "Olena Kovalenko", Email: "olena@example.com"},
		{FullName: "Taras Shevchuk", Email: "taras@example.com"},
	}

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users (fullname, email) VALUES ($1, $2), ($3, $4)")).
			WithArgs("Olena Kovalenko", "olena@example.com", "Taras Shevchuk", "taras@example.com").
			WillReturnResult(sqlmock.NewResult(0, 2))

		assert.NoError(t, repo.InsertUsers(ctx, users))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO users").
			WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint \"users_email_key\""})

		err := repo.InsertUsers(ctx, users)

		assert.ErrorIs(t, err, repository.ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("other errors are not conflicts", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO users").WillReturnError(errors.New("connection reset"))

		err := repo.InsertUsers(ctx, users)

		assert.Error(t, err)
		assert.False(t, errors.Is(err, repository.ErrConflict))
	})

	t.Run("empty input issues nothing", func(t *testing.T) {
		assert.NoError(t, repo.InsertUsers(ctx, nil))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTaskPostgres_InsertUsersBatches(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTaskPostgres(db)

	users := make([]model.User, batchRows+1)
	for i := range users {
		users[i] = model.User{FullName: fmt.Sprintf("User %d", i), Email: fmt.Sprintf("user%d@example.com", i)}
	}

	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(0, batchRows))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users (fullname, email) VALUES ($1, $2)")).
		WithArgs(users[batchRows].FullName, users[batchRows].Email).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.InsertUsers(context.Background(), users))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskPostgres_UserIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTaskPostgres(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM users ORDER BY id")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2).AddRow(5))

	ids, err := repo.UserIDs(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 5}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskPostgres_InsertTasks(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTaskPostgres(db)

	tasks := []model.Task{
		{Title: "Write report", Description: strPtr("Quarterly numbers."), StatusID: 1, UserID: 2},
		{Title: "Call back", StatusID: 3, UserID: 1},
	}

	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO tasks (title, description, status_id, user_id) VALUES ($1, $2, $3, $4), ($5, $6, $7, $8)")).
		WithArgs("Write report", "Quarterly numbers.", int64(1), int64(2), "Call back", nil, int64(3), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	assert.NoError(t, repo.InsertTasks(context.Background(), tasks))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskPostgres_Counts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTaskPostgres(db)

	mock.ExpectQuery(`SELECT \(SELECT COUNT\(\*\) FROM users\)`).
		WillReturnRows(sqlmock.NewRows([]string{"users", "status", "tasks"}).AddRow(5, 3, 20))

	c, err := repo.Counts(context.Background())

	require.NoError(t, err)
	assert.Equal(t, &repository.Counts{Users: 5, Statuses: 3, Tasks: 20}, c)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValuesInsert(t *testing.T) {
	q, args := valuesInsert("INSERT INTO t (a, b) VALUES ", " RETURNING id", 2, 2, func(i int) []any {
		return []any{i, i * 10}
	})

	assert.Equal(t, "INSERT INTO t (a, b) VALUES ($1, $2), ($3, $4) RETURNING id", q)
	assert.Equal(t, []any{0, 0, 1, 10}, args)
}
