// Package repository contains data access layer abstractions.
// Implementations live in subpackages (mongo, postgres) inside this directory.
package repository

import (
	"context"
	"errors"

	"dbtools/internal/model"
)

var (
	// ErrNotFound is returned when no record matches the requested key.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when a write violates a uniqueness constraint.
	ErrConflict = errors.New("record already exists")
)

// CatRepository defines data access for the cat collection.
// Every method issues exactly one store command; no business logic here.
type CatRepository interface {
	// Create inserts a new cat and returns its store-assigned id.
	// A duplicate name yields ErrConflict and leaves the existing record untouched.
	Create(ctx context.Context, cat *model.Cat) (string, error)

	// FindByName returns the cat with the given name or ErrNotFound.
	FindByName(ctx context.Context, name string) (*model.Cat, error)

	// List returns every cat. An empty collection yields an empty slice.
	List(ctx context.Context) ([]model.Cat, error)

	// UpdateAge sets the age of the named cat and reports whether a cat matched.
	UpdateAge(ctx context.Context, name string, age int) (bool, error)

	// AddFeature appends feature to the named cat's features unless already present.
	// matched reports whether the cat exists, added whether the list changed.
	AddFeature(ctx context.Context, name, feature string) (matched, added bool, err error)

	// Delete removes the named cat and reports whether one was removed.
	Delete(ctx context.Context, name string) (bool, error)

	// DeleteAll removes every cat and returns how many were removed.
	DeleteAll(ctx context.Context) (int64, error)
}

// TaskRepository defines the writes and reads the seeder needs against the
// relational task-manager schema.
type TaskRepository interface {
	// Truncate empties users, status and tasks and restarts their id sequences.
	Truncate(ctx context.Context) error

	// UpsertStatuses inserts the missing status names and returns the id of every status.
	UpsertStatuses(ctx context.Context, names []string) (map[string]int64, error)

	// InsertUsers inserts users. A duplicate email yields ErrConflict.
	InsertUsers(ctx context.Context, users []model.User) error

	// UserIDs returns every user id in ascending order.
	UserIDs(ctx context.Context) ([]int64, error)

	// InsertTasks inserts tasks.
	InsertTasks(ctx context.Context, tasks []model.Task) error

	// Counts returns the number of rows per table.
	Counts(ctx context.Context) (*Counts, error)
}

// Counts holds row totals of the task-manager tables.
type Counts struct {
	Users    int
	Statuses int
	Tasks    int
}
