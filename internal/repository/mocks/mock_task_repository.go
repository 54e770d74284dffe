package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"dbtools/internal/model"
	"dbtools/internal/repository"
)

type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Truncate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTaskRepository) UpsertStatuses(ctx context.Context, names []string) (map[string]int64, error) {
	args := m.Called(ctx, names)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *MockTaskRepository) InsertUsers(ctx context.Context, users []model.User) error {
	args := m.Called(ctx, users)
	return args.Error(0)
}

func (m *MockTaskRepository) UserIDs(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockTaskRepository) InsertTasks(ctx context.Context, tasks []model.Task) error {
	args := m.Called(ctx, tasks)
	return args.Error(0)
}

func (m *MockTaskRepository) Counts(ctx context.Context) (*repository.Counts, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Counts), args.Error(1)
}
