package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"dbtools/internal/model"
)

type MockCatRepository struct {
	mock.Mock
}

func (m *MockCatRepository) Create(ctx context.Context, cat *model.Cat) (string, error) {
	args := m.Called(ctx, cat)
	return args.String(0), args.Error(1)
}

func (m *MockCatRepository) FindByName(ctx context.Context, name string) (*model.Cat, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Cat), args.Error(1)
}

func (m *MockCatRepository) List(ctx context.Context) ([]model.Cat, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Cat), args.Error(1)
}

func (m *MockCatRepository) UpdateAge(ctx context.Context, name string, age int) (bool, error) {
	args := m.Called(ctx, name, age)
	return args.Bool(0), args.Error(1)
}

func (m *MockCatRepository) AddFeature(ctx context.Context, name, feature string) (bool, bool, error) {
	args := m.Called(ctx, name, feature)
	return args.Bool(0), args.Bool(1), args.Error(2)
}

func (m *MockCatRepository) Delete(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockCatRepository) DeleteAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
