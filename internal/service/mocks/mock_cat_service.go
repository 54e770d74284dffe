package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"dbtools/internal/model"
)

type MockCatService struct {
	mock.Mock
}

func (m *MockCatService) ListAll(ctx context.Context) {
	m.Called(ctx)
}

func (m *MockCatService) FindByName(ctx context.Context, name string) *model.Cat {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*model.Cat)
}

func (m *MockCatService) Create(ctx context.Context, name string, age int, features []string) {
	m.Called(ctx, name, age, features)
}

func (m *MockCatService) UpdateAge(ctx context.Context, name string, age int) {
	m.Called(ctx, name, age)
}

func (m *MockCatService) AddFeature(ctx context.Context, name, feature string) {
	m.Called(ctx, name, feature)
}

func (m *MockCatService) Delete(ctx context.Context, name string) {
	m.Called(ctx, name)
}

func (m *MockCatService) DeleteAll(ctx context.Context) {
	m.Called(ctx)
}
