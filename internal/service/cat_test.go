package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"dbtools/internal/metrics"
	"dbtools/internal/model"
	"dbtools/internal/repository"
	repoMocks "dbtools/internal/repository/mocks"
)

type catFixture struct {
	repo    *repoMocks.MockCatRepository
	out     *bytes.Buffer
	logs    *observer.ObservedLogs
	metrics *metrics.Metrics
	svc     CatService
}

func newCatFixture() *catFixture {
	core, logs := observer.New(zapcore.DebugLevel)
	f := &catFixture{
		repo:    new(repoMocks.MockCatRepository),
		out:     new(bytes.Buffer),
		logs:    logs,
		metrics: metrics.New(),
	}
	f.svc = NewCatService(f.repo, f.out, zap.New(core), f.metrics)
	return f
}

func (f *catFixture) count(t *testing.T, op, outcome string) float64 {
	t.Helper()
	return counterValue(t, f.metrics, "dbtools_cat_operations_total", map[string]string{"operation": op, "outcome": outcome})
}

// counterValue reads one labelled counter from the registry; 0 when absent.
func counterValue(t *testing.T, m *metrics.Metrics, name string, labels map[string]string) float64 {
	t.Helper()
	mfs, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
	next:
		for _, metric := range mf.GetMetric() {
			for _, l := range metric.GetLabel() {
				if labels[l.GetName()] != l.GetValue() {
					continue next
				}
			}
			return metric.GetCounter().GetValue()
		}
	}
	return 0
}

func TestCatService_ListAll(t *testing.T) {
	ctx := context.Background()

	t.Run("prints every cat", func(t *testing.T) {
		f := newCatFixture()
		f.repo.On("List", mock.Anything).Return([]model.Cat{
			{ID: "65f0c0ffee", Name: "barsik", Age: 3, Features: []string{"black", "fluffy"}},
			{ID: "65f0c0ffef", Name: "murka", Age: 1, Features: []string{}},
		}, nil)

		f.svc.ListAll(ctx)

		want := "_id: 65f0c0ffee\nname: barsik\nage: 3\nfeatures: [black, fluffy]\n" +
			"------------------------------\n" +
			"_id: 65f0c0ffef\nname: murka\nage: 1\nfeatures: []\n" +
			"------------------------------\n"
		assert.Equal(t, want, f.out.String())
		assert.Equal(t, float64(1), f.count(t, "list", metrics.OutcomeOK))
		f.repo.AssertExpectations(t)
	})

	t.Run("empty collection", func(t *testing.T) {
		f := newCatFixture()
		f.repo.On("List", mock.Anything).Return([]model.Cat{}, nil)

		f.svc.ListAll(ctx)

		assert.Equal(t, "no records\n", f.out.String())
		assert.Equal(t, float64(1), f.count(t, "list", metrics.OutcomeEmpty))
	})

	t.Run("store error is printed, not propagated", func(t *testing.T) {
		f := newCatFixture()
		f.repo.On("List", mock.Anything).Return(nil, errors.New("connection refused"))

		f.svc.ListAll(ctx)

		assert.Equal(t, "db error: connection refused\n", f.out.String())
		assert.Equal(t, float64(1), f.count(t, "list", metrics.OutcomeError))
		assert.Equal(t, 1, f.logs.FilterMessage("cat_operation_failed").Len())
	})
}

func TestCatService_FindByName(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		f := newCatFixture()
		cat := &model.Cat{ID: "abc", Name: "barsik", Age: 3, Features: []string{"black"}}
		f.repo.On("FindByName", mock.Anything, "barsik").Return(cat, nil)

		got := f.svc.FindByName(ctx, "barsik")

		assert.Equal(t, cat, got)
		assert.Contains(t, f.out.String(), "name: barsik\n")
	})

	t.Run("not found", func(t *testing.T) {
		f := newCatFixture()
		f.repo.On("FindByName", mock.Anything, "tom").Return(nil, repository.ErrNotFound)

		got := f.svc.FindByName(ctx, "tom")

		assert.Nil(t, got)
		assert.Equal(t, "not found\n", f.out.String())
		assert.Equal(t, float64(1), f.count(t, "find", metrics.OutcomeNotFound))
	})

	t.Run("store error", func(t *testing.T) {
		f := newCatFixture()
		f.repo.On("FindByName", mock.Anything, "tom").Return(nil, errors.New("timeout"))

		got := f.svc.FindByName(ctx, "tom")

		assert.Nil(t, got)
		assert.Equal(t, "db error: timeout\n", f.out.String())
	})
}

func TestCatService_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		id       string
		err      error
		wantOut  string
		wantKind string
	}{
		{name: "created", id: "6650aa", wantOut: "created: 6650aa\n", wantKind: metrics.OutcomeOK},
		{
			name:     "conflict",
			err:      fmt.Errorf("%w: barsik", repository.ErrConflict),
			wantOut:  "already exists: barsik\n",
			wantKind: metrics.OutcomeConflict,
		},
		{
			name:     "store error",
			err:      errors.New("not primary"),
			wantOut:  "db error: not primary\n",
			wantKind: metrics.OutcomeError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCatFixture()
			f.repo.On("Create", mock.Anything, &model.Cat{Name: "barsik", Age: 3, Features: []string{"black"}}).
				Return(tt.id, tt.err)

			f.svc.Create(ctx, "barsik", 3, []string{"black"})

			assert.Equal(t, tt.wantOut, f.out.String())
			assert.Equal(t, float64(1), f.count(t, "create", tt.wantKind))
			f.repo.AssertExpectations(t)
		})
	}
}

func TestCatService_UpdateAge(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		matched bool
		err     error
		wantOut string
	}{
		{name: "updated", matched: true, wantOut: "age updated\n"},
		{name: "missing name", matched: false, wantOut: "not found\n"},
		{name: "store error", err: errors.New("write conflict"), wantOut: "db error: write conflict\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCatFixture()
			f.repo.On("UpdateAge", mock.Anything, "barsik", 4).Return(tt.matched, tt.err)

			f.svc.UpdateAge(ctx, "barsik", 4)

			assert.Equal(t, tt.wantOut, f.out.String())
			f.repo.AssertExpectations(t)
		})
	}
}

func TestCatService_AddFeature(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		matched bool
		added   bool
		err     error
		wantOut string
	}{
		{name: "added", matched: true, added: true, wantOut: "feature added\n"},
		{name: "already present", matched: true, added: false, wantOut: "feature already present\n"},
		{name: "missing name", wantOut: "not found\n"},
		{name: "store error", err: errors.New("boom"), wantOut: "db error: boom\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCatFixture()
			f.repo.On("AddFeature", mock.Anything, "barsik", "playful").Return(tt.matched, tt.added, tt.err)

			f.svc.AddFeature(ctx, "barsik", "playful")

			assert.Equal(t, tt.wantOut, f.out.String())
		})
	}
}

func TestCatService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deleted", func(t *testing.T) {
		f := newCatFixture()
		f.repo.On("Delete", mock.Anything, "barsik").Return(true, nil)

		f.svc.Delete(ctx, "barsik")

		assert.Equal(t, "deleted\n", f.out.String())
	})

	t.Run("missing name", func(t *testing.T) {
		f := newCatFixture()
		f.repo.On("Delete", mock.Anything, "barsik").Return(false, nil)

		f.svc.Delete(ctx, "barsik")

		assert.Equal(t, "not found\n", f.out.String())
	})
}

func TestCatService_DeleteAll(t *testing.T) {
	ctx := context.Background()

	t.Run("reports count", func(t *testing.T) {
		f := newCatFixture()
		f.repo.On("DeleteAll", mock.Anything).Return(int64(3), nil)

		f.svc.DeleteAll(ctx)

		assert.Equal(t, "deleted records: 3\n", f.out.String())
	})

	t.Run("store error", func(t *testing.T) {
		f := newCatFixture()
		f.repo.On("DeleteAll", mock.Anything).Return(int64(0), errors.New("unauthorized"))

		f.svc.DeleteAll(ctx)

		assert.Equal(t, "db error: unauthorized\n", f.out.String())
		assert.Equal(t, float64(1), f.count(t, "delete_all", metrics.OutcomeError))
	})
}
