package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"dbtools/internal/metrics"
	"dbtools/internal/model"
	"dbtools/internal/repository"
)

var tracer = otel.Tracer("dbtools/internal/service")

// CatService is the operation boundary of the cat shell.
// Each method performs one repository call and prints its outcome; store
// errors are printed as diagnostics and never returned.
type CatService interface {
	// ListAll prints every cat, or "no records".
	ListAll(ctx context.Context)

	// FindByName prints the named cat and returns it, or prints "not found" and returns nil.
	FindByName(ctx context.Context, name string) *model.Cat

	// Create inserts a new cat and prints its id.
	Create(ctx context.Context, name string, age int, features []string)

	// UpdateAge sets the age of the named cat.
	UpdateAge(ctx context.Context, name string, age int)

	// AddFeature appends a feature to the named cat unless it is already present.
	AddFeature(ctx context.Context, name, feature string)

	// Delete removes the named cat.
	Delete(ctx context.Context, name string)

	// DeleteAll removes every cat and prints how many were removed.
	DeleteAll(ctx context.Context)
}

type catService struct {
	repo    repository.CatRepository
	out     io.Writer
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewCatService constructs a CatService printing to out.
func NewCatService(repo repository.CatRepository, out io.Writer, logger *zap.Logger, m *metrics.Metrics) CatService {
	return &catService{repo: repo, out: out, logger: logger, metrics: m}
}

func (s *catService) ListAll(ctx context.Context) {
	ctx, span := s.start(ctx, "list")
	defer span.End()

	cats, err := s.repo.List(ctx)
	if err != nil {
		s.fail(span, "list", err)
		return
	}
	if len(cats) == 0 {
		s.println("no records")
		s.done(span, "list", metrics.OutcomeEmpty)
		return
	}
	for i := range cats {
		s.printCat(&cats[i])
	}
	span.SetAttributes(attribute.Int("cats.count", len(cats)))
	s.done(span, "list", metrics.OutcomeOK)
}

func (s *catService) FindByName(ctx context.Context, name string) *model.Cat {
	ctx, span := s.start(ctx, "find", attribute.String("cat.name", name))
	defer span.End()

	cat, err := s.repo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.println("not found")
			s.done(span, "find", metrics.OutcomeNotFound)
			return nil
		}
		s.fail(span, "find", err)
		return nil
	}
	s.printCat(cat)
	s.done(span, "find", metrics.OutcomeOK)
	return cat
}

func (s *catService) Create(ctx context.Context, name string, age int, features []string) {
	ctx, span := s.start(ctx, "create", attribute.String("cat.name", name))
	defer span.End()

	id, err := s.repo.Create(ctx, &model.Cat{Name: name, Age: age, Features: features})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			s.println("already exists: " + name)
			s.done(span, "create", metrics.OutcomeConflict)
			return
		}
		s.fail(span, "create", err)
		return
	}
	s.println("created: " + id)
	s.done(span, "create", metrics.OutcomeOK)
}

func (s *catService) UpdateAge(ctx context.Context, name string, age int) {
	ctx, span := s.start(ctx, "update_age", attribute.String("cat.name", name))
	defer span.End()

	matched, err := s.repo.UpdateAge(ctx, name, age)
	if err != nil {
		s.fail(span, "update_age", err)
		return
	}
	if !matched {
		s.println("not found")
		s.done(span, "update_age", metrics.OutcomeNotFound)
		return
	}
	s.println("age updated")
	s.done(span, "update_age", metrics.OutcomeOK)
}

func (s *catService) AddFeature(ctx context.Context, name, feature string) {
	ctx, span := s.start(ctx, "add_feature", attribute.String("cat.name", name))
	defer span.End()

	matched, added, err := s.repo.AddFeature(ctx, name, feature)
	if err != nil {
		s.fail(span, "add_feature", err)
		return
	}
	switch {
	case !matched:
		s.println("not found")
		s.done(span, "add_feature", metrics.OutcomeNotFound)
	case !added:
		s.println("feature already present")
		s.done(span, "add_feature", metrics.OutcomeOK)
	default:
		s.println("feature added")
		s.done(span, "add_feature", metrics.OutcomeOK)
	}
}

func (s *catService) Delete(ctx context.Context, name string) {
	ctx, span := s.start(ctx, "delete", attribute.String("cat.name", name))
	defer span.End()

	deleted, err := s.repo.Delete(ctx, name)
	if err != nil {
		s.fail(span, "delete", err)
		return
	}
	if !deleted {
		s.println("not found")
		s.done(span, "delete", metrics.OutcomeNotFound)
		return
	}
	s.println("deleted")
	s.done(span, "delete", metrics.OutcomeOK)
}

func (s *catService) DeleteAll(ctx context.Context) {
	ctx, span := s.start(ctx, "delete_all")
	defer span.End()

	n, err := s.repo.DeleteAll(ctx)
	if err != nil {
		s.fail(span, "delete_all", err)
		return
	}
	s.println(fmt.Sprintf("deleted records: %d", n))
	span.SetAttributes(attribute.Int64("cats.deleted", n))
	s.done(span, "delete_all", metrics.OutcomeOK)
}

func (s *catService) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, "cat."+op, trace.WithAttributes(attrs...))
}

func (s *catService) done(span trace.Span, op, outcome string) {
	span.SetAttributes(attribute.String("outcome", outcome))
	s.metrics.ObserveCatOperation(op, outcome)
}

func (s *catService) fail(span trace.Span, op string, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.metrics.ObserveCatOperation(op, metrics.OutcomeError)
	s.logger.Warn("cat_operation_failed", zap.String("operation", op), zap.Error(err))
	s.println("db error: " + err.Error())
}

func (s *catService) println(line string) {
	fmt.Fprintln(s.out, line)
}

func (s *catService) printCat(c *model.Cat) {
	fmt.Fprintf(s.out, "_id: %s\n", c.ID)
	fmt.Fprintf(s.out, "name: %s\n", c.Name)
	fmt.Fprintf(s.out, "age: %d\n", c.Age)
	fmt.Fprintf(s.out, "features: [%s]\n", strings.Join(c.Features, ", "))
	fmt.Fprintln(s.out, strings.Repeat("-", 30))
}
