package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"dbtools/internal/metrics"
	"dbtools/internal/model"
	"dbtools/internal/repository"
)

var (
	ErrInvalidSeedOptions = errors.New("invalid seed options")
	ErrNoUsers            = errors.New("cannot seed tasks without users")
	ErrNoStatuses         = errors.New("cannot seed tasks without statuses")
)

// maxText matches the VARCHAR(100) columns of users and tasks.
const maxText = 100

var localePattern = regexp.MustCompile(`^[a-z]{2,3}(_[A-Z]{2})?$`)

// SeedOptions mirrors the seed command flags.
type SeedOptions struct {
	Users       int
	Tasks       int
	Locale      string
	NoDescRatio float64
	Reset       bool
	// Seed feeds the fake data generator; the same seed yields the same rows.
	Seed uint64
}

// Validate checks the option ranges.
func (o SeedOptions) Validate() error {
	switch {
	case o.Users < 0:
		return fmt.Errorf("%w: users must be >= 0, got %d", ErrInvalidSeedOptions, o.Users)
	case o.Tasks < 0:
		return fmt.Errorf("%w: tasks must be >= 0, got %d", ErrInvalidSeedOptions, o.Tasks)
	case o.NoDescRatio < 0 || o.NoDescRatio > 1:
		return fmt.Errorf("%w: no-desc-ratio must be within [0, 1], got %g", ErrInvalidSeedOptions, o.NoDescRatio)
	case !localePattern.MatchString(o.Locale):
		return fmt.Errorf("%w: malformed locale %q", ErrInvalidSeedOptions, o.Locale)
	}
	return nil
}

// Seeder fills the task-manager tables with synthetic data.
type Seeder struct {
	repo    repository.TaskRepository
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewSeeder constructs a Seeder.
func NewSeeder(repo repository.TaskRepository, logger *zap.Logger, m *metrics.Metrics) *Seeder {
	return &Seeder{repo: repo, logger: logger, metrics: m}
}

// Run seeds statuses, users and tasks in that order and returns the final row counts.
// Every statement auto-commits; a failure leaves earlier steps in place.
func (s *Seeder) Run(ctx context.Context, opts SeedOptions) (*repository.Counts, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "seed.run")
	defer span.End()
	span.SetAttributes(
		attribute.Int("seed.users", opts.Users),
		attribute.Int("seed.tasks", opts.Tasks),
		attribute.String("seed.locale", opts.Locale),
		attribute.Bool("seed.reset", opts.Reset),
	)

	counts, err := s.run(ctx, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return counts, nil
}

func (s *Seeder) run(ctx context.Context, opts SeedOptions) (*repository.Counts, error) {
	log := s.logger.With(zap.String("component", "seed"))
	faker := gofakeit.New(opts.Seed)

	log.Info("seed_start",
		zap.Int("users", opts.Users),
		zap.Int("tasks", opts.Tasks),
		zap.String("locale", opts.Locale),
		zap.Float64("no_desc_ratio", opts.NoDescRatio),
		zap.Bool("reset", opts.Reset),
		zap.Uint64("seed", opts.Seed),
	)

	if opts.Reset {
		if err := s.repo.Truncate(ctx); err != nil {
			return nil, err
		}
		log.Info("seed_reset")
	}

	statusIDs, err := s.repo.UpsertStatuses(ctx, model.StatusNames())
	if err != nil {
		return nil, err
	}

	users := GenerateUsers(faker, opts.Users)
	if err := s.repo.InsertUsers(ctx, users); err != nil {
		return nil, err
	}
	s.metrics.AddSeededRows("users", len(users))
	log.Info("seed_users", zap.Int("inserted", len(users)))

	if opts.Tasks > 0 {
		userIDs, err := s.repo.UserIDs(ctx)
		if err != nil {
			return nil, err
		}
		if len(userIDs) == 0 {
			return nil, ErrNoUsers
		}
		orderedStatuses := orderedStatusIDs(statusIDs)
		if len(orderedStatuses) == 0 {
			return nil, ErrNoStatuses
		}

		tasks := GenerateTasks(faker, opts.Tasks, userIDs, orderedStatuses, opts.NoDescRatio)
		if err := s.repo.InsertTasks(ctx, tasks); err != nil {
			return nil, err
		}
		s.metrics.AddSeededRows("tasks", len(tasks))
		log.Info("seed_tasks", zap.Int("inserted", len(tasks)))
	}

	counts, err := s.repo.Counts(ctx)
	if err != nil {
		return nil, err
	}
	log.Info("seed_success",
		zap.Int("users_total", counts.Users),
		zap.Int("statuses_total", counts.Statuses),
		zap.Int("tasks_total", counts.Tasks),
	)
	return counts, nil
}

// GenerateUsers returns n users with unique emails.
func GenerateUsers(faker *gofakeit.Faker, n int) []model.User {
	users := make([]model.User, 0, n)
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		email := uniqueEmail(seen, truncate(strings.ToLower(faker.Email()), maxText))
		seen[email] = struct{}{}
		users = append(users, model.User{
			FullName: truncate(faker.Name(), maxText),
			Email:    email,
		})
	}
	return users
}

// uniqueEmail returns email, or the first "<n>.<email>" not yet in seen.
func uniqueEmail(seen map[string]struct{}, email string) string {
	candidate := email
	for n := 1; ; n++ {
		if _, dup := seen[candidate]; !dup {
			return candidate
		}
		candidate = truncate(fmt.Sprintf("%d.%s", n, email), maxText)
	}
}

// GenerateTasks returns n tasks assigned to random users and statuses.
// A task has no description with probability noDescRatio.
func GenerateTasks(faker *gofakeit.Faker, n int, userIDs, statusIDs []int64, noDescRatio float64) []model.Task {
	tasks := make([]model.Task, 0, n)
	for i := 0; i < n; i++ {
		title := strings.TrimRight(truncate(faker.Sentence(4), maxText), ".")

		var description *string
		if faker.Float64Range(0, 1) >= noDescRatio {
			d := faker.Paragraph(1, 3, 8, " ")
			description = &d
		}

		tasks = append(tasks, model.Task{
			Title:       title,
			Description: description,
			StatusID:    statusIDs[faker.Number(0, len(statusIDs)-1)],
			UserID:      userIDs[faker.Number(0, len(userIDs)-1)],
		})
	}
	return tasks
}

// orderedStatusIDs lists ids in vocabulary order followed by any other
// statuses sorted by name, so sampling does not depend on map iteration.
func orderedStatusIDs(ids map[string]int64) []int64 {
	out := make([]int64, 0, len(ids))
	known := make(map[string]struct{})
	for _, name := range model.StatusNames() {
		known[name] = struct{}{}
		if id, ok := ids[name]; ok {
			out = append(out, id)
		}
	}

	var extra []string
	for name := range ids {
		if _, ok := known[name]; !ok {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		out = append(out, ids[name])
	}
	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
