package stats

import (
	"context"
	"math"
	"time"

	"github.com/goliatone/go-studio/internal/domain"
	"github.com/goliatone/go-studio/internal/logging"
	"github.com/goliatone/go-studio/internal/projects"
	"github.com/goliatone/go-studio/pkg/interfaces"
	"github.com/google/uuid"
)

// QueryRepository is the read-only slice of the project repository the
// aggregation service depends on.
type QueryRepository interface {
	ListByStatuses(ctx context.Context, statuses ...domain.ProjectStatus) ([]*projects.Project, error)
	CountByStatus(ctx context.Context) (map[domain.ProjectStatus]int, error)
	RecentChanges(ctx context.Context, limit int) ([]*projects.StatusChange, error)
}

// Overview is the dashboard rollup across the full project collection.
type Overview struct {
	Total          int
	Active         int
	InProduction   int
	Completed      int
	CompletionRate int
}

// ChangeDigest is one activity feed row: a ledger entry joined with the
// project it belongs to.
type ChangeDigest struct {
	ID         uuid.UUID
	ProjectID  uuid.UUID
	ClientName string
	FromStatus domain.ProjectStatus
	ToStatus   domain.ProjectStatus
	ChangedBy  string
	Notes      string
	OccurredAt time.Time
	Progress   int
}

// Service exposes read-only aggregation over the project collection. Every
// query recomputes from the store; results are never cached beyond a single
// call and may be stale by the time they render. They are a dashboard view,
// not a basis for further writes.
type Service interface {
	StatusStatistics(ctx context.Context) (map[domain.ProjectStatus]int, error)
	Overview(ctx context.Context) (*Overview, error)
	RecentChanges(ctx context.Context, limit int) ([]ChangeDigest, error)
	ProjectsByStatus(ctx context.Context, status domain.ProjectStatus) ([]*projects.Project, error)
	ProjectsByStatuses(ctx context.Context, statuses ...domain.ProjectStatus) ([]*projects.Project, error)
	ActiveProjects(ctx context.Context) ([]*projects.Project, error)
	CompletedProjects(ctx context.Context) ([]*projects.Project, error)
}

// ServiceOption configures the aggregation service.
type ServiceOption func(*service)

// WithLogger overrides the service logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type service struct {
	repo   QueryRepository
	logger interfaces.Logger
}

// NewService constructs the aggregation service.
func NewService(repo QueryRepository, opts ...ServiceOption) Service {
	s := &service{
		repo:   repo,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StatusStatistics tallies projects per pipeline stage. Every stage is
// present in the result, zero-filled when no project occupies it.
func (s *service) StatusStatistics(ctx context.Context) (map[domain.ProjectStatus]int, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[domain.ProjectStatus]int, len(domain.PipelineStatuses()))
	for _, status := range domain.PipelineStatuses() {
		out[status] = counts[status]
	}
	return out, nil
}

func (s *service) Overview(ctx context.Context) (*Overview, error) {
	counts, err := s.StatusStatistics(ctx)
	if err != nil {
		return nil, err
	}

	overview := &Overview{}
	for _, count := range counts {
		overview.Total += count
	}
	for _, status := range domain.ActiveStatuses() {
		overview.Active += counts[status]
	}
	for _, status := range domain.ProductionStatuses() {
		overview.InProduction += counts[status]
	}
	for _, status := range domain.CompletedStatuses() {
		overview.Completed += counts[status]
	}
	if overview.Total > 0 {
		overview.CompletionRate = int(math.Round(float64(overview.Completed) / float64(overview.Total) * 100))
	}
	return overview, nil
}

func (s *service) RecentChanges(ctx context.Context, limit int) ([]ChangeDigest, error) {
	changes, err := s.repo.RecentChanges(ctx, limit)
	if err != nil {
		return nil, err
	}

	digests := make([]ChangeDigest, 0, len(changes))
	for _, change := range changes {
		digest := ChangeDigest{
			ID:         change.ID,
			ProjectID:  change.ProjectID,
			FromStatus: change.FromStatus,
			ToStatus:   change.ToStatus,
			ChangedBy:  change.ChangedBy,
			Notes:      change.Notes,
			OccurredAt: change.CreatedAt,
			Progress:   domain.ProgressPercent(change.ToStatus),
		}
		if change.Project != nil {
			digest.ClientName = change.Project.ClientName
		}
		digests = append(digests, digest)
	}
	return digests, nil
}

func (s *service) ProjectsByStatus(ctx context.Context, status domain.ProjectStatus) ([]*projects.Project, error) {
	return s.repo.ListByStatuses(ctx, status)
}

func (s *service) ProjectsByStatuses(ctx context.Context, statuses ...domain.ProjectStatus) ([]*projects.Project, error) {
	return s.repo.ListByStatuses(ctx, statuses...)
}

func (s *service) ActiveProjects(ctx context.Context) ([]*projects.Project, error) {
	return s.repo.ListByStatuses(ctx, domain.ActiveStatuses()...)
}

func (s *service) CompletedProjects(ctx context.Context) ([]*projects.Project, error) {
	return s.repo.ListByStatuses(ctx, domain.CompletedStatuses()...)
}
