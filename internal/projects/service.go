package projects

import (
	"context"
	"errors"
	"sync"

	"github.com/goliatone/go-studio/internal/domain"
	"github.com/goliatone/go-studio/internal/logging"
	"github.com/goliatone/go-studio/internal/notify"
	"github.com/goliatone/go-studio/internal/pipeline"
	"github.com/goliatone/go-studio/pkg/interfaces"
	"github.com/google/uuid"
)

var (
	// ErrProjectIDRequired signals input validation failure.
	ErrProjectIDRequired = errors.New("projects: project id required")
	// ErrTransitionInFlight indicates another transition is already running
	// for the same project. Callers should retry after it resolves.
	ErrTransitionInFlight = errors.New("projects: transition already in flight for project")
)

// TransitionRequest captures a proposed status move for a single project.
type TransitionRequest struct {
	ProjectID uuid.UUID
	Target    domain.ProjectStatus
	Actor     string
	Notes     string
}

// TransitionResult describes a committed transition.
type TransitionResult struct {
	Project  *Project
	Change   *StatusChange
	Progress int
	Notified bool
}

// StatusService orchestrates load, validate, append, and notify for a
// single project's pipeline status.
type StatusService interface {
	Get(ctx context.Context, id uuid.UUID) (*Project, error)
	// AllowedTransitions lists the statuses legally reachable from the
	// project's current status so callers can disable illegal options.
	AllowedTransitions(ctx context.Context, id uuid.UUID) ([]domain.ProjectStatus, error)
	Transition(ctx context.Context, req TransitionRequest) (*TransitionResult, error)
	// Timeline annotates the project ledger with progress metadata.
	Timeline(ctx context.Context, id uuid.UUID) ([]TimelineEntry, error)
}

// TimelineEntry pairs a ledger record with its pipeline progress for
// presentation callers.
type TimelineEntry struct {
	Change   *StatusChange
	Progress int
}

// ServiceOption configures the status service at construction time.
type ServiceOption func(*statusService)

// WithEngine overrides the transition engine.
func WithEngine(engine *pipeline.Engine) ServiceOption {
	return func(s *statusService) {
		if engine != nil {
			s.engine = engine
		}
	}
}

// WithNotifier overrides the dispatch collaborator.
func WithNotifier(notifier interfaces.Notifier) ServiceOption {
	return func(s *statusService) {
		if notifier != nil {
			s.notifier = notifier
		}
	}
}

// WithLogger overrides the service logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *statusService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSynchronousDispatch makes notification dispatch run inline instead of
// in a goroutine. Dispatch failures stay non-fatal either way.
func WithSynchronousDispatch() ServiceOption {
	return func(s *statusService) {
		s.syncDispatch = true
	}
}

type statusService struct {
	repo     Repository
	engine   *pipeline.Engine
	notifier interfaces.Notifier
	logger   interfaces.Logger

	mu       sync.Mutex
	inFlight map[uuid.UUID]struct{}

	syncDispatch bool
}

// NewStatusService constructs the orchestration service.
func NewStatusService(repo Repository, opts ...ServiceOption) StatusService {
	s := &statusService{
		repo:     repo,
		engine:   pipeline.New(),
		notifier: notify.NewNoOp(),
		logger:   logging.NoOp(),
		inFlight: make(map[uuid.UUID]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *statusService) Get(ctx context.Context, id uuid.UUID) (*Project, error) {
	if id == uuid.Nil {
		return nil, ErrProjectIDRequired
	}
	return s.repo.GetByID(ctx, id)
}

func (s *statusService) AllowedTransitions(ctx context.Context, id uuid.UUID) ([]domain.ProjectStatus, error) {
	project, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return pipeline.AllowedNext(CurrentStatus(project)), nil
}

func (s *statusService) Timeline(ctx context.Context, id uuid.UUID) ([]TimelineEntry, error) {
	project, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	entries := make([]TimelineEntry, 0, len(project.StatusHistory))
	for _, change := range project.StatusHistory {
		entries = append(entries, TimelineEntry{
			Change:   change,
			Progress: domain.ProgressPercent(change.ToStatus),
		})
	}
	return entries, nil
}

// Transition runs validate, append, and notify as one logical step. At most
// one transition per project may be in flight; a concurrent request is
// rejected outright rather than queued, because validation reads the current
// status and that read must not go stale before the append commits.
func (s *statusService) Transition(ctx context.Context, req TransitionRequest) (*TransitionResult, error) {
	if req.ProjectID == uuid.Nil {
		return nil, ErrProjectIDRequired
	}

	if !s.acquire(req.ProjectID) {
		return nil, ErrTransitionInFlight
	}
	defer s.release(req.ProjectID)

	project, err := s.repo.GetByID(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}

	current := CurrentStatus(project)
	proposed, err := s.engine.Propose(current, req.Target, req.Actor, req.Notes)
	if err != nil {
		return nil, err
	}

	change := &StatusChange{
		ID:         proposed.ID,
		ProjectID:  project.ID,
		FromStatus: proposed.From,
		ToStatus:   proposed.To,
		ChangedBy:  proposed.Actor,
		Notes:      proposed.Notes,
		CreatedAt:  proposed.OccurredAt,
	}

	updated, err := s.repo.UpdateStatus(ctx, project.ID, change.ToStatus, change)
	if err != nil {
		return nil, err
	}

	logger := logging.WithFields(s.logger, map[string]any{
		"project_id":  project.ID.String(),
		"from_status": string(change.FromStatus),
		"to_status":   string(change.ToStatus),
		"changed_by":  change.ChangedBy,
	})
	logger.Info("projects.status.transitioned")

	notified := notify.Required(change.ToStatus)
	if notified {
		s.dispatch(updated, change, logger)
	}

	return &TransitionResult{
		Project:  updated,
		Change:   change,
		Progress: domain.ProgressPercent(change.ToStatus),
		Notified: notified,
	}, nil
}

// dispatch hands the notification to the collaborator. Failures are logged
// and never surfaced; the transition is already committed.
func (s *statusService) dispatch(project *Project, change *StatusChange, logger interfaces.Logger) {
	notification := interfaces.StatusNotification{
		ProjectID:  project.ID,
		ClientName: project.ClientName,
		FromStatus: string(change.FromStatus),
		ToStatus:   string(change.ToStatus),
		ChangedBy:  change.ChangedBy,
		Notes:      change.Notes,
		OccurredAt: change.CreatedAt,
	}

	send := func() {
		// Deliberately detached from the request context: the caller's
		// perception of "transition succeeded" must not depend on dispatch.
		if err := s.notifier.Notify(context.Background(), notification); err != nil {
			logger.Warn("projects.status.notify_failed", "error", err)
		}
	}

	if s.syncDispatch {
		send()
		return
	}
	go send()
}

func (s *statusService) acquire(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[id]; busy {
		return false
	}
	s.inFlight[id] = struct{}{}
	return true
}

func (s *statusService) release(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, id)
}
