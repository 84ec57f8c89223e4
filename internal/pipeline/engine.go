package pipeline

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-studio/internal/domain"
	"github.com/google/uuid"
)

var (
	// ErrInvalidTransition indicates the requested transition is not allowed.
	ErrInvalidTransition = errors.New("pipeline: transition not allowed")
	// ErrActorRequired signals input validation failure on the acting user.
	ErrActorRequired = errors.New("pipeline: actor required")
	// ErrUnknownStatus indicates a status value outside the closed pipeline set.
	ErrUnknownStatus = errors.New("pipeline: unknown status")
)

// IllegalTransitionError carries the rejected pair together with the legal
// successor set so presentation callers can disable illegal options.
type IllegalTransitionError struct {
	From    domain.ProjectStatus
	To      domain.ProjectStatus
	Allowed []domain.ProjectStatus
}

func (e *IllegalTransitionError) Error() string {
	labels := make([]string, len(e.Allowed))
	for i, status := range e.Allowed {
		labels[i] = string(status)
	}
	return fmt.Sprintf("pipeline: transition %s -> %s not allowed (allowed: %s)", e.From, e.To, strings.Join(labels, ", "))
}

func (e *IllegalTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// Transition is the validated outcome of a proposal. The engine never
// persists; the orchestration layer appends the record to the ledger.
type Transition struct {
	ID         uuid.UUID
	From       domain.ProjectStatus
	To         domain.ProjectStatus
	Actor      string
	Notes      string
	OccurredAt time.Time
}

// Progress returns the pipeline completion percentage of the target status.
func (t Transition) Progress() int {
	return domain.ProgressPercent(t.To)
}

// Engine validates proposed status moves against the transition table and
// stamps the resulting ledger entries.
type Engine struct {
	now func() time.Time
	id  func() uuid.UUID
}

// Option configures the engine at construction time.
type Option func(*Engine)

// WithClock overrides the clock used for transition timestamps.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		if clock != nil {
			e.now = clock
		}
	}
}

// WithIDGenerator overrides identifier generation for ledger entries.
func WithIDGenerator(generator func() uuid.UUID) Option {
	return func(e *Engine) {
		if generator != nil {
			e.id = generator
		}
	}
}

// New constructs a transition engine.
func New(opts ...Option) *Engine {
	engine := &Engine{
		now: time.Now,
		id:  uuid.New,
	}
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

// Propose validates a transition from the current status to the target and,
// when legal, returns the ledger entry to append. The caller must not mutate
// any state when an error is returned.
func (e *Engine) Propose(current, target domain.ProjectStatus, actor, notes string) (*Transition, error) {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return nil, ErrActorRequired
	}
	if !current.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStatus, current)
	}
	if !target.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStatus, target)
	}

	if !CanTransition(current, target) {
		return nil, &IllegalTransitionError{
			From:    current,
			To:      target,
			Allowed: AllowedNext(current),
		}
	}

	return &Transition{
		ID:         e.id(),
		From:       current,
		To:         target,
		Actor:      actor,
		Notes:      strings.TrimSpace(notes),
		OccurredAt: e.now(),
	}, nil
}
