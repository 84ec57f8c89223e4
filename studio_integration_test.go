package studio_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	studio "github.com/goliatone/go-studio"
	"github.com/goliatone/go-studio/internal/di"
	"github.com/goliatone/go-studio/internal/projects"
)

type recordingNotifier struct {
	mu            sync.Mutex
	notifications []studio.StatusNotification
}

func (n *recordingNotifier) Notify(_ context.Context, notification studio.StatusNotification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notifications = append(n.notifications, notification)
	return nil
}

func (n *recordingNotifier) snapshot() []studio.StatusNotification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]studio.StatusNotification, len(n.notifications))
	copy(out, n.notifications)
	return out
}

func TestModule_FullProductionLifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := projects.NewMemoryRepository()
	notifier := &recordingNotifier{}
	clock := time.Date(2024, time.January, 10, 9, 0, 0, 0, time.UTC)

	module, err := studio.New(studio.DefaultConfig(),
		di.WithRepository(repo),
		di.WithNotifier(notifier),
		di.WithSynchronousNotifications(),
		di.WithClock(func() time.Time {
			clock = clock.Add(time.Hour)
			return clock
		}),
	)
	if err != nil {
		t.Fatalf("new studio module: %v", err)
	}

	project := &studio.Project{
		ID:         uuid.New(),
		ClientName: "Chen Wedding",
		Assignee:   "sarah@studio.example",
		Status:     studio.StatusDraft,
	}
	if _, err := repo.Create(ctx, project); err != nil {
		t.Fatalf("create project: %v", err)
	}

	path := []studio.ProjectStatus{
		studio.StatusShootingScheduled,
		studio.StatusShootingCompleted,
		studio.StatusInEditing,
		studio.StatusEditingCompleted,
		studio.StatusDelivered,
		studio.StatusCompleted,
	}
	wantProgress := []int{29, 43, 57, 71, 86, 100}

	for i, target := range path {
		result, err := module.Status().Transition(ctx, studio.TransitionRequest{
			ProjectID: project.ID,
			Target:    target,
			Actor:     "sarah@studio.example",
		})
		if err != nil {
			t.Fatalf("transition to %s: %v", target, err)
		}
		if result.Progress != wantProgress[i] {
			t.Fatalf("transition to %s: expected progress %d, got %d", target, wantProgress[i], result.Progress)
		}
		if result.Project.Status != target {
			t.Fatalf("expected project status %s, got %s", target, result.Project.Status)
		}
	}

	timeline, err := module.Status().Timeline(ctx, project.ID)
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	if len(timeline) != len(path) {
		t.Fatalf("expected %d ledger entries, got %d", len(path), len(timeline))
	}
	if timeline[0].Change.ToStatus != studio.StatusCompleted {
		t.Fatalf("expected newest entry first, got %s", timeline[0].Change.ToStatus)
	}
	for i := 1; i < len(timeline); i++ {
		if timeline[i].Change.CreatedAt.After(timeline[i-1].Change.CreatedAt) {
			t.Fatal("expected timeline ordered newest first")
		}
	}

	// shooting_scheduled, shooting_completed, delivered and completed notify.
	notified := notifier.snapshot()
	if len(notified) != 4 {
		t.Fatalf("expected 4 notifications, got %d", len(notified))
	}
	for _, notification := range notified {
		if notification.ClientName != "Chen Wedding" {
			t.Fatalf("expected notification for Chen Wedding, got %q", notification.ClientName)
		}
	}

	counts, err := module.Stats().StatusStatistics(ctx)
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	for _, status := range studio.PipelineStatuses() {
		want := 0
		if status == studio.StatusCompleted {
			want = 1
		}
		if counts[status] != want {
			t.Fatalf("expected %d projects in %s, got %d", want, status, counts[status])
		}
	}
}

func TestModule_RejectsSkippingStages(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := projects.NewMemoryRepository()
	module, err := studio.New(studio.DefaultConfig(), di.WithRepository(repo))
	if err != nil {
		t.Fatalf("new studio module: %v", err)
	}

	project := &studio.Project{
		ID:         uuid.New(),
		ClientName: "Nakamura Product Launch",
		Status:     studio.StatusDraft,
	}
	if _, err := repo.Create(ctx, project); err != nil {
		t.Fatalf("create project: %v", err)
	}

	_, err = module.Status().Transition(ctx, studio.TransitionRequest{
		ProjectID: project.ID,
		Target:    studio.StatusDelivered,
		Actor:     "marco@studio.example",
	})
	if !errors.Is(err, studio.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}

	var illegal *studio.IllegalTransitionError
	if !errors.As(err, &illegal) {
		t.Fatalf("expected illegal transition detail, got %T", err)
	}
	if len(illegal.Allowed) != 1 || illegal.Allowed[0] != studio.StatusShootingScheduled {
		t.Fatalf("expected allowed set [shooting_scheduled], got %v", illegal.Allowed)
	}

	stored, getErr := repo.GetByID(ctx, project.ID)
	if getErr != nil {
		t.Fatalf("get project: %v", getErr)
	}
	if stored.Status != studio.StatusDraft {
		t.Fatalf("expected project untouched in draft, got %s", stored.Status)
	}
}

func TestModule_ReopenDeliveredProject(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := projects.NewMemoryRepository()
	module, err := studio.New(studio.DefaultConfig(), di.WithRepository(repo))
	if err != nil {
		t.Fatalf("new studio module: %v", err)
	}

	project := &studio.Project{
		ID:         uuid.New(),
		ClientName: "Okafor Retainer",
		Status:     studio.StatusCompleted,
	}
	if _, err := repo.Create(ctx, project); err != nil {
		t.Fatalf("create project: %v", err)
	}

	result, err := module.Status().Transition(ctx, studio.TransitionRequest{
		ProjectID: project.ID,
		Target:    studio.StatusDelivered,
		Actor:     "ops@studio.example",
		Notes:     "client requested colour revisions",
	})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if result.Progress != 86 {
		t.Fatalf("expected progress 86 after reopening, got %d", result.Progress)
	}
	if result.Change.FromStatus != studio.StatusCompleted {
		t.Fatalf("expected ledger to record completed origin, got %s", result.Change.FromStatus)
	}
}
