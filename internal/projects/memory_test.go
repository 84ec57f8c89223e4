package projects_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-studio/internal/domain"
	"github.com/goliatone/go-studio/internal/projects"
	"github.com/google/uuid"
)

func seedProject(t *testing.T, repo *projects.MemoryRepository, client string, status domain.ProjectStatus, created time.Time) *projects.Project {
	t.Helper()
	record, err := repo.Create(context.Background(), &projects.Project{
		ID:         uuid.New(),
		ClientName: client,
		Status:     status,
		CreatedAt:  created,
	})
	if err != nil {
		t.Fatalf("seed %s: %v", client, err)
	}
	return record
}

func TestMemoryRepositoryGetByIDNotFound(t *testing.T) {
	repo := projects.NewMemoryRepository()

	_, err := repo.GetByID(context.Background(), uuid.New())
	var notFound *projects.ProjectNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ProjectNotFoundError got %v", err)
	}
}

func TestMemoryRepositoryUpdateStatusIsAtomic(t *testing.T) {
	repo := projects.NewMemoryRepository()
	base := time.Unix(1700000000, 0).UTC()
	record := seedProject(t, repo, "Alvarez Wedding", domain.StatusDraft, base)

	change := &projects.StatusChange{
		ID:         uuid.New(),
		FromStatus: domain.StatusDraft,
		ToStatus:   domain.StatusShootingScheduled,
		ChangedBy:  "admin",
		CreatedAt:  base.Add(time.Hour),
	}

	updated, err := repo.UpdateStatus(context.Background(), record.ID, change.ToStatus, change)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != domain.StatusShootingScheduled {
		t.Fatalf("expected shooting_scheduled got %s", updated.Status)
	}
	if len(updated.StatusHistory) != 1 || updated.StatusHistory[0].ToStatus != change.ToStatus {
		t.Fatalf("expected ledger entry appended, got %v", updated.StatusHistory)
	}
	if updated.StatusHistory[0].ProjectID != record.ID {
		t.Fatal("ledger entry should be bound to its project")
	}
}

func TestMemoryRepositoryUpdateStatusFailureLeavesStateUnchanged(t *testing.T) {
	repo := projects.NewMemoryRepository()
	base := time.Unix(1700000000, 0).UTC()
	record := seedProject(t, repo, "Alvarez Wedding", domain.StatusDraft, base)

	repo.FailUpdates = errors.New("disk full")
	_, err := repo.UpdateStatus(context.Background(), record.ID, domain.StatusShootingScheduled, &projects.StatusChange{
		ID:        uuid.New(),
		ToStatus:  domain.StatusShootingScheduled,
		ChangedBy: "admin",
		CreatedAt: base.Add(time.Hour),
	})
	if err == nil {
		t.Fatal("expected update failure")
	}

	repo.FailUpdates = nil
	reloaded, err := repo.GetByID(context.Background(), record.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Status != domain.StatusDraft {
		t.Fatalf("expected draft after failed save got %s", reloaded.Status)
	}
	if len(reloaded.StatusHistory) != 0 {
		t.Fatalf("expected empty ledger after failed save got %d entries", len(reloaded.StatusHistory))
	}
}

func TestMemoryRepositoryCountByStatusZeroFills(t *testing.T) {
	repo := projects.NewMemoryRepository()
	base := time.Unix(1700000000, 0).UTC()
	seedProject(t, repo, "A", domain.StatusDraft, base)
	seedProject(t, repo, "B", domain.StatusInEditing, base.Add(time.Minute))
	seedProject(t, repo, "C", domain.StatusDelivered, base.Add(2*time.Minute))

	counts, err := repo.CountByStatus(context.Background())
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if len(counts) != 7 {
		t.Fatalf("expected 7 keys got %d", len(counts))
	}
	if counts[domain.StatusDraft] != 1 || counts[domain.StatusInEditing] != 1 || counts[domain.StatusDelivered] != 1 {
		t.Fatalf("unexpected tallies: %v", counts)
	}
	if counts[domain.StatusShootingScheduled] != 0 || counts[domain.StatusCompleted] != 0 {
		t.Fatalf("expected zero-filled stages, got %v", counts)
	}
}

func TestMemoryRepositoryListByStatuses(t *testing.T) {
	repo := projects.NewMemoryRepository()
	base := time.Unix(1700000000, 0).UTC()
	seedProject(t, repo, "A", domain.StatusDraft, base)
	seedProject(t, repo, "B", domain.StatusInEditing, base.Add(time.Minute))
	seedProject(t, repo, "C", domain.StatusDelivered, base.Add(2*time.Minute))

	active, err := repo.ListByStatuses(context.Background(), domain.ActiveStatuses()...)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("expected 2 active projects got %d", len(active))
	}

	none, err := repo.ListByStatuses(context.Background(), domain.StatusCompleted)
	if err != nil {
		t.Fatalf("list completed: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no completed projects got %d", len(none))
	}
}

func TestMemoryRepositoryRecentChangesOrderAndLimit(t *testing.T) {
	repo := projects.NewMemoryRepository()
	ctx := context.Background()
	base := time.Unix(1700000000, 0).UTC()

	first := seedProject(t, repo, "A", domain.StatusDraft, base)
	second := seedProject(t, repo, "B", domain.StatusDraft, base)

	steps := []struct {
		project *projects.Project
		from    domain.ProjectStatus
		to      domain.ProjectStatus
		at      time.Time
	}{
		{first, domain.StatusDraft, domain.StatusShootingScheduled, base.Add(time.Hour)},
		{second, domain.StatusDraft, domain.StatusShootingScheduled, base.Add(2 * time.Hour)},
		{first, domain.StatusShootingScheduled, domain.StatusShootingCompleted, base.Add(3 * time.Hour)},
	}
	for _, step := range steps {
		_, err := repo.UpdateStatus(ctx, step.project.ID, step.to, &projects.StatusChange{
			ID:         uuid.New(),
			FromStatus: step.from,
			ToStatus:   step.to,
			ChangedBy:  "admin",
			CreatedAt:  step.at,
		})
		if err != nil {
			t.Fatalf("transition: %v", err)
		}
	}

	changes, err := repo.RecentChanges(ctx, 2)
	if err != nil {
		t.Fatalf("recent changes: %v", err)
	}
	if len(changes) != 2 {
		t.Fatalf("expected 2 entries got %d", len(changes))
	}
	if changes[0].ProjectID != first.ID || changes[0].ToStatus != domain.StatusShootingCompleted {
		t.Fatalf("expected newest change first, got %v -> %s", changes[0].ProjectID, changes[0].ToStatus)
	}
	if !changes[0].CreatedAt.After(changes[1].CreatedAt) {
		t.Fatal("expected newest-first ordering")
	}
	if changes[0].Project == nil || changes[0].Project.ClientName != "A" {
		t.Fatal("expected project attached to feed entry")
	}
}

func TestMemoryRepositoryRecentChangesEmpty(t *testing.T) {
	repo := projects.NewMemoryRepository()
	changes, err := repo.RecentChanges(context.Background(), 10)
	if err != nil {
		t.Fatalf("recent changes: %v", err)
	}
	if len(changes) != 0 {
		t.Fatalf("expected empty feed got %d", len(changes))
	}
}
