package studio_test

import (
	"context"
	"testing"

	"github.com/google/uuid"

	studio "github.com/goliatone/go-studio"
	"github.com/goliatone/go-studio/internal/di"
	"github.com/goliatone/go-studio/pkg/testsupport"
)

func TestModule_BunStorageLifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	bunDB, err := testsupport.NewProjectsBunDB(ctx, "studio_bun_lifecycle")
	if err != nil {
		t.Fatalf("new bun db: %v", err)
	}
	t.Cleanup(func() {
		_ = bunDB.Close()
	})

	cfg := studio.DefaultConfig()
	cfg.Storage.Provider = "bun"
	cfg.Storage.DSN = "file:studio_bun_lifecycle?mode=memory"

	module, err := studio.New(cfg, di.WithBunDB(bunDB))
	if err != nil {
		t.Fatalf("new studio module: %v", err)
	}

	project := &studio.Project{
		ID:         uuid.New(),
		ClientName: "Alvarez Brand Film",
		Assignee:   "marco@studio.example",
		Status:     studio.StatusDraft,
	}
	if _, err := module.Repository().Create(ctx, project); err != nil {
		t.Fatalf("create project: %v", err)
	}

	result, err := module.Status().Transition(ctx, studio.TransitionRequest{
		ProjectID: project.ID,
		Target:    studio.StatusShootingScheduled,
		Actor:     "marco@studio.example",
		Notes:     "confirmed Jan 15",
	})
	if err != nil {
		t.Fatalf("transition: %v", err)
	}
	if result.Progress != 29 {
		t.Fatalf("expected progress 29, got %d", result.Progress)
	}

	stored, err := module.Repository().GetByID(ctx, project.ID)
	if err != nil {
		t.Fatalf("get project: %v", err)
	}
	if stored.Status != studio.StatusShootingScheduled {
		t.Fatalf("expected persisted status shooting_scheduled, got %s", stored.Status)
	}
	if len(stored.StatusHistory) != 1 {
		t.Fatalf("expected one ledger entry, got %d", len(stored.StatusHistory))
	}
	if stored.StatusHistory[0].Notes != "confirmed Jan 15" {
		t.Fatalf("expected ledger notes to persist, got %q", stored.StatusHistory[0].Notes)
	}

	counts, err := module.Stats().StatusStatistics(ctx)
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	if counts[studio.StatusShootingScheduled] != 1 {
		t.Fatalf("expected one scheduled project, got %d", counts[studio.StatusShootingScheduled])
	}
	if counts[studio.StatusDraft] != 0 {
		t.Fatalf("expected zero drafts, got %d", counts[studio.StatusDraft])
	}
}

func TestModule_BunStorageRequiresHandle(t *testing.T) {
	t.Parallel()

	cfg := studio.DefaultConfig()
	cfg.Storage.Provider = "bun"
	cfg.Storage.DSN = "file:studio.db"

	if _, err := studio.New(cfg); err == nil {
		t.Fatal("expected error when bun storage has no database handle")
	}
}
