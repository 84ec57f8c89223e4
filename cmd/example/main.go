package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	studio "github.com/goliatone/go-studio"
	"github.com/goliatone/go-studio/internal/commands"
	statuscmd "github.com/goliatone/go-studio/internal/commands/status"
	"github.com/goliatone/go-studio/internal/di"
)

func main() {
	ctx := context.Background()

	sqlDB, err := sql.Open("sqlite3", "file:studio-demo?mode=memory&cache=shared")
	if err != nil {
		log.Fatalf("open sqlite: %v", err)
	}
	defer sqlDB.Close()

	bunDB := bun.NewDB(sqlDB, sqlitedialect.New())
	bunDB.SetMaxOpenConns(1)
	if err := createSchema(ctx, bunDB); err != nil {
		log.Fatalf("create schema: %v", err)
	}

	cfg := studio.DefaultConfig()
	cfg.Storage.Provider = "bun"
	cfg.Storage.DSN = "file:studio-demo?mode=memory&cache=shared"
	cfg.Features.Logger = true
	cfg.Features.Notifications = true
	cfg.Logging.Format = "console"
	cfg.Notifications.Channel = "log"

	module, err := studio.New(cfg, di.WithBunDB(bunDB), di.WithSynchronousNotifications())
	if err != nil {
		log.Fatalf("new studio module: %v", err)
	}

	wedding := seedProject(ctx, module.Repository(), "Chen Wedding", "sarah@studio.example")
	launch := seedProject(ctx, module.Repository(), "Nakamura Product Launch", "marco@studio.example")

	// Walk the wedding through the full pipeline.
	for _, target := range []studio.ProjectStatus{
		studio.StatusShootingScheduled,
		studio.StatusShootingCompleted,
		studio.StatusInEditing,
		studio.StatusEditingCompleted,
		studio.StatusDelivered,
		studio.StatusCompleted,
	} {
		result, err := module.Status().Transition(ctx, studio.TransitionRequest{
			ProjectID: wedding,
			Target:    target,
			Actor:     "sarah@studio.example",
		})
		if err != nil {
			log.Fatalf("transition %s: %v", target, err)
		}
		fmt.Printf("Chen Wedding -> %-20s progress %3d%%\n", result.Project.Status, result.Progress)
	}

	// The command layer validates and applies transitions the same way.
	commandLogger := commands.CommandLogger(module.Container().LoggerProvider(), "status")
	transition := statuscmd.NewTransitionProjectHandler(module.Status(), commandLogger)
	if err := transition.Execute(ctx, statuscmd.TransitionProjectCommand{
		ProjectID: launch,
		Target:    string(studio.StatusShootingScheduled),
		Actor:     "marco@studio.example",
		Notes:     "confirmed Jan 15",
	}); err != nil {
		log.Fatalf("transition command: %v", err)
	}

	// Skipping stages is rejected and the ledger is untouched.
	_, err = module.Status().Transition(ctx, studio.TransitionRequest{
		ProjectID: launch,
		Target:    studio.StatusDelivered,
		Actor:     "marco@studio.example",
	})
	var illegal *studio.IllegalTransitionError
	if errors.As(err, &illegal) {
		fmt.Printf("rejected %s -> %s, allowed: %v\n", illegal.From, illegal.To, illegal.Allowed)
	}

	printDashboard(ctx, module)

	report := statuscmd.NewStatusReportHandler(module.Stats(), commandLogger)
	if err := report.Execute(ctx, statuscmd.StatusReportCommand{FeedLimit: 5}); err != nil {
		log.Fatalf("status report: %v", err)
	}
}

func createSchema(ctx context.Context, db *bun.DB) error {
	entries, err := fs.ReadDir(studio.GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return err
	}
	for _, entry := range entries {
		script, err := fs.ReadFile(studio.GetMigrationsFS(), "data/sql/migrations/"+entry.Name())
		if err != nil {
			return err
		}
		if _, err := db.ExecContext(ctx, string(script)); err != nil {
			return fmt.Errorf("apply %s: %w", entry.Name(), err)
		}
	}
	return nil
}

func seedProject(ctx context.Context, repo studio.Repository, client, assignee string) uuid.UUID {
	project := &studio.Project{
		ID:         uuid.New(),
		ClientName: client,
		Assignee:   assignee,
		Status:     studio.StatusDraft,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
	if _, err := repo.Create(ctx, project); err != nil {
		log.Fatalf("seed %s: %v", client, err)
	}
	return project.ID
}

func printDashboard(ctx context.Context, module *studio.Module) {
	overview, err := module.Stats().Overview(ctx)
	if err != nil {
		log.Fatalf("overview: %v", err)
	}
	fmt.Printf("projects: %d total, %d active, %d in production, %d completed (%d%% completion)\n",
		overview.Total, overview.Active, overview.InProduction, overview.Completed, overview.CompletionRate)

	counts, err := module.Stats().StatusStatistics(ctx)
	if err != nil {
		log.Fatalf("statistics: %v", err)
	}
	for _, status := range studio.PipelineStatuses() {
		fmt.Printf("  %-20s %d\n", status, counts[status])
	}

	feed, err := module.Stats().RecentChanges(ctx, 5)
	if err != nil {
		log.Fatalf("recent changes: %v", err)
	}
	for _, entry := range feed {
		fmt.Printf("  %s: %s -> %s by %s\n", entry.ClientName, entry.FromStatus, entry.ToStatus, entry.ChangedBy)
	}
}
