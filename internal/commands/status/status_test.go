package statuscmd

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-studio/internal/domain"
	"github.com/goliatone/go-studio/internal/logging"
	"github.com/goliatone/go-studio/internal/pipeline"
	"github.com/goliatone/go-studio/internal/projects"
	"github.com/goliatone/go-studio/internal/stats"
	"github.com/google/uuid"
)

func newTransitionFixture(t *testing.T) (*projects.MemoryRepository, *projects.Project, projects.StatusService) {
	t.Helper()
	repo := projects.NewMemoryRepository()
	record, err := repo.Create(context.Background(), &projects.Project{
		ID:         uuid.New(),
		ClientName: "Alvarez Wedding",
		Status:     domain.StatusDraft,
	})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	svc := projects.NewStatusService(repo, projects.WithEngine(pipeline.New(pipeline.WithClock(func() time.Time {
		return time.Unix(1700000000, 0).UTC()
	}))))
	return repo, record, svc
}

func TestTransitionCommandValidation(t *testing.T) {
	cases := []struct {
		name string
		msg  TransitionProjectCommand
	}{
		{name: "missing project id", msg: TransitionProjectCommand{Target: "shooting_scheduled", Actor: "admin"}},
		{name: "missing target", msg: TransitionProjectCommand{ProjectID: uuid.New(), Actor: "admin"}},
		{name: "unknown target", msg: TransitionProjectCommand{ProjectID: uuid.New(), Target: "published", Actor: "admin"}},
		{name: "missing actor", msg: TransitionProjectCommand{ProjectID: uuid.New(), Target: "shooting_scheduled"}},
	}

	for _, tc := range cases {
		if err := tc.msg.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}

	valid := TransitionProjectCommand{
		ProjectID: uuid.New(),
		Target:    "shooting_scheduled",
		Actor:     "admin",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid message rejected: %v", err)
	}
}

func TestTransitionHandlerAppliesTransition(t *testing.T) {
	repo, record, svc := newTransitionFixture(t)
	handler := NewTransitionProjectHandler(svc, logging.NoOp())

	err := handler.Execute(context.Background(), TransitionProjectCommand{
		ProjectID: record.ID,
		Target:    "shooting_scheduled",
		Actor:     "admin",
		Notes:     "confirmed Jan 15",
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	reloaded, err := repo.GetByID(context.Background(), record.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Status != domain.StatusShootingScheduled {
		t.Fatalf("expected shooting_scheduled got %s", reloaded.Status)
	}
	if len(reloaded.StatusHistory) != 1 || reloaded.StatusHistory[0].Notes != "confirmed Jan 15" {
		t.Fatalf("expected ledger entry with notes, got %v", reloaded.StatusHistory)
	}
}

func TestTransitionHandlerRejectsIllegalMove(t *testing.T) {
	_, record, svc := newTransitionFixture(t)
	handler := NewTransitionProjectHandler(svc, logging.NoOp())

	err := handler.Execute(context.Background(), TransitionProjectCommand{
		ProjectID: record.ID,
		Target:    "completed",
		Actor:     "admin",
	})
	if err == nil {
		t.Fatal("expected illegal transition to fail")
	}
	if !errors.Is(err, pipeline.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition in chain, got %v", err)
	}
}

func TestTransitionHandlerRejectsInvalidMessage(t *testing.T) {
	_, _, svc := newTransitionFixture(t)
	handler := NewTransitionProjectHandler(svc, logging.NoOp())

	if err := handler.Execute(context.Background(), TransitionProjectCommand{}); err == nil {
		t.Fatal("expected validation failure")
	}
}

func TestStatusReportHandlerLogsOverview(t *testing.T) {
	repo, record, svc := newTransitionFixture(t)
	handler := NewTransitionProjectHandler(svc, logging.NoOp())
	if err := handler.Execute(context.Background(), TransitionProjectCommand{
		ProjectID: record.ID,
		Target:    "shooting_scheduled",
		Actor:     "admin",
	}); err != nil {
		t.Fatalf("seed transition: %v", err)
	}

	report := NewStatusReportHandler(stats.NewService(repo), logging.NoOp())
	if err := report.Execute(context.Background(), StatusReportCommand{FeedLimit: 5}); err != nil {
		t.Fatalf("report execute: %v", err)
	}
}

func TestStatusReportHandlerCronDefaults(t *testing.T) {
	report := NewStatusReportHandler(stats.NewService(projects.NewMemoryRepository()), logging.NoOp())

	if report.CronOptions().Expression != "@hourly" {
		t.Fatalf("expected @hourly default got %q", report.CronOptions().Expression)
	}
	if err := report.CronHandler()(); err != nil {
		t.Fatalf("cron execution: %v", err)
	}

	custom := NewStatusReportHandler(stats.NewService(projects.NewMemoryRepository()), logging.NoOp(),
		ReportWithCronExpression("@daily"))
	if custom.CronOptions().Expression != "@daily" {
		t.Fatalf("expected @daily got %q", custom.CronOptions().Expression)
	}
}

func TestStatusReportCommandValidation(t *testing.T) {
	if err := (StatusReportCommand{FeedLimit: -1}).Validate(); err == nil {
		t.Fatal("expected negative feed limit to fail validation")
	}
	if err := (StatusReportCommand{}).Validate(); err != nil {
		t.Fatalf("zero value should validate: %v", err)
	}
}
