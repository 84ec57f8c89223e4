package projects

import (
	"context"
	"fmt"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-studio/internal/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository abstracts storage for projects and their status ledgers. The
// backing store must offer read-after-write consistency for a single
// project document; cross-client write races resolve last-write-wins.
type Repository interface {
	Create(ctx context.Context, record *Project) (*Project, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Project, error)
	List(ctx context.Context) ([]*Project, error)
	ListByStatuses(ctx context.Context, statuses ...domain.ProjectStatus) ([]*Project, error)
	// UpdateStatus persists the new status together with its ledger entry as
	// one atomic write. A failed update leaves the stored project untouched.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ProjectStatus, change *StatusChange) (*Project, error)
	CountByStatus(ctx context.Context) (map[domain.ProjectStatus]int, error)
	RecentChanges(ctx context.Context, limit int) ([]*StatusChange, error)
}

// ProjectNotFoundError reports missing projects from repository lookups.
type ProjectNotFoundError struct {
	Key string
}

func (e *ProjectNotFoundError) Error() string {
	if e.Key == "" {
		return "project not found"
	}
	return fmt.Sprintf("project %q not found", e.Key)
}

// NewProjectHandlers builds the generic go-repository-bun handlers for the
// Project model, keyed by client name as the secondary identifier.
func NewProjectHandlers(db *bun.DB) repository.Repository[*Project] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Project]{
		NewRecord: func() *Project { return &Project{} },
		GetID: func(p *Project) uuid.UUID {
			return p.ID
		},
		SetID: func(p *Project, id uuid.UUID) {
			p.ID = id
		},
		GetIdentifier: func() string {
			return "client_name"
		},
		GetIdentifierValue: func(p *Project) string {
			return p.ClientName
		},
	})
}

// NewStatusChangeHandlers builds the go-repository-bun handlers for ledger
// entries. Entries have no secondary identifier; they are append-only.
func NewStatusChangeHandlers(db *bun.DB) repository.Repository[*StatusChange] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*StatusChange]{
		NewRecord: func() *StatusChange { return &StatusChange{} },
		GetID: func(c *StatusChange) uuid.UUID {
			return c.ID
		},
		SetID: func(c *StatusChange, id uuid.UUID) {
			c.ID = id
		},
		GetIdentifier: func() string {
			return ""
		},
		GetIdentifierValue: func(*StatusChange) string {
			return ""
		},
	})
}
