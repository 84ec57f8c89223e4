package projects

import (
	"time"

	"github.com/goliatone/go-studio/internal/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Project is the aggregate the status engine operates on. Descriptive
// metadata (client, assignee, dates) is read-only to this module; only
// Status and StatusHistory are written here.
type Project struct {
	bun.BaseModel `bun:"table:projects,alias:p"`

	ID           uuid.UUID            `bun:",pk,type:uuid" json:"id"`
	ClientName   string               `bun:"client_name,notnull" json:"client_name"`
	Assignee     string               `bun:"assignee" json:"assignee,omitempty"`
	Status       domain.ProjectStatus `bun:"status,notnull" json:"status"`
	ShootingDate *time.Time           `bun:"shooting_date,nullzero" json:"shooting_date,omitempty"`
	DeliveryDate *time.Time           `bun:"delivery_date,nullzero" json:"delivery_date,omitempty"`
	CreatedAt    time.Time            `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time            `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`

	// StatusHistory is the append-only transition ledger, newest first.
	StatusHistory []*StatusChange `bun:"rel:has-many,join:id=project_id" json:"status_history,omitempty"`
}

// StatusChange is one immutable ledger entry. Entries are created exactly
// once on a successful transition and never edited or removed.
type StatusChange struct {
	bun.BaseModel `bun:"table:project_status_changes,alias:psc"`

	ID         uuid.UUID            `bun:",pk,type:uuid" json:"id"`
	ProjectID  uuid.UUID            `bun:"project_id,notnull,type:uuid" json:"project_id"`
	FromStatus domain.ProjectStatus `bun:"from_status,notnull" json:"from_status"`
	ToStatus   domain.ProjectStatus `bun:"to_status,notnull" json:"to_status"`
	ChangedBy  string               `bun:"changed_by,notnull" json:"changed_by"`
	Notes      string               `bun:"notes" json:"notes,omitempty"`
	CreatedAt  time.Time            `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`

	Project *Project `bun:"rel:belongs-to,join:project_id=id" json:"-"`
}
