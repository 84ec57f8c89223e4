package projects

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-studio/internal/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunRepository implements Repository on top of bun.
type BunRepository struct {
	repo repository.Repository[*Project]
	db   *bun.DB
}

// NewBunRepository constructs a bun-backed project repository.
func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{
		repo: NewProjectHandlers(db),
		db:   db,
	}
}

func (r *BunRepository) Create(ctx context.Context, record *Project) (*Project, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *BunRepository) GetByID(ctx context.Context, id uuid.UUID) (*Project, error) {
	record := new(Project)
	err := r.db.NewSelect().
		Model(record).
		Relation("StatusHistory", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("created_at DESC")
		}).
		Where("?TableAlias.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, mapRepositoryError(err, id.String())
	}
	return record, nil
}

func (r *BunRepository) List(ctx context.Context) ([]*Project, error) {
	var records []*Project
	err := r.db.NewSelect().
		Model(&records).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("project repository error: %w", err)
	}
	return records, nil
}

func (r *BunRepository) ListByStatuses(ctx context.Context, statuses ...domain.ProjectStatus) ([]*Project, error) {
	if len(statuses) == 0 {
		return []*Project{}, nil
	}
	var records []*Project
	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.status IN (?)", bun.In(statuses)).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("project repository error: %w", err)
	}
	return records, nil
}

// UpdateStatus writes the ledger entry and the status column inside a single
// transaction so a failed save leaves the stored project untouched.
func (r *BunRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ProjectStatus, change *StatusChange) (*Project, error) {
	entry := *change
	entry.ProjectID = id
	entry.Project = nil

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().
			Model(&entry).
			Exec(ctx); err != nil {
			return fmt.Errorf("insert status change: %w", err)
		}

		result, err := tx.NewUpdate().
			Model((*Project)(nil)).
			Set("status = ?", status).
			Set("updated_at = ?", entry.CreatedAt).
			Where("?TableAlias.id = ?", id).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("update project status: %w", err)
		}
		affected, _ := result.RowsAffected()
		if affected == 0 {
			return &ProjectNotFoundError{Key: id.String()}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

func (r *BunRepository) CountByStatus(ctx context.Context) (map[domain.ProjectStatus]int, error) {
	var rows []struct {
		Status domain.ProjectStatus `bun:"status"`
		Total  int                  `bun:"total"`
	}
	err := r.db.NewSelect().
		Model((*Project)(nil)).
		Column("status").
		ColumnExpr("count(*) AS total").
		Group("status").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("project repository error: %w", err)
	}

	counts := make(map[domain.ProjectStatus]int, len(domain.PipelineStatuses()))
	for _, status := range domain.PipelineStatuses() {
		counts[status] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

func (r *BunRepository) RecentChanges(ctx context.Context, limit int) ([]*StatusChange, error) {
	var records []*StatusChange
	query := r.db.NewSelect().
		Model(&records).
		Relation("Project").
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Scan(ctx); err != nil {
		return nil, fmt.Errorf("status change repository error: %w", err)
	}
	return records, nil
}

func mapRepositoryError(err error, key string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) || goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &ProjectNotFoundError{Key: key}
	}
	return fmt.Errorf("project repository error: %w", err)
}

var _ Repository = (*BunRepository)(nil)
var _ Repository = (*MemoryRepository)(nil)
