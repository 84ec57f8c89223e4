package projects

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/goliatone/go-studio/internal/domain"
	"github.com/google/uuid"
)

// MemoryRepository is an in-memory project store for scaffolding/tests.
type MemoryRepository struct {
	mu       sync.RWMutex
	records  map[uuid.UUID]*Project
	sequence int64
	inserted map[uuid.UUID]int64

	// FailUpdates makes UpdateStatus return the supplied error, used to
	// exercise persistence-failure paths in tests.
	FailUpdates error
}

// NewMemoryRepository constructs the repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		records:  make(map[uuid.UUID]*Project),
		inserted: make(map[uuid.UUID]int64),
	}
}

// Create inserts the supplied project.
func (m *MemoryRepository) Create(_ context.Context, record *Project) (*Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := cloneProject(record)
	if copied.ID == uuid.Nil {
		copied.ID = uuid.New()
	}
	if copied.Status == "" {
		copied.Status = domain.StatusDraft
	}
	m.records[copied.ID] = copied
	return cloneProject(copied), nil
}

// GetByID retrieves a project by identifier.
func (m *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.records[id]
	if !ok {
		return nil, &ProjectNotFoundError{Key: id.String()}
	}
	return cloneProject(record), nil
}

// List returns every project.
func (m *MemoryRepository) List(_ context.Context) ([]*Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Project, 0, len(m.records))
	for _, record := range m.records {
		out = append(out, cloneProject(record))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// ListByStatuses returns the projects whose current status is in the set.
func (m *MemoryRepository) ListByStatuses(_ context.Context, statuses ...domain.ProjectStatus) ([]*Project, error) {
	wanted := make(map[domain.ProjectStatus]struct{}, len(statuses))
	for _, status := range statuses {
		wanted[status] = struct{}{}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Project, 0)
	for _, record := range m.records {
		if _, ok := wanted[CurrentStatus(record)]; ok {
			out = append(out, cloneProject(record))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// UpdateStatus appends the ledger entry and moves the status field as one
// atomic unit relative to concurrent readers.
func (m *MemoryRepository) UpdateStatus(_ context.Context, id uuid.UUID, status domain.ProjectStatus, change *StatusChange) (*Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailUpdates != nil {
		return nil, m.FailUpdates
	}

	record, ok := m.records[id]
	if !ok {
		return nil, &ProjectNotFoundError{Key: id.String()}
	}

	copied := cloneStatusChange(change)
	copied.ProjectID = id
	record.StatusHistory = append([]*StatusChange{copied}, record.StatusHistory...)
	record.Status = status
	record.UpdatedAt = copied.CreatedAt

	m.sequence++
	m.inserted[copied.ID] = m.sequence

	return cloneProject(record), nil
}

// CountByStatus tallies projects per pipeline stage. Every stage is present
// in the result, zero-filled when empty.
func (m *MemoryRepository) CountByStatus(_ context.Context) (map[domain.ProjectStatus]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := make(map[domain.ProjectStatus]int, len(domain.PipelineStatuses()))
	for _, status := range domain.PipelineStatuses() {
		counts[status] = 0
	}
	for _, record := range m.records {
		counts[CurrentStatus(record)]++
	}
	return counts, nil
}

// RecentChanges returns ledger entries across every project, newest first.
// Ties on equal timestamps preserve insertion order.
func (m *MemoryRepository) RecentChanges(_ context.Context, limit int) ([]*StatusChange, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := make([]*StatusChange, 0)
	for _, record := range m.records {
		for _, change := range record.StatusHistory {
			copied := cloneStatusChange(change)
			copied.Project = cloneProjectShallow(record)
			all = append(all, copied)
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return m.inserted[all[i].ID] > m.inserted[all[j].ID]
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func cloneProject(record *Project) *Project {
	if record == nil {
		return nil
	}
	copied := *record
	copied.ShootingDate = cloneTimePointer(record.ShootingDate)
	copied.DeliveryDate = cloneTimePointer(record.DeliveryDate)
	if len(record.StatusHistory) > 0 {
		history := make([]*StatusChange, len(record.StatusHistory))
		for i, change := range record.StatusHistory {
			history[i] = cloneStatusChange(change)
		}
		copied.StatusHistory = history
	}
	return &copied
}

func cloneProjectShallow(record *Project) *Project {
	if record == nil {
		return nil
	}
	copied := *record
	copied.StatusHistory = nil
	return &copied
}

func cloneStatusChange(change *StatusChange) *StatusChange {
	if change == nil {
		return nil
	}
	copied := *change
	copied.Project = nil
	return &copied
}

func cloneTimePointer(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}
