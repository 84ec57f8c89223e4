package projects

import (
	"github.com/goliatone/go-studio/internal/domain"
)

// CurrentStatus derives the project's effective status. A project whose
// ledger is empty and whose status field was never written is a draft.
func CurrentStatus(project *Project) domain.ProjectStatus {
	if project == nil {
		return domain.StatusDraft
	}
	if project.Status != "" {
		return project.Status
	}
	if len(project.StatusHistory) > 0 {
		return project.StatusHistory[0].ToStatus
	}
	return domain.StatusDraft
}

// ApplyChange prepends the change to the ledger and moves the status field
// in one step, keeping the invariant that Status always equals the newest
// entry's ToStatus. The project is mutated in place; persistence is the
// repository's concern.
func ApplyChange(project *Project, change *StatusChange) {
	if project == nil || change == nil {
		return
	}
	history := make([]*StatusChange, 0, len(project.StatusHistory)+1)
	history = append(history, change)
	history = append(history, project.StatusHistory...)
	project.StatusHistory = history
	project.Status = change.ToStatus
	project.UpdatedAt = change.CreatedAt
}

// EntryFor returns the most recent ledger entry that moved the project into
// the supplied status, or nil when the status was never entered. When a
// regression-then-reforward cycle entered a status more than once, the most
// recent entry wins.
func EntryFor(history []*StatusChange, status domain.ProjectStatus) *StatusChange {
	for _, change := range history {
		if change != nil && change.ToStatus == status {
			return change
		}
	}
	return nil
}
