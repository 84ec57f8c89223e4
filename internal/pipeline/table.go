package pipeline

import (
	"fmt"

	"github.com/goliatone/go-studio/internal/domain"
)

// transitionTable is the hand-authored business rule set for the production
// pipeline. Every forward stage has exactly one legal undo (the stage that
// precedes it), so mistaken advances can be corrected without arbitrary
// skips. Completed can only reopen to delivered.
var transitionTable = map[domain.ProjectStatus][]domain.ProjectStatus{
	domain.StatusDraft:             {domain.StatusShootingScheduled},
	domain.StatusShootingScheduled: {domain.StatusShootingCompleted, domain.StatusDraft},
	domain.StatusShootingCompleted: {domain.StatusInEditing, domain.StatusShootingScheduled},
	domain.StatusInEditing:         {domain.StatusEditingCompleted, domain.StatusShootingCompleted},
	domain.StatusEditingCompleted:  {domain.StatusDelivered, domain.StatusInEditing},
	domain.StatusDelivered:         {domain.StatusCompleted, domain.StatusEditingCompleted},
	domain.StatusCompleted:         {domain.StatusDelivered},
}

// AllowedNext returns the statuses legally reachable from the supplied
// status. Asking for the successors of a value outside the closed set is a
// programming error and panics.
func AllowedNext(from domain.ProjectStatus) []domain.ProjectStatus {
	successors, ok := transitionTable[from]
	if !ok {
		panic(fmt.Sprintf("pipeline: status %q has no transition entry", from))
	}
	out := make([]domain.ProjectStatus, len(successors))
	copy(out, successors)
	return out
}

// CanTransition reports whether moving from one status to another is
// permitted by the transition table.
func CanTransition(from, to domain.ProjectStatus) bool {
	successors, ok := transitionTable[from]
	if !ok {
		return false
	}
	for _, candidate := range successors {
		if candidate == to {
			return true
		}
	}
	return false
}
