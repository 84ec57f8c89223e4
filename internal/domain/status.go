package domain

import (
	"fmt"
	"math"
	"strings"
)

// ProjectStatus represents a production pipeline stage for a studio project.
type ProjectStatus string

const (
	StatusDraft             ProjectStatus = "draft"
	StatusShootingScheduled ProjectStatus = "shooting_scheduled"
	StatusShootingCompleted ProjectStatus = "shooting_completed"
	StatusInEditing         ProjectStatus = "in_editing"
	StatusEditingCompleted  ProjectStatus = "editing_completed"
	StatusDelivered         ProjectStatus = "delivered"
	StatusCompleted         ProjectStatus = "completed"
)

// pipelineOrder is the canonical linear ordering of the production pipeline.
// It drives progress computation only; the legal transition graph lives in
// the pipeline package and permits backward moves this ordering does not.
var pipelineOrder = []ProjectStatus{
	StatusDraft,
	StatusShootingScheduled,
	StatusShootingCompleted,
	StatusInEditing,
	StatusEditingCompleted,
	StatusDelivered,
	StatusCompleted,
}

// PipelineStatuses returns the canonical pipeline ordering.
func PipelineStatuses() []ProjectStatus {
	out := make([]ProjectStatus, len(pipelineOrder))
	copy(out, pipelineOrder)
	return out
}

// ParseProjectStatus converts a raw string into a ProjectStatus, rejecting
// values outside the closed set.
func ParseProjectStatus(input string) (ProjectStatus, error) {
	status := ProjectStatus(strings.ToLower(strings.TrimSpace(input)))
	if !status.Valid() {
		return "", fmt.Errorf("domain: unknown project status %q", input)
	}
	return status, nil
}

// NormalizeProjectStatus coerces arbitrary status strings, falling back to
// draft for empty input. Unknown values are preserved so callers can fail
// them through ParseProjectStatus.
func NormalizeProjectStatus(input string) ProjectStatus {
	if strings.TrimSpace(input) == "" {
		return StatusDraft
	}
	return ProjectStatus(strings.ToLower(strings.TrimSpace(input)))
}

// Valid reports whether the status belongs to the closed pipeline set.
func (s ProjectStatus) Valid() bool {
	for _, candidate := range pipelineOrder {
		if s == candidate {
			return true
		}
	}
	return false
}

// String returns the persisted representation.
func (s ProjectStatus) String() string {
	return string(s)
}

// CanonicalIndex returns the zero-based pipeline position of the status.
// Asking for the index of a value outside the closed set is a programming
// error and panics.
func CanonicalIndex(status ProjectStatus) int {
	for idx, candidate := range pipelineOrder {
		if status == candidate {
			return idx
		}
	}
	panic(fmt.Sprintf("domain: status %q is not part of the pipeline", status))
}

// ProgressPercent maps a status to its pipeline completion percentage using
// the canonical ordering. A project that moved backwards reports the
// percentage of its current stage, not of the furthest stage it reached.
func ProgressPercent(status ProjectStatus) int {
	position := CanonicalIndex(status) + 1
	return int(math.Round(float64(position) / float64(len(pipelineOrder)) * 100))
}

// ActiveStatuses lists the stages that count as active work for dashboard
// rollups.
func ActiveStatuses() []ProjectStatus {
	return []ProjectStatus{StatusDraft, StatusShootingScheduled, StatusInEditing}
}

// ProductionStatuses lists the stages between shooting and delivery.
func ProductionStatuses() []ProjectStatus {
	return []ProjectStatus{StatusShootingCompleted, StatusEditingCompleted}
}

// CompletedStatuses lists the stages that count towards the completed rollup.
func CompletedStatuses() []ProjectStatus {
	return []ProjectStatus{StatusDelivered, StatusCompleted}
}
