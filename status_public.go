package studio

import (
	"github.com/goliatone/go-studio/internal/domain"
	"github.com/goliatone/go-studio/internal/pipeline"
	"github.com/goliatone/go-studio/internal/projects"
	"github.com/goliatone/go-studio/internal/stats"
)

// ProjectStatus is the stable public status identifier exposed by studio.
type ProjectStatus = domain.ProjectStatus

// Production pipeline statuses in canonical order.
const (
	StatusDraft             = domain.StatusDraft
	StatusShootingScheduled = domain.StatusShootingScheduled
	StatusShootingCompleted = domain.StatusShootingCompleted
	StatusInEditing         = domain.StatusInEditing
	StatusEditingCompleted  = domain.StatusEditingCompleted
	StatusDelivered         = domain.StatusDelivered
	StatusCompleted         = domain.StatusCompleted
)

// Project exports the project record exposed by the public contract.
type Project = projects.Project

// StatusChange exports the append-only ledger entry.
type StatusChange = projects.StatusChange

// TransitionRequest exports the status service write request.
type TransitionRequest = projects.TransitionRequest

// TransitionResult exports the status service write response.
type TransitionResult = projects.TransitionResult

// TimelineEntry exports a ledger entry annotated with pipeline progress.
type TimelineEntry = projects.TimelineEntry

// Transition exports the validated transition produced by the engine.
type Transition = pipeline.Transition

// IllegalTransitionError exports the rejection detail carrying the allowed
// target set.
type IllegalTransitionError = pipeline.IllegalTransitionError

// Overview exports the dashboard rollup DTO.
type Overview = stats.Overview

// ChangeDigest exports one activity feed row.
type ChangeDigest = stats.ChangeDigest

// ProjectNotFoundError exports the typed lookup failure.
type ProjectNotFoundError = projects.ProjectNotFoundError

var (
	// ErrInvalidTransition indicates the requested move is not in the
	// transition table for the project's current status.
	ErrInvalidTransition = pipeline.ErrInvalidTransition
	// ErrActorRequired indicates a transition was requested without an actor.
	ErrActorRequired = pipeline.ErrActorRequired
	// ErrUnknownStatus indicates an unrecognised status identifier.
	ErrUnknownStatus = pipeline.ErrUnknownStatus
	// ErrTransitionInFlight indicates another transition for the same
	// project is still being applied.
	ErrTransitionInFlight = projects.ErrTransitionInFlight
	// ErrProjectIDRequired indicates a request without a project identifier.
	ErrProjectIDRequired = projects.ErrProjectIDRequired
)

// PipelineStatuses returns the seven pipeline statuses in canonical order.
func PipelineStatuses() []ProjectStatus {
	return domain.PipelineStatuses()
}

// ParseProjectStatus converts a raw string into a pipeline status.
func ParseProjectStatus(raw string) (ProjectStatus, error) {
	return domain.ParseProjectStatus(raw)
}

// AllowedNext returns the legal targets for the given status.
func AllowedNext(status ProjectStatus) []ProjectStatus {
	return pipeline.AllowedNext(status)
}

// ProgressPercent reports pipeline completion for the given status.
func ProgressPercent(status ProjectStatus) int {
	return domain.ProgressPercent(status)
}
