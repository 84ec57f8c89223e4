package studio

import (
	"github.com/goliatone/go-studio/internal/di"
	"github.com/goliatone/go-studio/internal/pipeline"
	"github.com/goliatone/go-studio/internal/projects"
	"github.com/goliatone/go-studio/internal/stats"
	"github.com/goliatone/go-studio/pkg/interfaces"
)

// StatusService exports the project status workflow contract for consumers
// of the studio package.
type StatusService = projects.StatusService

// StatsService exports the read-only aggregation contract.
type StatsService = stats.Service

// Repository exports the project persistence contract.
type Repository = projects.Repository

// Notifier exports the status change notification contract.
type Notifier = interfaces.Notifier

// StatusNotification exports the notification payload DTO.
type StatusNotification = interfaces.StatusNotification

// Module represents the top level studio runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a studio module using the provided configuration and
// optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Status returns the configured project status service.
func (m *Module) Status() StatusService {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.StatusService()
}

// Stats returns the configured aggregation service.
func (m *Module) Stats() StatsService {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.StatsService()
}

// Repository returns the bound project repository.
func (m *Module) Repository() Repository {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Repository()
}

// Engine returns the transition engine used by the status service.
func (m *Module) Engine() *pipeline.Engine {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Engine()
}
