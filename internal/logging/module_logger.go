package logging

import (
	"context"

	"github.com/goliatone/go-studio/pkg/interfaces"
)

const (
	rootModule     = "studio"
	projectsModule = "studio.projects"
	pipelineModule = "studio.pipeline"
	statsModule    = "studio.stats"
	notifyModule   = "studio.notify"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// ProjectsLogger returns the logger namespace reserved for the project
// status services.
func ProjectsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, projectsModule)
}

// PipelineLogger returns the logger namespace reserved for transition logic.
func PipelineLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, pipelineModule)
}

// StatsLogger returns the logger namespace reserved for aggregation queries.
func StatsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, statsModule)
}

// NotifyLogger returns the logger namespace reserved for dispatch workers.
func NotifyLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, notifyModule)
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
