package statuscmd

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-studio/internal/commands"
	"github.com/goliatone/go-studio/internal/domain"
	"github.com/goliatone/go-studio/internal/logging"
	"github.com/goliatone/go-studio/internal/projects"
	"github.com/goliatone/go-studio/pkg/interfaces"
	"github.com/google/uuid"
)

const transitionMessageType = "studio.status.transition"

// TransitionProjectCommand moves a project to the supplied pipeline stage.
type TransitionProjectCommand struct {
	ProjectID uuid.UUID `json:"project_id"`
	Target    string    `json:"target"`
	Actor     string    `json:"actor"`
	Notes     string    `json:"notes,omitempty"`
}

// Type implements command.Message.
func (TransitionProjectCommand) Type() string { return transitionMessageType }

// Validate satisfies command.Message.
func (c TransitionProjectCommand) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.ProjectID, validation.By(requireProjectID)),
		validation.Field(&c.Target, validation.Required, validation.By(requirePipelineStatus)),
		validation.Field(&c.Actor, validation.Required),
	)
}

func requireProjectID(value any) error {
	id, _ := value.(uuid.UUID)
	if id == uuid.Nil {
		return validation.NewError("validation_required", "project id is required")
	}
	return nil
}

func requirePipelineStatus(value any) error {
	raw, _ := value.(string)
	if _, err := domain.ParseProjectStatus(raw); err != nil {
		return validation.NewError("validation_status", "target is not a pipeline status")
	}
	return nil
}

type transitionHandlerConfig struct {
	timeout time.Duration
}

// TransitionHandlerOption customises the transition handler.
type TransitionHandlerOption func(*transitionHandlerConfig)

// TransitionWithTimeout overrides the default execution timeout.
func TransitionWithTimeout(timeout time.Duration) TransitionHandlerOption {
	return func(cfg *transitionHandlerConfig) {
		cfg.timeout = timeout
	}
}

// TransitionProjectHandler executes validated transitions through the status
// service.
type TransitionProjectHandler struct {
	service projects.StatusService
	logger  interfaces.Logger
	timeout time.Duration
}

// NewTransitionProjectHandler constructs the handler.
func NewTransitionProjectHandler(service projects.StatusService, logger interfaces.Logger, opts ...TransitionHandlerOption) *TransitionProjectHandler {
	cfg := transitionHandlerConfig{
		timeout: commands.DefaultCommandTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return &TransitionProjectHandler{
		service: service,
		logger:  commands.EnsureLogger(logger),
		timeout: cfg.timeout,
	}
}

// Execute satisfies command.Commander[TransitionProjectCommand].
func (h *TransitionProjectHandler) Execute(ctx context.Context, msg TransitionProjectCommand) error {
	if err := commands.WrapValidationError(command.ValidateMessage(msg)); err != nil {
		return err
	}
	ctx = commands.EnsureContext(ctx)
	ctx, cancel := commands.WithCommandTimeout(ctx, h.timeout)
	defer cancel()

	if err := ctx.Err(); err != nil {
		return commands.WrapContextError(err)
	}

	target, err := domain.ParseProjectStatus(msg.Target)
	if err != nil {
		return commands.WrapValidationError(err)
	}

	result, err := h.service.Transition(ctx, projects.TransitionRequest{
		ProjectID: msg.ProjectID,
		Target:    target,
		Actor:     msg.Actor,
		Notes:     msg.Notes,
	})
	if err != nil {
		return commands.WrapExecuteError(err)
	}

	logging.WithFields(h.logger, map[string]any{
		"operation":   "status.transition",
		"project_id":  msg.ProjectID.String(),
		"from_status": string(result.Change.FromStatus),
		"to_status":   string(result.Change.ToStatus),
		"progress":    result.Progress,
		"notified":    result.Notified,
	}).Info("status.command.transition.applied")
	return nil
}

// CLIHandler exposes the transition handler to CLI integrations.
func (h *TransitionProjectHandler) CLIHandler() any {
	return h
}

// CLIOptions describes the CLI metadata for project transitions.
func (h *TransitionProjectHandler) CLIOptions() command.CLIConfig {
	return command.CLIConfig{
		Path:        []string{"status", "transition"},
		Group:       "status",
		Description: "Move a project to the next pipeline stage",
	}
}
