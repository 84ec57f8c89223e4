package statuscmd

import (
	"context"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-studio/internal/commands"
	"github.com/goliatone/go-studio/internal/logging"
	"github.com/goliatone/go-studio/internal/stats"
	"github.com/goliatone/go-studio/pkg/interfaces"
)

const reportMessageType = "studio.status.report"

const defaultFeedLimit = 10

// StatusReportCommand logs a pipeline breakdown and the recent activity
// feed. FeedLimit bounds the feed; zero applies the default.
type StatusReportCommand struct {
	FeedLimit int `json:"feed_limit,omitempty"`
}

// Type implements command.Message.
func (StatusReportCommand) Type() string { return reportMessageType }

// Validate satisfies command.Message.
func (c StatusReportCommand) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.FeedLimit, validation.Min(0)),
	)
}

type reportHandlerConfig struct {
	cronConfig command.HandlerConfig
	timeout    time.Duration
}

// ReportHandlerOption customises the report handler.
type ReportHandlerOption func(*reportHandlerConfig)

// ReportWithCronConfig overrides the cron registration options.
func ReportWithCronConfig(config command.HandlerConfig) ReportHandlerOption {
	return func(cfg *reportHandlerConfig) {
		cfg.cronConfig = config
	}
}

// ReportWithCronExpression overrides the cron expression.
func ReportWithCronExpression(expression string) ReportHandlerOption {
	return func(cfg *reportHandlerConfig) {
		if trimmed := strings.TrimSpace(expression); trimmed != "" {
			cfg.cronConfig.Expression = trimmed
		}
	}
}

// ReportWithTimeout overrides the default execution timeout.
func ReportWithTimeout(timeout time.Duration) ReportHandlerOption {
	return func(cfg *reportHandlerConfig) {
		cfg.timeout = timeout
	}
}

// StatusReportHandler computes the aggregation overview and logs it for
// dashboards and scheduled digests.
type StatusReportHandler struct {
	stats      stats.Service
	logger     interfaces.Logger
	cronConfig command.HandlerConfig
	timeout    time.Duration
}

// NewStatusReportHandler constructs the handler.
func NewStatusReportHandler(service stats.Service, logger interfaces.Logger, opts ...ReportHandlerOption) *StatusReportHandler {
	cfg := reportHandlerConfig{
		cronConfig: command.HandlerConfig{
			Expression: "@hourly",
		},
		timeout: commands.DefaultCommandTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return &StatusReportHandler{
		stats:      service,
		logger:     commands.EnsureLogger(logger),
		cronConfig: cfg.cronConfig,
		timeout:    cfg.timeout,
	}
}

// Execute satisfies command.Commander[StatusReportCommand].
func (h *StatusReportHandler) Execute(ctx context.Context, msg StatusReportCommand) error {
	if err := commands.WrapValidationError(command.ValidateMessage(msg)); err != nil {
		return err
	}
	ctx = commands.EnsureContext(ctx)
	ctx, cancel := commands.WithCommandTimeout(ctx, h.timeout)
	defer cancel()

	if err := ctx.Err(); err != nil {
		return commands.WrapContextError(err)
	}

	overview, err := h.stats.Overview(ctx)
	if err != nil {
		return commands.WrapExecuteError(err)
	}

	counts, err := h.stats.StatusStatistics(ctx)
	if err != nil {
		return commands.WrapExecuteError(err)
	}

	limit := msg.FeedLimit
	if limit <= 0 {
		limit = defaultFeedLimit
	}
	feed, err := h.stats.RecentChanges(ctx, limit)
	if err != nil {
		return commands.WrapExecuteError(err)
	}

	breakdown := make(map[string]any, len(counts))
	for status, count := range counts {
		breakdown[string(status)] = count
	}

	logging.WithFields(h.logger, map[string]any{
		"operation":       "status.report",
		"total":           overview.Total,
		"active":          overview.Active,
		"in_production":   overview.InProduction,
		"completed":       overview.Completed,
		"completion_rate": overview.CompletionRate,
		"feed_entries":    len(feed),
	}).Info("status.command.report.overview")

	logging.WithFields(h.logger, breakdown).Debug("status.command.report.breakdown")
	return nil
}

// CronHandler satisfies command.CronCommand by binding report execution to a
// cron runner.
func (h *StatusReportHandler) CronHandler() func() error {
	return func() error {
		return h.Execute(context.Background(), StatusReportCommand{})
	}
}

// CronOptions satisfies command.CronCommand by returning the configured cron
// metadata.
func (h *StatusReportHandler) CronOptions() command.HandlerConfig {
	return h.cronConfig
}

// CLIHandler exposes the report handler to CLI integrations.
func (h *StatusReportHandler) CLIHandler() any {
	return h
}

// CLIOptions describes the CLI metadata for the status report.
func (h *StatusReportHandler) CLIOptions() command.CLIConfig {
	return command.CLIConfig{
		Path:        []string{"status", "report"},
		Group:       "status",
		Description: "Log the pipeline breakdown and recent activity feed",
	}
}
