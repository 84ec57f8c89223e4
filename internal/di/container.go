package di

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-studio/internal/logging"
	"github.com/goliatone/go-studio/internal/logging/gologger"
	"github.com/goliatone/go-studio/internal/notify"
	"github.com/goliatone/go-studio/internal/pipeline"
	"github.com/goliatone/go-studio/internal/projects"
	"github.com/goliatone/go-studio/internal/runtimeconfig"
	"github.com/goliatone/go-studio/internal/stats"
	"github.com/goliatone/go-studio/pkg/interfaces"
)

// ErrBunStorageRequiresDB indicates bun storage was selected without a handle.
var ErrBunStorageRequiresDB = errors.New("studio di: bun storage requires a database handle")

// Container wires module dependencies and owns default bindings.
type Container struct {
	Config runtimeconfig.Config

	bunDB          *bun.DB
	loggerProvider interfaces.LoggerProvider
	notifier       interfaces.Notifier

	clock func() time.Time
	idGen func() uuid.UUID

	repo projects.Repository

	engine       *pipeline.Engine
	statusSvc    projects.StatusService
	statsSvc     stats.Service
	syncDispatch bool
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithBunDB binds the bun database handle used by the bun storage provider.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithRepository overrides the default project repository binding.
func WithRepository(repo projects.Repository) Option {
	return func(c *Container) {
		c.repo = repo
	}
}

// WithLoggerProvider overrides the default logger provider binding.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithNotifier overrides the default status change notifier.
func WithNotifier(notifier interfaces.Notifier) Option {
	return func(c *Container) {
		c.notifier = notifier
	}
}

// WithClock overrides the timestamp source used for status changes.
func WithClock(clock func() time.Time) Option {
	return func(c *Container) {
		c.clock = clock
	}
}

// WithIDGenerator overrides the identifier source used for status changes.
func WithIDGenerator(generator func() uuid.UUID) Option {
	return func(c *Container) {
		c.idGen = generator
	}
}

// WithSynchronousNotifications dispatches status notifications inline
// instead of on a background goroutine. Intended for deterministic tests.
func WithSynchronousNotifications() Option {
	return func(c *Container) {
		c.syncDispatch = true
	}
}

// WithStatusService overrides the default status service binding.
func WithStatusService(svc projects.StatusService) Option {
	return func(c *Container) {
		c.statusSvc = svc
	}
}

// WithStatsService overrides the default statistics service binding.
func WithStatsService(svc stats.Service) Option {
	return func(c *Container) {
		c.statsSvc = svc
	}
}

// NewContainer creates a container with the provided configuration.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.configureLogging(); err != nil {
		return nil, err
	}
	if err := c.configureRepository(); err != nil {
		return nil, err
	}
	c.configureNotifier()
	c.configureServices()

	return c, nil
}

func (c *Container) configureLogging() error {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return nil
	}
	if normalize(c.Config.Logging.Provider) == "noop" {
		return nil
	}

	provider, err := gologger.NewProvider(gologger.Config{
		Level:     c.Config.Logging.Level,
		Format:    c.Config.Logging.Format,
		AddSource: c.Config.Logging.AddSource,
		Focus:     c.Config.Logging.Focus,
	})
	if err != nil {
		return fmt.Errorf("studio di: %w", err)
	}
	c.loggerProvider = provider
	return nil
}

func (c *Container) configureRepository() error {
	if c.repo != nil {
		return nil
	}

	if normalize(c.Config.Storage.Provider) == "bun" {
		if c.bunDB == nil {
			return ErrBunStorageRequiresDB
		}
		c.repo = projects.NewBunRepository(c.bunDB)
		return nil
	}

	c.repo = projects.NewMemoryRepository()
	return nil
}

func (c *Container) configureNotifier() {
	if c.notifier != nil {
		return
	}
	if !c.Config.Features.Notifications {
		c.notifier = notify.NewNoOp()
		return
	}

	switch normalize(c.Config.Notifications.Channel) {
	case "log":
		c.notifier = notify.NewLogDispatcher(logging.NotifyLogger(c.loggerProvider))
	default:
		c.notifier = notify.NewNoOp()
	}
}

func (c *Container) configureServices() {
	if c.engine == nil {
		engineOpts := []pipeline.Option{}
		if c.clock != nil {
			engineOpts = append(engineOpts, pipeline.WithClock(c.clock))
		}
		if c.idGen != nil {
			engineOpts = append(engineOpts, pipeline.WithIDGenerator(c.idGen))
		}
		c.engine = pipeline.New(engineOpts...)
	}

	if c.statusSvc == nil {
		serviceOpts := []projects.ServiceOption{
			projects.WithEngine(c.engine),
			projects.WithNotifier(c.notifier),
			projects.WithLogger(logging.ProjectsLogger(c.loggerProvider)),
		}
		if c.syncDispatch {
			serviceOpts = append(serviceOpts, projects.WithSynchronousDispatch())
		}
		c.statusSvc = projects.NewStatusService(c.repo, serviceOpts...)
	}

	if c.statsSvc == nil {
		c.statsSvc = stats.NewService(
			c.repo,
			stats.WithLogger(logging.StatsLogger(c.loggerProvider)),
		)
	}
}

// Repository exposes the bound project repository.
func (c *Container) Repository() projects.Repository {
	return c.repo
}

// Engine exposes the transition engine used by the status service.
func (c *Container) Engine() *pipeline.Engine {
	return c.engine
}

// StatusService returns the configured status service.
func (c *Container) StatusService() projects.StatusService {
	return c.statusSvc
}

// StatsService returns the configured statistics service.
func (c *Container) StatsService() stats.Service {
	return c.statsSvc
}

// Notifier exposes the bound status change notifier.
func (c *Container) Notifier() interfaces.Notifier {
	return c.notifier
}

// LoggerProvider exposes the bound logger provider. It may be nil when
// logging is disabled.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
