package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrStorageProviderUnknown indicates an unsupported storage provider.
var ErrStorageProviderUnknown = errors.New("studio config: storage provider is invalid")

// ErrStorageDSNRequired indicates the bun provider was selected without a DSN.
var ErrStorageDSNRequired = errors.New("studio config: storage dsn is required for the bun provider")

// ErrLoggingProviderRequired indicates logging was enabled without a provider.
var ErrLoggingProviderRequired = errors.New("studio config: logging provider is required when logging feature is enabled")

// ErrLoggingProviderUnknown indicates an unsupported logging provider.
var ErrLoggingProviderUnknown = errors.New("studio config: logging provider is invalid")

// ErrLoggingLevelInvalid indicates an unsupported logging level.
var ErrLoggingLevelInvalid = errors.New("studio config: logging level is invalid")

// ErrLoggingFormatInvalid indicates an unsupported logging format.
var ErrLoggingFormatInvalid = errors.New("studio config: logging format is invalid")

// ErrNotifierChannelUnknown indicates an unsupported notification channel.
var ErrNotifierChannelUnknown = errors.New("studio config: notification channel is invalid")

// ErrReportCronRequiresCommands ensures cron wiring stays behind the commands flag.
var ErrReportCronRequiresCommands = errors.New("studio config: report cron requires commands to be enabled")

// ErrFeedLimitInvalid indicates a negative activity feed limit.
var ErrFeedLimitInvalid = errors.New("studio config: activity feed limit must be zero or positive")

// Config aggregates feature flags and adapter bindings for the studio module.
// Fields intentionally use simple types so host applications can extend them.
type Config struct {
	Storage       StorageConfig
	Logging       LoggingConfig
	Notifications NotificationsConfig
	Commands      CommandsConfig
	Activity      ActivityConfig
	Features      Features
}

// StorageConfig selects the persistence backing.
type StorageConfig struct {
	// Provider is "memory" or "bun".
	Provider string
	// DSN is the database connection string when Provider is "bun".
	DSN string
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// NotificationsConfig selects the dispatch channel for status changes.
type NotificationsConfig struct {
	// Channel is "noop" or "log".
	Channel string
}

// CommandsConfig captures optional command-layer behaviour.
type CommandsConfig struct {
	Enabled          bool
	AutoRegisterCron bool
	StatusReportCron string
	Timeout          time.Duration
}

// ActivityConfig bounds the global activity feed.
type ActivityConfig struct {
	FeedLimit int
}

// Features toggles module functionality.
type Features struct {
	Logger        bool
	Notifications bool
	Commands      bool
}

// DefaultConfig returns the baseline studio configuration.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Provider: "memory",
		},
		Logging: LoggingConfig{
			Provider: "gologger",
			Level:    "info",
			Format:   "json",
		},
		Notifications: NotificationsConfig{
			Channel: "noop",
		},
		Commands: CommandsConfig{
			StatusReportCron: "@hourly",
			Timeout:          30 * time.Second,
		},
		Activity: ActivityConfig{
			FeedLimit: 10,
		},
	}
}

// Validate checks cross-field consistency before the module boots.
func (cfg Config) Validate() error {
	switch normalize(cfg.Storage.Provider) {
	case "", "memory":
	case "bun":
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, cfg.Storage.Provider)
	}

	if cfg.Features.Logger {
		provider := normalize(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if provider != "gologger" && provider != "noop" {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := normalize(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if format := normalize(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}

	if cfg.Features.Notifications {
		switch normalize(cfg.Notifications.Channel) {
		case "", "noop", "log":
		default:
			return fmt.Errorf("%w: %s", ErrNotifierChannelUnknown, cfg.Notifications.Channel)
		}
	}

	if cfg.Commands.AutoRegisterCron && !cfg.Features.Commands {
		return ErrReportCronRequiresCommands
	}

	if cfg.Activity.FeedLimit < 0 {
		return ErrFeedLimitInvalid
	}

	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedLevel(level string) bool {
	switch level {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	}
	return false
}

func isSupportedFormat(format string) bool {
	switch format {
	case "json", "console", "pretty":
		return true
	}
	return false
}
