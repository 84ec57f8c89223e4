package studio

import "github.com/goliatone/go-studio/internal/runtimeconfig"

var (
	ErrStorageProviderUnknown     = runtimeconfig.ErrStorageProviderUnknown
	ErrStorageDSNRequired         = runtimeconfig.ErrStorageDSNRequired
	ErrLoggingProviderRequired    = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown     = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid        = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid       = runtimeconfig.ErrLoggingFormatInvalid
	ErrNotifierChannelUnknown     = runtimeconfig.ErrNotifierChannelUnknown
	ErrReportCronRequiresCommands = runtimeconfig.ErrReportCronRequiresCommands
	ErrFeedLimitInvalid           = runtimeconfig.ErrFeedLimitInvalid
)

type (
	Config              = runtimeconfig.Config
	StorageConfig       = runtimeconfig.StorageConfig
	LoggingConfig       = runtimeconfig.LoggingConfig
	NotificationsConfig = runtimeconfig.NotificationsConfig
	CommandsConfig      = runtimeconfig.CommandsConfig
	ActivityConfig      = runtimeconfig.ActivityConfig
	Features            = runtimeconfig.Features
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
