package config

import "time"

const (
	defaultDataDir              = "~/.local/share/pocketaria"
	defaultLogDir               = "~/.local/share/pocketaria/logs"
	defaultStoreFileName        = "library.db"
	defaultBusyTimeoutMS        = 5000
	defaultUpgradeWaitSeconds   = 30
	defaultPermalinkHost        = HostLitterbox
	defaultPermalinkRetention   = "72h"
	defaultPermalinkFilename    = "pocket-aria-project.json"
	defaultInlineWarnLength     = 2000
	defaultLitterboxEndpoint    = "https://litterbox.catbox.moe/resources/internals/api.php"
	defaultLitterboxTimeout     = 120
	defaultS3Prefix             = "permalinks/"
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultLogMaxSizeMB         = 20
	defaultLogMaxBackups        = 5
	defaultLogMaxAgeDays        = 30
	maxS3PresignRetention       = 7 * 24 * time.Hour
	envS3AccessKey              = "POCKETARIA_S3_ACCESS_KEY"
	envS3SecretKey              = "POCKETARIA_S3_SECRET_KEY"
	envPermalinkHost            = "POCKETARIA_PERMALINK_HOST"
	defaultConfigPathExpression = "~/.config/pocketaria/config.toml"
)

// Host names accepted by permalink.host.
const (
	HostLitterbox = "litterbox"
	HostS3        = "s3"
)

// litterboxRetentions lists the expiry windows litterbox accepts.
var litterboxRetentions = map[string]time.Duration{
	"1h":  time.Hour,
	"12h": 12 * time.Hour,
	"24h": 24 * time.Hour,
	"72h": 72 * time.Hour,
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Store: Store{
			FileName:           defaultStoreFileName,
			BusyTimeoutMS:      defaultBusyTimeoutMS,
			UpgradeWaitSeconds: defaultUpgradeWaitSeconds,
		},
		Permalink: Permalink{
			Host:             defaultPermalinkHost,
			Retention:        defaultPermalinkRetention,
			Filename:         defaultPermalinkFilename,
			InlineWarnLength: defaultInlineWarnLength,
		},
		Litterbox: Litterbox{
			Endpoint:       defaultLitterboxEndpoint,
			TimeoutSeconds: defaultLitterboxTimeout,
		},
		S3: S3{
			UseSSL: true,
			Prefix: defaultS3Prefix,
		},
		Logging: Logging{
			Format:     defaultLogFormat,
			Level:      defaultLogLevel,
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
			MaxAgeDays: defaultLogMaxAgeDays,
		},
	}
}
