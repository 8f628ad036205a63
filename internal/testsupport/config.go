package testsupport

import (
	"path/filepath"
	"testing"

	"pocketaria/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Store.UpgradeWaitSeconds = 5

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithLitterboxEndpoint points the litterbox client at a test server.
func WithLitterboxEndpoint(endpoint string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Litterbox.Endpoint = endpoint
	}
}

// WithShareBaseURL sets the base used for share links.
func WithShareBaseURL(base string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Permalink.ShareBaseURL = base
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
