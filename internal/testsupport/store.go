package testsupport

import (
	"context"
	"testing"

	"pocketaria/internal/config"
	"pocketaria/internal/logging"
	"pocketaria/internal/store"
)

// MustOpenStore opens a store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	s, err := store.Open(context.Background(), store.OptionsFromConfig(cfg, logging.NewNop()))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}
