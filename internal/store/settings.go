package store

import (
	"context"
	"errors"

	"pocketaria/internal/library"
)

// Settings stores primitive key/value pairs.
var Settings = Kind[library.Setting]{
	Name:  "settings",
	Since: 1,
	Key:   func(s *library.Setting) string { return s.Key },
}

// SaveSetting upserts a setting. Last write wins.
func (s *Store) SaveSetting(ctx context.Context, key string, value any) error {
	setting, err := library.NewSetting(key, value)
	if err != nil {
		return err
	}
	return Put(ctx, s, Settings, &setting)
}

// GetSetting returns the stored setting. A missing key reports ok=false and
// no error, which callers treat as "no preference set".
func (s *Store) GetSetting(ctx context.Context, key string) (library.Setting, bool, error) {
	setting, err := Get(ctx, s, Settings, key)
	if errors.Is(err, ErrNotFound) {
		return library.Setting{Key: key}, false, nil
	}
	if err != nil {
		return library.Setting{}, false, err
	}
	return *setting, true, nil
}

// GetAllSettings returns every setting ordered by key.
func (s *Store) GetAllSettings(ctx context.Context) ([]*library.Setting, error) {
	return GetAll(ctx, s, Settings)
}

// DeleteSetting removes a setting if present.
func (s *Store) DeleteSetting(ctx context.Context, key string) error {
	return Delete(ctx, s, Settings, key)
}
