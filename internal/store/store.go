package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"pocketaria/internal/config"
	"pocketaria/internal/logging"
)

const (
	defaultBusyTimeout = 5 * time.Second
	defaultUpgradeWait = 10 * time.Second
)

// Options configures Open.
type Options struct {
	Path        string
	BusyTimeout time.Duration
	// UpgradeWait bounds how long an upgrade waits for older connections.
	UpgradeWait time.Duration
	Logger      *slog.Logger

	// OnBlocked runs when this connection needs a schema upgrade but other
	// connections still hold the database open.
	OnBlocked func(VersionChange)
	// OnBlocking runs when another connection is waiting to upgrade past this
	// connection's schema. The store closes itself once the callback returns.
	OnBlocking func(VersionChange)

	targetVersion int
}

// OptionsFromConfig builds store options from the loaded configuration.
func OptionsFromConfig(cfg *config.Config, logger *slog.Logger) Options {
	return Options{
		Path:        cfg.StorePath(),
		BusyTimeout: cfg.BusyTimeout(),
		UpgradeWait: cfg.UpgradeWait(),
		Logger:      logger,
	}
}

// Store is an open connection to the library database.
type Store struct {
	db          *sql.DB
	path        string
	version     int
	diskVersion int
	logger      *slog.Logger
	coord       *coordinator
	onBlocking  func(VersionChange)

	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
	blockOnce sync.Once
}

// Open connects to the database at opts.Path, creating it when missing and
// upgrading it to LatestVersion when it is older.
func Open(ctx context.Context, opts Options) (*Store, error) {
	if opts.Path == "" {
		return nil, errors.New("store path is required")
	}
	path, err := filepath.Abs(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("resolve store path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	if opts.BusyTimeout <= 0 {
		opts.BusyTimeout = defaultBusyTimeout
	}
	if opts.UpgradeWait <= 0 {
		opts.UpgradeWait = defaultUpgradeWait
	}
	target := opts.targetVersion
	if target <= 0 || target > LatestVersion {
		target = LatestVersion
	}
	logger := logging.NewComponentLogger(opts.Logger, "store")

	coord := newCoordinator(path)
	if err := coord.acquireShared(ctx, opts.UpgradeWait); err != nil {
		return nil, err
	}

	db, err := openDB(path, opts.BusyTimeout)
	if err != nil {
		_ = coord.release()
		return nil, err
	}
	fail := func(err error) (*Store, error) {
		_ = db.Close()
		_ = coord.release()
		return nil, err
	}

	diskVersion, err := readVersion(ctx, db)
	if err != nil {
		return fail(err)
	}

	if diskVersion < target {
		change := VersionChange{Path: path, OldVersion: diskVersion, NewVersion: target}
		onBlocked := func() {
			logging.WarnWithContext(logger, "schema upgrade waiting for open connections", "store_upgrade_blocked",
				logging.Int("old_version", diskVersion),
				logging.Int(logging.FieldSchemaVersion, target),
				logging.String(logging.FieldErrorHint, "close other PocketAria sessions"),
				logging.String(logging.FieldImpact, "library unavailable until the upgrade completes"),
			)
			if opts.OnBlocked != nil {
				opts.OnBlocked(change)
			}
		}
		if err := coord.acquireExclusive(ctx, opts.UpgradeWait, target, onBlocked); err != nil {
			return fail(err)
		}
		upgraded, err := applyMigrations(ctx, db, target)
		if err != nil {
			return fail(err)
		}
		if upgraded != diskVersion {
			logger.Info("schema upgraded",
				logging.Int("old_version", diskVersion),
				logging.Int(logging.FieldSchemaVersion, upgraded),
			)
		}
		diskVersion = upgraded
		if err := coord.downgrade(ctx, opts.UpgradeWait); err != nil {
			return fail(err)
		}
	} else if diskVersion > target {
		logging.WarnWithContext(logger, "database written by a newer version", "store_newer_schema",
			logging.Int("disk_version", diskVersion),
			logging.Int(logging.FieldSchemaVersion, target),
			logging.String(logging.FieldErrorHint, "upgrade PocketAria to use newer record kinds"),
			logging.String(logging.FieldImpact, "opened without migrating; unknown data is left untouched"),
		)
	}

	if err := applyBackfills(ctx, db, min(target, diskVersion), logger); err != nil {
		return fail(err)
	}

	s := &Store{
		db:          db,
		path:        path,
		version:     min(target, diskVersion),
		diskVersion: diskVersion,
		logger:      logger,
		coord:       coord,
		onBlocking:  opts.OnBlocking,
		done:        make(chan struct{}),
	}
	if err := coord.watch(s.done, logger, s.upgradeRequested); err != nil {
		logging.WarnWithContext(logger, "upgrade requests will not be observed", "store_watch_unavailable",
			logging.Error(err),
			logging.String(logging.FieldImpact, "newer sessions wait for this one to exit"),
		)
	}
	logger.Debug("store opened",
		logging.String("path", path),
		logging.Int(logging.FieldSchemaVersion, s.version),
	)
	return s, nil
}

func openDB(path string, busyTimeout time.Duration) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)",
		path, busyTimeout.Milliseconds())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One connection per store keeps writes ordered within the process.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	return db, nil
}

// upgradeRequested closes the store when another connection waits for a
// schema newer than the one on disk when this store opened.
func (s *Store) upgradeRequested(version int) {
	if version <= s.diskVersion {
		return
	}
	s.blockOnce.Do(func() {
		change := VersionChange{Path: s.path, OldVersion: s.diskVersion, NewVersion: version}
		logging.WarnWithContext(s.logger, "closing connection for schema upgrade", "store_upgrade_blocking",
			logging.Int("old_version", s.diskVersion),
			logging.Int(logging.FieldSchemaVersion, version),
			logging.String(logging.FieldErrorHint, "the store reopens on next use"),
			logging.String(logging.FieldImpact, "in-flight operations may fail with store closed"),
		)
		if s.onBlocking != nil {
			s.onBlocking(change)
		}
		_ = s.Close()
	})
}

// Close releases the database and the shared lock. It is safe to call more
// than once.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	s.closeOnce.Do(func() {
		close(s.done)
		s.closeErr = errors.Join(s.db.Close(), s.coord.release())
	})
	return s.closeErr
}

// Closed is closed once the store has been closed.
func (s *Store) Closed() <-chan struct{} {
	return s.done
}

// IsClosed reports whether Close has run.
func (s *Store) IsClosed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Version reports the schema version this store reads and writes.
func (s *Store) Version() int { return s.version }

// DiskVersion reports the schema version recorded in the database file.
func (s *Store) DiskVersion() int { return s.diskVersion }

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

func (s *Store) checkOpen() error {
	if s == nil || s.IsClosed() {
		return ErrClosed
	}
	return nil
}
