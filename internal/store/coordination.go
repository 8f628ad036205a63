package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gofrs/flock"

	"pocketaria/internal/logging"
)

const lockRetryDelay = 25 * time.Millisecond

// VersionChange describes a schema upgrade that involves more than one
// connection to the same database.
type VersionChange struct {
	Path       string
	OldVersion int
	NewVersion int
}

// coordinator serializes schema upgrades across every connection to one
// database file, in this process or another.
type coordinator struct {
	lock       *flock.Flock
	markerPath string
}

func newCoordinator(dbPath string) *coordinator {
	return &coordinator{
		lock:       flock.New(dbPath + ".lock"),
		markerPath: dbPath + ".upgrade",
	}
}

func (c *coordinator) acquireShared(ctx context.Context, wait time.Duration) error {
	waitCtx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()
	ok, err := c.lock.TryRLockContext(waitCtx, lockRetryDelay)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("acquire shared lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: shared lock not granted within %s", ErrUpgradeBlocked, wait)
	}
	return nil
}

// acquireExclusive trades the caller's shared lock for an exclusive one.
// When other connections hold the lock, onBlocked runs once and an upgrade
// marker asks them to close.
func (c *coordinator) acquireExclusive(ctx context.Context, wait time.Duration, target int, onBlocked func()) error {
	if err := c.lock.Unlock(); err != nil {
		return fmt.Errorf("release shared lock: %w", err)
	}
	ok, err := c.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire exclusive lock: %w", err)
	}
	if ok {
		return nil
	}

	onBlocked()
	if err := c.writeMarker(target); err != nil {
		return err
	}
	defer c.removeMarker()

	waitCtx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()
	ok, err = c.lock.TryLockContext(waitCtx, lockRetryDelay)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("acquire exclusive lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: waited %s", ErrUpgradeBlocked, wait)
	}
	return nil
}

func (c *coordinator) downgrade(ctx context.Context, wait time.Duration) error {
	if err := c.lock.Unlock(); err != nil {
		return fmt.Errorf("release exclusive lock: %w", err)
	}
	return c.acquireShared(ctx, wait)
}

func (c *coordinator) release() error {
	return c.lock.Unlock()
}

func (c *coordinator) writeMarker(version int) error {
	tmp := c.markerPath + ".tmp"
	if err := os.WriteFile(tmp, []byte(strconv.Itoa(version)), 0o644); err != nil {
		return fmt.Errorf("write upgrade marker: %w", err)
	}
	if err := os.Rename(tmp, c.markerPath); err != nil {
		return fmt.Errorf("publish upgrade marker: %w", err)
	}
	return nil
}

func (c *coordinator) removeMarker() {
	_ = os.Remove(c.markerPath)
}

// requestedVersion reads the version an upgrader is waiting for.
func (c *coordinator) requestedVersion() (int, bool) {
	data, err := os.ReadFile(c.markerPath)
	if err != nil {
		return 0, false
	}
	version, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, false
	}
	return version, true
}

// watch reports upgrade requests until done is closed. A marker already
// present when watching starts is reported immediately.
func (c *coordinator) watch(done <-chan struct{}, logger *slog.Logger, onRequest func(version int)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(c.markerPath)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(c.markerPath), err)
	}

	go func() {
		defer watcher.Close()
		if version, ok := c.requestedVersion(); ok {
			onRequest(version)
		}
		for {
			select {
			case <-done:
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != c.markerPath {
					continue
				}
				if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
					continue
				}
				if version, ok := c.requestedVersion(); ok {
					onRequest(version)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("upgrade marker watch error",
					logging.Error(err),
					logging.String(logging.FieldEventType, "store_watch_error"),
				)
			}
		}
	}()
	return nil
}
