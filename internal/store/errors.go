package store

import "errors"

var (
	// ErrNotFound is returned when a record with the requested key does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("store closed")
	// ErrUpgradeBlocked is returned when other connections did not release the
	// database within the configured upgrade wait.
	ErrUpgradeBlocked = errors.New("schema upgrade blocked by open connections")
	// ErrKindUnavailable is returned when a record kind was introduced by a
	// newer schema than the one the store is running.
	ErrKindUnavailable = errors.New("record kind not available in schema")
	// ErrUnknownField is returned by QueryByField for fields that are not indexed.
	ErrUnknownField = errors.New("field is not indexed")
)
