package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldEventType classifies a log line for filtering (e.g. store_upgrade_blocked).
	FieldEventType = "event_type"
	// FieldErrorHint tells the reader what to do next.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldProjectID is the standardized key for song identifiers.
	FieldProjectID = "project_id"
	// FieldPlaylistID is the standardized key for playlist identifiers.
	FieldPlaylistID = "playlist_id"
	// FieldSchemaVersion is the standardized key for store schema versions.
	FieldSchemaVersion = "schema_version"
	// FieldPermalinkTag is the standardized key for permalink strategy tags.
	FieldPermalinkTag = "permalink_tag"
	// FieldBytes is the standardized key for payload sizes.
	FieldBytes = "bytes"
)
