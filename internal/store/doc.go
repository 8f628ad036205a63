// Package store persists songs, playlists and settings in a local SQLite
// database.
//
// Each record kind lives in its own table keyed by the record identifier.
// The full record is stored as JSON next to a handful of indexed columns
// that back secondary lookups (folded title and composer substrings, genre,
// voice type, creation time). Kinds are described by typed Kind descriptors
// and accessed through the generic Put, Get, GetAll, Delete and QueryByField
// functions; the Store methods in projects.go, playlists.go and settings.go
// are typed conveniences over them.
//
// Schema versions are embedded SQL migrations applied in order and recorded
// in schema_migrations. Migrations only add tables, columns and indexes, so a
// database written by a newer build stays readable by an older one.
//
// Connections coordinate through an advisory lock file next to the database.
// Open connections hold it shared. A connection that needs to upgrade the
// schema asks for it exclusively; while other connections hold it, the
// upgrader reports OnBlocked and drops an upgrade marker, and every older
// connection reports OnBlocking and closes itself. Manager owns the single
// live Store for a process and reopens it after such a close.
package store
