// Package exchange converts songs and whole libraries to and from the JSON
// documents used for export files and permalinks.
//
// A ProjectDocument is the song shape with every binary payload replaced by
// its blobcodec data-URL text. The conversion is typed: only AudioTrack and
// Score blobs change form, everything else (metadata extras included) is
// copied across unchanged. Payload transforms within one song or library run
// concurrently and all complete before a document is returned.
//
// An Envelope wraps many song documents with the user's playlists, a format
// version and an export timestamp.
package exchange
