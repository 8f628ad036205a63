// Package library defines the PocketAria data model: songs (projects) with
// their audio, score, lyrics and practice markers, playlists that sequence
// songs, and primitive key/value settings.
//
// Identifiers are generated once with NewID and never change; they are the
// only key used by the store, playlists and permalinks. Binary payloads live
// in Blob values owned by exactly one project. Playlist mutations always
// renumber item order so Order matches list position.
package library
