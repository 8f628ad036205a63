// Command pocketaria manages a local PocketAria song library: songs with
// audio, scores and lyrics, practice playlists, settings, JSON export and
// import, and shareable permalinks.
package main
