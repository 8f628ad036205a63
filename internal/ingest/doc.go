// Package ingest builds songs from files on disk: an audio recording, any
// number of score files, and a lyrics file. Audio tags prefill metadata the
// caller left empty.
package ingest
