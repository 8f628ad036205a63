// Package lrc reads and writes timestamped lyrics in the LRC style used by
// the lyrics editor: each synchronized line starts with a [MM:SS.xx] tag.
// Timestamps are kept apart from the text as library.LrcTimestamp values
// keyed by zero-based line index.
package lrc
