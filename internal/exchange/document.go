package exchange

import (
	"errors"

	"pocketaria/internal/library"
)

// FormatVersion tags every library envelope this build writes.
const FormatVersion = "1.0"

// ErrInvalidDocument reports a document that is missing required fields or
// embeds a payload that cannot be decoded.
var ErrInvalidDocument = errors.New("invalid document")

// AudioTrackDocument is an AudioTrack with its payload as data-URL text.
type AudioTrackDocument struct {
	ID       string   `json:"id"`
	Blob     string   `json:"blob"`
	Filename string   `json:"filename"`
	Duration *float64 `json:"duration,omitempty"`
}

// ScoreDocument is a Score with its payload as data-URL text.
type ScoreDocument struct {
	ID       string            `json:"id"`
	Type     library.ScoreType `json:"type"`
	Blob     string            `json:"blob"`
	Filename string            `json:"filename"`
}

// ProjectDocument is the transportable form of a song.
type ProjectDocument struct {
	ID         string              `json:"id"`
	Metadata   library.Metadata    `json:"metadata"`
	AudioTrack *AudioTrackDocument `json:"audioTrack,omitempty"`
	Lyrics     *library.Lyrics     `json:"lyrics,omitempty"`
	Scores     []ScoreDocument     `json:"scores"`
	CuePoints  []library.CuePoint  `json:"cuePoints"`
	Bookmarks  []library.Bookmark  `json:"bookmarks,omitempty"`
}

// Envelope is a whole-library export.
type Envelope struct {
	Version    string             `json:"version"`
	Projects   []ProjectDocument  `json:"projects"`
	Playlists  []library.Playlist `json:"playlists"`
	ExportedAt int64              `json:"exportedAt"`
}
