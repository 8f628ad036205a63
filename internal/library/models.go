package library

import (
	"time"

	"github.com/google/uuid"
)

// Genre classifies a song's musical style.
type Genre string

const (
	GenreClassical Genre = "classical"
	GenrePop       Genre = "pop"
	GenreJazz      Genre = "jazz"
	GenreChoir     Genre = "choir"
	GenreFolk      Genre = "folk"
	GenreOther     Genre = "other"
)

// VoiceType identifies the voice part a song targets.
type VoiceType string

const (
	VoiceSoprano  VoiceType = "soprano"
	VoiceMezzo    VoiceType = "mezzo"
	VoiceAlto     VoiceType = "alto"
	VoiceTenor    VoiceType = "tenor"
	VoiceBaritone VoiceType = "baritone"
	VoiceBass     VoiceType = "bass"
	VoiceOther    VoiceType = "other"
)

// ScoreType identifies the format of a sheet-music artifact.
type ScoreType string

const (
	ScoreMusicXML ScoreType = "musicxml"
	ScorePDF      ScoreType = "pdf"
	ScoreImage    ScoreType = "image"
)

// LyricsFormat identifies how lyrics content is marked up.
type LyricsFormat string

const (
	LyricsText     LyricsFormat = "text"
	LyricsMarkdown LyricsFormat = "markdown"
	LyricsHTML     LyricsFormat = "html"
)

// ContentType categorizes what a song is used for.
type ContentType string

const (
	ContentClassical        ContentType = "classical"
	ContentKaraoke          ContentType = "karaoke"
	ContentLanguageLearning ContentType = "language-learning"
	ContentOther            ContentType = "other"
)

// Difficulty grades karaoke content.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyExpert Difficulty = "expert"
)

// Blob is an opaque binary payload with its MIME type.
type Blob struct {
	Type string `json:"type"`
	Data []byte `json:"data"`
}

// Len reports the payload size in bytes.
func (b Blob) Len() int { return len(b.Data) }

// AudioTrack is the single recording attached to a song.
type AudioTrack struct {
	ID       string   `json:"id"`
	Blob     Blob     `json:"blob"`
	Filename string   `json:"filename"`
	Duration *float64 `json:"duration,omitempty"` // seconds
}

// Score is a sheet-music artifact.
type Score struct {
	ID       string    `json:"id"`
	Type     ScoreType `json:"type"`
	Blob     Blob      `json:"blob"`
	Filename string    `json:"filename"`
}

// LrcTimestamp ties a lyrics line to a playback position in seconds.
type LrcTimestamp struct {
	LineIndex int     `json:"lineIndex"`
	Timestamp float64 `json:"timestamp"`
}

// Lyrics holds the song text and optional translation.
type Lyrics struct {
	ID                  string         `json:"id"`
	Format              LyricsFormat   `json:"format"`
	Content             string         `json:"content"`
	Translation         string         `json:"translation,omitempty"`
	TranslationLanguage string         `json:"translationLanguage,omitempty"`
	LrcTimestamps       []LrcTimestamp `json:"lrcTimestamps,omitempty"`
}

// CuePoint maps a score measure to a playback position in seconds.
type CuePoint struct {
	MeasureNumber int     `json:"measureNumber"`
	Timestamp     float64 `json:"timestamp"`
	Label         string  `json:"label,omitempty"`
}

// Bookmark marks a playback position in seconds.
type Bookmark struct {
	ID        string  `json:"id"`
	Timestamp float64 `json:"timestamp"`
}

// Project is a song: metadata plus optional audio, lyrics and scores.
type Project struct {
	ID         string      `json:"id"`
	Metadata   Metadata    `json:"metadata"`
	AudioTrack *AudioTrack `json:"audioTrack,omitempty"`
	Lyrics     *Lyrics     `json:"lyrics,omitempty"`
	Scores     []Score     `json:"scores"`
	CuePoints  []CuePoint  `json:"cuePoints"`
	Bookmarks  []Bookmark  `json:"bookmarks,omitempty"`
}

// NewID returns a fresh identifier for projects, playlists and their parts.
func NewID() string {
	return uuid.NewString()
}

// NowMillis returns the current time as epoch milliseconds, the timestamp
// unit used throughout documents.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}

// NewProject creates an empty song with a generated identifier and creation
// timestamp.
func NewProject(title string) *Project {
	return &Project{
		ID: NewID(),
		Metadata: Metadata{
			Title:     title,
			CreatedAt: NowMillis(),
		},
		Scores:    []Score{},
		CuePoints: []CuePoint{},
	}
}

// IsEmpty reports whether the song carries no audio, scores or lyrics.
func (p *Project) IsEmpty() bool {
	return p.AudioTrack == nil && len(p.Scores) == 0 && p.Lyrics == nil
}

// PayloadBytes sums the sizes of every binary payload in the song.
func (p *Project) PayloadBytes() int64 {
	var total int64
	if p.AudioTrack != nil {
		total += int64(p.AudioTrack.Blob.Len())
	}
	for _, score := range p.Scores {
		total += int64(score.Blob.Len())
	}
	return total
}

// Clone returns a deep copy of the project, including binary payloads.
func (p *Project) Clone() *Project {
	if p == nil {
		return nil
	}
	out := *p
	out.Metadata = p.Metadata.clone()
	if p.AudioTrack != nil {
		audio := *p.AudioTrack
		audio.Blob = p.AudioTrack.Blob.clone()
		if p.AudioTrack.Duration != nil {
			d := *p.AudioTrack.Duration
			audio.Duration = &d
		}
		out.AudioTrack = &audio
	}
	if p.Lyrics != nil {
		lyrics := *p.Lyrics
		lyrics.LrcTimestamps = cloneSlice(p.Lyrics.LrcTimestamps)
		out.Lyrics = &lyrics
	}
	if p.Scores != nil {
		out.Scores = make([]Score, len(p.Scores))
		for i, score := range p.Scores {
			score.Blob = score.Blob.clone()
			out.Scores[i] = score
		}
	}
	out.CuePoints = cloneSlice(p.CuePoints)
	out.Bookmarks = cloneSlice(p.Bookmarks)
	return &out
}

func (b Blob) clone() Blob {
	if b.Data == nil {
		return Blob{Type: b.Type}
	}
	data := make([]byte, len(b.Data))
	copy(data, b.Data)
	return Blob{Type: b.Type, Data: data}
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
