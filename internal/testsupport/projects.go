package testsupport

import (
	"crypto/rand"
	"testing"

	"pocketaria/internal/library"
)

// ProjectOption customizes SampleProject.
type ProjectOption func(*library.Project)

// AllBytes returns a payload holding every byte value 0..255 once.
func AllBytes() []byte {
	out := make([]byte, 256)
	for i := range out {
		out[i] = byte(i)
	}
	return out
}

// RandomBytes returns n random bytes.
func RandomBytes(t testing.TB, n int) []byte {
	t.Helper()
	out := make([]byte, n)
	if _, err := rand.Read(out); err != nil {
		t.Fatalf("random bytes: %v", err)
	}
	return out
}

// SampleProject builds a fully populated song: random audio, a PDF and an
// image score, HTML lyrics with timestamps, cue points and bookmarks.
func SampleProject(t testing.TB, opts ...ProjectOption) *library.Project {
	t.Helper()

	duration := 184.5
	project := library.NewProject("Voi che sapete")
	project.Metadata.Composer = "Mozart"
	project.Metadata.Genre = library.GenreClassical
	project.Metadata.VoiceType = library.VoiceMezzo
	project.Metadata.Tags = []string{"aria", "le nozze di figaro"}
	project.Metadata.Year = 1786
	project.Metadata.ContentType = library.ContentClassical
	project.Metadata.OperaOrWork = "Le nozze di Figaro"
	project.Metadata.CharacterRole = "Cherubino"
	project.AudioTrack = &library.AudioTrack{
		ID:       library.NewID(),
		Blob:     library.Blob{Type: "audio/mpeg", Data: RandomBytes(t, 48*1024)},
		Filename: "voi-che-sapete.mp3",
		Duration: &duration,
	}
	project.Scores = []library.Score{
		{
			ID:       library.NewID(),
			Type:     library.ScorePDF,
			Blob:     library.Blob{Type: "application/pdf", Data: append([]byte("%PDF-1.7\n"), RandomBytes(t, 16*1024)...)},
			Filename: "score.pdf",
		},
		{
			ID:       library.NewID(),
			Type:     library.ScoreImage,
			Blob:     library.Blob{Type: "image/png", Data: AllBytes()},
			Filename: "page-2.png",
		},
	}
	project.Lyrics = &library.Lyrics{
		ID:                  library.NewID(),
		Format:              library.LyricsHTML,
		Content:             "<p>Voi che sapete</p><p>che cosa è amor</p>",
		Translation:         "You who know what love is",
		TranslationLanguage: "en",
		LrcTimestamps: []library.LrcTimestamp{
			{LineIndex: 0, Timestamp: 12.5},
			{LineIndex: 1, Timestamp: 15.25},
		},
	}
	project.CuePoints = []library.CuePoint{
		{MeasureNumber: 1, Timestamp: 0},
		{MeasureNumber: 9, Timestamp: 12.5, Label: "Voice enters"},
	}
	project.Bookmarks = []library.Bookmark{{ID: library.NewID(), Timestamp: 42}}

	for _, opt := range opts {
		opt(project)
	}
	return project
}

// WithTitle overrides the song title.
func WithTitle(title string) ProjectOption {
	return func(p *library.Project) { p.Metadata.Title = title }
}

// WithComposer overrides the composer.
func WithComposer(composer string) ProjectOption {
	return func(p *library.Project) { p.Metadata.Composer = composer }
}

// WithoutBinaries strips audio and scores so the song fits an inline permalink.
func WithoutBinaries() ProjectOption {
	return func(p *library.Project) {
		p.AudioTrack = nil
		p.Scores = []library.Score{}
	}
}

// WithCreatedAt sets the creation timestamp in epoch milliseconds.
func WithCreatedAt(ms int64) ProjectOption {
	return func(p *library.Project) { p.Metadata.CreatedAt = ms }
}
