package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"

	"pocketaria/internal/blobcodec"
	"pocketaria/internal/library"
	"pocketaria/internal/logging"
	"pocketaria/internal/lrc"
)

// ErrUnsupportedFile reports a score or lyrics file of unknown type.
var ErrUnsupportedFile = errors.New("unsupported file type")

// Sources lists the files that make up one song. Metadata fields left empty
// are filled from audio tags when possible.
type Sources struct {
	Metadata library.Metadata
	Audio    string
	Scores   []string
	Lyrics   string
	Logger   *slog.Logger
}

// Build reads every source file and returns a validated song.
func Build(ctx context.Context, src Sources) (*library.Project, error) {
	logger := logging.NewComponentLogger(src.Logger, "ingest")
	project := library.NewProject(src.Metadata.Title)
	created := project.Metadata.CreatedAt
	project.Metadata = src.Metadata
	if project.Metadata.CreatedAt == 0 {
		project.Metadata.CreatedAt = created
	}

	if src.Audio != "" {
		audio, tags, err := Audio(src.Audio)
		if err != nil {
			return nil, err
		}
		project.AudioTrack = audio
		prefill(&project.Metadata, tags)
		if !strings.HasPrefix(audio.Blob.Type, "audio/") {
			logging.WarnWithContext(logger, "audio file type not recognized", "ingest_audio_type",
				logging.String("path", src.Audio),
				logging.String("mime", audio.Blob.Type),
				logging.String(logging.FieldErrorHint, "check the file is an audio recording"),
				logging.String(logging.FieldImpact, "playback may fail"),
			)
		}
	}
	for _, path := range src.Scores {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		score, err := Score(path)
		if err != nil {
			return nil, err
		}
		project.Scores = append(project.Scores, score)
	}
	if src.Lyrics != "" {
		lyrics, err := Lyrics(src.Lyrics)
		if err != nil {
			return nil, err
		}
		project.Lyrics = lyrics
	}

	if strings.TrimSpace(project.Metadata.Title) == "" {
		project.Metadata.Title = fallbackTitle(src)
	}
	if err := project.Validate(); err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}
	logger.Debug("song built from files",
		logging.String(logging.FieldProjectID, project.ID),
		logging.Int("scores", len(project.Scores)),
		logging.Int64(logging.FieldBytes, project.PayloadBytes()),
	)
	return project, nil
}

// Audio reads a recording and whatever tags it carries. Files without tags
// return nil tags.
func Audio(path string) (*library.AudioTrack, tag.Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read audio: %w", err)
	}
	name := filepath.Base(path)
	track := &library.AudioTrack{
		ID:       library.NewID(),
		Blob:     library.Blob{Type: blobcodec.DetectMIME(data, name), Data: data},
		Filename: name,
	}
	meta, err := tag.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return track, nil, nil
	}
	return track, meta, nil
}

// Score reads a sheet-music file. PDFs, images and MusicXML are accepted.
func Score(path string) (library.Score, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return library.Score{}, fmt.Errorf("read score: %w", err)
	}
	name := filepath.Base(path)
	mimeType := blobcodec.DetectMIME(data, name)
	scoreType, ok := scoreTypeFor(name, mimeType)
	if !ok {
		return library.Score{}, fmt.Errorf("%w: score %s (%s)", ErrUnsupportedFile, name, mimeType)
	}
	return library.Score{
		ID:       library.NewID(),
		Type:     scoreType,
		Blob:     library.Blob{Type: mimeType, Data: data},
		Filename: name,
	}, nil
}

func scoreTypeFor(name, mimeType string) (library.ScoreType, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return library.ScorePDF, true
	case ".xml", ".musicxml", ".mxl":
		return library.ScoreMusicXML, true
	}
	switch {
	case mimeType == "application/pdf":
		return library.ScorePDF, true
	case blobcodec.IsImage(mimeType):
		return library.ScoreImage, true
	}
	return "", false
}

// Lyrics reads a lyrics file. LRC files are split into plain text and
// line timestamps.
func Lyrics(path string) (*library.Lyrics, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lyrics: %w", err)
	}
	lyrics := &library.Lyrics{ID: library.NewID(), Content: string(data)}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		lyrics.Format = library.LyricsText
	case ".md", ".markdown":
		lyrics.Format = library.LyricsMarkdown
	case ".html", ".htm":
		lyrics.Format = library.LyricsHTML
	case ".lrc":
		lyrics.Format = library.LyricsText
		lyrics.Content, lyrics.LrcTimestamps = lrc.ParseContent(lyrics.Content)
	default:
		return nil, fmt.Errorf("%w: lyrics %s", ErrUnsupportedFile, filepath.Base(path))
	}
	return lyrics, nil
}

func prefill(m *library.Metadata, tags tag.Metadata) {
	if tags == nil {
		return
	}
	if m.Title == "" {
		m.Title = strings.TrimSpace(tags.Title())
	}
	if m.Composer == "" {
		m.Composer = strings.TrimSpace(tags.Composer())
	}
	if m.Artist == "" {
		m.Artist = strings.TrimSpace(tags.Artist())
	}
	if m.Genre == "" {
		m.Genre = genreFor(tags.Genre())
	}
	if m.Year == 0 && tags.Year() > 0 {
		m.Year = tags.Year()
	}
}

// genreFor maps free-form tag genres onto the library's genres.
func genreFor(value string) library.Genre {
	value = strings.ToLower(strings.TrimSpace(value))
	switch {
	case value == "":
		return ""
	case strings.Contains(value, "classical"), strings.Contains(value, "opera"):
		return library.GenreClassical
	case strings.Contains(value, "choir"), strings.Contains(value, "choral"):
		return library.GenreChoir
	case strings.Contains(value, "jazz"):
		return library.GenreJazz
	case strings.Contains(value, "folk"):
		return library.GenreFolk
	case strings.Contains(value, "pop"):
		return library.GenrePop
	default:
		return library.GenreOther
	}
}

func fallbackTitle(src Sources) string {
	candidates := append([]string{src.Audio}, src.Scores...)
	candidates = append(candidates, src.Lyrics)
	for _, path := range candidates {
		if path == "" {
			continue
		}
		base := filepath.Base(path)
		if title := strings.TrimSpace(strings.TrimSuffix(base, filepath.Ext(base))); title != "" {
			return title
		}
	}
	return ""
}
