package library

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingID reports a record without an identifier.
	ErrMissingID = errors.New("id is required")
	// ErrMissingTitle reports a song without a title.
	ErrMissingTitle = errors.New("metadata title is required")
)

var scoreTypes = map[ScoreType]struct{}{ScoreMusicXML: {}, ScorePDF: {}, ScoreImage: {}}

var lyricsFormats = map[LyricsFormat]struct{}{LyricsText: {}, LyricsMarkdown: {}, LyricsHTML: {}}

// Validate checks the fields every stored or imported song must carry.
func (p *Project) Validate() error {
	if p == nil {
		return errors.New("project is nil")
	}
	if strings.TrimSpace(p.ID) == "" {
		return ErrMissingID
	}
	if strings.TrimSpace(p.Metadata.Title) == "" {
		return ErrMissingTitle
	}
	for i, score := range p.Scores {
		if _, ok := scoreTypes[score.Type]; !ok {
			return fmt.Errorf("score %d: unknown type %q", i, score.Type)
		}
	}
	if p.Lyrics != nil {
		if _, ok := lyricsFormats[p.Lyrics.Format]; !ok {
			return fmt.Errorf("lyrics: unknown format %q", p.Lyrics.Format)
		}
	}
	return nil
}

// ParseScoreType maps a string onto a known score type.
func ParseScoreType(value string) (ScoreType, bool) {
	t := ScoreType(strings.ToLower(strings.TrimSpace(value)))
	_, ok := scoreTypes[t]
	return t, ok
}

// ParseLyricsFormat maps a string onto a known lyrics format.
func ParseLyricsFormat(value string) (LyricsFormat, bool) {
	f := LyricsFormat(strings.ToLower(strings.TrimSpace(value)))
	_, ok := lyricsFormats[f]
	return f, ok
}
