package ingest_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"pocketaria/internal/ingest"
	"pocketaria/internal/library"
	"pocketaria/internal/testsupport"
)

// id3v23 builds an ID3v2.3 tag with ISO-8859-1 text frames followed by a
// fake MPEG frame.
func id3v23(frames map[string]string) []byte {
	var body bytes.Buffer
	for _, id := range []string{"TIT2", "TCOM", "TPE1", "TCON", "TYER"} {
		text, ok := frames[id]
		if !ok {
			continue
		}
		body.WriteString(id)
		_ = binary.Write(&body, binary.BigEndian, uint32(len(text)+1))
		body.Write([]byte{0, 0, 0})
		body.WriteString(text)
	}
	size := body.Len()
	header := []byte{'I', 'D', '3', 3, 0, 0,
		byte(size>>21) & 0x7f, byte(size>>14) & 0x7f, byte(size>>7) & 0x7f, byte(size) & 0x7f}
	out := append(header, body.Bytes()...)
	return append(out, 0xFF, 0xFB, 0x90, 0x00)
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestBuildPrefillsFromAudioTags(t *testing.T) {
	dir := t.TempDir()
	audio := writeFile(t, dir, "track01.mp3", id3v23(map[string]string{
		"TIT2": "Casta diva",
		"TCOM": "Bellini",
		"TPE1": "Maria Callas",
		"TCON": "Opera",
		"TYER": "1954",
	}))
	pdf := writeFile(t, dir, "Casta Diva.pdf", append([]byte("%PDF-1.4\n"), testsupport.RandomBytes(t, 512)...))
	png := writeFile(t, dir, "page.png", append([]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, testsupport.RandomBytes(t, 64)...))
	xml := writeFile(t, dir, "casta.musicxml", []byte(`<?xml version="1.0"?><score-partwise/>`))
	lyrics := writeFile(t, dir, "casta.lrc", []byte("[00:05.00]Casta diva, che inargenti\n[00:11.50]queste sacre antiche piante"))

	project, err := ingest.Build(context.Background(), ingest.Sources{
		Metadata: library.Metadata{VoiceType: library.VoiceSoprano, Composer: "Vincenzo Bellini"},
		Audio:    audio,
		Scores:   []string{pdf, png, xml},
		Lyrics:   lyrics,
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	m := project.Metadata
	if m.Title != "Casta diva" || m.Composer != "Vincenzo Bellini" || m.Artist != "Maria Callas" {
		t.Fatalf("unexpected prefill %+v", m)
	}
	if m.Genre != library.GenreClassical || m.Year != 1954 || m.VoiceType != library.VoiceSoprano {
		t.Fatalf("unexpected genre/year/voice %q %d %q", m.Genre, m.Year, m.VoiceType)
	}
	if m.CreatedAt == 0 {
		t.Fatal("expected creation timestamp")
	}
	if project.AudioTrack.Blob.Type != "audio/mpeg" || project.AudioTrack.Filename != "track01.mp3" {
		t.Fatalf("unexpected audio track %q %q", project.AudioTrack.Blob.Type, project.AudioTrack.Filename)
	}

	wantTypes := []library.ScoreType{library.ScorePDF, library.ScoreImage, library.ScoreMusicXML}
	for i, score := range project.Scores {
		if score.Type != wantTypes[i] {
			t.Fatalf("score %d: got type %q want %q", i, score.Type, wantTypes[i])
		}
	}
	if project.Scores[2].Blob.Type != "application/vnd.recordare.musicxml+xml" {
		t.Fatalf("unexpected musicxml mime %q", project.Scores[2].Blob.Type)
	}

	if project.Lyrics.Content != "Casta diva, che inargenti\nqueste sacre antiche piante" {
		t.Fatalf("unexpected lyrics content %q", project.Lyrics.Content)
	}
	want := []library.LrcTimestamp{{LineIndex: 0, Timestamp: 5}, {LineIndex: 1, Timestamp: 11.5}}
	if !reflect.DeepEqual(project.Lyrics.LrcTimestamps, want) {
		t.Fatalf("unexpected timestamps %+v", project.Lyrics.LrcTimestamps)
	}
}

func TestBuildFallsBackToFileName(t *testing.T) {
	dir := t.TempDir()
	audio := writeFile(t, dir, "Lascia ch'io pianga.wav", []byte("RIFF\x24\x00\x00\x00WAVEfmt "))

	project, err := ingest.Build(context.Background(), ingest.Sources{Audio: audio})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if project.Metadata.Title != "Lascia ch'io pianga" {
		t.Fatalf("unexpected fallback title %q", project.Metadata.Title)
	}
	if project.Metadata.Composer != "" || project.Metadata.Genre != "" {
		t.Fatalf("untagged audio should not prefill: %+v", project.Metadata)
	}
}

func TestBuildRejectsUnsupportedFiles(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		name string
		src  ingest.Sources
	}{
		{"score", ingest.Sources{Metadata: library.Metadata{Title: "x"}, Scores: []string{writeFile(t, dir, "notes.docx", []byte("PK\x03\x04"))}}},
		{"lyrics", ingest.Sources{Metadata: library.Metadata{Title: "x"}, Lyrics: writeFile(t, dir, "words.rtf", []byte("{\\rtf1}"))}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ingest.Build(context.Background(), tc.src); !errors.Is(err, ingest.ErrUnsupportedFile) {
				t.Fatalf("expected ErrUnsupportedFile, got %v", err)
			}
		})
	}

	if _, err := ingest.Build(context.Background(), ingest.Sources{Audio: filepath.Join(dir, "missing.mp3")}); err == nil {
		t.Fatal("expected error for missing audio file")
	}
	if _, err := ingest.Build(context.Background(), ingest.Sources{}); !errors.Is(err, library.ErrMissingTitle) {
		t.Fatalf("expected ErrMissingTitle without any title source, got %v", err)
	}
}

func TestLyricsFormats(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]library.LyricsFormat{
		"a.txt":  library.LyricsText,
		"b.md":   library.LyricsMarkdown,
		"c.html": library.LyricsHTML,
		"d.LRC":  library.LyricsText,
	}
	for name, want := range cases {
		lyrics, err := ingest.Lyrics(writeFile(t, dir, name, []byte("la la")))
		if err != nil {
			t.Fatalf("Lyrics(%s) failed: %v", name, err)
		}
		if lyrics.Format != want {
			t.Fatalf("Lyrics(%s) format %q, want %q", name, lyrics.Format, want)
		}
	}
}
