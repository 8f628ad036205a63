package exchange_test

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"pocketaria/internal/blobcodec"
	"pocketaria/internal/exchange"
	"pocketaria/internal/library"
	"pocketaria/internal/testsupport"
)

func TestProjectRoundTripPreservesPayloads(t *testing.T) {
	ctx := context.Background()
	project := testsupport.SampleProject(t)
	original := project.Clone()

	doc, err := exchange.ExportProject(ctx, project)
	if err != nil {
		t.Fatalf("ExportProject failed: %v", err)
	}
	if !strings.HasPrefix(doc.AudioTrack.Blob, "data:audio/mpeg;base64,") {
		t.Fatalf("unexpected audio encoding prefix %q", doc.AudioTrack.Blob[:32])
	}
	for i, score := range doc.Scores {
		if !strings.HasPrefix(score.Blob, "data:"+project.Scores[i].Blob.Type+";base64,") {
			t.Fatalf("score %d not encoded as data URL", i)
		}
	}
	if !reflect.DeepEqual(project, original) {
		t.Fatal("export mutated the source project")
	}

	data, err := exchange.MarshalProject(doc)
	if err != nil {
		t.Fatalf("MarshalProject failed: %v", err)
	}
	parsed, err := exchange.UnmarshalProject(data)
	if err != nil {
		t.Fatalf("UnmarshalProject failed: %v", err)
	}
	restored, err := exchange.ImportProject(ctx, parsed)
	if err != nil {
		t.Fatalf("ImportProject failed: %v", err)
	}
	if !reflect.DeepEqual(restored, original) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", restored.Metadata, original.Metadata)
	}
	if !bytes.Equal(restored.Scores[1].Blob.Data, testsupport.AllBytes()) {
		t.Fatal("every-byte payload changed")
	}
}

func TestExportIsIdempotent(t *testing.T) {
	ctx := context.Background()
	project := testsupport.SampleProject(t)

	first, err := exchange.ExportProject(ctx, project)
	if err != nil {
		t.Fatalf("first export: %v", err)
	}
	second, err := exchange.ExportProject(ctx, project)
	if err != nil {
		t.Fatalf("second export: %v", err)
	}
	a, err := exchange.ImportProject(ctx, first)
	if err != nil {
		t.Fatalf("import first: %v", err)
	}
	b, err := exchange.ImportProject(ctx, second)
	if err != nil {
		t.Fatalf("import second: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatal("repeated exports imported to different songs")
	}
}

func TestEmptyPayloadRoundTrip(t *testing.T) {
	ctx := context.Background()
	project := testsupport.SampleProject(t)
	project.AudioTrack.Blob = library.Blob{Type: "audio/wav", Data: []byte{}}

	doc, err := exchange.ExportProject(ctx, project)
	if err != nil {
		t.Fatalf("ExportProject failed: %v", err)
	}
	if doc.AudioTrack.Blob != "data:audio/wav;base64," {
		t.Fatalf("unexpected empty encoding %q", doc.AudioTrack.Blob)
	}
	restored, err := exchange.ImportProject(ctx, doc)
	if err != nil {
		t.Fatalf("ImportProject failed: %v", err)
	}
	if restored.AudioTrack.Blob.Len() != 0 || restored.AudioTrack.Blob.Type != "audio/wav" {
		t.Fatalf("unexpected restored blob %+v", restored.AudioTrack.Blob)
	}
}

func TestImportProjectRejectsInvalidDocuments(t *testing.T) {
	ctx := context.Background()
	valid := func(t *testing.T) *exchange.ProjectDocument {
		doc, err := exchange.ExportProject(ctx, testsupport.SampleProject(t))
		if err != nil {
			t.Fatalf("ExportProject failed: %v", err)
		}
		return doc
	}

	cases := []struct {
		name      string
		mutate    func(*exchange.ProjectDocument)
		malformed bool
	}{
		{name: "missing id", mutate: func(d *exchange.ProjectDocument) { d.ID = "" }},
		{name: "missing title", mutate: func(d *exchange.ProjectDocument) { d.Metadata.Title = " " }},
		{name: "audio not a data url", mutate: func(d *exchange.ProjectDocument) { d.AudioTrack.Blob = "not-a-blob" }, malformed: true},
		{name: "score bad base64", mutate: func(d *exchange.ProjectDocument) { d.Scores[0].Blob = "data:application/pdf;base64,@@" }, malformed: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := valid(t)
			tc.mutate(doc)
			_, err := exchange.ImportProject(ctx, doc)
			if !errors.Is(err, exchange.ErrInvalidDocument) {
				t.Fatalf("expected ErrInvalidDocument, got %v", err)
			}
			if tc.malformed && !errors.Is(err, blobcodec.ErrMalformedEncoding) {
				t.Fatalf("expected wrapped ErrMalformedEncoding, got %v", err)
			}
		})
	}

	if _, err := exchange.UnmarshalProject([]byte(`{"id": 4`)); !errors.Is(err, exchange.ErrInvalidDocument) {
		t.Fatalf("expected ErrInvalidDocument for broken JSON, got %v", err)
	}
}

func TestUnknownMetadataSurvivesRoundTrip(t *testing.T) {
	ctx := context.Background()
	input := []byte(`{
  "id": "song-1",
  "metadata": {"title": "Caro nome", "createdAt": 1700000000000, "futureField": {"nested": [1, 2, {"deep": true}]}},
  "scores": [],
  "cuePoints": []
}`)
	doc, err := exchange.UnmarshalProject(input)
	if err != nil {
		t.Fatalf("UnmarshalProject failed: %v", err)
	}
	project, err := exchange.ImportProject(ctx, doc)
	if err != nil {
		t.Fatalf("ImportProject failed: %v", err)
	}
	again, err := exchange.ExportProject(ctx, project)
	if err != nil {
		t.Fatalf("ExportProject failed: %v", err)
	}
	data, err := exchange.MarshalProject(again)
	if err != nil {
		t.Fatalf("MarshalProject failed: %v", err)
	}
	if !strings.Contains(string(data), `"futureField"`) || !strings.Contains(string(data), `"deep": true`) {
		t.Fatalf("unknown metadata dropped: %s", data)
	}
}

func TestLibraryRoundTrip(t *testing.T) {
	ctx := context.Background()
	songs := []*library.Project{
		testsupport.SampleProject(t),
		testsupport.SampleProject(t, testsupport.WithTitle("Der Hölle Rache"), testsupport.WithoutBinaries()),
	}
	playlist := library.NewPlaylist("Recital")
	playlist.Append(songs[1].ID)
	playlist.Append(songs[0].ID)

	env, err := exchange.ExportLibrary(ctx, songs, []*library.Playlist{playlist})
	if err != nil {
		t.Fatalf("ExportLibrary failed: %v", err)
	}
	if env.Version != exchange.FormatVersion || env.ExportedAt <= 0 {
		t.Fatalf("unexpected envelope header %q %d", env.Version, env.ExportedAt)
	}

	data, err := exchange.MarshalLibrary(env)
	if err != nil {
		t.Fatalf("MarshalLibrary failed: %v", err)
	}
	if exchange.Detect(data) != exchange.KindLibrary {
		t.Fatalf("expected library document, got %s", exchange.Detect(data))
	}
	parsed, err := exchange.UnmarshalLibrary(data)
	if err != nil {
		t.Fatalf("UnmarshalLibrary failed: %v", err)
	}
	gotSongs, gotPlaylists, err := exchange.ImportLibrary(ctx, parsed)
	if err != nil {
		t.Fatalf("ImportLibrary failed: %v", err)
	}
	if !reflect.DeepEqual(gotSongs, songs) {
		t.Fatal("library songs changed across round trip")
	}
	if len(gotPlaylists) != 1 || !reflect.DeepEqual(gotPlaylists[0], playlist) {
		t.Fatalf("playlists changed across round trip: %+v", gotPlaylists)
	}
}

func TestImportLibraryRejectsUnknownMajorVersion(t *testing.T) {
	env := &exchange.Envelope{Version: "2.0"}
	if _, _, err := exchange.ImportLibrary(context.Background(), env); !errors.Is(err, exchange.ErrInvalidDocument) {
		t.Fatalf("expected ErrInvalidDocument, got %v", err)
	}
	env.Version = "1.3"
	if _, _, err := exchange.ImportLibrary(context.Background(), env); err != nil {
		t.Fatalf("minor version should be accepted: %v", err)
	}
}

func TestDetect(t *testing.T) {
	cases := map[string]exchange.DocumentKind{
		`{"id":"a","metadata":{"title":"x"}}`:             exchange.KindProject,
		`{"version":"1.0","projects":[],"playlists":[]}`: exchange.KindLibrary,
		`[1,2]`:          exchange.KindUnknown,
		`{"other":true}`: exchange.KindUnknown,
		``:               exchange.KindUnknown,
	}
	for input, want := range cases {
		if got := exchange.Detect([]byte(input)); got != want {
			t.Fatalf("Detect(%q) = %s, want %s", input, got, want)
		}
	}
}

func TestFileNames(t *testing.T) {
	if got := exchange.ProjectFileName(`Voi che sapete: "Cherubino"?`); got != "Voi-che-sapete--Cherubino.json" {
		t.Fatalf("unexpected project file name %q", got)
	}
	if got := exchange.ProjectFileName("   "); got != "project.json" {
		t.Fatalf("unexpected fallback name %q", got)
	}
	at := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	if got := exchange.LibraryFileName(at); got != "pocket-aria-library-2026-03-04.json" {
		t.Fatalf("unexpected library file name %q", got)
	}
}
