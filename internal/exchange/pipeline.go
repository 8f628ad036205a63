package exchange

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"pocketaria/internal/blobcodec"
	"pocketaria/internal/library"
)

// ExportProject converts a song into its transportable document. The song
// is not modified.
func ExportProject(ctx context.Context, project *library.Project) (*ProjectDocument, error) {
	if project == nil {
		return nil, fmt.Errorf("%w: project is nil", ErrInvalidDocument)
	}
	src := project.Clone()
	doc := &ProjectDocument{
		ID:        src.ID,
		Metadata:  src.Metadata,
		Lyrics:    src.Lyrics,
		Scores:    make([]ScoreDocument, len(src.Scores)),
		CuePoints: src.CuePoints,
		Bookmarks: src.Bookmarks,
	}
	if doc.CuePoints == nil {
		doc.CuePoints = []library.CuePoint{}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	if src.AudioTrack != nil {
		audio := src.AudioTrack
		doc.AudioTrack = &AudioTrackDocument{ID: audio.ID, Filename: audio.Filename, Duration: audio.Duration}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			doc.AudioTrack.Blob = blobcodec.Encode(audio.Blob.Data, audio.Blob.Type)
			return nil
		})
	}
	for i, score := range src.Scores {
		doc.Scores[i] = ScoreDocument{ID: score.ID, Type: score.Type, Filename: score.Filename}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			doc.Scores[i].Blob = blobcodec.Encode(score.Blob.Data, score.Blob.Type)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("export project %s: %w", src.ID, err)
	}
	return doc, nil
}

// ImportProject rebuilds a song from its document. It fails with
// ErrInvalidDocument when the id or title is missing or any payload does not
// decode.
func ImportProject(ctx context.Context, doc *ProjectDocument) (*library.Project, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}
	if strings.TrimSpace(doc.ID) == "" {
		return nil, fmt.Errorf("%w: missing project id", ErrInvalidDocument)
	}
	if strings.TrimSpace(doc.Metadata.Title) == "" {
		return nil, fmt.Errorf("%w: project %s: missing metadata title", ErrInvalidDocument, doc.ID)
	}

	project := &library.Project{
		ID:        doc.ID,
		Metadata:  doc.Metadata,
		Lyrics:    doc.Lyrics,
		Scores:    make([]library.Score, len(doc.Scores)),
		CuePoints: doc.CuePoints,
		Bookmarks: doc.Bookmarks,
	}
	if project.CuePoints == nil {
		project.CuePoints = []library.CuePoint{}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	if doc.AudioTrack != nil {
		audio := doc.AudioTrack
		project.AudioTrack = &library.AudioTrack{ID: audio.ID, Filename: audio.Filename, Duration: audio.Duration}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			blob, err := decodeBlob(audio.Blob)
			if err != nil {
				return fmt.Errorf("%w: project %s: audio track: %w", ErrInvalidDocument, doc.ID, err)
			}
			project.AudioTrack.Blob = blob
			return nil
		})
	}
	for i, score := range doc.Scores {
		project.Scores[i] = library.Score{ID: score.ID, Type: score.Type, Filename: score.Filename}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			blob, err := decodeBlob(score.Blob)
			if err != nil {
				return fmt.Errorf("%w: project %s: score %d: %w", ErrInvalidDocument, doc.ID, i, err)
			}
			project.Scores[i].Blob = blob
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return project.Clone(), nil
}

// ExportLibrary wraps songs and playlists in a versioned envelope.
func ExportLibrary(ctx context.Context, projects []*library.Project, playlists []*library.Playlist) (*Envelope, error) {
	env := &Envelope{
		Version:    FormatVersion,
		Projects:   make([]ProjectDocument, len(projects)),
		Playlists:  make([]library.Playlist, 0, len(playlists)),
		ExportedAt: library.NowMillis(),
	}
	g, gctx := errgroup.WithContext(ctx)
	for i, project := range projects {
		g.Go(func() error {
			doc, err := ExportProject(gctx, project)
			if err != nil {
				return err
			}
			env.Projects[i] = *doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, playlist := range playlists {
		if playlist != nil {
			env.Playlists = append(env.Playlists, *playlist.Clone())
		}
	}
	return env, nil
}

// ImportLibrary unpacks an envelope. Envelopes from a different major
// format version are rejected.
func ImportLibrary(ctx context.Context, env *Envelope) ([]*library.Project, []*library.Playlist, error) {
	if env == nil {
		return nil, nil, fmt.Errorf("%w: envelope is nil", ErrInvalidDocument)
	}
	if err := checkVersion(env.Version); err != nil {
		return nil, nil, err
	}

	projects := make([]*library.Project, len(env.Projects))
	g, gctx := errgroup.WithContext(ctx)
	for i := range env.Projects {
		g.Go(func() error {
			project, err := ImportProject(gctx, &env.Projects[i])
			if err != nil {
				return err
			}
			projects[i] = project
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	playlists := make([]*library.Playlist, 0, len(env.Playlists))
	for i := range env.Playlists {
		playlists = append(playlists, env.Playlists[i].Clone())
	}
	return projects, playlists, nil
}

func decodeBlob(text string) (library.Blob, error) {
	data, mimeType, err := blobcodec.Decode(text)
	if err != nil {
		return library.Blob{}, err
	}
	return library.Blob{Type: mimeType, Data: data}, nil
}

func checkVersion(version string) error {
	major, _, _ := strings.Cut(strings.TrimSpace(version), ".")
	want, _, _ := strings.Cut(FormatVersion, ".")
	if major != want {
		return fmt.Errorf("%w: unsupported envelope version %q", ErrInvalidDocument, version)
	}
	return nil
}
