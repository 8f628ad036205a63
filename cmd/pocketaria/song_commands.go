package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"pocketaria/internal/ingest"
	"pocketaria/internal/library"
	"pocketaria/internal/lrc"
	"pocketaria/internal/search"
	"pocketaria/internal/store"
)

type songSummary struct {
	ID           string            `json:"id"`
	Title        string            `json:"title"`
	Composer     string            `json:"composer,omitempty"`
	Genre        library.Genre     `json:"genre,omitempty"`
	VoiceType    library.VoiceType `json:"voiceType,omitempty"`
	Scores       int               `json:"scores"`
	HasAudio     bool              `json:"hasAudio"`
	HasLyrics    bool              `json:"hasLyrics"`
	PayloadBytes int64             `json:"payloadBytes"`
	CreatedAt    int64             `json:"createdAt"`
	Score        float64           `json:"score,omitempty"`
}

func summarize(p *library.Project) songSummary {
	return songSummary{
		ID:           p.ID,
		Title:        p.Metadata.Title,
		Composer:     p.Metadata.Composer,
		Genre:        p.Metadata.Genre,
		VoiceType:    p.Metadata.VoiceType,
		Scores:       len(p.Scores),
		HasAudio:     p.AudioTrack != nil,
		HasLyrics:    p.Lyrics != nil,
		PayloadBytes: p.PayloadBytes(),
		CreatedAt:    p.Metadata.CreatedAt,
	}
}

func newSongCommand(ctx *commandContext) *cobra.Command {
	songCmd := &cobra.Command{
		Use:     "song",
		Aliases: []string{"songs"},
		Short:   "Manage songs in the library",
	}
	songCmd.AddCommand(newSongListCommand(ctx))
	songCmd.AddCommand(newSongShowCommand(ctx))
	songCmd.AddCommand(newSongAddCommand(ctx))
	songCmd.AddCommand(newSongDeleteCommand(ctx))
	return songCmd
}

func newSongListCommand(ctx *commandContext) *cobra.Command {
	var query store.ProjectQuery
	var genre, voice, text string
	var newest bool
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List songs, optionally filtered",
		RunE: func(cmd *cobra.Command, args []string) error {
			query.Genre = library.Genre(strings.ToLower(strings.TrimSpace(genre)))
			query.VoiceType = library.VoiceType(strings.ToLower(strings.TrimSpace(voice)))

			var projects []*library.Project
			var scores map[string]float64
			err := ctx.withStore(cmd.Context(), func(m *store.Manager) error {
				s, err := m.EnsureOpen(cmd.Context())
				if err != nil {
					return err
				}
				switch {
				case strings.TrimSpace(text) != "":
					projects, scores, err = fullTextSearch(cmd.Context(), s, query, text, limit)
				case newest:
					projects, err = s.ProjectsByCreated(cmd.Context())
				default:
					projects, err = s.SearchProjects(cmd.Context(), query)
				}
				return err
			})
			if err != nil {
				return err
			}
			if newest {
				projects = filterProjects(projects, query)
			}

			if ctx.jsonOutput() {
				out := make([]songSummary, 0, len(projects))
				for _, p := range projects {
					summary := summarize(p)
					summary.Score = scores[p.ID]
					out = append(out, summary)
				}
				return writeJSON(cmd, out)
			}
			if len(projects) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No songs found")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(songHeaders, songRows(projects), songAligns, songFooter(projects)...))
			return nil
		},
	}

	cmd.Flags().StringVar(&query.Title, "title", "", "Title contains (case and accent insensitive)")
	cmd.Flags().StringVar(&query.Composer, "composer", "", "Composer contains (case and accent insensitive)")
	cmd.Flags().StringVar(&genre, "genre", "", "Genre equals")
	cmd.Flags().StringVar(&voice, "voice", "", "Voice type equals")
	cmd.Flags().StringVarP(&text, "search", "s", "", "Ranked search over titles, composers, tags and lyrics")
	cmd.Flags().BoolVar(&newest, "newest", false, "Sort by creation time, newest first")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum results for --search")
	return cmd
}

func fullTextSearch(ctx context.Context, s *store.Store, query store.ProjectQuery, text string, limit int) ([]*library.Project, map[string]float64, error) {
	candidates, err := s.SearchProjects(ctx, query)
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[string]*library.Project, len(candidates))
	for _, p := range candidates {
		byID[p.ID] = p
	}
	index := search.NewIndex(candidates...)
	results := index.Search(text, limit)
	projects := make([]*library.Project, 0, len(results))
	scores := make(map[string]float64, len(results))
	for _, r := range results {
		projects = append(projects, byID[r.ID])
		scores[r.ID] = r.Score
	}
	return projects, scores, nil
}

func filterProjects(projects []*library.Project, q store.ProjectQuery) []*library.Project {
	title := search.Fold(q.Title)
	composer := search.Fold(q.Composer)
	out := projects[:0]
	for _, p := range projects {
		if title != "" && !strings.Contains(search.Fold(p.Metadata.Title), title) {
			continue
		}
		if composer != "" && !strings.Contains(search.Fold(p.Metadata.Composer), composer) {
			continue
		}
		if q.Genre != "" && p.Metadata.Genre != q.Genre {
			continue
		}
		if q.VoiceType != "" && p.Metadata.VoiceType != q.VoiceType {
			continue
		}
		out = append(out, p)
	}
	return out
}

func newSongShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <song-id>",
		Short: "Show a song's details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := loadProject(cmd.Context(), ctx, args[0])
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, summarize(project))
			}
			renderSong(cmd, project)
			return nil
		},
	}
}

func loadProject(ctx context.Context, c *commandContext, id string) (*library.Project, error) {
	var project *library.Project
	err := c.withStore(ctx, func(m *store.Manager) error {
		s, err := m.EnsureOpen(ctx)
		if err != nil {
			return err
		}
		project, err = s.GetProject(ctx, strings.TrimSpace(id))
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("song %s not found", id)
		}
		return err
	})
	return project, err
}

func renderSong(cmd *cobra.Command, p *library.Project) {
	out := cmd.OutOrStdout()
	color := shouldColorize(out)
	m := p.Metadata

	printSection(out, m.Title, color)
	printField(out, "ID", p.ID)
	printField(out, "Composer", m.Composer)
	printField(out, "Artist", m.Artist)
	printField(out, "Genre", string(m.Genre))
	printField(out, "Voice", string(m.VoiceType))
	printField(out, "Work", m.OperaOrWork)
	printField(out, "Role", m.CharacterRole)
	if m.Year > 0 {
		printField(out, "Year", fmt.Sprintf("%d", m.Year))
	}
	printField(out, "Tags", strings.Join(m.Tags, ", "))
	printField(out, "Language", m.Language)
	printField(out, "Difficulty", string(m.Difficulty))
	printField(out, "Description", m.Description)
	printField(out, "Created", formatCreated(m.CreatedAt))

	if a := p.AudioTrack; a != nil {
		printSection(out, "Audio", color)
		printField(out, "File", a.Filename)
		printField(out, "Type", a.Blob.Type)
		printField(out, "Size", formatBytes(a.Blob.Len()))
		if a.Duration != nil {
			printField(out, "Duration", formatSeconds(*a.Duration))
		}
	}
	if len(p.Scores) > 0 {
		printSection(out, "Scores", color)
		rows := make([][]string, 0, len(p.Scores))
		for _, s := range p.Scores {
			rows = append(rows, []string{s.Filename, string(s.Type), s.Blob.Type, formatBytes(s.Blob.Len())})
		}
		fmt.Fprintln(out, renderTable([]string{"File", "Type", "MIME", "Size"}, rows, []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight}))
	}
	if l := p.Lyrics; l != nil {
		printSection(out, "Lyrics", color)
		printField(out, "Format", string(l.Format))
		content := l.Content
		if len(l.LrcTimestamps) > 0 {
			content = lrc.FormatContent(l.Content, l.LrcTimestamps)
		}
		for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
			fmt.Fprintf(out, "    %s\n", line)
		}
		if l.Translation != "" {
			printField(out, "Translation", orDash(l.TranslationLanguage))
		}
	}
	if len(p.CuePoints) > 0 {
		printSection(out, "Cue points", color)
		for _, cue := range p.CuePoints {
			fmt.Fprintf(out, "    m.%d %s %s\n", cue.MeasureNumber, lrc.FormatTimestamp(cue.Timestamp), cue.Label)
		}
	}
}

func newSongAddCommand(ctx *commandContext) *cobra.Command {
	var meta library.Metadata
	var genre, voice, audio, lyrics string
	var scores []string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a song from audio, score and lyrics files",
		RunE: func(cmd *cobra.Command, args []string) error {
			meta.Genre = library.Genre(strings.ToLower(strings.TrimSpace(genre)))
			meta.VoiceType = library.VoiceType(strings.ToLower(strings.TrimSpace(voice)))
			project, err := ingest.Build(cmd.Context(), ingest.Sources{
				Metadata: meta,
				Audio:    audio,
				Scores:   scores,
				Lyrics:   lyrics,
				Logger:   ctx.log(),
			})
			if err != nil {
				return err
			}
			err = ctx.withStore(cmd.Context(), func(m *store.Manager) error {
				s, err := m.EnsureOpen(cmd.Context())
				if err != nil {
					return err
				}
				return s.SaveProject(cmd.Context(), project)
			})
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, summarize(project))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %q (%s)\n", project.Metadata.Title, project.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&meta.Title, "title", "t", "", "Song title (defaults to audio tags or file name)")
	cmd.Flags().StringVar(&meta.Composer, "composer", "", "Composer")
	cmd.Flags().StringVar(&meta.Artist, "artist", "", "Artist")
	cmd.Flags().StringVar(&meta.OperaOrWork, "work", "", "Opera or larger work")
	cmd.Flags().StringVar(&meta.Description, "description", "", "Free-form notes")
	cmd.Flags().StringSliceVar(&meta.Tags, "tag", nil, "Tag (repeatable)")
	cmd.Flags().StringVar(&genre, "genre", "", "Genre (classical, pop, jazz, choir, folk, other)")
	cmd.Flags().StringVar(&voice, "voice", "", "Voice type (soprano, mezzo, alto, tenor, baritone, bass, other)")
	cmd.Flags().StringVar(&audio, "audio", "", "Audio recording")
	cmd.Flags().StringArrayVar(&scores, "score", nil, "Score file: PDF, image or MusicXML (repeatable)")
	cmd.Flags().StringVar(&lyrics, "lyrics", "", "Lyrics file: .txt, .md, .html or .lrc")
	return cmd
}

func newSongDeleteCommand(ctx *commandContext) *cobra.Command {
	var keepInPlaylists bool

	cmd := &cobra.Command{
		Use:   "delete <song-id>",
		Short: "Delete a song",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			removed := 0
			err := ctx.withStore(cmd.Context(), func(m *store.Manager) error {
				s, err := m.EnsureOpen(cmd.Context())
				if err != nil {
					return err
				}
				if err := s.DeleteProject(cmd.Context(), id); err != nil {
					return err
				}
				if keepInPlaylists {
					return nil
				}
				playlists, err := s.GetAllPlaylists(cmd.Context())
				if err != nil {
					return err
				}
				for _, pl := range playlists {
					if n := pl.RemoveProject(id); n > 0 {
						removed += n
						if err := s.SavePlaylist(cmd.Context(), pl); err != nil {
							return err
						}
					}
				}
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted song %s\n", id)
			if removed > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d playlist entries\n", removed)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&keepInPlaylists, "keep-in-playlists", false, "Leave playlist entries pointing at the deleted song")
	return cmd
}
