package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"pocketaria/internal/config"
	"pocketaria/internal/exchange"
	"pocketaria/internal/fileutil"
	"pocketaria/internal/library"
	"pocketaria/internal/logging"
	"pocketaria/internal/store"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var songID, output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export one song or the whole library as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			var data []byte
			var defaultName string
			err := ctx.withStore(cmd.Context(), func(m *store.Manager) error {
				s, err := m.EnsureOpen(cmd.Context())
				if err != nil {
					return err
				}
				if id := strings.TrimSpace(songID); id != "" {
					project, err := s.GetProject(cmd.Context(), id)
					if errors.Is(err, store.ErrNotFound) {
						return fmt.Errorf("song %s not found", id)
					}
					if err != nil {
						return err
					}
					doc, err := exchange.ExportProject(cmd.Context(), project)
					if err != nil {
						return err
					}
					defaultName = exchange.ProjectFileName(project.Metadata.Title)
					data, err = exchange.MarshalProject(doc)
					return err
				}
				projects, err := s.GetAllProjects(cmd.Context())
				if err != nil {
					return err
				}
				playlists, err := s.GetAllPlaylists(cmd.Context())
				if err != nil {
					return err
				}
				env, err := exchange.ExportLibrary(cmd.Context(), projects, playlists)
				if err != nil {
					return err
				}
				defaultName = exchange.LibraryFileName(time.Now())
				data, err = exchange.MarshalLibrary(env)
				return err
			})
			if err != nil {
				return err
			}

			target := strings.TrimSpace(output)
			if target == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if target == "" {
				target = defaultName
			}
			target, err = config.ExpandPath(target)
			if err != nil {
				return err
			}
			if err := fileutil.WriteVerified(target, data, 0o644); err != nil {
				return err
			}
			ctx.log().Info("library exported",
				logging.String("path", target),
				logging.Int(logging.FieldBytes, len(data)),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", formatBytes(len(data)), target)
			return nil
		},
	}
	cmd.Flags().StringVar(&songID, "song", "", "Export only this song")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (- for stdout)")
	return cmd
}

func newImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import a song or library export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read import file: %w", err)
			}

			var projects []*library.Project
			var playlists []*library.Playlist
			switch kind := exchange.Detect(data); kind {
			case exchange.KindProject:
				doc, err := exchange.UnmarshalProject(data)
				if err != nil {
					return err
				}
				project, err := exchange.ImportProject(cmd.Context(), doc)
				if err != nil {
					return err
				}
				projects = []*library.Project{project}
			case exchange.KindLibrary:
				env, err := exchange.UnmarshalLibrary(data)
				if err != nil {
					return err
				}
				projects, playlists, err = exchange.ImportLibrary(cmd.Context(), env)
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("%s: %w: neither a song nor a library export", filepath.Base(path), exchange.ErrInvalidDocument)
			}

			if err := saveImported(cmd, ctx, projects, playlists); err != nil {
				return err
			}
			ctx.log().Info("import complete",
				logging.String("path", path),
				logging.Int("songs", len(projects)),
				logging.Int("playlists", len(playlists)),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d songs and %d playlists\n", len(projects), len(playlists))
			return nil
		},
	}
}

func saveImported(cmd *cobra.Command, ctx *commandContext, projects []*library.Project, playlists []*library.Playlist) error {
	return ctx.withStore(cmd.Context(), func(m *store.Manager) error {
		for _, project := range projects {
			s, err := m.EnsureOpen(cmd.Context())
			if err != nil {
				return err
			}
			if err := s.SaveProject(cmd.Context(), project); err != nil {
				return fmt.Errorf("save %q: %w", project.Metadata.Title, err)
			}
		}
		for _, playlist := range playlists {
			s, err := m.EnsureOpen(cmd.Context())
			if err != nil {
				return err
			}
			playlist.Normalize()
			if err := s.SavePlaylist(cmd.Context(), playlist); err != nil {
				return fmt.Errorf("save playlist %q: %w", playlist.Name, err)
			}
		}
		return nil
	})
}
