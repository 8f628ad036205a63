package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"pocketaria/internal/library"
	"pocketaria/internal/store"
)

func newPlaylistCommand(ctx *commandContext) *cobra.Command {
	playlistCmd := &cobra.Command{
		Use:     "playlist",
		Aliases: []string{"playlists"},
		Short:   "Manage practice playlists",
	}
	playlistCmd.AddCommand(newPlaylistListCommand(ctx))
	playlistCmd.AddCommand(newPlaylistShowCommand(ctx))
	playlistCmd.AddCommand(newPlaylistCreateCommand(ctx))
	playlistCmd.AddCommand(newPlaylistAddCommand(ctx))
	playlistCmd.AddCommand(newPlaylistMoveCommand(ctx))
	playlistCmd.AddCommand(newPlaylistRemoveCommand(ctx))
	playlistCmd.AddCommand(newPlaylistPauseCommand(ctx))
	playlistCmd.AddCommand(newPlaylistDeleteCommand(ctx))
	return playlistCmd
}

func newPlaylistListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List playlists",
		RunE: func(cmd *cobra.Command, args []string) error {
			var playlists []*library.Playlist
			err := ctx.withStore(cmd.Context(), func(m *store.Manager) error {
				s, err := m.EnsureOpen(cmd.Context())
				if err != nil {
					return err
				}
				playlists, err = s.GetAllPlaylists(cmd.Context())
				return err
			})
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, playlists)
			}
			if len(playlists) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No playlists")
				return nil
			}
			rows := make([][]string, 0, len(playlists))
			for _, pl := range playlists {
				rows = append(rows, []string{
					pl.ID,
					pl.Name,
					strconv.Itoa(len(pl.Items)),
					fmt.Sprintf("%ds", pl.PauseBetweenItems),
					formatCreated(pl.CreatedAt),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Name", "Songs", "Pause", "Created"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}
}

func newPlaylistShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <playlist-id>",
		Short: "Show a playlist's songs in order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var playlist *library.Playlist
			titles := map[string]string{}
			err := ctx.withStore(cmd.Context(), func(m *store.Manager) error {
				s, err := m.EnsureOpen(cmd.Context())
				if err != nil {
					return err
				}
				playlist, err = getPlaylist(cmd.Context(), s, args[0])
				if err != nil {
					return err
				}
				for _, id := range playlist.ProjectIDs() {
					project, err := s.GetProject(cmd.Context(), id)
					switch {
					case errors.Is(err, store.ErrNotFound):
						continue
					case err != nil:
						return err
					}
					titles[id] = project.Metadata.Title
				}
				return nil
			})
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, playlist)
			}
			out := cmd.OutOrStdout()
			printSection(out, playlist.Name, shouldColorize(out))
			printField(out, "ID", playlist.ID)
			printField(out, "Description", playlist.Description)
			printField(out, "Pause", fmt.Sprintf("%ds", playlist.PauseBetweenItems))
			rows := make([][]string, 0, len(playlist.Items))
			for _, item := range playlist.Items {
				title, ok := titles[item.ProjectID]
				if !ok {
					title = "(missing song)"
				}
				rows = append(rows, []string{strconv.Itoa(item.Order), title, item.ProjectID})
			}
			fmt.Fprintln(out, renderTable([]string{"#", "Title", "Song ID"}, rows, []columnAlignment{alignRight}))
			return nil
		},
	}
}

func newPlaylistCreateCommand(ctx *commandContext) *cobra.Command {
	var description string
	var pause int

	cmd := &cobra.Command{
		Use:   "create <name> [song-id...]",
		Short: "Create a playlist",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			playlist := library.NewPlaylist(strings.TrimSpace(args[0]))
			playlist.Description = description
			if err := playlist.SetPause(pause); err != nil {
				return err
			}
			for _, id := range args[1:] {
				playlist.Append(strings.TrimSpace(id))
			}
			err := ctx.withStore(cmd.Context(), func(m *store.Manager) error {
				s, err := m.EnsureOpen(cmd.Context())
				if err != nil {
					return err
				}
				return s.SavePlaylist(cmd.Context(), playlist)
			})
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, playlist)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created playlist %q (%s)\n", playlist.Name, playlist.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "Playlist description")
	cmd.Flags().IntVar(&pause, "pause", library.DefaultPauseSeconds, "Seconds of silence between songs (0-30)")
	return cmd
}

func newPlaylistAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <playlist-id> <song-id>...",
		Short: "Append songs to a playlist",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return updatePlaylist(cmd, ctx, args[0], func(s *store.Store, pl *library.Playlist) error {
				for _, id := range args[1:] {
					id = strings.TrimSpace(id)
					if _, err := s.GetProject(cmd.Context(), id); err != nil {
						if errors.Is(err, store.ErrNotFound) {
							return fmt.Errorf("song %s not found", id)
						}
						return err
					}
					pl.Append(id)
				}
				return nil
			})
		},
	}
}

func newPlaylistMoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "move <playlist-id> <from> <to>",
		Short: "Move the song at position from to position to",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, to, err := parsePositions(args[1], args[2])
			if err != nil {
				return err
			}
			return updatePlaylist(cmd, ctx, args[0], func(_ *store.Store, pl *library.Playlist) error {
				return pl.Move(from, to)
			})
		},
	}
}

func newPlaylistRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <playlist-id> <position>",
		Short: "Remove the song at a position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(strings.TrimSpace(args[1]))
			if err != nil {
				return fmt.Errorf("invalid position %q", args[1])
			}
			return updatePlaylist(cmd, ctx, args[0], func(_ *store.Store, pl *library.Playlist) error {
				return pl.Remove(index)
			})
		},
	}
}

func newPlaylistPauseCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "pause <playlist-id> <seconds>",
		Short: "Set the pause between songs",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			seconds, err := strconv.Atoi(strings.TrimSpace(args[1]))
			if err != nil {
				return fmt.Errorf("invalid pause %q", args[1])
			}
			return updatePlaylist(cmd, ctx, args[0], func(_ *store.Store, pl *library.Playlist) error {
				return pl.SetPause(seconds)
			})
		},
	}
}

func newPlaylistDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <playlist-id>",
		Short: "Delete a playlist; its songs stay in the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			err := ctx.withStore(cmd.Context(), func(m *store.Manager) error {
				s, err := m.EnsureOpen(cmd.Context())
				if err != nil {
					return err
				}
				return s.DeletePlaylist(cmd.Context(), id)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted playlist %s\n", id)
			return nil
		},
	}
}

func getPlaylist(ctx context.Context, s *store.Store, id string) (*library.Playlist, error) {
	playlist, err := s.GetPlaylist(ctx, strings.TrimSpace(id))
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("playlist %s not found", id)
	}
	return playlist, err
}

// updatePlaylist loads a playlist, applies mutate and saves the result.
func updatePlaylist(cmd *cobra.Command, ctx *commandContext, id string, mutate func(*store.Store, *library.Playlist) error) error {
	var playlist *library.Playlist
	err := ctx.withStore(cmd.Context(), func(m *store.Manager) error {
		s, err := m.EnsureOpen(cmd.Context())
		if err != nil {
			return err
		}
		playlist, err = getPlaylist(cmd.Context(), s, id)
		if err != nil {
			return err
		}
		if err := mutate(s, playlist); err != nil {
			return err
		}
		return s.SavePlaylist(cmd.Context(), playlist)
	})
	if err != nil {
		return err
	}
	if ctx.jsonOutput() {
		return writeJSON(cmd, playlist)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated playlist %q: %d songs, %ds pause\n", playlist.Name, len(playlist.Items), playlist.PauseBetweenItems)
	return nil
}

func parsePositions(fromArg, toArg string) (int, int, error) {
	from, err := strconv.Atoi(strings.TrimSpace(fromArg))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid position %q", fromArg)
	}
	to, err := strconv.Atoi(strings.TrimSpace(toArg))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid position %q", toArg)
	}
	return from, to, nil
}
