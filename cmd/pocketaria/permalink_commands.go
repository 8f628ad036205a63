package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"pocketaria/internal/permalink"
	"pocketaria/internal/store"
)

func newPermalinkCommand(ctx *commandContext) *cobra.Command {
	permalinkCmd := &cobra.Command{
		Use:   "permalink",
		Short: "Share songs as permalinks",
	}
	permalinkCmd.AddCommand(newPermalinkCreateCommand(ctx))
	permalinkCmd.AddCommand(newPermalinkOpenCommand(ctx))
	return permalinkCmd
}

type permalinkOutput struct {
	Permalink string `json:"permalink"`
	ShareURL  string `json:"shareUrl,omitempty"`
}

func newPermalinkCreateCommand(ctx *commandContext) *cobra.Command {
	var inline, compact bool

	cmd := &cobra.Command{
		Use:   "create <song-id>",
		Short: "Upload a song and print its permalink",
		Long: "Upload a song to the configured blob host and print a PA2 permalink.\n" +
			"With --inline the song is compressed into the link itself (PA1, readable by the browser app);\n" +
			"--compact does the same with zstd (PA3) for a shorter link. Both only suit songs without audio or scores.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := loadProject(cmd.Context(), ctx, args[0])
			if err != nil {
				return err
			}
			enc, err := ctx.encoder()
			if err != nil {
				return err
			}
			if inline && compact {
				return errors.New("--inline and --compact are mutually exclusive")
			}
			var link string
			switch {
			case inline:
				link, err = enc.GenerateInline(cmd.Context(), project)
			case compact:
				link, err = enc.GenerateCompact(cmd.Context(), project)
			default:
				link, err = enc.Generate(cmd.Context(), project)
			}
			if err != nil {
				return err
			}

			result := permalinkOutput{Permalink: link}
			if cfg, _ := ctx.ensureConfig(); cfg != nil && cfg.Permalink.ShareBaseURL != "" {
				result.ShareURL = permalink.ShareURL(cfg.Permalink.ShareBaseURL, link)
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, result)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, result.Permalink)
			if result.ShareURL != "" {
				fmt.Fprintln(out, result.ShareURL)
			}
			if !inline && !compact {
				fmt.Fprintf(cmd.ErrOrStderr(), "Hosted links expire after %s.\n", ctx.configRetention())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&inline, "inline", false, "Embed the song in the link instead of uploading it")
	cmd.Flags().BoolVar(&compact, "compact", false, "Embed the song zstd-compressed (shorter, not readable by the browser app)")
	return cmd
}

func newPermalinkOpenCommand(ctx *commandContext) *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "open <permalink-or-share-url>",
		Short: "Decode a permalink and optionally save the song",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			link, err := permalink.Extract(args[0])
			if err != nil {
				return err
			}
			project, err := ctx.decoder().Parse(cmd.Context(), link)
			if err != nil {
				return err
			}
			if save {
				err := ctx.withStore(cmd.Context(), func(m *store.Manager) error {
					s, err := m.EnsureOpen(cmd.Context())
					if err != nil {
						return err
					}
					if _, err := s.GetProject(cmd.Context(), project.ID); err == nil {
						return fmt.Errorf("song %s already exists in the library", project.ID)
					} else if !errors.Is(err, store.ErrNotFound) {
						return err
					}
					return s.SaveProject(cmd.Context(), project)
				})
				if err != nil {
					return err
				}
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, summarize(project))
			}
			renderSong(cmd, project)
			if save {
				fmt.Fprintf(cmd.OutOrStdout(), "Saved %q to the library\n", strings.TrimSpace(project.Metadata.Title))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "Save the decoded song to the library")
	return cmd
}
