package store

import (
	"context"
	"fmt"

	"pocketaria/internal/library"
	"pocketaria/internal/logging"
)

// Playlists stores playlists. The kind arrived with schema version 2.
var Playlists = Kind[library.Playlist]{
	Name:  "playlists",
	Since: 2,
	Key:   func(p *library.Playlist) string { return p.ID },
	Columns: []Column[library.Playlist]{
		{Field: FieldName, Name: "name", Since: 2,
			Value: func(p *library.Playlist) any { return p.Name }},
		{Field: FieldCreatedAt, Name: "created_at", Since: 2,
			Value: func(p *library.Playlist) any { return p.CreatedAt }},
	},
}

// SavePlaylist validates and upserts a playlist.
func (s *Store) SavePlaylist(ctx context.Context, playlist *library.Playlist) error {
	if playlist == nil {
		return fmt.Errorf("save playlist: playlist is nil")
	}
	if err := playlist.Validate(); err != nil {
		return fmt.Errorf("save playlist: %w", err)
	}
	if err := Put(ctx, s, Playlists, playlist); err != nil {
		return err
	}
	s.logger.Debug("playlist saved",
		logging.String(logging.FieldPlaylistID, playlist.ID),
		logging.Int("items", len(playlist.Items)),
	)
	return nil
}

// GetPlaylist returns the playlist with id or an error wrapping ErrNotFound.
func (s *Store) GetPlaylist(ctx context.Context, id string) (*library.Playlist, error) {
	return Get(ctx, s, Playlists, id)
}

// GetAllPlaylists returns playlists oldest first.
func (s *Store) GetAllPlaylists(ctx context.Context) ([]*library.Playlist, error) {
	return queryWhere(ctx, s, Playlists, nil, "created_at, id")
}

// DeletePlaylist removes a playlist. The songs it references are untouched.
func (s *Store) DeletePlaylist(ctx context.Context, id string) error {
	return Delete(ctx, s, Playlists, id)
}
