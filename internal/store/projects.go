package store

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"pocketaria/internal/library"
	"pocketaria/internal/logging"
	"pocketaria/internal/search"
)

// Query field names accepted by QueryByField for Projects.
const (
	FieldTitle     = "title"
	FieldComposer  = "composer"
	FieldGenre     = "genre"
	FieldVoiceType = "voiceType"
	FieldCreatedAt = "createdAt"
	FieldName      = "name"
)

// Projects stores songs.
var Projects = Kind[library.Project]{
	Name:  "projects",
	Since: 1,
	Key:   func(p *library.Project) string { return p.ID },
	Columns: []Column[library.Project]{
		{Field: FieldTitle, Name: "title_key", Since: 1, Match: MatchSubstring,
			Value: func(p *library.Project) any { return search.Fold(p.Metadata.Title) }},
		{Field: FieldComposer, Name: "composer_key", Since: 1, Match: MatchSubstring,
			Value: func(p *library.Project) any { return search.Fold(p.Metadata.Composer) }},
		{Field: FieldGenre, Name: "genre", Since: 1,
			Value: func(p *library.Project) any { return string(p.Metadata.Genre) }},
		{Field: FieldVoiceType, Name: "voice_type", Since: 1,
			Value: func(p *library.Project) any { return string(p.Metadata.VoiceType) }},
		{Field: FieldCreatedAt, Name: "created_at", Since: 2,
			Value: func(p *library.Project) any { return p.Metadata.CreatedAt }},
	},
}

// ProjectQuery filters songs. Empty fields are ignored; the rest must all match.
type ProjectQuery struct {
	Title     string
	Composer  string
	Genre     library.Genre
	VoiceType library.VoiceType
}

// SaveProject validates and upserts a song.
func (s *Store) SaveProject(ctx context.Context, project *library.Project) error {
	if project == nil {
		return fmt.Errorf("save project: project is nil")
	}
	if err := project.Validate(); err != nil {
		return fmt.Errorf("save project: %w", err)
	}
	if err := Put(ctx, s, Projects, project); err != nil {
		return err
	}
	s.logger.Debug("project saved",
		logging.String(logging.FieldProjectID, project.ID),
		logging.Int64(logging.FieldBytes, project.PayloadBytes()),
	)
	return nil
}

// GetProject returns the song with id or an error wrapping ErrNotFound.
func (s *Store) GetProject(ctx context.Context, id string) (*library.Project, error) {
	return Get(ctx, s, Projects, id)
}

// GetAllProjects returns every song.
func (s *Store) GetAllProjects(ctx context.Context) ([]*library.Project, error) {
	return GetAll(ctx, s, Projects)
}

// DeleteProject removes a song. Playlists referencing it are left unchanged.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	if err := Delete(ctx, s, Projects, id); err != nil {
		return err
	}
	s.logger.Debug("project deleted", logging.String(logging.FieldProjectID, id))
	return nil
}

// SearchProjects filters songs through the indexed columns.
func (s *Store) SearchProjects(ctx context.Context, q ProjectQuery) ([]*library.Project, error) {
	criteria := make(map[string]any)
	if v := strings.TrimSpace(q.Title); v != "" {
		criteria[FieldTitle] = v
	}
	if v := strings.TrimSpace(q.Composer); v != "" {
		criteria[FieldComposer] = v
	}
	if q.Genre != "" {
		criteria[FieldGenre] = string(q.Genre)
	}
	if q.VoiceType != "" {
		criteria[FieldVoiceType] = string(q.VoiceType)
	}
	return queryWhere(ctx, s, Projects, criteria, "title_key, id")
}

// ProjectsByCreated returns songs newest first.
func (s *Store) ProjectsByCreated(ctx context.Context) ([]*library.Project, error) {
	if _, ok := Projects.column(s, FieldCreatedAt); ok {
		return queryWhere(ctx, s, Projects, nil, "created_at DESC, id")
	}
	projects, err := GetAll(ctx, s, Projects)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].Metadata.CreatedAt > projects[j].Metadata.CreatedAt
	})
	return projects, nil
}
