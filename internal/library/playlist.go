package library

import (
	"errors"
	"fmt"
	"sort"
)

// Pause bounds for sequential playback, in seconds.
const (
	MinPauseSeconds     = 0
	MaxPauseSeconds     = 30
	DefaultPauseSeconds = 5
)

var (
	// ErrPauseOutOfRange reports a pause outside MinPauseSeconds..MaxPauseSeconds.
	ErrPauseOutOfRange = errors.New("pause between items must be between 0 and 30 seconds")
	// ErrIndexOutOfRange reports a playlist position that does not exist.
	ErrIndexOutOfRange = errors.New("playlist index out of range")
)

// PlaylistItem references a song by identifier. Order mirrors list position.
type PlaylistItem struct {
	ProjectID string `json:"projectId"`
	Order     int    `json:"order"`
}

// Playlist sequences songs for practice. Items may reference songs that were
// deleted from the store; such references are kept as is.
type Playlist struct {
	ID                string         `json:"id"`
	Name              string         `json:"name"`
	Description       string         `json:"description,omitempty"`
	Items             []PlaylistItem `json:"items"`
	PauseBetweenItems int            `json:"pauseBetweenItems"`
	CreatedAt         int64          `json:"createdAt"`
}

// NewPlaylist creates an empty playlist with a generated identifier.
func NewPlaylist(name string) *Playlist {
	return &Playlist{
		ID:                NewID(),
		Name:              name,
		Items:             []PlaylistItem{},
		PauseBetweenItems: DefaultPauseSeconds,
		CreatedAt:         NowMillis(),
	}
}

// Append adds a song at the end of the playlist.
func (p *Playlist) Append(projectID string) {
	p.Items = append(p.Items, PlaylistItem{ProjectID: projectID, Order: len(p.Items)})
	p.Renumber()
}

// Move relocates the item at index from so it ends up at index to.
func (p *Playlist) Move(from, to int) error {
	if from < 0 || from >= len(p.Items) || to < 0 || to >= len(p.Items) {
		return fmt.Errorf("%w: move %d to %d with %d items", ErrIndexOutOfRange, from, to, len(p.Items))
	}
	item := p.Items[from]
	items := append(p.Items[:from:from], p.Items[from+1:]...)
	items = append(items[:to], append([]PlaylistItem{item}, items[to:]...)...)
	p.Items = items
	p.Renumber()
	return nil
}

// Remove deletes the item at index.
func (p *Playlist) Remove(index int) error {
	if index < 0 || index >= len(p.Items) {
		return fmt.Errorf("%w: remove %d with %d items", ErrIndexOutOfRange, index, len(p.Items))
	}
	p.Items = append(p.Items[:index:index], p.Items[index+1:]...)
	p.Renumber()
	return nil
}

// RemoveProject drops every item that references projectID and reports how
// many were removed.
func (p *Playlist) RemoveProject(projectID string) int {
	kept := p.Items[:0]
	removed := 0
	for _, item := range p.Items {
		if item.ProjectID == projectID {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	p.Items = kept
	p.Renumber()
	return removed
}

// Renumber sets every item's Order to its list position.
func (p *Playlist) Renumber() {
	for i := range p.Items {
		p.Items[i].Order = i
	}
}

// Normalize sorts items by their stored Order and renumbers them densely.
// Use it on playlists loaded from documents written by other clients.
func (p *Playlist) Normalize() {
	sort.SliceStable(p.Items, func(i, j int) bool {
		return p.Items[i].Order < p.Items[j].Order
	})
	p.Renumber()
}

// SetPause updates the pause between items.
func (p *Playlist) SetPause(seconds int) error {
	if seconds < MinPauseSeconds || seconds > MaxPauseSeconds {
		return fmt.Errorf("%w: got %d", ErrPauseOutOfRange, seconds)
	}
	p.PauseBetweenItems = seconds
	return nil
}

// ProjectIDs lists the referenced song identifiers in playback order.
func (p *Playlist) ProjectIDs() []string {
	ids := make([]string, 0, len(p.Items))
	for _, item := range p.Items {
		ids = append(ids, item.ProjectID)
	}
	return ids
}

// Validate checks the pause bound and that Order values are dense and match
// list position.
func (p *Playlist) Validate() error {
	if p.ID == "" {
		return errors.New("playlist id is required")
	}
	if p.PauseBetweenItems < MinPauseSeconds || p.PauseBetweenItems > MaxPauseSeconds {
		return fmt.Errorf("%w: got %d", ErrPauseOutOfRange, p.PauseBetweenItems)
	}
	for i, item := range p.Items {
		if item.Order != i {
			return fmt.Errorf("playlist item %d has order %d", i, item.Order)
		}
	}
	return nil
}

// Clone returns a deep copy of the playlist.
func (p *Playlist) Clone() *Playlist {
	if p == nil {
		return nil
	}
	out := *p
	out.Items = cloneSlice(p.Items)
	return &out
}
