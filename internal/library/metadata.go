package library

import (
	"encoding/json"
	"fmt"
	"time"
)

// Metadata describes a song. Keys the model does not know about are kept in
// Extra and written back unchanged, so documents produced by newer clients
// survive a round trip through this one.
type Metadata struct {
	Title       string    `json:"title"`
	Composer    string    `json:"composer,omitempty"`
	Genre       Genre     `json:"genre,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	Year        int       `json:"year,omitempty"`
	VoiceType   VoiceType `json:"voiceType,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   int64     `json:"createdAt"` // epoch milliseconds

	ContentType ContentType `json:"contentType,omitempty"`

	// Classical singing
	OperaOrWork   string `json:"operaOrWork,omitempty"`
	CharacterRole string `json:"characterRole,omitempty"`

	// Karaoke
	Artist     string     `json:"artist,omitempty"`
	Difficulty Difficulty `json:"difficulty,omitempty"`

	// Language learning
	Language string `json:"language,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

var knownMetadataKeys = map[string]struct{}{
	"title": {}, "composer": {}, "genre": {}, "tags": {}, "year": {},
	"voiceType": {}, "description": {}, "createdAt": {}, "contentType": {},
	"operaOrWork": {}, "characterRole": {}, "artist": {}, "difficulty": {},
	"language": {},
}

type metadataFields Metadata

// MarshalJSON emits the known fields followed by any preserved extras.
func (m Metadata) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(metadataFields(m))
	if err != nil {
		return nil, err
	}
	if len(m.Extra) == 0 {
		return known, nil
	}
	merged := make(map[string]json.RawMessage, len(m.Extra)+len(knownMetadataKeys))
	if err := json.Unmarshal(known, &merged); err != nil {
		return nil, fmt.Errorf("merge metadata extras: %w", err)
	}
	for key, value := range m.Extra {
		if _, ok := knownMetadataKeys[key]; ok {
			continue
		}
		merged[key] = value
	}
	return json.Marshal(merged)
}

// UnmarshalJSON decodes the known fields and keeps every other key in Extra.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	var fields metadataFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for key := range knownMetadataKeys {
		delete(raw, key)
	}
	*m = Metadata(fields)
	if len(raw) > 0 {
		m.Extra = raw
	} else {
		m.Extra = nil
	}
	return nil
}

// Created returns CreatedAt as a time value.
func (m Metadata) Created() time.Time {
	return time.UnixMilli(m.CreatedAt)
}

func (m Metadata) clone() Metadata {
	out := m
	out.Tags = cloneSlice(m.Tags)
	if m.Extra != nil {
		out.Extra = make(map[string]json.RawMessage, len(m.Extra))
		for key, value := range m.Extra {
			out.Extra[key] = append(json.RawMessage(nil), value...)
		}
	}
	return out
}
