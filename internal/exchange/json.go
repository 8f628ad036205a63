package exchange

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DocumentKind identifies what an import file contains.
type DocumentKind int

const (
	KindUnknown DocumentKind = iota
	KindProject
	KindLibrary
)

func (k DocumentKind) String() string {
	switch k {
	case KindProject:
		return "project"
	case KindLibrary:
		return "library"
	default:
		return "unknown"
	}
}

// MarshalProject renders a song document as indented JSON.
func MarshalProject(doc *ProjectDocument) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode project document: %w", err)
	}
	return data, nil
}

// UnmarshalProject parses a song document.
func UnmarshalProject(data []byte) (*ProjectDocument, error) {
	var doc ProjectDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return &doc, nil
}

// MarshalLibrary renders an envelope as indented JSON.
func MarshalLibrary(env *Envelope) ([]byte, error) {
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode library envelope: %w", err)
	}
	return data, nil
}

// UnmarshalLibrary parses an envelope.
func UnmarshalLibrary(data []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return &env, nil
}

// Detect reports whether data holds a single song or a library envelope by
// looking at its top-level keys.
func Detect(data []byte) DocumentKind {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return KindUnknown
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return KindUnknown
	}
	if _, ok := probe["projects"]; ok {
		if _, ok := probe["version"]; ok {
			return KindLibrary
		}
	}
	if _, ok := probe["metadata"]; ok {
		return KindProject
	}
	return KindUnknown
}
