package blobcodec

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
)

// DefaultMIME is used when neither content nor filename identify a payload.
const DefaultMIME = "application/octet-stream"

var extensionMIME = map[string]string{
	".musicxml": "application/vnd.recordare.musicxml+xml",
	".mxl":      "application/vnd.recordare.musicxml",
	".xml":      "application/xml",
	".md":       "text/markdown",
	".lrc":      "text/plain",
	".json":     "application/json",
}

// DetectMIME sniffs payload content first and falls back to the filename
// extension.
func DetectMIME(payload []byte, filename string) string {
	if len(payload) > 0 {
		if kind, err := filetype.Match(payload); err == nil && kind != filetype.Unknown && kind.MIME.Value != "" {
			return kind.MIME.Value
		}
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return DefaultMIME
	}
	if value, ok := extensionMIME[ext]; ok {
		return value
	}
	if value := mime.TypeByExtension(ext); value != "" {
		return value
	}
	return DefaultMIME
}

// IsImage reports whether mimeType names an image format.
func IsImage(mimeType string) bool {
	return strings.HasPrefix(strings.ToLower(mimeType), "image/")
}
