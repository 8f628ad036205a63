package blobcodec

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedEncoding reports text that is not a base64 data URL.
var ErrMalformedEncoding = errors.New("malformed blob encoding")

const (
	scheme       = "data:"
	base64Marker = ";base64"
)

// Encode renders payload as a data URL carrying mimeType.
func Encode(payload []byte, mimeType string) string {
	encodedLen := base64.StdEncoding.EncodedLen(len(payload))
	var b strings.Builder
	b.Grow(len(scheme) + len(mimeType) + len(base64Marker) + 1 + encodedLen)
	b.WriteString(scheme)
	b.WriteString(mimeType)
	b.WriteString(base64Marker)
	b.WriteByte(',')
	buf := make([]byte, encodedLen)
	base64.StdEncoding.Encode(buf, payload)
	b.Write(buf)
	return b.String()
}

// Decode parses a data URL produced by Encode (or by a browser FileReader)
// and returns the payload and its MIME type. The MIME type may itself
// contain commas; base64 text never does, so the last comma separates them.
func Decode(text string) ([]byte, string, error) {
	sep := strings.LastIndexByte(text, ',')
	if sep < 0 {
		return nil, "", fmt.Errorf("%w: missing ',' separator", ErrMalformedEncoding)
	}
	header, body := text[:sep], text[sep+1:]
	if !strings.HasPrefix(header, scheme) {
		return nil, "", fmt.Errorf("%w: missing %q prefix", ErrMalformedEncoding, scheme)
	}
	params := strings.TrimPrefix(header, scheme)
	if !strings.HasSuffix(params, base64Marker) {
		return nil, "", fmt.Errorf("%w: payload is not base64", ErrMalformedEncoding)
	}
	mimeType := strings.TrimSuffix(params, base64Marker)

	payload, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrMalformedEncoding, err)
	}
	return payload, mimeType, nil
}
