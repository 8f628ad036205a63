package permalink

import (
	"encoding/json"
	"fmt"
	"strings"

	lzstring "github.com/daku10/go-lz-string"
)

const (
	lzBase64Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/="
	lzURIAlphabet    = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+-$"
)

// lzCompress produces the standard-alphabet lz-string text that PA1 links
// have always carried.
func lzCompress(data []byte) (string, error) {
	out, err := lzstring.CompressToBase64(string(data))
	if err != nil {
		return "", fmt.Errorf("lz-string compress: %w", err)
	}
	return out, nil
}

// lzDecompress accepts both the Base64 and the EncodedURIComponent forms.
// A '+' that arrived as a space through query decoding is restored first.
func lzDecompress(payload string) (text []byte, err error) {
	payload = strings.ReplaceAll(strings.TrimSpace(payload), " ", "+")
	if payload == "" {
		return nil, fmt.Errorf("%w: empty payload", ErrDecompressionFailed)
	}
	uriForm := strings.ContainsAny(payload, "-$")
	alphabet := lzBase64Alphabet
	if uriForm {
		alphabet = lzURIAlphabet
	}
	if i := strings.IndexFunc(payload, func(r rune) bool { return !strings.ContainsRune(alphabet, r) }); i >= 0 {
		return nil, fmt.Errorf("%w: invalid character %q at %d", ErrDecompressionFailed, payload[i], i)
	}

	defer func() {
		if r := recover(); r != nil {
			text, err = nil, fmt.Errorf("%w: malformed stream: %v", ErrDecompressionFailed, r)
		}
	}()
	var out string
	if uriForm {
		out, err = lzstring.DecompressFromEncodedURIComponent(payload)
	} else {
		out, err = lzstring.DecompressFromBase64(payload)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecompressionFailed, err)
	}
	if out == "" {
		return nil, fmt.Errorf("%w: empty payload", ErrDecompressionFailed)
	}
	if !json.Valid([]byte(out)) {
		return nil, fmt.Errorf("%w: payload is not a json document", ErrDecompressionFailed)
	}
	return []byte(out), nil
}
