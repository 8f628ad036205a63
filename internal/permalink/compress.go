package permalink

import (
	"encoding/base64"
	"fmt"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// maxInlineDocument bounds what a compact payload may expand to.
const maxInlineDocument = 64 << 20

var (
	zstdEncoder = sync.OnceValues(func() (*zstd.Encoder, error) {
		return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	})
	zstdDecoder = sync.OnceValues(func() (*zstd.Decoder, error) {
		return zstd.NewReader(nil, zstd.WithDecoderMaxMemory(maxInlineDocument), zstd.WithDecoderConcurrency(0))
	})
)

func zstdCompress(data []byte) (string, error) {
	enc, err := zstdEncoder()
	if err != nil {
		return "", fmt.Errorf("create zstd encoder: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(enc.EncodeAll(data, nil)), nil
}

func zstdDecompress(payload string) ([]byte, error) {
	raw, err := decodeBase64URL(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecompressionFailed, err)
	}
	dec, err := zstdDecoder()
	if err != nil {
		return nil, fmt.Errorf("%w: create zstd decoder: %w", ErrDecompressionFailed, err)
	}
	data, err := dec.DecodeAll(raw, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecompressionFailed, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrDecompressionFailed)
	}
	return data, nil
}

// decodeBase64URL accepts both padded and unpadded base64url text.
func decodeBase64URL(text string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(strings.TrimRight(strings.TrimSpace(text), "="))
}
