package permalink

import "errors"

var (
	// ErrUnsupportedVersion reports a permalink whose tag is not recognized.
	ErrUnsupportedVersion = errors.New("unsupported permalink version")
	// ErrDecompressionFailed reports a corrupt or truncated inline payload.
	ErrDecompressionFailed = errors.New("permalink decompression failed")
	// ErrRemoteFetchFailed reports a hosted document that could not be
	// retrieved or parsed.
	ErrRemoteFetchFailed = errors.New("remote fetch failed")
)
