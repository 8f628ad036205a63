package permalink

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"pocketaria/internal/blobhost"
	"pocketaria/internal/exchange"
	"pocketaria/internal/library"
	"pocketaria/internal/logging"
)

type decodeFunc func(d *Decoder, ctx context.Context, payload string) (*library.Project, error)

// decoders is the closed set of understood tags.
var decoders = map[string]decodeFunc{
	TagInline:  (*Decoder).parseInline,
	TagHosted:  (*Decoder).parseHosted,
	TagCompact: (*Decoder).parseCompact,
}

// Tags returns the permalink tags this build can decode.
func Tags() []string {
	return []string{TagInline, TagHosted, TagCompact}
}

// Decoder restores songs from permalinks.
type Decoder struct {
	fetcher blobhost.Fetcher
	logger  *slog.Logger
}

// NewDecoder builds a decoder. A nil fetcher uses blobhost's HTTP fetcher.
func NewDecoder(fetcher blobhost.Fetcher, logger *slog.Logger) *Decoder {
	if fetcher == nil {
		fetcher = blobhost.NewHTTPFetcher(nil, 0)
	}
	return &Decoder{fetcher: fetcher, logger: logging.NewComponentLogger(logger, "permalink")}
}

// Parse restores the song a permalink refers to.
func (d *Decoder) Parse(ctx context.Context, permalink string) (*library.Project, error) {
	tag, payload, ok := strings.Cut(strings.TrimSpace(permalink), ":")
	if !ok {
		return nil, fmt.Errorf("%w: missing tag separator", ErrUnsupportedVersion)
	}
	decode, known := decoders[tag]
	if !known {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedVersion, tag)
	}
	project, err := decode(d, ctx, payload)
	if err != nil {
		return nil, err
	}
	d.logger.Debug("permalink parsed",
		logging.String(logging.FieldPermalinkTag, tag),
		logging.String(logging.FieldProjectID, project.ID),
	)
	return project, nil
}

func (d *Decoder) parseInline(ctx context.Context, payload string) (*library.Project, error) {
	data, err := lzDecompress(payload)
	if err != nil {
		return nil, err
	}
	return importDocument(ctx, data)
}

func (d *Decoder) parseCompact(ctx context.Context, payload string) (*library.Project, error) {
	data, err := zstdDecompress(payload)
	if err != nil {
		return nil, err
	}
	return importDocument(ctx, data)
}

func (d *Decoder) parseHosted(ctx context.Context, payload string) (*library.Project, error) {
	raw, err := decodeBase64URL(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: decode url: %w", ErrRemoteFetchFailed, err)
	}
	url := string(raw)
	data, err := d.fetcher.Fetch(ctx, url)
	if err != nil {
		logging.WarnWithContext(d.logger, "hosted permalink fetch failed", "permalink_fetch_failed",
			logging.String("url", url),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "the upload may have expired"),
			logging.String(logging.FieldImpact, "shared song not loaded"),
		)
		return nil, fmt.Errorf("%w: %w", ErrRemoteFetchFailed, err)
	}
	project, err := importDocument(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRemoteFetchFailed, url, err)
	}
	return project, nil
}

func importDocument(ctx context.Context, data []byte) (*library.Project, error) {
	doc, err := exchange.UnmarshalProject(data)
	if err != nil {
		return nil, err
	}
	return exchange.ImportProject(ctx, doc)
}
