package permalink

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"pocketaria/internal/blobhost"
	"pocketaria/internal/exchange"
	"pocketaria/internal/library"
	"pocketaria/internal/logging"
)

const (
	// TagInline marks an lz-string compressed song document.
	TagInline = "PA1"
	// TagHosted marks a reference to an uploaded song document.
	TagHosted = "PA2"
	// TagCompact marks a zstd-compressed song document.
	TagCompact = "PA3"

	// DefaultFilename is the name hosted documents are uploaded under.
	DefaultFilename = "pocket-aria-project.json"
	// DefaultInlineWarnLength is the inline length past which a warning is logged.
	DefaultInlineWarnLength = 2000

	documentMIME = "application/json"
)

// EncoderConfig configures an Encoder.
type EncoderConfig struct {
	Uploader         blobhost.Uploader
	Filename         string
	InlineWarnLength int
	Logger           *slog.Logger
}

// Encoder produces permalinks.
type Encoder struct {
	uploader         blobhost.Uploader
	filename         string
	inlineWarnLength int
	logger           *slog.Logger
}

// NewEncoder builds an encoder. Uploader may be nil when only inline
// permalinks are needed.
func NewEncoder(cfg EncoderConfig) *Encoder {
	filename := strings.TrimSpace(cfg.Filename)
	if filename == "" {
		filename = DefaultFilename
	}
	warn := cfg.InlineWarnLength
	if warn <= 0 {
		warn = DefaultInlineWarnLength
	}
	return &Encoder{
		uploader:         cfg.Uploader,
		filename:         filename,
		inlineWarnLength: warn,
		logger:           logging.NewComponentLogger(cfg.Logger, "permalink"),
	}
}

// Generate uploads the song document and returns a PA2 permalink. Any
// upload failure is returned as is and no permalink is produced.
func (e *Encoder) Generate(ctx context.Context, project *library.Project) (string, error) {
	if e.uploader == nil {
		return "", errors.New("generate permalink: no blob host configured")
	}
	data, err := documentJSON(ctx, project)
	if err != nil {
		return "", fmt.Errorf("generate permalink: %w", err)
	}
	url, err := e.uploader.Upload(ctx, library.Blob{Type: documentMIME, Data: data}, e.filename)
	if err != nil {
		return "", fmt.Errorf("generate permalink: %w", err)
	}
	link := TagHosted + ":" + base64.RawURLEncoding.EncodeToString([]byte(url))
	e.logger.Info("permalink generated",
		logging.String(logging.FieldProjectID, project.ID),
		logging.String(logging.FieldPermalinkTag, TagHosted),
		logging.String("host", e.uploader.Name()),
		logging.Int(logging.FieldBytes, len(data)),
	)
	return link, nil
}

// GenerateInline returns a PA1 permalink carrying the whole song as
// lz-string Base64 text. Songs with binary payloads produce very long
// strings; a warning is logged past the configured length.
func (e *Encoder) GenerateInline(ctx context.Context, project *library.Project) (string, error) {
	return e.generateEmbedded(ctx, project, TagInline, lzCompress)
}

// GenerateCompact returns a PA3 permalink: the song compressed with zstd
// into unpadded base64url. It is usually much shorter than PA1.
func (e *Encoder) GenerateCompact(ctx context.Context, project *library.Project) (string, error) {
	return e.generateEmbedded(ctx, project, TagCompact, zstdCompress)
}

func (e *Encoder) generateEmbedded(ctx context.Context, project *library.Project, tag string, compress func([]byte) (string, error)) (string, error) {
	data, err := documentJSON(ctx, project)
	if err != nil {
		return "", fmt.Errorf("generate %s permalink: %w", tag, err)
	}
	payload, err := compress(data)
	if err != nil {
		return "", fmt.Errorf("generate %s permalink: %w", tag, err)
	}
	link := tag + ":" + payload
	if len(link) > e.inlineWarnLength {
		logging.WarnWithContext(e.logger, "inline permalink is long", "permalink_inline_long",
			logging.String(logging.FieldProjectID, project.ID),
			logging.String(logging.FieldPermalinkTag, tag),
			logging.Int("length", len(link)),
			logging.Int("warn_length", e.inlineWarnLength),
			logging.String(logging.FieldErrorHint, "use a hosted permalink for songs with audio or scores"),
			logging.String(logging.FieldImpact, "link may exceed browser URL limits"),
		)
	}
	return link, nil
}

func documentJSON(ctx context.Context, project *library.Project) ([]byte, error) {
	doc, err := exchange.ExportProject(ctx, project)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode project document: %w", err)
	}
	return data, nil
}
