package blobhost

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"pocketaria/internal/blobcodec"
	"pocketaria/internal/library"
	"pocketaria/internal/logging"
)

const (
	// DefaultLitterboxEndpoint is the litterbox upload API.
	DefaultLitterboxEndpoint = "https://litterbox.catbox.moe/resources/internals/api.php"
	// DefaultRetention is how long litterbox keeps uploads.
	DefaultRetention = "72h"

	defaultUserAgent   = "PocketAria/dev"
	defaultHTTPTimeout = 2 * time.Minute
	maxResponseBytes   = 64 * 1024
)

// LitterboxRetentions lists the retention values litterbox accepts.
var LitterboxRetentions = []string{"1h", "12h", "24h", "72h"}

// LitterboxConfig describes the litterbox client configuration.
type LitterboxConfig struct {
	Endpoint   string
	Retention  string
	UserAgent  string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Litterbox uploads blobs to litterbox.catbox.moe.
type Litterbox struct {
	endpoint  string
	retention string
	userAgent string
	http      *http.Client
	logger    *slog.Logger
}

// NewLitterbox creates a client from the supplied configuration.
func NewLitterbox(cfg LitterboxConfig) (*Litterbox, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = DefaultLitterboxEndpoint
	}
	parsed, err := url.Parse(endpoint)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, fmt.Errorf("litterbox: invalid endpoint %q", endpoint)
	}
	retention := strings.TrimSpace(cfg.Retention)
	if retention == "" {
		retention = DefaultRetention
	}
	if !supportedRetention(retention) {
		return nil, fmt.Errorf("litterbox: unsupported retention %q (want one of %s)", retention, strings.Join(LitterboxRetentions, ", "))
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Litterbox{
		endpoint:  endpoint,
		retention: retention,
		userAgent: userAgent,
		http:      client,
		logger:    logging.NewComponentLogger(cfg.Logger, "litterbox"),
	}, nil
}

func supportedRetention(value string) bool {
	for _, candidate := range LitterboxRetentions {
		if candidate == value {
			return true
		}
	}
	return false
}

// Name identifies the host in errors and logs.
func (l *Litterbox) Name() string { return "litterbox" }

// Upload posts the blob as fileToUpload and returns the retrieval URL.
func (l *Litterbox) Upload(ctx context.Context, blob library.Blob, filename string) (string, error) {
	if l == nil {
		return "", errors.New("litterbox: client is nil")
	}
	body, contentType, err := l.form(blob, filename)
	if err != nil {
		return "", &UploadError{Host: l.Name(), Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.endpoint, body)
	if err != nil {
		return "", &UploadError{Host: l.Name(), Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", l.userAgent)

	started := time.Now()
	resp, err := l.http.Do(req)
	if err != nil {
		return "", &UploadError{Host: l.Name(), Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", &UploadError{Host: l.Name(), StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}
	text := strings.TrimSpace(string(raw))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !looksLikeURL(text) {
		l.logRejected(resp.StatusCode, text)
		return "", &UploadError{Host: l.Name(), StatusCode: resp.StatusCode, Body: truncate(text)}
	}

	l.logger.Debug("blob uploaded",
		logging.String("url", text),
		logging.Int(logging.FieldBytes, blob.Len()),
		logging.Duration("elapsed", time.Since(started)),
	)
	return text, nil
}

func (l *Litterbox) form(blob library.Blob, filename string) (*bytes.Buffer, string, error) {
	if strings.TrimSpace(filename) == "" {
		filename = "blob"
	}
	mimeType := blob.Type
	if mimeType == "" {
		mimeType = blobcodec.DetectMIME(blob.Data, filename)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("reqtype", "fileupload"); err != nil {
		return nil, "", fmt.Errorf("write reqtype: %w", err)
	}
	if err := writer.WriteField("time", l.retention); err != nil {
		return nil, "", fmt.Errorf("write time: %w", err)
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="fileToUpload"; filename=%q`, filename))
	header.Set("Content-Type", mimeType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("create file part: %w", err)
	}
	if _, err := part.Write(blob.Data); err != nil {
		return nil, "", fmt.Errorf("write file part: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("close form: %w", err)
	}
	return &buf, writer.FormDataContentType(), nil
}

func (l *Litterbox) logRejected(status int, body string) {
	logging.WarnWithContext(l.logger, "litterbox rejected upload", "blobhost_upload_rejected",
		logging.Int("status", status),
		logging.String("response", truncate(body)),
		logging.String(logging.FieldErrorHint, "retry later or switch permalink.host"),
		logging.String(logging.FieldImpact, "permalink not created"),
	)
}

// looksLikeURL applies litterbox's informal contract: success bodies are a
// bare URL, failures are free text that usually mentions an error.
func looksLikeURL(body string) bool {
	if body == "" || strings.Contains(strings.ToLower(body), "error") {
		return false
	}
	if !strings.HasPrefix(body, "http") {
		return false
	}
	parsed, err := url.Parse(body)
	return err == nil && parsed.Host != ""
}
