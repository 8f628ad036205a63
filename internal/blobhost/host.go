package blobhost

import (
	"context"
	"errors"
	"fmt"

	"pocketaria/internal/library"
)

var (
	// ErrUploadFailed reports a host that rejected or errored on an upload.
	ErrUploadFailed = errors.New("upload failed")
	// ErrFetchFailed reports a retrieval URL that could not be read.
	ErrFetchFailed = errors.New("fetch failed")
)

// Uploader stores one blob and returns the URL it can be fetched from.
type Uploader interface {
	Name() string
	Upload(ctx context.Context, blob library.Blob, filename string) (string, error)
}

// Fetcher reads a blob back from a retrieval URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// UploadError carries the host's answer to a failed upload.
type UploadError struct {
	Host       string
	StatusCode int
	Body       string
	Err        error
}

func (e *UploadError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Host, ErrUploadFailed)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Body != "" {
		msg += ": " + e.Body
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both ErrUploadFailed and the transport cause.
func (e *UploadError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrUploadFailed, e.Err}
	}
	return []error{ErrUploadFailed}
}

const maxLoggedBody = 512

func truncate(body string) string {
	if len(body) <= maxLoggedBody {
		return body
	}
	return body[:maxLoggedBody] + "..."
}
