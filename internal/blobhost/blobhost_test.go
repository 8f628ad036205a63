package blobhost_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"pocketaria/internal/blobhost"
	"pocketaria/internal/config"
	"pocketaria/internal/library"
	"pocketaria/internal/testsupport"
)

func TestLitterboxUploadPostsMultipartForm(t *testing.T) {
	payload := testsupport.AllBytes()
	var (
		mu       sync.Mutex
		received struct {
			reqtype, retention, filename, contentType string
			data                                      []byte
		}
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse form: %v", err)
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		file, header, err := r.FormFile("fileToUpload")
		if err != nil {
			t.Errorf("form file: %v", err)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)

		mu.Lock()
		received.reqtype = r.FormValue("reqtype")
		received.retention = r.FormValue("time")
		received.filename = header.Filename
		received.contentType = header.Header.Get("Content-Type")
		received.data = data
		mu.Unlock()

		_, _ = io.WriteString(w, "https://litter.catbox.moe/abc123.json\n")
	}))
	defer server.Close()

	client, err := blobhost.NewLitterbox(blobhost.LitterboxConfig{Endpoint: server.URL, HTTPClient: server.Client()})
	if err != nil {
		t.Fatalf("NewLitterbox failed: %v", err)
	}
	got, err := client.Upload(context.Background(), library.Blob{Type: "application/json", Data: payload}, "pocket-aria-project.json")
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if got != "https://litter.catbox.moe/abc123.json" {
		t.Fatalf("unexpected url %q", got)
	}

	mu.Lock()
	defer mu.Unlock()
	if received.reqtype != "fileupload" || received.retention != "72h" {
		t.Fatalf("unexpected form fields reqtype=%q time=%q", received.reqtype, received.retention)
	}
	if received.filename != "pocket-aria-project.json" || received.contentType != "application/json" {
		t.Fatalf("unexpected file part %q %q", received.filename, received.contentType)
	}
	if !bytes.Equal(received.data, payload) {
		t.Fatal("uploaded payload differs")
	}
}

func TestLitterboxRejectsErrorResponses(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, "internal failure"},
		{"payload too large", http.StatusRequestEntityTooLarge, "too big"},
		{"error text with 200", http.StatusOK, "Error: file type not allowed"},
		{"not a url", http.StatusOK, "upload queued"},
		{"empty body", http.StatusOK, ""},
		{"url mentioning error", http.StatusOK, "https://litter.catbox.moe/error.html"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			}))
			defer server.Close()

			client, err := blobhost.NewLitterbox(blobhost.LitterboxConfig{Endpoint: server.URL, HTTPClient: server.Client()})
			if err != nil {
				t.Fatalf("NewLitterbox failed: %v", err)
			}
			url, err := client.Upload(context.Background(), library.Blob{Type: "application/json", Data: []byte("{}")}, "x.json")
			if url != "" {
				t.Fatalf("expected no url, got %q", url)
			}
			if !errors.Is(err, blobhost.ErrUploadFailed) {
				t.Fatalf("expected ErrUploadFailed, got %v", err)
			}
			var uploadErr *blobhost.UploadError
			if !errors.As(err, &uploadErr) {
				t.Fatalf("expected *UploadError, got %T", err)
			}
			if uploadErr.StatusCode != tc.status || uploadErr.Body != tc.body || uploadErr.Host != "litterbox" {
				t.Fatalf("unexpected upload error %+v", uploadErr)
			}
		})
	}
}

func TestLitterboxTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	endpoint := server.URL
	server.Close()

	client, err := blobhost.NewLitterbox(blobhost.LitterboxConfig{Endpoint: endpoint})
	if err != nil {
		t.Fatalf("NewLitterbox failed: %v", err)
	}
	_, err = client.Upload(context.Background(), library.Blob{Data: []byte("x")}, "x.bin")
	if !errors.Is(err, blobhost.ErrUploadFailed) {
		t.Fatalf("expected ErrUploadFailed for closed server, got %v", err)
	}
}

func TestNewLitterboxValidatesConfig(t *testing.T) {
	if _, err := blobhost.NewLitterbox(blobhost.LitterboxConfig{Retention: "48h"}); err == nil {
		t.Fatal("expected unsupported retention error")
	}
	if _, err := blobhost.NewLitterbox(blobhost.LitterboxConfig{Endpoint: "ftp://example.com"}); err == nil {
		t.Fatal("expected invalid endpoint error")
	}
	for _, retention := range blobhost.LitterboxRetentions {
		if _, err := blobhost.NewLitterbox(blobhost.LitterboxConfig{Retention: retention}); err != nil {
			t.Fatalf("retention %s rejected: %v", retention, err)
		}
	}
}

func TestHTTPFetcher(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.json":
			_, _ = io.WriteString(w, `{"id":"a"}`)
		case "/big":
			_, _ = w.Write(bytes.Repeat([]byte("x"), 64))
		default:
			http.Error(w, "gone", http.StatusNotFound)
		}
	}))
	defer server.Close()

	fetcher := blobhost.NewHTTPFetcher(server.Client(), 32)
	data, err := fetcher.Fetch(context.Background(), server.URL+"/ok.json")
	if err != nil || string(data) != `{"id":"a"}` {
		t.Fatalf("Fetch ok: %q %v", data, err)
	}

	for _, target := range []string{server.URL + "/expired", server.URL + "/big", "notaurl", "file:///etc/passwd"} {
		if _, err := fetcher.Fetch(context.Background(), target); !errors.Is(err, blobhost.ErrFetchFailed) {
			t.Fatalf("Fetch %s: expected ErrFetchFailed, got %v", target, err)
		}
	}
}

func TestS3UploadReturnsPresignedURL(t *testing.T) {
	var (
		mu      sync.Mutex
		putPath string
		putType string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			http.Error(w, "unexpected", http.StatusMethodNotAllowed)
			return
		}
		_, _ = io.Copy(io.Discard, r.Body)
		mu.Lock()
		putPath = r.URL.Path
		putType = r.Header.Get("Content-Type")
		mu.Unlock()
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	endpoint := strings.TrimPrefix(server.URL, "http://")
	host, err := blobhost.NewS3(blobhost.S3Config{
		Endpoint:  endpoint,
		Bucket:    "shares",
		AccessKey: "access",
		SecretKey: "secret",
		Prefix:    "/links/",
		Retention: 24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("NewS3 failed: %v", err)
	}
	signed, err := host.Upload(context.Background(), library.Blob{Type: "application/json", Data: []byte(`{"id":"a"}`)}, "song.json")
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if !strings.HasPrefix(putPath, "/shares/links/") || !strings.HasSuffix(putPath, "/song.json") {
		t.Fatalf("unexpected object path %q", putPath)
	}
	if putType != "application/json" {
		t.Fatalf("unexpected content type %q", putType)
	}
	parsed, err := url.Parse(signed)
	if err != nil {
		t.Fatalf("parse presigned url: %v", err)
	}
	if parsed.Path != putPath || parsed.Query().Get("X-Amz-Signature") == "" || parsed.Query().Get("X-Amz-Expires") != "86400" {
		t.Fatalf("unexpected presigned url %q", signed)
	}
}

func TestS3UploadFailureCarriesStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>AccessDenied</Code><Message>Access Denied.</Message></Error>`)
	}))
	defer server.Close()

	host, err := blobhost.NewS3(blobhost.S3Config{
		Endpoint:  strings.TrimPrefix(server.URL, "http://"),
		Bucket:    "shares",
		AccessKey: "access",
		SecretKey: "wrong",
	})
	if err != nil {
		t.Fatalf("NewS3 failed: %v", err)
	}
	_, err = host.Upload(context.Background(), library.Blob{Data: []byte("x")}, "x.json")
	var uploadErr *blobhost.UploadError
	if !errors.As(err, &uploadErr) || !errors.Is(err, blobhost.ErrUploadFailed) {
		t.Fatalf("expected UploadError, got %v", err)
	}
	if uploadErr.StatusCode != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", uploadErr.StatusCode)
	}
}

func TestFromConfigSelectsHost(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	uploader, err := blobhost.FromConfig(cfg, nil)
	if err != nil || uploader.Name() != "litterbox" {
		t.Fatalf("expected litterbox uploader, got %v %v", uploader, err)
	}

	cfg.Permalink.Host = config.HostS3
	cfg.S3.Endpoint = "minio.local:9000"
	cfg.S3.Bucket = "shares"
	uploader, err = blobhost.FromConfig(cfg, nil)
	if err != nil || uploader.Name() != "s3" {
		t.Fatalf("expected s3 uploader, got %v %v", uploader, err)
	}

	cfg.Permalink.Host = "dropbox"
	if _, err := blobhost.FromConfig(cfg, nil); err == nil {
		t.Fatal("expected unknown host error")
	}
}
