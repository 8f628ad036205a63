package blobcodec_test

import (
	"bytes"
	"crypto/rand"
	"errors"
	"strings"
	"testing"

	"pocketaria/internal/blobcodec"
)

func allBytes() []byte {
	out := make([]byte, 256)
	for i := range out {
		out[i] = byte(i)
	}
	return out
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	random := make([]byte, 64*1024+3)
	if _, err := rand.Read(random); err != nil {
		t.Fatalf("rand: %v", err)
	}

	cases := []struct {
		name    string
		payload []byte
		mime    string
	}{
		{"empty", []byte{}, "audio/mpeg"},
		{"nil", nil, "application/pdf"},
		{"every byte", allBytes(), "application/octet-stream"},
		{"random", random, "image/png"},
		{"empty mime", []byte("abc"), ""},
		{"mime with params", []byte("<score/>"), "application/xml;charset=utf-8"},
		{"mime with quoted comma", []byte{0, 1, 255}, `text/plain;name="a,b"`},
		{"mime with base64 marker", []byte("x"), "text/plain;base64,odd"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			text := blobcodec.Encode(tc.payload, tc.mime)
			if !strings.HasPrefix(text, "data:"+tc.mime+";base64,") {
				t.Fatalf("unexpected prefix: %q", text[:min(len(text), 64)])
			}
			payload, mime, err := blobcodec.Decode(text)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if mime != tc.mime {
				t.Fatalf("mime mismatch: got %q want %q", mime, tc.mime)
			}
			if !bytes.Equal(payload, tc.payload) {
				t.Fatalf("payload mismatch: got %d bytes want %d", len(payload), len(tc.payload))
			}
		})
	}
}

func TestEncodeLargePayload(t *testing.T) {
	payload := bytes.Repeat([]byte{0xff, 0x00, 0x7f}, 12*1024*1024/3)
	payload, mime, err := blobcodec.Decode(blobcodec.Encode(payload, "audio/wav"))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if mime != "audio/wav" || len(payload) != 12*1024*1024 {
		t.Fatalf("unexpected result: mime=%q len=%d", mime, len(payload))
	}
}

func TestDecodeRejectsMalformedText(t *testing.T) {
	cases := map[string]string{
		"no separator":  "data:audio/mpeg;base64",
		"no scheme":     "audio/mpeg;base64,AAAA",
		"not base64":    "data:text/plain,hello",
		"bad alphabet":  "data:audio/mpeg;base64,@@@@",
		"bad padding":   "data:audio/mpeg;base64,AAA",
		"plain string":  "hello world",
		"empty string":  "",
	}
	for name, text := range cases {
		t.Run(name, func(t *testing.T) {
			if _, _, err := blobcodec.Decode(text); !errors.Is(err, blobcodec.ErrMalformedEncoding) {
				t.Fatalf("expected ErrMalformedEncoding, got %v", err)
			}
		})
	}
}

func TestDecodeAcceptsBrowserDataURL(t *testing.T) {
	payload, mime, err := blobcodec.Decode("data:application/pdf;base64,JVBERi0=")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if mime != "application/pdf" || string(payload) != "%PDF-" {
		t.Fatalf("unexpected decode: %q %q", mime, payload)
	}
}

func TestDetectMIME(t *testing.T) {
	pdf := []byte("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n")
	png := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

	cases := []struct {
		name     string
		payload  []byte
		filename string
		want     string
	}{
		{"pdf magic", pdf, "score.bin", "application/pdf"},
		{"png magic", png, "", "image/png"},
		{"musicxml extension", []byte("<?xml version=\"1.0\"?>"), "aria.musicxml", "application/vnd.recordare.musicxml+xml"},
		{"unknown", []byte{1, 2, 3}, "", blobcodec.DefaultMIME},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := blobcodec.DetectMIME(tc.payload, tc.filename); got != tc.want {
				t.Fatalf("DetectMIME = %q, want %q", got, tc.want)
			}
		})
	}
	if !blobcodec.IsImage("image/jpeg") || blobcodec.IsImage("application/pdf") {
		t.Fatal("IsImage misclassified types")
	}
}
