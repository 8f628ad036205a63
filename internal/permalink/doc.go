// Package permalink turns a single song into a short shareable string and
// back.
//
// Three strategies coexist, each behind its own tag:
//
//	PA1:<payload>  the song document, lz-string compressed to Base64 text
//	PA2:<payload>  the base64url encoded retrieval URL of an uploaded document
//	PA3:<payload>  the song document, zstd-compressed and base64url encoded
//
// The Encoder's Generate method always produces PA2 so that songs with audio
// and scores stay shareable. PA1 decoding also accepts lz-string's
// EncodedURIComponent alphabet. Decoding dispatches on the tag through a
// closed table; an unknown tag fails with ErrUnsupportedVersion before any
// network access happens.
package permalink
