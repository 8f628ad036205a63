// Package blobcodec converts binary payloads to and from data-URL text
// (data:<mime>;base64,<payload>) so they can be embedded in JSON documents.
//
// Encoding is lossless for every byte value and for empty payloads. Decode
// fails with ErrMalformedEncoding when the text lacks the data-URL structure
// or the payload is not valid base64. DetectMIME sniffs a payload's type for
// callers that ingest files without a declared MIME type.
package blobcodec
