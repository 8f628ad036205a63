// Package blobhost uploads a single blob to a disposable file host and
// fetches blobs back by URL.
//
// Litterbox posts a multipart form to litterbox.catbox.moe with a bounded
// retention and reads the retrieval URL from the plain-text response. The
// host has no documented error contract: a response is accepted only when
// it looks like an http(s) URL and does not mention "error", and rejected
// bodies are logged verbatim. S3 stores the blob in an S3-compatible bucket
// and returns a presigned GET URL valid for the retention window.
//
// No retries happen here; every failure is an UploadError wrapping
// ErrUploadFailed.
package blobhost
