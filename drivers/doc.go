// Package drivers contains the storage backend drivers dispatched by the
// client, one per URI scheme:
//
//   - Fs: local filesystem ("file", also the implicit scheme)
//   - Test: in-memory store for backend-agnostic testing ("test")
//   - HTTP: plain web resources ("http", "https")
//   - S3: Amazon S3 with AWS Signature V2 authentication ("s3")
//   - Dropbox, Google: token-authenticated variants ("dropbox", "gs")
//
// Remote drivers share a bounded connection pool (httppool) and retry
// transient server failures with exponential backoff: 1ms doubling to a
// 4096ms cap, 200 attempts for S3 and 8 for the plain HTTP family. Only
// 5xx statuses and transport-level failures are retried; 4xx and success
// statuses terminate immediately.
//
// The S3 driver implements the legacy protocol surface end to end: v2
// request signing (HMAC-SHA1 over the canonical string, base64-encoded
// into the Authorization header), whole-object GET/PUT, and marker-based
// pagination of bucket listings with single-level directory semantics.
package drivers
