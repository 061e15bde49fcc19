package drivers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/arbiterfs/arbiter/httppool"
	"github.com/arbiterfs/arbiter/interfaces"
)

// s3BaseHost is the virtual-hosted bucket suffix. Requests go out as plain
// HTTP to http://<bucket>.s3.amazonaws.com/<object>.
const s3BaseHost = ".s3.amazonaws.com"

// S3 is the Amazon S3 driver, registered under the "s3" scheme. Paths are
// scheme-stripped "bucket/object" strings. Every request is signed with AWS
// Signature Version 2 and wrapped in the exponential-backoff retry
// executor. The driver is stateless apart from credentials and the shared
// connection pool.
type S3 struct {
	auth AwsAuth
	pool *httppool.Pool
	exec *retryExecutor
	log  *slog.Logger

	// now is swappable for deterministic signing in tests.
	now func() time.Time
}

// NewS3 creates the S3 driver with the given static credentials.
func NewS3(auth AwsAuth, pool *httppool.Pool, log *slog.Logger) *S3 {
	if log == nil {
		log = slog.Default()
	}
	return &S3{
		auth: auth,
		pool: pool,
		exec: newRetryExecutor(s3Attempts, log),
		log:  log,
		now:  time.Now,
	}
}

// Type returns the URI scheme for this driver.
func (d *S3) Type() string { return "s3" }

// IsRemote reports true.
func (d *S3) IsRemote() bool { return true }

// Get retrieves the object at "bucket/object".
func (d *S3) Get(ctx context.Context, path string) ([]byte, error) {
	bucket, object := splitBucket(path)
	target := s3URL(bucket, object, nil)

	res, err := d.exec.Do(ctx, func() (*httppool.Response, error) {
		headers := d.auth.signedHeaders(http.MethodGet, bucket+"/"+object, "", d.now())
		return d.pool.Get(ctx, target, headers)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: GET s3://%s: %v", interfaces.ErrRequestFailed, path, err)
	}
	if res.StatusCode != http.StatusOK {
		d.log.Debug("S3 fetch failed",
			slog.String("path", path),
			slog.Int("status", res.StatusCode),
			slog.String("body", string(res.Body)))
		return nil, statusError("GET", "s3://"+path, res.StatusCode)
	}
	return res.Body, nil
}

// GetSize returns the size of the object at "bucket/object" via a signed
// HEAD request.
func (d *S3) GetSize(ctx context.Context, path string) (int64, error) {
	bucket, object := splitBucket(path)
	target := s3URL(bucket, object, nil)

	res, err := d.exec.Do(ctx, func() (*httppool.Response, error) {
		headers := d.auth.signedHeaders(http.MethodHead, bucket+"/"+object, "", d.now())
		return d.pool.Head(ctx, target, headers)
	})
	if err != nil {
		return 0, fmt.Errorf("%w: HEAD s3://%s: %v", interfaces.ErrRequestFailed, path, err)
	}
	if res.StatusCode != http.StatusOK {
		return 0, statusError("HEAD", "s3://"+path, res.StatusCode)
	}
	if res.ContentLength < 0 {
		return 0, fmt.Errorf("%w: HEAD s3://%s: no content length", interfaces.ErrRequestFailed, path)
	}
	return res.ContentLength, nil
}

// Put uploads data to "bucket/object" with the fixed octet-stream content
// type covered by the signature.
func (d *S3) Put(ctx context.Context, path string, data []byte) error {
	bucket, object := splitBucket(path)
	target := s3URL(bucket, object, nil)

	res, err := d.exec.Do(ctx, func() (*httppool.Response, error) {
		headers := d.auth.signedHeaders(http.MethodPut, bucket+"/"+object, "application/octet-stream", d.now())
		return d.pool.Put(ctx, target, data, headers)
	})
	if err != nil {
		return fmt.Errorf("%w: PUT s3://%s: %v", interfaces.ErrRequestFailed, path, err)
	}
	if res.StatusCode != http.StatusOK {
		d.log.Debug("S3 upload failed",
			slog.String("path", path),
			slog.Int("status", res.StatusCode),
			slog.String("body", string(res.Body)))
		return statusError("PUT", "s3://"+path, res.StatusCode)
	}
	return nil
}

// splitBucket separates "bucket/rest/of/object" into bucket and object. A
// trailing slash is ignored for the purpose of locating the bucket name.
func splitBucket(path string) (bucket, object string) {
	trimmed := strings.TrimSuffix(path, "/")
	pos := strings.Index(trimmed, "/")
	if pos < 0 {
		return trimmed, ""
	}
	return trimmed[:pos], path[pos+1:]
}

// s3URL builds the plain-HTTP virtual-hosted endpoint for an object, with
// optional listing query parameters.
func s3URL(bucket, object string, query url.Values) string {
	target := "http://" + bucket + s3BaseHost + "/" + object
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	return target
}
