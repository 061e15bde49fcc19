package drivers

import (
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/arbiterfs/arbiter/httppool"
	"github.com/arbiterfs/arbiter/interfaces"
)

// listBucketResult mirrors the XML body of the S3 bucket GET API.
type listBucketResult struct {
	XMLName     xml.Name `xml:"ListBucketResult"`
	IsTruncated string   `xml:"IsTruncated"`
	Contents    []struct {
		Key string `xml:"Key"`
	} `xml:"Contents"`
}

// listingPage is one parsed page of a truncated listing. Transient; pages
// are aggregated in response order and discarded.
type listingPage struct {
	truncated bool
	keys      []string
}

// parseListingPage decodes one listing response body. A well-formed
// response always carries at least the Contents container; its absence is a
// protocol violation, not an empty directory.
func parseListingPage(body []byte) (*listingPage, error) {
	var parsed listBucketResult
	if err := xml.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrMalformedResponse, err)
	}
	if len(parsed.Contents) == 0 {
		return nil, fmt.Errorf("%w: listing without Contents", interfaces.ErrMalformedResponse)
	}

	page := &listingPage{
		truncated: strings.EqualFold(parsed.IsTruncated, "true"),
		keys:      make([]string, 0, len(parsed.Contents)),
	}
	for _, entry := range parsed.Contents {
		if entry.Key == "" {
			return nil, fmt.Errorf("%w: listing entry without Key", interfaces.ErrMalformedResponse)
		}
		page.keys = append(page.keys, entry.Key)
	}
	return page, nil
}

// Resolve expands an S3 glob. The path must end in "/*" (immediate
// children) or "/**" (recursive); anything else is rejected. Matches come
// back scheme-prefixed, in the order the backend returned them.
func (d *S3) Resolve(ctx context.Context, path string, verbose bool) ([]string, error) {
	if !strings.HasSuffix(path, "*") {
		return []string{"s3://" + path}, nil
	}

	recursive := strings.HasSuffix(path, "**")
	if recursive {
		path = strings.TrimSuffix(path, "*")
	}
	if len(path) < 2 || !strings.HasSuffix(path, "/*") {
		return nil, fmt.Errorf("%w: invalid glob path: s3://%s", interfaces.ErrInvalidArgument, path)
	}
	path = strings.TrimSuffix(path, "/*")

	bucket, object := splitBucket(path)
	prefix := ""
	if object != "" {
		prefix = object + "/"
	}
	return d.listBucket(ctx, bucket, prefix, recursive)
}

// listBucket drives the marker-paginated bucket GET protocol, aggregating
// qualifying keys across pages. Unless recursive, a key qualifies only when
// no further path separator follows the prefix, immediate children only.
// The marker for the next page is the last key of the current one, which
// relies on the backend returning keys in lexicographic order.
func (d *S3) listBucket(ctx context.Context, bucket, prefix string, recursive bool) ([]string, error) {
	query := url.Values{}
	if prefix != "" {
		query.Set("prefix", prefix)
	}

	var results []string
	for page := 0; ; page++ {
		target := s3URL(bucket, "", query)

		res, err := d.exec.Do(ctx, func() (*httppool.Response, error) {
			headers := d.auth.signedHeaders(http.MethodGet, bucket+"/", "", d.now())
			return d.pool.Get(ctx, target, headers)
		})
		if err != nil {
			return nil, fmt.Errorf("%w: listing s3://%s: %v", interfaces.ErrRequestFailed, bucket, err)
		}
		if res.StatusCode != http.StatusOK {
			return nil, statusError("GET", "s3://"+bucket+"/?prefix="+prefix, res.StatusCode)
		}

		parsed, err := parseListingPage(res.Body)
		if err != nil {
			return nil, fmt.Errorf("listing s3://%s: %w", bucket, err)
		}

		d.log.Debug("S3 listing page",
			slog.String("bucket", bucket),
			slog.String("prefix", prefix),
			slog.Int("page", page),
			slog.Int("keys", len(parsed.keys)),
			slog.Bool("truncated", parsed.truncated))

		for _, key := range parsed.keys {
			if !strings.HasPrefix(key, prefix) {
				continue
			}
			// The prefix may itself contain slashes; only the level
			// immediately below it is included.
			if !recursive && strings.Contains(key[len(prefix):], "/") {
				continue
			}
			results = append(results, "s3://"+bucket+"/"+key)
		}

		if !parsed.truncated {
			return results, nil
		}

		// Advance from the last raw key of the page, not the last
		// qualifying one; a page whose keys are all filtered out would
		// otherwise be refetched forever.
		query.Set("marker", parsed.keys[len(parsed.keys)-1])
	}
}
