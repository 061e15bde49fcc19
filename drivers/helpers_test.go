package drivers

import (
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arbiterfs/arbiter/httppool"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func fixedTime(t *testing.T) time.Time {
	t.Helper()
	ts, err := time.Parse(httpDateFormat, "Tue, 27 Mar 2007 19:36:42 +0000")
	require.NoError(t, err)
	return ts
}

// scriptedTransport plays back canned responses and records every request
// it saw, in order.
type scriptedTransport struct {
	mu       sync.Mutex
	requests []*http.Request
	handler  func(call int, req *http.Request) (*http.Response, error)
}

func (s *scriptedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	call := len(s.requests) - 1
	s.mu.Unlock()
	return s.handler(call, req)
}

func (s *scriptedTransport) request(i int) *http.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[i]
}

func (s *scriptedTransport) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func textResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode:    status,
		Header:        http.Header{},
		Body:          io.NopCloser(strings.NewReader(body)),
		ContentLength: int64(len(body)),
	}
}

// scriptedPool builds a connection pool whose client is backed by the
// given transport.
func scriptedPool(transport http.RoundTripper) *httppool.Pool {
	client := &http.Client{Transport: transport}
	return httppool.NewWithClient(4, client, testLogger())
}

// scriptedS3 builds an S3 driver with deterministic time and a scripted
// transport.
func scriptedS3(t *testing.T, transport *scriptedTransport) *S3 {
	t.Helper()
	d := NewS3(AwsAuth{Access: "AKIA", Secret: "shh"}, scriptedPool(transport), testLogger())
	now := fixedTime(t)
	d.now = func() time.Time { return now }
	return d
}
