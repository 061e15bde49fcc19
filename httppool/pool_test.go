package httppool

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type transportFunc func(*http.Request) (*http.Response, error)

func (f transportFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestPool(size int, rt transportFunc) *Pool {
	client := &http.Client{Transport: rt}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewWithClient(size, client, log)
}

func textResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode:    status,
		Header:        http.Header{"Content-Type": []string{"text/plain"}},
		ContentLength: int64(len(body)),
		Body:          io.NopCloser(strings.NewReader(body)),
	}
}

func TestPoolDoBuffersBody(t *testing.T) {
	pool := newTestPool(1, func(req *http.Request) (*http.Response, error) {
		return textResponse(200, "hello"), nil
	})

	res, err := pool.Get(context.Background(), "http://example.com/x", nil)
	require.NoError(t, err)
	assert.Equal(t, 200, res.StatusCode)
	assert.Equal(t, []byte("hello"), res.Body)
	assert.Equal(t, int64(5), res.ContentLength)
	assert.Equal(t, "text/plain", res.Header.Get("Content-Type"))
}

func TestPoolBoundsConcurrency(t *testing.T) {
	const size = 4
	const total = 20

	var inFlight, peak atomic.Int32
	pool := newTestPool(size, func(req *http.Request) (*http.Response, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return textResponse(200, "ok"), nil
	})

	var wg sync.WaitGroup
	for i := 0; i < total; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := pool.Get(context.Background(), "http://example.com/", nil)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, peak.Load(), int32(size))
	assert.Greater(t, peak.Load(), int32(0))
}

func TestPoolReleasesSlotOnTransportError(t *testing.T) {
	pool := newTestPool(1, func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})

	// With a single slot, a leaked slot would deadlock the second call.
	for i := 0; i < 3; i++ {
		_, err := pool.Get(context.Background(), "http://example.com/", nil)
		assert.Error(t, err)
	}
}

func TestPoolCancelledWait(t *testing.T) {
	release := make(chan struct{})
	pool := newTestPool(1, func(req *http.Request) (*http.Response, error) {
		<-release
		return textResponse(200, "ok"), nil
	})

	started := make(chan struct{})
	go func() {
		close(started)
		pool.Get(context.Background(), "http://example.com/slow", nil)
	}()
	<-started
	time.Sleep(10 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := pool.Get(ctx, "http://example.com/blocked", nil)
	assert.ErrorIs(t, err, context.Canceled)

	close(release)
}

func TestPoolPutSetsContentLength(t *testing.T) {
	var got *http.Request
	pool := newTestPool(1, func(req *http.Request) (*http.Response, error) {
		got = req
		return textResponse(200, ""), nil
	})

	headers := http.Header{"Content-Type": []string{"application/octet-stream"}}
	_, err := pool.Put(context.Background(), "http://example.com/obj", []byte("payload"), headers)
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, http.MethodPut, got.Method)
	assert.Equal(t, int64(7), got.ContentLength)
	assert.Equal(t, "application/octet-stream", got.Header.Get("Content-Type"))
	assert.Empty(t, got.TransferEncoding)
}

func TestPoolSizeDefaults(t *testing.T) {
	assert.Equal(t, DefaultSize, New(0, nil).Size())
	assert.Equal(t, 7, New(7, nil).Size())
}

func TestResponseHelpers(t *testing.T) {
	assert.True(t, (&Response{StatusCode: 200}).Ok())
	assert.True(t, (&Response{StatusCode: 204}).Ok())
	assert.False(t, (&Response{StatusCode: 404}).Ok())

	assert.True(t, (&Response{StatusCode: 503}).ServerError())
	assert.False(t, (&Response{StatusCode: 404}).ServerError())
	assert.False(t, (&Response{StatusCode: 200}).ServerError())
}
