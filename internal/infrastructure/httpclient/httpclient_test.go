package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLimited(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		limit         int64
		want          string
		wantTruncated bool
	}{
		{name: "shorter than limit", body: "abc", limit: 10, want: "abc"},
		{name: "exactly limit", body: "abcde", limit: 5, want: "abcde"},
		{name: "longer than limit", body: "abcdefgh", limit: 5, want: "abcde", wantTruncated: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, truncated, err := ReadLimited(strings.NewReader(tt.body), tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
			assert.Equal(t, tt.wantTruncated, truncated)
		})
	}
}

func TestBackoff(t *testing.T) {
	base := 500 * time.Millisecond
	assert.Equal(t, 500*time.Millisecond, Backoff(base, 0))
	assert.Equal(t, 500*time.Millisecond, Backoff(base, 1))
	assert.Equal(t, time.Second, Backoff(base, 2))
	assert.Equal(t, 2*time.Second, Backoff(base, 3))
}

func TestSleep_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := Sleep(ctx, time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestGet_SetsHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, BrowserUserAgent, r.Header.Get("User-Agent"))
		assert.Equal(t, "bytes=0-9", r.Header.Get("Range"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	resp, err := Get(context.Background(), New(time.Second), server.URL, BrowserUserAgent, map[string]string{"Range": "bytes=0-9"})
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
