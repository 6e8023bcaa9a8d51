package webpage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/macrolens/datahunter/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "Mozilla/5.0")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><body><p>Zutaten: Zucker</p></body></html>"))
	}))
	defer server.Close()

	html, err := NewFetcher(nil).Fetch(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Contains(t, html, "Zutaten: Zucker")
}

func TestFetch_CapsBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(strings.Repeat("a", maxPageBytes+1000)))
	}))
	defer server.Close()

	html, err := NewFetcher(nil).Fetch(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Len(t, html, maxPageBytes)
}

func TestFetch_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "binary content",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/pdf")
				w.Write([]byte("%PDF-1.4"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			html, err := NewFetcher(nil).Fetch(context.Background(), server.URL)
			assert.Empty(t, html)
			assert.ErrorIs(t, err, domain.ErrProviderFailure)
		})
	}
}

func TestIsTextual(t *testing.T) {
	assert.True(t, isTextual("text/html; charset=utf-8"))
	assert.True(t, isTextual("application/xhtml+xml"))
	assert.False(t, isTextual("image/jpeg"))
}
