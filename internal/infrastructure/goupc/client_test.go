package goupc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/macrolens/datahunter/internal/domain"
	"github.com/macrolens/datahunter/internal/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/code/4006381333931", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":"4006381333931","product":{"name":"STABILO BOSS Original","brand":"STABILO","imageUrl":"https://go-upc.s3.amazonaws.com/images/1.jpeg"}}`))
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL, nil, 0, nil)
	info, err := client.Lookup(context.Background(), "4006381333931")

	require.NoError(t, err)
	assert.Equal(t, "4006381333931", info.Barcode)
	assert.Equal(t, "STABILO BOSS Original", info.Name)
	assert.Equal(t, "STABILO", info.Brand)
	assert.Equal(t, "https://go-upc.s3.amazonaws.com/images/1.jpeg", info.ImageURL)
	assert.Contains(t, info.SourceURL, "4006381333931")
}

func TestLookup_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "not found", status: http.StatusNotFound, wantErr: domain.ErrProductNotFound},
		{name: "rate limited", status: http.StatusTooManyRequests, wantErr: domain.ErrRateLimited},
		{name: "server error", status: http.StatusInternalServerError, wantErr: domain.ErrProviderFailure},
		{name: "empty product", status: http.StatusOK, body: `{"code":"1","product":null}`, wantErr: domain.ErrProductNotFound},
		{name: "bad json", status: http.StatusOK, body: `{`, wantErr: domain.ErrProviderFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient("test-key", server.URL, nil, 0, nil)
			info, err := client.Lookup(context.Background(), "1")

			assert.Nil(t, info)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLookup_NotConfigured(t *testing.T) {
	client := NewClient("", "", nil, 0, nil)

	_, err := client.Lookup(context.Background(), "4006381333931")
	assert.ErrorIs(t, err, domain.ErrProviderNotConfigured)
}

func TestLookup_UsesCache(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"product":{"name":"Milka","imageUrl":"https://img.example/m.jpg"}}`))
	}))
	defer server.Close()

	memory := cache.NewMemoryCache()
	defer memory.Close()
	client := NewClient("test-key", server.URL, memory, time.Hour, nil)

	for i := 0; i < 3; i++ {
		info, err := client.Lookup(context.Background(), "7622300336738")
		require.NoError(t, err)
		assert.Equal(t, "Milka", info.Name)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
