package fetcher

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"newsfeed/internal/domain"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFetcher_Fetch_Success(t *testing.T) {
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("test response data"))
	}))
	defer testServer.Close()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fetcher := NewHTTPFetcher(logger)

	ctx := context.Background()
	reader, err := fetcher.Fetch(ctx, testServer.URL)

	require.NoError(t, err)
	defer reader.Close()
	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "test response data", string(data))
}

func TestHTTPFetcher_Fetch_NotFound(t *testing.T) {
	var requests int64
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&requests, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer testServer.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fetcher := NewHTTPFetcher(logger)

	ctx := context.Background()
	reader, err := fetcher.Fetch(ctx, testServer.URL)

	assert.Error(t, err)
	var fetchErr *domain.FetchError
	assert.True(t, errors.As(err, &fetchErr))
	assert.Contains(t, err.Error(), "unexpected status code: 404")
	assert.Nil(t, reader)
	// Клиентские ошибки не повторяются.
	assert.Equal(t, int64(1), atomic.LoadInt64(&requests))
}

func TestHTTPFetcher_Fetch_RetriesServerError(t *testing.T) {
	var requests int64
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&requests, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("recovered"))
	}))
	defer testServer.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fetcher := NewHTTPFetcher(logger)

	ctx := context.Background()
	reader, err := fetcher.Fetch(ctx, testServer.URL)

	require.NoError(t, err)
	defer reader.Close()
	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "recovered", string(data))
	assert.Equal(t, int64(3), atomic.LoadInt64(&requests))
}

func TestHTTPFetcher_InvalidURL(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fetcher := NewHTTPFetcher(logger)
	fetcher.newBackOff = func() backoff.BackOff {
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = time.Millisecond
		b.MaxElapsedTime = 50 * time.Millisecond
		return b
	}

	ctx := context.Background()
	reader, err := fetcher.Fetch(ctx, "invalid://url")

	assert.Error(t, err)
	assert.Nil(t, reader)
}

func TestHTTPFetcher_ContextCancelled(t *testing.T) {
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("slow response"))
	}))
	defer testServer.Close()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fetcher := NewHTTPFetcher(logger)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reader, err := fetcher.Fetch(ctx, testServer.URL)

	assert.Error(t, err)
	assert.Nil(t, reader)
}
