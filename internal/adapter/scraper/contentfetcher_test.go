package scraper

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"newsfeed/internal/domain"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentFetcher_FetchDescription_NameFirst(t *testing.T) {
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><meta name="description" content="Article summary"></head></html>`))
	}))
	defer testServer.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fetcher := NewContentFetcher(logger)

	description, err := fetcher.FetchDescription(context.Background(), testServer.URL)

	require.NoError(t, err)
	assert.Equal(t, "Article summary", description)
}

func TestContentFetcher_FetchDescription_ContentFirst(t *testing.T) {
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><meta content="Reversed order" name="description"></head></html>`))
	}))
	defer testServer.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fetcher := NewContentFetcher(logger)

	description, err := fetcher.FetchDescription(context.Background(), testServer.URL)

	require.NoError(t, err)
	assert.Equal(t, "Reversed order", description)
}

func TestContentFetcher_FetchDescription_NotFound(t *testing.T) {
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>No meta here</title></head></html>`))
	}))
	defer testServer.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fetcher := NewContentFetcher(logger)

	description, err := fetcher.FetchDescription(context.Background(), testServer.URL)

	require.NoError(t, err)
	assert.Equal(t, "", description)
}

func TestContentFetcher_FetchDescription_CustomPattern(t *testing.T) {
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p class="lead">Lead paragraph</p></body></html>`))
	}))
	defer testServer.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fetcher := NewContentFetcher(logger)
	fetcher.SetPattern(regexp.MustCompile(`<p class="lead">([^<]*)</p>`))

	description, err := fetcher.FetchDescription(context.Background(), testServer.URL)

	require.NoError(t, err)
	assert.Equal(t, "Lead paragraph", description)
}

func TestContentFetcher_FetchDescription_ServerError(t *testing.T) {
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer testServer.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fetcher := NewContentFetcher(logger)

	description, err := fetcher.FetchDescription(context.Background(), testServer.URL)

	assert.Error(t, err)
	var fetchErr *domain.FetchError
	assert.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, "", description)
}

func TestContentFetcher_FetchDescription_Unreachable(t *testing.T) {
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	testServer.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fetcher := NewContentFetcher(logger)

	description, err := fetcher.FetchDescription(context.Background(), testServer.URL)

	assert.Error(t, err)
	var fetchErr *domain.FetchError
	assert.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, "", description)
}
