package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"newsfeed/internal/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNewsReader struct {
	list    []domain.NewsDetail
	listErr error
	byID    map[int64]*domain.NewsDetail
	getErr  error

	deleted   []int64
	deleteErr error

	lastFrom  time.Time
	lastTo    time.Time
	lastPage  int
	lastLimit int
}

func (f *fakeNewsReader) GetNewsList(_ context.Context, from, to time.Time, page, limit int) ([]domain.NewsDetail, error) {
	f.lastFrom = from
	f.lastTo = to
	f.lastPage = page
	f.lastLimit = limit
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.list, nil
}

func (f *fakeNewsReader) GetNewsByID(_ context.Context, id int64) (*domain.NewsDetail, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	detail, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return detail, nil
}

func (f *fakeNewsReader) DeleteNews(_ context.Context, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func newTestHandler(reader *fakeNewsReader) *Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(logger, reader, 10)
}

func sampleDetail() domain.NewsDetail {
	return domain.NewsDetail{
		ID:          1,
		Title:       "Item title",
		Content:     "Item content",
		Category:    "Politics",
		Source:      "test-source",
		Link:        "https://example.com/1",
		PublishedAt: time.Date(2024, 3, 5, 14, 30, 15, 0, time.UTC),
	}
}

func TestHandler_GetNewsList_Success(t *testing.T) {
	reader := &fakeNewsReader{list: []domain.NewsDetail{sampleDetail()}}
	handler := newTestHandler(reader)

	req := httptest.NewRequest(http.MethodGet, "/api/news?from=2024-03-01&to=2024-03-08&page=2&limit=5", nil)
	rec := httptest.NewRecorder()
	handler.newsList(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body []newsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, int64(1), body[0].ID)
	assert.Equal(t, "Item title", body[0].Title)
	assert.Equal(t, "Politics", body[0].Category)
	assert.Equal(t, "test-source", body[0].Source)
	assert.Equal(t, "2024-03-05 14:30:15", body[0].PublishedAt)

	assert.Equal(t, 2, reader.lastPage)
	assert.Equal(t, 5, reader.lastLimit)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), reader.lastFrom)
	// Верхняя граница растягивается до конца дня.
	assert.Equal(t, time.Date(2024, 3, 8, 23, 59, 59, 0, time.UTC), reader.lastTo)
}

func TestHandler_GetNewsList_Defaults(t *testing.T) {
	reader := &fakeNewsReader{}
	handler := newTestHandler(reader)

	req := httptest.NewRequest(http.MethodGet, "/api/news", nil)
	rec := httptest.NewRecorder()
	handler.newsList(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, reader.lastPage)
	assert.Equal(t, 10, reader.lastLimit)

	wantFrom := time.Now().AddDate(0, 0, -7)
	assert.Equal(t, wantFrom.Year(), reader.lastFrom.Year())
	assert.Equal(t, wantFrom.YearDay(), reader.lastFrom.YearDay())
	assert.True(t, reader.lastTo.After(time.Now()))
}

func TestHandler_GetNewsList_InvalidParams(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"bad from", "?from=03-01-2024"},
		{"bad to", "?to=tomorrow"},
		{"bad page", "?page=abc"},
		{"zero page", "?page=0"},
		{"negative limit", "?limit=-5"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler := newTestHandler(&fakeNewsReader{})

			req := httptest.NewRequest(http.MethodGet, "/api/news"+tc.query, nil)
			rec := httptest.NewRecorder()
			handler.newsList(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandler_GetNewsList_StorageError(t *testing.T) {
	reader := &fakeNewsReader{listErr: errors.New("db unavailable")}
	handler := newTestHandler(reader)

	req := httptest.NewRequest(http.MethodGet, "/api/news", nil)
	rec := httptest.NewRecorder()
	handler.newsList(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandler_GetNewsByID_Success(t *testing.T) {
	detail := sampleDetail()
	reader := &fakeNewsReader{byID: map[int64]*domain.NewsDetail{1: &detail}}
	handler := newTestHandler(reader)

	req := httptest.NewRequest(http.MethodGet, "/api/news/1", nil)
	rec := httptest.NewRecorder()
	handler.newsItem(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body newsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(1), body.ID)
	assert.Equal(t, "2024-03-05 14:30:15", body.PublishedAt)
}

func TestHandler_GetNewsByID_NotFound(t *testing.T) {
	handler := newTestHandler(&fakeNewsReader{})

	req := httptest.NewRequest(http.MethodGet, "/api/news/99", nil)
	rec := httptest.NewRecorder()
	handler.newsItem(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_GetNewsByID_StorageError(t *testing.T) {
	reader := &fakeNewsReader{getErr: errors.New("db unavailable")}
	handler := newTestHandler(reader)

	req := httptest.NewRequest(http.MethodGet, "/api/news/1", nil)
	rec := httptest.NewRecorder()
	handler.newsItem(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandler_NewsItem_InvalidID(t *testing.T) {
	handler := newTestHandler(&fakeNewsReader{})

	for _, id := range []string{"abc", "0", "-1"} {
		req := httptest.NewRequest(http.MethodGet, "/api/news/"+id, nil)
		rec := httptest.NewRecorder()
		handler.newsItem(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
}

func TestHandler_DeleteNews_Success(t *testing.T) {
	reader := &fakeNewsReader{}
	handler := newTestHandler(reader)

	req := httptest.NewRequest(http.MethodDelete, "/api/news/7", nil)
	rec := httptest.NewRecorder()
	handler.newsItem(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int64{7}, reader.deleted)
}

func TestHandler_DeleteNews_NotFound(t *testing.T) {
	reader := &fakeNewsReader{deleteErr: domain.ErrNotFound}
	handler := newTestHandler(reader)

	req := httptest.NewRequest(http.MethodDelete, "/api/news/99", nil)
	rec := httptest.NewRecorder()
	handler.newsItem(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_NewsList_MethodNotAllowed(t *testing.T) {
	handler := newTestHandler(&fakeNewsReader{})

	req := httptest.NewRequest(http.MethodPost, "/api/news", nil)
	rec := httptest.NewRecorder()
	handler.newsList(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandler_NewsItem_MethodNotAllowed(t *testing.T) {
	handler := newTestHandler(&fakeNewsReader{})

	req := httptest.NewRequest(http.MethodPost, "/api/news/1", nil)
	rec := httptest.NewRecorder()
	handler.newsItem(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandler_HealthCheck(t *testing.T) {
	handler := newTestHandler(&fakeNewsReader{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	handler.healthCheck(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}
