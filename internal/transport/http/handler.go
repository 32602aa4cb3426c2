package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"newsfeed/internal/domain"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
)

const (
	dateParamFormat   = "2006-01-02"
	publishedAtFormat = "2006-01-02 15:04:05"
)

type newsReader interface {
	GetNewsList(ctx context.Context, from, to time.Time, page, limit int) ([]domain.NewsDetail, error)
	GetNewsByID(ctx context.Context, id int64) (*domain.NewsDetail, error)
	DeleteNews(ctx context.Context, id int64) error
}

// newsResponse - плоское представление новости в ответе API.
type newsResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	Category    string `json:"category"`
	Source      string `json:"source"`
	Link        string `json:"link"`
	PublishedAt string `json:"publishedAt"`
}

type Handler struct {
	log          *slog.Logger
	news         newsReader
	defaultLimit int
}

func NewHandler(log *slog.Logger, news newsReader, defaultLimit int) *Handler {
	return &Handler{
		log:          log,
		news:         news,
		defaultLimit: defaultLimit,
	}
}

// getNewsList - хендлер для эндпоинта GET /api/news.
// Параметры from и to задают период (включительно, формат YYYY-MM-DD),
// по умолчанию последние семь дней; page и limit - пагинация.
func (h *Handler) getNewsList(w http.ResponseWriter, r *http.Request) {
	const op = "transport.http/getNewsList"
	log := h.log.With(slog.String("op", op))

	now := time.Now()
	from, err := parseDateParam(r, "from", now.AddDate(0, 0, -7))
	if err != nil {
		log.Warn("invalid from parameter", slog.Any("error", err))
		respondWithError(w, http.StatusBadRequest, "Invalid 'from' parameter")
		return
	}
	to, err := parseDateParam(r, "to", now)
	if err != nil {
		log.Warn("invalid to parameter", slog.Any("error", err))
		respondWithError(w, http.StatusBadRequest, "Invalid 'to' parameter")
		return
	}
	// Верхняя граница включает весь день.
	to = to.Add(24*time.Hour - time.Second)

	page, err := parseIntParam(r, "page", 1)
	if err != nil || page <= 0 {
		respondWithError(w, http.StatusBadRequest, "Invalid 'page' parameter")
		return
	}
	limit, err := parseIntParam(r, "limit", h.defaultLimit)
	if err != nil || limit <= 0 {
		respondWithError(w, http.StatusBadRequest, "Invalid 'limit' parameter")
		return
	}

	news, err := h.news.GetNewsList(r.Context(), from, to, page, limit)
	if err != nil {
		log.Error("Failed to get news list", slog.Any("error", err))
		respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	respondWithJSON(w, http.StatusOK, lo.Map(news, func(n domain.NewsDetail, _ int) newsResponse {
		return toResponse(n)
	}))
}

// getNewsByID - хендлер для эндпоинта GET /api/news/{id}.
// Отсутствие записи отвечает 404 и отличимо от сбоя хранилища (500).
func (h *Handler) getNewsByID(w http.ResponseWriter, r *http.Request, id int64) {
	const op = "transport.http/getNewsByID"
	log := h.log.With(slog.String("op", op), slog.Int64("id", id))

	news, err := h.news.GetNewsByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			log.Warn("news not found")
			respondWithError(w, http.StatusNotFound, "News Not Found")
			return
		}
		log.Error("Failed to get news", slog.Any("error", err))
		respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	respondWithJSON(w, http.StatusOK, toResponse(*news))
}

// deleteNews - хендлер для эндпоинта DELETE /api/news/{id}.
func (h *Handler) deleteNews(w http.ResponseWriter, r *http.Request, id int64) {
	const op = "transport.http/deleteNews"
	log := h.log.With(slog.String("op", op), slog.Int64("id", id))

	if err := h.news.DeleteNews(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			log.Warn("news not found")
			respondWithError(w, http.StatusNotFound, "News Not Found")
			return
		}
		log.Error("Failed to delete news", slog.Any("error", err))
		respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// newsItem маршрутизирует запросы /api/news/{id} по методу.
func (h *Handler) newsItem(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/api/news/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		respondWithError(w, http.StatusBadRequest, "Invalid news id")
		return
	}
	switch r.Method {
	case http.MethodGet:
		h.getNewsByID(w, r, id)
	case http.MethodDelete:
		h.deleteNews(w, r, id)
	default:
		respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	}
}

// newsList маршрутизирует запросы /api/news по методу.
func (h *Handler) newsList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}
	h.getNewsList(w, r)
}

// healthCheck - хендлер для проверки состояния сервиса.
func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func toResponse(n domain.NewsDetail) newsResponse {
	return newsResponse{
		ID:          n.ID,
		Title:       n.Title,
		Content:     n.Content,
		Category:    n.Category,
		Source:      n.Source,
		Link:        n.Link,
		PublishedAt: n.PublishedAt.Format(publishedAtFormat),
	}
}

func parseDateParam(r *http.Request, name string, fallback time.Time) (time.Time, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return time.Date(fallback.Year(), fallback.Month(), fallback.Day(), 0, 0, 0, 0, fallback.Location()), nil
	}
	return time.Parse(dateParamFormat, value)
}

func parseIntParam(r *http.Request, name string, fallback int) (int, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return fallback, nil
	}
	return strconv.Atoi(value)
}

// Вспомогательные функции для ответов.
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
