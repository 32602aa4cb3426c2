package fetcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"newsfeed/internal/domain"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const requestTimeout = 15 * time.Second

// HTTPFetcher реализует интерфейс FeedFetcher для загрузки RSS-лент по HTTP.
// Содержит HTTP-клиент с таймаутом запроса и логгер для записи событий.
// Временные сбои (сеть, 5xx) повторяются с экспоненциальной задержкой,
// клиентские ошибки (4xx) не повторяются.
type HTTPFetcher struct {
	client     *http.Client
	log        *slog.Logger
	newBackOff func() backoff.BackOff
}

// NewHTTPFetcher создает новый экземпляр HTTPFetcher для загрузки RSS-лент.
func NewHTTPFetcher(log *slog.Logger) *HTTPFetcher {
	return &HTTPFetcher{
		client:     &http.Client{Timeout: requestTimeout},
		log:        log,
		newBackOff: defaultBackOff,
	}
}

// Fetch выполняет HTTP-запрос для получения RSS-ленты по указанному URL.
// Принимает контекст для контроля времени выполнения и отмены операции.
// Возвращает тело ответа как io.ReadCloser, которое должно быть закрыто
// после использования. Все сбои транспорта оборачиваются в domain.FetchError.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	log := f.log.With(slog.String("url", url))
	log.Info("Fetching URL")

	var body io.ReadCloser
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		resp, err := f.client.Do(req)
		if err != nil {
			log.Warn("HTTP request failed, will retry", slog.Any("error", err))
			return err
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			err := fmt.Errorf("unexpected status code: %d", resp.StatusCode)
			if resp.StatusCode >= http.StatusInternalServerError {
				log.Warn("Server error, will retry", slog.Int("status_code", resp.StatusCode))
				return err
			}
			return backoff.Permanent(err)
		}
		body = resp.Body
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(f.newBackOff(), ctx)); err != nil {
		log.Error("HTTP request failed", slog.Any("error", err))
		return nil, &domain.FetchError{URL: url, Err: err}
	}
	log.Info("Successfully fetched URL")
	return body, nil
}

// defaultBackOff возвращает политику повторов для транспортных сбоев:
// ограниченный экспоненциальный рост задержки.
func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	b.MaxElapsedTime = 10 * time.Second
	return b
}
