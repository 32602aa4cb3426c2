package scraper

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"newsfeed/internal/domain"
	"regexp"
	"time"
)

const (
	requestTimeout = 10 * time.Second
	maxBodySize    = 1 << 20 // читаем не больше 1 МБ страницы
)

// defaultDescriptionPattern ищет мета-тег description в обоих порядках
// атрибутов: name перед content и наоборот.
var defaultDescriptionPattern = regexp.MustCompile(
	`(?i)<meta\s+(?:name=["']description["']\s+content=["']([^"']*)["']|content=["']([^"']*)["']\s+name=["']description["'])`,
)

// ContentFetcher извлекает описание новости со страницы статьи,
// когда RSS-лента не содержит описания. Выполняет один GET-запрос
// с таймаутом и ищет мета-тег description в HTML. Сбой здесь не
// фатален: вызывающая сторона подставляет заголовок новости.
type ContentFetcher struct {
	client  *http.Client
	pattern *regexp.Regexp
	log     *slog.Logger
}

func NewContentFetcher(log *slog.Logger) *ContentFetcher {
	return &ContentFetcher{
		client:  &http.Client{Timeout: requestTimeout},
		pattern: defaultDescriptionPattern,
		log:     log,
	}
}

// SetPattern заменяет шаблон поиска описания. Шаблон должен содержать
// хотя бы одну группу захвата.
func (f *ContentFetcher) SetPattern(pattern *regexp.Regexp) {
	f.pattern = pattern
}

// FetchDescription загружает страницу статьи и возвращает найденное
// описание. Возвращает пустую строку без ошибки, если описание
// не найдено, и domain.FetchError при сбое транспорта.
func (f *ContentFetcher) FetchDescription(ctx context.Context, articleURL string) (string, error) {
	log := f.log.With(slog.String("url", articleURL))
	log.Info("Fetching article content")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, articleURL, nil)
	if err != nil {
		return "", &domain.FetchError{URL: articleURL, Err: err}
	}
	resp, err := f.client.Do(req)
	if err != nil {
		log.Warn("Article fetch failed", slog.Any("error", err))
		return "", &domain.FetchError{URL: articleURL, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Warn("Unexpected status code", slog.Int("status_code", resp.StatusCode))
		return "", &domain.FetchError{
			URL: articleURL,
			Err: fmt.Errorf("unexpected status code: %d", resp.StatusCode),
		}
	}
	html, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", &domain.FetchError{URL: articleURL, Err: err}
	}
	return f.extractDescription(html), nil
}

// extractDescription возвращает первую непустую группу захвата
// или пустую строку, если мета-тег не найден.
func (f *ContentFetcher) extractDescription(html []byte) string {
	matches := f.pattern.FindSubmatch(html)
	for i := 1; i < len(matches); i++ {
		if len(matches[i]) > 0 {
			return string(matches[i])
		}
	}
	return ""
}
