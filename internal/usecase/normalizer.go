package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"newsfeed/internal/domain"
	"strings"
	"time"
)

// Normalizer преобразует черновик элемента ленты в каноническую запись
// новости: разрешает содержимое, дату публикации, рубрику и источник.
// Черновик без ссылки не дает новости (nil, nil) - такая запись
// не публикуется.
type Normalizer struct {
	refs    ReferenceResolver
	scraper ContentScraper
	log     *slog.Logger
}

// NewNormalizer создает новый экземпляр нормализатора.
// Принимает зависимости: резолвер справочников, скрейпер страниц и логгер.
func NewNormalizer(refs ReferenceResolver, scraper ContentScraper, log *slog.Logger) *Normalizer {
	return &Normalizer{
		refs:    refs,
		scraper: scraper,
		log:     log,
	}
}

// Normalize выполняет нормализацию черновика для указанного источника.
// Содержимое берется из описания ленты; при пустом описании - со
// страницы статьи; если и это не удалось - из заголовка. Ошибка
// разбора даты возвращается как domain.DateParseError, неразрешенные
// справочники - как domain.ValidationError. Сбой скрейпера не фатален.
func (n *Normalizer) Normalize(ctx context.Context, draft domain.FeedItemDraft, src domain.FeedSource) (*domain.News, error) {
	tags := src.Tags.WithDefaults()
	title := draft.Get(tags.Title)
	link := strings.TrimSpace(draft.Get(tags.Link))

	content := strings.TrimSpace(draft.Get(tags.Description))
	if content == "" && link != "" {
		n.log.Warn("Empty description at rss, try to get from news link",
			slog.String("source", src.Name),
			slog.String("url", link),
		)
		scraped, err := n.scraper.FetchDescription(ctx, link)
		if err != nil {
			n.log.Warn("Content scrape failed, falling back to title",
				slog.String("url", link),
				slog.Any("error", err),
			)
		}
		content = scraped
	}
	if content == "" {
		content = title
	}

	publishedAt, err := parsePubDate(draft.Get(tags.Date))
	if err != nil {
		return nil, &domain.DateParseError{Value: draft.Get(tags.Date), Err: err}
	}

	if link == "" {
		// Запись без ссылки не публикуется и не считается ошибкой.
		return nil, nil
	}

	category, err := n.refs.GetOrCreateCategory(ctx, draft.Get(tags.Category))
	if err != nil {
		return nil, &domain.ValidationError{Field: "category", Reason: err.Error()}
	}
	source, err := n.refs.GetOrCreateSource(ctx, src.Name, src.URL)
	if err != nil {
		return nil, &domain.ValidationError{Field: "source", Reason: err.Error()}
	}

	return &domain.News{
		Title:       title,
		Content:     content,
		Link:        link,
		PublishedAt: publishedAt,
		CategoryID:  category.ID,
		SourceID:    source.ID,
	}, nil
}

// parsePubDate - вспомогательная функция для парсинга даты в разных форматах.
func parsePubDate(dateStr string) (time.Time, error) {
	formats := []string{
		time.RFC1123Z,
		time.RFC1123,
		time.RFC822Z,
		time.RFC822,
		time.RFC3339,
		"Mon, 2 Jan 2006 15:04:05 -0700",
	}
	for _, format := range formats {
		if t, err := time.Parse(format, strings.TrimSpace(dateStr)); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("could not parse date in any known format: %q", dateStr)
}
