package usecase

import (
	"context"
	"io"
	"newsfeed/internal/domain"
	"time"
)

// FeedFetcher определяет интерфейс для загрузки данных RSS-лент из
// внешних источников. Возвращает io.ReadCloser, который должен быть
// закрыт после использования.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}

// FeedDecoder определяет интерфейс для разбора RSS-данных в черновики
// новостей. Черновики следуют в порядке элементов ленты.
type FeedDecoder interface {
	Decode(ctx context.Context, reader io.Reader) ([]domain.FeedItemDraft, error)
}

// ContentScraper определяет интерфейс для извлечения описания со
// страницы статьи, когда лента не содержит описания.
type ContentScraper interface {
	FetchDescription(ctx context.Context, articleURL string) (string, error)
}

// ReferenceResolver разрешает справочные записи рубрик и источников.
// Операции идемпотентны: повторный вызов с тем же именем возвращает
// существующую запись, параллельные вызовы не создают дублей.
type ReferenceResolver interface {
	GetOrCreateCategory(ctx context.Context, name string) (domain.Category, error)
	GetOrCreateSource(ctx context.Context, name, rssURL string) (domain.Source, error)
}

// NewsWriter определяет интерфейс записи новостей.
// CreateNews возвращает domain.ErrDuplicateLink, если новость с таким
// link уже сохранена.
type NewsWriter interface {
	FindByLink(ctx context.Context, link string) (*domain.News, error)
	CreateNews(ctx context.Context, news *domain.News) (int64, error)
}

// NewsReader определяет интерфейс чтения и удаления новостей.
// Используется для предоставления данных через API.
type NewsReader interface {
	GetNewsList(ctx context.Context, from, to time.Time, page, limit int) ([]domain.NewsDetail, error)
	GetNewsByID(ctx context.Context, id int64) (*domain.NewsDetail, error)
	DeleteNews(ctx context.Context, id int64) error
}
