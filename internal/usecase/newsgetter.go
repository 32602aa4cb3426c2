package usecase

import (
	"context"
	"newsfeed/internal/domain"
	"time"
)

// NewsGetterUseCase реализует бизнес-логику чтения новостей для API.
// Делегирует вызовы кешированному хранилищу без дополнительной обработки.
type NewsGetterUseCase struct {
	storage NewsReader
}

// NewNewsGetterUseCase создает новый экземпляр UseCase для чтения новостей.
func NewNewsGetterUseCase(s NewsReader) *NewsGetterUseCase {
	return &NewsGetterUseCase{storage: s}
}

// GetNewsList возвращает страницу новостей за период. Обе границы
// периода включительны.
func (us *NewsGetterUseCase) GetNewsList(ctx context.Context, from, to time.Time, page, limit int) ([]domain.NewsDetail, error) {
	return us.storage.GetNewsList(ctx, from, to, page, limit)
}

// GetNewsByID возвращает одну новость; domain.ErrNotFound, если записи нет.
func (us *NewsGetterUseCase) GetNewsByID(ctx context.Context, id int64) (*domain.NewsDetail, error) {
	return us.storage.GetNewsByID(ctx, id)
}

// DeleteNews удаляет новость и инвалидирует связанные записи кеша.
func (us *NewsGetterUseCase) DeleteNews(ctx context.Context, id int64) error {
	return us.storage.DeleteNews(ctx, id)
}
