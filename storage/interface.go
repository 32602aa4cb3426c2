package storage

import (
	"context"
	"newsfeed/internal/domain"
	"time"
)

// NewsDB определяет интерфейс хранилища новостей, которое оборачивает
// кеширующая прослойка.
type NewsDB interface {
	FindByLink(ctx context.Context, link string) (*domain.News, error)
	CreateNews(ctx context.Context, news *domain.News) (int64, error)
	GetNewsByID(ctx context.Context, id int64) (*domain.NewsDetail, error)
	ListNewsByDateRange(ctx context.Context, from, to time.Time, limit, offset int) ([]domain.NewsDetail, error)
	DeleteNews(ctx context.Context, id int64) error
}

// Cache определяет интерфейс кеша чтения: вычисление по промаху с
// сохранением под ключом и тегами, точечная и групповая инвалидация.
type Cache interface {
	GetOrCompute(ctx context.Context, key string, tags []string, compute func(ctx context.Context) (any, error)) (any, error)
	InvalidateKey(key string) error
	InvalidateTag(tag string) error
}
