package storage

import (
	"context"
	"fmt"
	"log/slog"
	"newsfeed/internal/cache"
	"newsfeed/internal/domain"
	"time"
)

// CachedNewsStorage оборачивает хранилище новостей кешем чтения.
// Списочные выборки кешируются под общим тегом, одиночные - под
// ключом по идентификатору. Любая запись инвалидирует ключ записи и
// весь тег списков. Сбой инвалидации не блокирует успешную запись:
// он логируется как domain.CacheError, устаревание кеша - принятая
// деградация.
type CachedNewsStorage struct {
	db    NewsDB
	cache Cache
	log   *slog.Logger
}

func NewCachedNewsStorage(db NewsDB, c Cache, log *slog.Logger) *CachedNewsStorage {
	return &CachedNewsStorage{
		db:    db,
		cache: c,
		log:   log,
	}
}

// GetNewsList возвращает страницу новостей за период, используя кеш.
// Ключ детерминирован параметрами запроса, запись помечается общим
// тегом списочных выборок.
func (s *CachedNewsStorage) GetNewsList(ctx context.Context, from, to time.Time, page, limit int) ([]domain.NewsDetail, error) {
	key := cache.NewsListKey(from, to, page, limit)
	value, err := s.cache.GetOrCompute(ctx, key, []string{cache.ListTag}, func(ctx context.Context) (any, error) {
		offset := (page - 1) * limit
		return s.db.ListNewsByDateRange(ctx, from, to, limit, offset)
	})
	if err != nil {
		return nil, err
	}
	news, ok := value.([]domain.NewsDetail)
	if !ok {
		return nil, fmt.Errorf("unexpected cached value type for key %s", key)
	}
	return news, nil
}

// GetNewsByID возвращает одну новость, используя кеш. Отсутствие
// записи (domain.ErrNotFound) не кешируется.
func (s *CachedNewsStorage) GetNewsByID(ctx context.Context, id int64) (*domain.NewsDetail, error) {
	key := cache.NewsByIDKey(id)
	value, err := s.cache.GetOrCompute(ctx, key, nil, func(ctx context.Context) (any, error) {
		return s.db.GetNewsByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	detail, ok := value.(*domain.NewsDetail)
	if !ok {
		return nil, fmt.Errorf("unexpected cached value type for key %s", key)
	}
	return detail, nil
}

// FindByLink делегирует поиск по ссылке без кеширования: запрос
// используется пайплайном однократно на элемент ленты.
func (s *CachedNewsStorage) FindByLink(ctx context.Context, link string) (*domain.News, error) {
	return s.db.FindByLink(ctx, link)
}

// CreateNews сохраняет новость и инвалидирует затронутые записи кеша.
func (s *CachedNewsStorage) CreateNews(ctx context.Context, news *domain.News) (int64, error) {
	id, err := s.db.CreateNews(ctx, news)
	if err != nil {
		return 0, err
	}
	s.invalidate(id)
	return id, nil
}

// DeleteNews удаляет новость и инвалидирует затронутые записи кеша.
func (s *CachedNewsStorage) DeleteNews(ctx context.Context, id int64) error {
	if err := s.db.DeleteNews(ctx, id); err != nil {
		return err
	}
	s.invalidate(id)
	return nil
}

// invalidate сбрасывает ключ записи и тег списочных выборок.
// Ошибки кеша здесь не возвращаются: запись в БД уже состоялась.
func (s *CachedNewsStorage) invalidate(id int64) {
	key := cache.NewsByIDKey(id)
	if err := s.cache.InvalidateKey(key); err != nil {
		cacheErr := &domain.CacheError{Key: key, Err: err}
		s.log.Error("Cache invalidation failed", slog.Any("error", cacheErr))
	}
	if err := s.cache.InvalidateTag(cache.ListTag); err != nil {
		cacheErr := &domain.CacheError{Key: cache.ListTag, Err: err}
		s.log.Error("Cache invalidation failed", slog.Any("error", cacheErr))
	}
}
