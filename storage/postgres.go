package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"newsfeed/internal/domain"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresNewsDB реализует репозиторий новостей поверх PostgreSQL.
// Уникальные ограничения БД (news.link, categories.name,
// sources(name, rss_url)) являются источником истины для дедупликации
// и справочников: параллельные вставки одного значения сходятся к
// одной записи без блокировок на стороне приложения.
type PostgresNewsDB struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewPostgresNewsDB(pool *pgxpool.Pool, log *slog.Logger) *PostgresNewsDB {
	log.Info("Initializing Postgres news storage")
	return &PostgresNewsDB{
		pool: pool,
		log:  log,
	}
}

func (db *PostgresNewsDB) Close() {
	db.log.Info("Closing database connection pool")
	db.pool.Close()
}

// GetOrCreateCategory возвращает рубрику по имени, создавая ее при
// первом обращении. Проигравший гонку вставки получает существующую
// запись за счет ON CONFLICT DO UPDATE ... RETURNING.
func (db *PostgresNewsDB) GetOrCreateCategory(ctx context.Context, name string) (domain.Category, error) {
	query := `
	INSERT INTO categories (name) VALUES ($1)
	ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
	RETURNING id;`
	var id int64
	if err := db.pool.QueryRow(ctx, query, name).Scan(&id); err != nil {
		db.log.Error("Failed to upsert category",
			slog.String("name", name),
			slog.Any("error", err),
		)
		return domain.Category{}, fmt.Errorf("failed to upsert category %q: %w", name, err)
	}
	return domain.Category{ID: id, Name: name}, nil
}

// GetOrCreateSource возвращает источник по паре (имя, URL ленты),
// создавая его при первом обращении.
func (db *PostgresNewsDB) GetOrCreateSource(ctx context.Context, name, rssURL string) (domain.Source, error) {
	query := `
	INSERT INTO sources (name, rss_url) VALUES ($1, $2)
	ON CONFLICT (name, rss_url) DO UPDATE SET name = EXCLUDED.name
	RETURNING id;`
	var id int64
	if err := db.pool.QueryRow(ctx, query, name, rssURL).Scan(&id); err != nil {
		db.log.Error("Failed to upsert source",
			slog.String("name", name),
			slog.Any("error", err),
		)
		return domain.Source{}, fmt.Errorf("failed to upsert source %q: %w", name, err)
	}
	return domain.Source{ID: id, Name: name, RSSURL: rssURL}, nil
}

// FindByLink возвращает новость по каноническому URL или nil, если
// такой новости нет.
func (db *PostgresNewsDB) FindByLink(ctx context.Context, link string) (*domain.News, error) {
	query := `
	SELECT id, title, content, link, published_at, category_id, source_id
	FROM news WHERE link = $1;`
	news := domain.News{}
	err := db.pool.QueryRow(ctx, query, link).Scan(
		&news.ID,
		&news.Title,
		&news.Content,
		&news.Link,
		&news.PublishedAt,
		&news.CategoryID,
		&news.SourceID,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		db.log.Error("Failed to find news by link",
			slog.String("link", link),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("failed to find news by link: %w", err)
	}
	return &news, nil
}

// CreateNews сохраняет новость и возвращает ее идентификатор.
// Повторная вставка того же link не перезаписывает запись и
// возвращает domain.ErrDuplicateLink.
func (db *PostgresNewsDB) CreateNews(ctx context.Context, news *domain.News) (int64, error) {
	query := `
	INSERT INTO news (title, content, link, published_at, category_id, source_id)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (link) DO NOTHING
	RETURNING id;`
	var id int64
	err := db.pool.QueryRow(ctx, query,
		news.Title,
		news.Content,
		news.Link,
		news.PublishedAt,
		news.CategoryID,
		news.SourceID,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.ErrDuplicateLink
	}
	if err != nil {
		db.log.Error("Failed to insert news",
			slog.String("link", news.Link),
			slog.Any("error", err),
		)
		return 0, fmt.Errorf("failed to insert news: %w", err)
	}
	news.ID = id
	return id, nil
}

// GetNewsByID возвращает развернутую новость с именами рубрики и
// источника; domain.ErrNotFound, если записи нет.
func (db *PostgresNewsDB) GetNewsByID(ctx context.Context, id int64) (*domain.NewsDetail, error) {
	query := `
	SELECT n.id, n.title, n.content, c.name, s.name, n.link, n.published_at
	FROM news n
	JOIN categories c ON c.id = n.category_id
	JOIN sources s ON s.id = n.source_id
	WHERE n.id = $1;`
	detail := domain.NewsDetail{}
	err := db.pool.QueryRow(ctx, query, id).Scan(
		&detail.ID,
		&detail.Title,
		&detail.Content,
		&detail.Category,
		&detail.Source,
		&detail.Link,
		&detail.PublishedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		db.log.Error("Failed to get news by id",
			slog.Int64("id", id),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("failed to get news by id: %w", err)
	}
	return &detail, nil
}

// ListNewsByDateRange возвращает страницу новостей за период.
// Обе границы периода включительны, сортировка по дате публикации
// по убыванию.
func (db *PostgresNewsDB) ListNewsByDateRange(ctx context.Context, from, to time.Time, limit, offset int) ([]domain.NewsDetail, error) {
	query := `
	SELECT n.id, n.title, n.content, c.name, s.name, n.link, n.published_at
	FROM news n
	JOIN categories c ON c.id = n.category_id
	JOIN sources s ON s.id = n.source_id
	WHERE n.published_at >= $1 AND n.published_at <= $2
	ORDER BY n.published_at DESC
	LIMIT $3 OFFSET $4;`
	rows, err := db.pool.Query(ctx, query, from, to, limit, offset)
	if err != nil {
		db.log.Error("Failed to list news", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list news: %w", err)
	}
	defer rows.Close()

	news := []domain.NewsDetail{}
	for rows.Next() {
		detail := domain.NewsDetail{}
		err := rows.Scan(
			&detail.ID,
			&detail.Title,
			&detail.Content,
			&detail.Category,
			&detail.Source,
			&detail.Link,
			&detail.PublishedAt,
		)
		if err != nil {
			db.log.Error("Failed to scan row", slog.Any("error", err))
			return nil, fmt.Errorf("unable to scan row: %w", err)
		}
		news = append(news, detail)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	return news, nil
}

// DeleteNews удаляет новость; domain.ErrNotFound, если записи нет.
func (db *PostgresNewsDB) DeleteNews(ctx context.Context, id int64) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM news WHERE id = $1;`, id)
	if err != nil {
		db.log.Error("Failed to delete news",
			slog.Int64("id", id),
			slog.Any("error", err),
		)
		return fmt.Errorf("failed to delete news: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
