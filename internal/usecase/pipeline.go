package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"newsfeed/internal/domain"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	itemsPersisted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newsfeed_items_persisted_total",
		Help: "Number of news items persisted per source",
	}, []string{"source"})
	itemsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newsfeed_items_skipped_total",
		Help: "Number of feed items skipped per source and reason",
	}, []string{"source", "reason"})
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newsfeed_runs_total",
		Help: "Number of per-source ingestion runs by outcome",
	}, []string{"source", "status"})
)

// ItemNormalizer определяет интерфейс нормализации черновика в новость.
type ItemNormalizer interface {
	Normalize(ctx context.Context, draft domain.FeedItemDraft, src domain.FeedSource) (*domain.News, error)
}

// IngestionPipeline реализует бизнес-логику обработки одного источника:
// загрузка ленты, декодирование и поэлементная нормализация с сохранением.
// Ошибка отдельного элемента (битая дата, дубль ссылки, валидация)
// не прерывает обработку остальных элементов ленты.
type IngestionPipeline struct {
	fetcher    FeedFetcher
	decoder    FeedDecoder
	normalizer ItemNormalizer
	store      NewsWriter
	log        *slog.Logger
}

// NewIngestionPipeline создает новый экземпляр пайплайна обработки лент.
// Принимает зависимости: загрузчик, декодер, нормализатор, хранилище и логгер.
func NewIngestionPipeline(
	fetcher FeedFetcher,
	decoder FeedDecoder,
	normalizer ItemNormalizer,
	store NewsWriter,
	log *slog.Logger,
) *IngestionPipeline {
	return &IngestionPipeline{
		fetcher:    fetcher,
		decoder:    decoder,
		normalizer: normalizer,
		store:      store,
		log:        log,
	}
}

// Run выполняет полный цикл обработки одного источника.
// Сбой загрузки или декодирования прерывает прогон этого источника и
// возвращает ошибку; прогоны других источников не затрагиваются.
// Лимит MaxItems считает только успешно сохраненные новости.
// Возвращает итоговый отчет с количеством сохраненных и пропущенных
// элементов и причиной каждого пропуска.
func (p *IngestionPipeline) Run(ctx context.Context, src domain.FeedSource) (*domain.RunReport, error) {
	start := time.Now()
	log := p.log.With(
		slog.String("component", "pipeline"),
		slog.String("source", src.Name),
		slog.String("url", src.URL),
	)
	log.Info("Processing feed started")

	reader, err := p.fetcher.Fetch(ctx, src.URL)
	if err != nil {
		log.Error("Feed fetch failed",
			slog.String("stage", "fetch"),
			slog.Any("error", err),
		)
		runsTotal.WithLabelValues(src.Name, "failed").Inc()
		return nil, fmt.Errorf("fetch failed for %s: %w", src.Name, err)
	}
	defer reader.Close()

	drafts, err := p.decoder.Decode(ctx, reader)
	if err != nil {
		log.Error("Feed decoding failed",
			slog.String("stage", "decode"),
			slog.Any("error", err),
		)
		runsTotal.WithLabelValues(src.Name, "failed").Inc()
		return nil, fmt.Errorf("decode failed for %s: %w", src.Name, err)
	}
	log.Debug("Feed decoded successfully",
		slog.String("stage", "decode"),
		slog.Int("items_decoded", len(drafts)),
	)

	report := &domain.RunReport{Source: src.Name}
	for _, draft := range drafts {
		if err := ctx.Err(); err != nil {
			runsTotal.WithLabelValues(src.Name, "cancelled").Inc()
			return report, err
		}
		if report.Persisted >= src.MaxItems {
			log.Info("Reached item limit", slog.Int("limit", src.MaxItems))
			break
		}
		p.processItem(ctx, src, draft, report, log)
	}

	itemsPersisted.WithLabelValues(src.Name).Add(float64(report.Persisted))
	runsTotal.WithLabelValues(src.Name, "ok").Inc()
	log.Info("Feed processing completed",
		slog.Int("items_found", len(drafts)),
		slog.Int("items_saved", report.Persisted),
		slog.Int("items_skipped", report.Skipped),
		slog.Duration("duration", time.Since(start)),
	)
	return report, nil
}

// processItem обрабатывает один элемент ленты изолированно: любая
// ошибка фиксируется в отчете и не влияет на остальные элементы.
func (p *IngestionPipeline) processItem(
	ctx context.Context,
	src domain.FeedSource,
	draft domain.FeedItemDraft,
	report *domain.RunReport,
	log *slog.Logger,
) {
	tags := src.Tags.WithDefaults()
	link := strings.TrimSpace(draft.Get(tags.Link))
	title := draft.Get(tags.Title)

	skip := func(reason domain.SkipReason, err error) {
		report.Skipped++
		report.Failures = append(report.Failures, domain.ItemFailure{
			Link:   link,
			Title:  title,
			Reason: reason,
		})
		itemsSkipped.WithLabelValues(src.Name, string(reason)).Inc()
		log.Warn("Item skipped",
			slog.String("reason", string(reason)),
			slog.String("link", link),
			slog.String("item_title", title),
			slog.Any("error", err),
		)
	}

	// Дубль отсеивается до нормализации, чтобы не ходить за страницей
	// статьи ради новости, которая уже сохранена.
	if link != "" {
		existing, err := p.store.FindByLink(ctx, link)
		if err != nil {
			skip(domain.SkipValidation, err)
			return
		}
		if existing != nil {
			skip(domain.SkipDuplicateLink, nil)
			return
		}
	}

	news, err := p.normalizer.Normalize(ctx, draft, src)
	if err != nil {
		var dateErr *domain.DateParseError
		if errors.As(err, &dateErr) {
			skip(domain.SkipDateParse, err)
			return
		}
		skip(domain.SkipValidation, err)
		return
	}
	if news == nil {
		skip(domain.SkipMissingLink, nil)
		return
	}

	id, err := p.store.CreateNews(ctx, news)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateLink) {
			skip(domain.SkipDuplicateLink, err)
			return
		}
		skip(domain.SkipValidation, err)
		return
	}
	report.Persisted++
	log.Info("News was added",
		slog.Int64("id", id),
		slog.String("link", news.Link),
		slog.String("item_title", news.Title),
	)
}
