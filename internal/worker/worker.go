package worker

import (
	"context"
	"log/slog"
	"newsfeed/internal/domain"
	"sync"
	"sync/atomic"
	"time"
)

// sourceTimeout ограничивает прогон одного источника, чтобы зависшая
// лента или страница статьи не остановила весь цикл.
const sourceTimeout = 60 * time.Second

// SourceProcessor определяет интерфейс обработки отдельного источника.
// Используется для внедрения зависимости в воркер.
type SourceProcessor interface {
	Run(ctx context.Context, src domain.FeedSource) (*domain.RunReport, error)
}

// Worker реализует фонового воркера для периодической обработки
// источников. Источники независимы и обрабатываются параллельно
// ограниченным пулом горутин.
type Worker struct {
	processor SourceProcessor
	sources   []domain.FeedSource
	interval  time.Duration
	poolSize  int
	log       *slog.Logger
	ctx       context.Context
	cancel    context.CancelFunc
}

// New создает нового воркера для обработки источников.
// poolSize задает максимальное число одновременно обрабатываемых
// источников.
func New(processor SourceProcessor, sources []domain.FeedSource, interval time.Duration, poolSize int, log *slog.Logger) *Worker {
	return &Worker{
		processor: processor,
		sources:   sources,
		interval:  interval,
		poolSize:  poolSize,
		log:       log,
	}
}

// Start запускает воркер в отдельной горутине.
func (w *Worker) Start() {
	w.ctx, w.cancel = context.WithCancel(context.Background())
	go w.run()
}

// Stop останавливает воркер путем отмены контекста. Текущие прогоны
// источников завершаются по отмене своих контекстов.
func (w *Worker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
}

// run выполняет основной цикл работы воркера.
func (w *Worker) run() {
	w.log.Info("Feed processing worker started",
		slog.String("component", "worker"),
		slog.String("interval", w.interval.String()),
		slog.Int("source_count", len(w.sources)),
		slog.Int("pool_size", w.poolSize),
	)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	w.processAllSources()
	for {
		select {
		case <-ticker.C:
			w.processAllSources()
		case <-w.ctx.Done():
			w.log.Info("Worker stopping", slog.String("component", "worker"))
			return
		}
	}
}

// processAllSources обрабатывает все источники пулом из poolSize горутин.
// Считает успешные и неудачные прогоны и суммарные количества
// сохраненных и пропущенных новостей за цикл.
func (w *Worker) processAllSources() {
	start := time.Now()
	w.log.Info("Feed processing cycle started",
		slog.String("component", "worker"),
		slog.Int("sources_to_process", len(w.sources)),
	)
	var wg sync.WaitGroup
	var successCount, errorCount int64
	var persisted, skipped int64
	sem := make(chan struct{}, w.poolSize)
	for _, src := range w.sources {
		wg.Add(1)
		go func(src domain.FeedSource) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-w.ctx.Done():
				return
			}
			opCtx, opCancel := context.WithTimeout(w.ctx, sourceTimeout)
			defer opCancel()
			report, err := w.processor.Run(opCtx, src)
			if err != nil {
				atomic.AddInt64(&errorCount, 1)
				w.log.Error("Source processing failed",
					slog.String("component", "worker"),
					slog.String("source", src.Name),
					slog.Any("error", err),
				)
				return
			}
			atomic.AddInt64(&successCount, 1)
			atomic.AddInt64(&persisted, int64(report.Persisted))
			atomic.AddInt64(&skipped, int64(report.Skipped))
		}(src)
	}
	wg.Wait()
	w.log.Info("Feed processing cycle completed",
		slog.String("component", "worker"),
		slog.Int("successful", int(atomic.LoadInt64(&successCount))),
		slog.Int("errors", int(atomic.LoadInt64(&errorCount))),
		slog.Int("items_saved", int(atomic.LoadInt64(&persisted))),
		slog.Int("items_skipped", int(atomic.LoadInt64(&skipped))),
		slog.Int("total", len(w.sources)),
		slog.Duration("duration", time.Since(start)),
	)
}

// GetSources возвращает список источников, которые обрабатывает воркер.
func (w *Worker) GetSources() []domain.FeedSource { return w.sources }

// GetInterval возвращает интервал обработки источников.
func (w *Worker) GetInterval() time.Duration { return w.interval }
