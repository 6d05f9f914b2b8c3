package cleanup

import (
	"context"
	"time"
)

// AppointmentPurger удаляет отмененные записи старше cutoff
type AppointmentPurger interface {
	PurgeCancelled(ctx context.Context, cutoff time.Time) (int64, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Worker периодическая очистка отмененных записей
// Отмененные записи не участвуют в проверке конфликтов, но копятся в таблице;
// worker удаляет те, что отменены раньше срока хранения
type Worker struct {
	purger       AppointmentPurger
	interval     time.Duration
	retention    time.Duration
	timeProvider TimeProvider
	logger       Logger
	stopCh       chan struct{}
	doneCh       chan struct{}
}

// NewWorker создает новый worker очистки
func NewWorker(purger AppointmentPurger, interval, retention time.Duration, logger Logger) *Worker {
	return &Worker{
		purger:       purger,
		interval:     interval,
		retention:    retention,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}
}

// Start запускает периодическую очистку в отдельной горутине
// Первый проход выполняется сразу, далее по тикеру
func (w *Worker) Start(ctx context.Context) {
	go w.run(ctx)
}

// Stop останавливает worker и дожидается завершения текущего прохода
func (w *Worker) Stop() {
	close(w.stopCh)
	<-w.doneCh
}

func (w *Worker) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("cleanup worker started: interval=%s, retention=%s", w.interval, w.retention)

	w.purge(ctx)

	for {
		select {
		case <-ticker.C:
			w.purge(ctx)
		case <-w.stopCh:
			w.logger.Info("cleanup worker stopped")
			return
		case <-ctx.Done():
			w.logger.Info("cleanup worker context cancelled")
			return
		}
	}
}

func (w *Worker) purge(ctx context.Context) {
	cutoff := w.timeProvider.Now().Add(-w.retention)

	deleted, err := w.purger.PurgeCancelled(ctx, cutoff)
	if err != nil {
		w.logger.Error("cleanup worker: purge failed: %v", err)
		return
	}

	if deleted > 0 {
		w.logger.Info("cleanup worker: purged %d cancelled appointments", deleted)
	}
}
