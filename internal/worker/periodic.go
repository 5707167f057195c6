package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Task - периодическая задача воркера
type Task func(ctx context.Context) error

// PeriodicWorker выполняет задачу с фиксированным интервалом
type PeriodicWorker struct {
	*BaseWorker
	interval     time.Duration
	task         Task
	runOnStart   bool
	taskDeadline time.Duration
}

// NewPeriodicWorker создает воркер; runOnStart запускает задачу сразу при старте
func NewPeriodicWorker(name string, interval time.Duration, runOnStart bool, task Task, logger *zap.Logger) *PeriodicWorker {
	return &PeriodicWorker{
		BaseWorker:   NewBaseWorker(name, logger),
		interval:     interval,
		task:         task,
		runOnStart:   runOnStart,
		taskDeadline: interval,
	}
}

// Start блокирует до Stop или отмены ctx; Stop прерывает и выполняющуюся задачу
func (w *PeriodicWorker) Start(ctx context.Context) error {
	ctx, cancel := w.RunContext(ctx)
	defer cancel()

	logger := w.Logger()
	logger.Info("Starting periodic worker", zap.Duration("interval", w.interval))

	if w.runOnStart {
		w.run(ctx, logger)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Periodic worker stopped")
			return nil
		case <-ticker.C:
			w.run(ctx, logger)
		}
	}
}

func (w *PeriodicWorker) run(ctx context.Context, logger *zap.Logger) {
	taskCtx, cancel := context.WithTimeout(ctx, w.taskDeadline)
	defer cancel()

	started := time.Now()
	if err := w.task(taskCtx); err != nil {
		logger.Error("Periodic task failed", zap.Error(err))
		return
	}
	logger.Debug("Periodic task finished", zap.Duration("took", time.Since(started)))
}
