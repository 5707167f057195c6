package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultShutdownTimeout - сколько ждать воркеры при остановке процесса
const DefaultShutdownTimeout = 30 * time.Second

// WorkerManager запускает фоновые задачи процесса и останавливает их вместе
type WorkerManager struct {
	workers []Worker
	logger  *zap.Logger
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
	failed  map[string]error
}

// NewWorkerManager создает новый WorkerManager
func NewWorkerManager(logger *zap.Logger) *WorkerManager {
	return &WorkerManager{
		logger: logger,
		failed: make(map[string]error),
	}
}

// Register добавляет воркер; после Start регистрация не принимается
func (m *WorkerManager) Register(w Worker) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		m.logger.Warn("Worker registered after start is ignored", zap.String("name", w.Name()))
		return
	}
	m.workers = append(m.workers, w)
	m.logger.Info("Worker registered", zap.String("name", w.Name()))
}

// Len - число зарегистрированных воркеров
func (m *WorkerManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.workers)
}

// Start запускает каждый воркер в своей горутине и сразу возвращается
func (m *WorkerManager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return fmt.Errorf("workers already started")
	}
	if len(m.workers) == 0 {
		return fmt.Errorf("no workers registered")
	}
	m.started = true

	m.logger.Info("Starting workers", zap.Int("count", len(m.workers)))
	for _, w := range m.workers {
		m.wg.Add(1)
		go m.run(ctx, w)
	}
	return nil
}

func (m *WorkerManager) run(ctx context.Context, w Worker) {
	defer m.wg.Done()

	if err := w.Start(ctx); err != nil {
		m.logger.Error("Worker failed", zap.String("name", w.Name()), zap.Error(err))
		m.mu.Lock()
		m.failed[w.Name()] = err
		m.mu.Unlock()
	}
}

// Err - ошибка, с которой завершился воркер, или nil
func (m *WorkerManager) Err(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.failed[name]
}

// Stop сигнализирует всем воркерам и ждёт их не дольше DefaultShutdownTimeout
func (m *WorkerManager) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()
	return m.StopContext(ctx)
}

// StopContext - Stop с внешним дедлайном
func (m *WorkerManager) StopContext(ctx context.Context) error {
	m.mu.Lock()
	workers := make([]Worker, len(m.workers))
	copy(workers, m.workers)
	m.mu.Unlock()

	m.logger.Info("Stopping workers", zap.Int("count", len(workers)))
	for _, w := range workers {
		if err := w.Stop(); err != nil {
			m.logger.Error("Failed to stop worker", zap.String("name", w.Name()), zap.Error(err))
		}
	}

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.logger.Info("All workers stopped")
		return nil
	case <-ctx.Done():
		m.logger.Warn("Workers shutdown timed out", zap.Error(ctx.Err()))
		return fmt.Errorf("workers shutdown: %w", ctx.Err())
	}
}
