package repair

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/streetsmart-service/internal/domain"
	"github.com/streetsmart-service/internal/domain/repository"
	"github.com/streetsmart-service/internal/usecase"
	"github.com/streetsmart-service/internal/worker"
	"go.uber.org/zap"
)

const retryDelay = 500 * time.Millisecond

// ProjectionWorker читает журнал заявок и применяет события к SQL проекции
type ProjectionWorker struct {
	*worker.BaseWorker
	streamRepo   repository.StreamRepository
	projectionUC *usecase.ProjectionUseCase
	stream       string
	group        string
	consumerName string
	maxRetries   int
}

// NewProjectionWorker создает новый ProjectionWorker
func NewProjectionWorker(
	streamRepo repository.StreamRepository,
	projectionUC *usecase.ProjectionUseCase,
	stream string,
	consumerGroup string,
	maxRetries int,
	logger *zap.Logger,
) *ProjectionWorker {
	hostname, _ := os.Hostname()
	if maxRetries < 1 {
		maxRetries = 1
	}

	return &ProjectionWorker{
		BaseWorker:   worker.NewBaseWorker("repair-projection", logger),
		streamRepo:   streamRepo,
		projectionUC: projectionUC,
		stream:       stream,
		group:        consumerGroup,
		consumerName: fmt.Sprintf("%s-%s", hostname, uuid.NewString()[:8]),
		maxRetries:   maxRetries,
	}
}

// Start запускает воркер
func (w *ProjectionWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting ProjectionWorker",
		zap.String("stream", w.stream),
		zap.String("consumer_group", w.group),
		zap.String("consumer_name", w.consumerName))

	if err := w.streamRepo.CreateConsumerGroup(ctx, w.stream, w.group); err != nil {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	// ConsumeStream завершается по отмене контекста, Stop отменяет его
	consumeCtx, cancel := w.RunContext(ctx)
	defer cancel()

	messages, err := w.streamRepo.ConsumeStream(consumeCtx, w.stream, w.group, w.consumerName)
	if err != nil {
		return fmt.Errorf("failed to consume stream: %w", err)
	}

	for msg := range messages {
		w.handle(consumeCtx, msg)
	}

	logger.Info("ProjectionWorker stopped")
	return nil
}

// handle повторяет временные ошибки до maxRetries; после этого и для битых сообщений - ACK
func (w *ProjectionWorker) handle(ctx context.Context, msg domain.StreamMessage) {
	logger := w.Logger().With(zap.String("message_id", msg.ID))

	var err error
	for attempt := 1; attempt <= w.maxRetries; attempt++ {
		err = w.projectionUC.HandleMessage(ctx, msg.Data)
		if err == nil || errors.Is(err, usecase.ErrInvalidEvent) {
			break
		}

		logger.Warn("Failed to project event",
			zap.Int("attempt", attempt),
			zap.Error(err))
		if attempt == w.maxRetries {
			break
		}
		select {
		case <-ctx.Done():
			// без ACK: сообщение останется в pending списке группы
			return
		case <-time.After(retryDelay * time.Duration(attempt)):
		}
	}

	switch {
	case err == nil:
	case errors.Is(err, usecase.ErrInvalidEvent):
		logger.Warn("Skipping invalid event", zap.Error(err))
	default:
		logger.Error("Dropping event after retries", zap.Int("max_retries", w.maxRetries), zap.Error(err))
	}

	if err := w.streamRepo.AckMessage(ctx, w.stream, w.group, msg.ID); err != nil {
		logger.Error("Failed to ack message", zap.Error(err))
	}
}
