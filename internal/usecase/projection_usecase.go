package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/streetsmart-service/internal/domain"
	"github.com/streetsmart-service/internal/domain/repository"
	"go.uber.org/zap"
)

// ErrInvalidEvent - сообщение невозможно обработать, повтор не поможет
var ErrInvalidEvent = errors.New("invalid repair event")

// ProjectionUseCase применяет события журнала к SQL проекции
type ProjectionUseCase struct {
	repo   repository.RepairRequestRepository
	logger *zap.Logger
}

func NewProjectionUseCase(repo repository.RepairRequestRepository, logger *zap.Logger) *ProjectionUseCase {
	return &ProjectionUseCase{
		repo:   repo,
		logger: logger,
	}
}

// HandleMessage разбирает JSON события и применяет его
func (uc *ProjectionUseCase) HandleMessage(ctx context.Context, data string) error {
	var event domain.RepairEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	return uc.Apply(ctx, &event)
}

// Apply идемпотентен для Created: повторная доставка не создаёт дубль.
// Upvoted для неизвестной заявки пропускается.
func (uc *ProjectionUseCase) Apply(ctx context.Context, event *domain.RepairEvent) error {
	if err := event.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}

	switch event.Type {
	case domain.RepairEventCreated:
		err := uc.repo.Append(ctx, event.Request)
		if errors.Is(err, domain.ErrDuplicateID) {
			uc.logger.Debug("Created event already projected", zap.String("request_id", event.RequestID))
			return nil
		}
		if err != nil {
			return fmt.Errorf("project created event: %w", err)
		}

	case domain.RepairEventUpvoted:
		err := uc.repo.Upvote(ctx, event.RequestID)
		if errors.Is(err, domain.ErrRequestNotFound) || errors.Is(err, domain.ErrStoreNotFound) {
			uc.logger.Warn("Upvote for unknown request skipped", zap.String("request_id", event.RequestID))
			return nil
		}
		if err != nil {
			return fmt.Errorf("project upvoted event: %w", err)
		}
	}

	uc.logger.Debug("Event projected",
		zap.String("type", string(event.Type)),
		zap.String("request_id", event.RequestID))
	return nil
}
