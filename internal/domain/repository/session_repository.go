package repository

import (
	"context"

	"github.com/streetsmart-service/internal/domain"
)

// SessionRepository - хранилище состояния сессий.
// Get для неизвестной сессии возвращает (nil, nil).
type SessionRepository interface {
	Get(ctx context.Context, id string) (*domain.SelectionState, error)
	Save(ctx context.Context, state *domain.SelectionState) error
	Delete(ctx context.Context, id string) error
}
