package repository

import (
	"context"

	"github.com/streetsmart-service/internal/domain"
)

// RepairRequestRepository - хранилище заявок на ремонт
type RepairRequestRepository interface {
	// Append добавляет заявку; повтор id -> domain.ErrDuplicateID
	Append(ctx context.Context, req *domain.RepairRequest) error

	// Upvote увеличивает rating у всех строк с совпадающим id.
	// domain.ErrStoreNotFound - хранилища ещё нет, domain.ErrRequestNotFound - id не найден
	Upvote(ctx context.Context, id string) error

	// ListRecent возвращает до limit заявок, новые первыми
	ListRecent(ctx context.Context, limit int) ([]domain.RepairRequest, error)

	// List возвращает все заявки
	List(ctx context.Context) ([]domain.RepairRequest, error)
}
