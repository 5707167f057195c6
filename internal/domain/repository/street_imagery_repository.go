package repository

import (
	"context"

	"github.com/streetsmart-service/internal/domain"
)

// StreetImageryRepository - индекс уличных фотографий по bbox
type StreetImageryRepository interface {
	Images(ctx context.Context, bbox domain.BoundingBox, accessToken string, limit int) ([]domain.StreetImagePoint, error)
}
