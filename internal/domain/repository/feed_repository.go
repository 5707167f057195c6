package repository

import (
	"context"

	"github.com/streetsmart-service/internal/domain"
)

// MunicipalFeedRepository - источник городских обращений.
// Load никогда не возвращает ошибку: проблемы с файлом попадают в FeedResult.Warning.
type MunicipalFeedRepository interface {
	Load(ctx context.Context, path string) *domain.FeedResult
}
