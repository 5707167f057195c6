package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/streetsmart-service/internal/domain"
	"github.com/streetsmart-service/internal/domain/repository"
	"go.uber.org/zap"
)

// FeedUseCase отдаёт открытые городские обращения, перечитывая файл не чаще reloadInterval
type FeedUseCase struct {
	repo           repository.MunicipalFeedRepository
	path           string
	reloadInterval time.Duration
	logger         *zap.Logger
	now            func() time.Time

	mu     sync.Mutex
	cached *domain.FeedResult
}

func NewFeedUseCase(
	repo repository.MunicipalFeedRepository,
	path string,
	reloadInterval time.Duration,
	logger *zap.Logger,
) *FeedUseCase {
	return &FeedUseCase{
		repo:           repo,
		path:           path,
		reloadInterval: reloadInterval,
		logger:         logger,
		now:            time.Now,
	}
}

// Get возвращает кешированный результат или загружает файл заново
func (uc *FeedUseCase) Get(ctx context.Context) *domain.FeedResult {
	uc.mu.Lock()
	cached := uc.cached
	uc.mu.Unlock()

	if cached != nil && uc.now().Sub(cached.LoadedAt) < uc.reloadInterval {
		return cached
	}
	return uc.Reload(ctx)
}

// Reload перечитывает файл независимо от кеша
func (uc *FeedUseCase) Reload(ctx context.Context) *domain.FeedResult {
	result := uc.repo.Load(ctx, uc.path)
	if result.LoadedAt.IsZero() {
		result.LoadedAt = uc.now().UTC()
	}

	uc.mu.Lock()
	uc.cached = result
	uc.mu.Unlock()

	if result.Warning != "" {
		uc.logger.Warn("Municipal feed loaded with warning", zap.String("warning", result.Warning))
	} else {
		uc.logger.Debug("Municipal feed reloaded", zap.Int("open", len(result.Requests)))
	}
	return result
}

// Refresh - задача для периодического воркера
func (uc *FeedUseCase) Refresh(ctx context.Context) error {
	uc.Reload(ctx)
	return nil
}
