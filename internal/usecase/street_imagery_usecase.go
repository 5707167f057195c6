package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/streetsmart-service/internal/domain"
	"github.com/streetsmart-service/internal/domain/repository"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const streetImagesKeyPrefix = "streetimages"

// StreetImageryUseCase - точки уличных снимков с мемоизацией по (bbox, token, limit)
type StreetImageryUseCase struct {
	repo         repository.StreetImageryRepository
	cacheRepo    repository.CacheRepository
	cacheTTL     time.Duration
	defaultBBox  domain.BoundingBox
	defaultLimit int
	accessToken  string
	logger       *zap.Logger

	// одновременные промахи кеша по одному ключу делят один запрос к API
	inflight singleflight.Group
}

func NewStreetImageryUseCase(
	repo repository.StreetImageryRepository,
	cacheRepo repository.CacheRepository,
	cacheTTL time.Duration,
	defaultBBox domain.BoundingBox,
	defaultLimit int,
	accessToken string,
	logger *zap.Logger,
) *StreetImageryUseCase {
	return &StreetImageryUseCase{
		repo:         repo,
		cacheRepo:    cacheRepo,
		cacheTTL:     cacheTTL,
		defaultBBox:  defaultBBox,
		defaultLimit: defaultLimit,
		accessToken:  accessToken,
		logger:       logger,
	}
}

// Fetch никогда не возвращает ошибку: пустой токен или сбой API дают пустой список
func (uc *StreetImageryUseCase) Fetch(ctx context.Context, bbox domain.BoundingBox, token string, limit int) []domain.StreetImagePoint {
	points, _ := uc.fetch(ctx, bbox, token, limit)
	return points
}

// FetchDefault - настроенные bbox/limit/токен; ошибка нужна только для предупреждения на карте
func (uc *StreetImageryUseCase) FetchDefault(ctx context.Context) ([]domain.StreetImagePoint, error) {
	return uc.fetch(ctx, uc.defaultBBox, uc.accessToken, uc.defaultLimit)
}

// FetchBBox - настроенный токен, произвольный bbox
func (uc *StreetImageryUseCase) FetchBBox(ctx context.Context, bbox *domain.BoundingBox, limit int) ([]domain.StreetImagePoint, error) {
	if bbox == nil {
		bbox = &uc.defaultBBox
	}
	if limit <= 0 {
		limit = uc.defaultLimit
	}
	return uc.fetch(ctx, *bbox, uc.accessToken, limit)
}

// Enabled - задан ли токен
func (uc *StreetImageryUseCase) Enabled() bool {
	return uc.accessToken != ""
}

func (uc *StreetImageryUseCase) fetch(ctx context.Context, bbox domain.BoundingBox, token string, limit int) ([]domain.StreetImagePoint, error) {
	if token == "" {
		return []domain.StreetImagePoint{}, nil
	}

	key := streetImagesKey(bbox, token, limit)
	if cached, err := uc.cacheRepo.Get(ctx, key); err != nil {
		uc.logger.Warn("Failed to read street images from cache", zap.Error(err))
	} else if cached != nil {
		var points []domain.StreetImagePoint
		if err := json.Unmarshal(cached, &points); err == nil {
			uc.logger.Debug("Street images fetched from cache", zap.Int("points", len(points)))
			return points, nil
		}
		uc.logger.Warn("Dropping corrupted street images cache entry", zap.String("key", key))
	}

	result, err, shared := uc.inflight.Do(key, func() (interface{}, error) {
		points, err := uc.repo.Images(ctx, bbox, token, limit)
		if err != nil {
			return nil, err
		}
		if data, err := json.Marshal(points); err == nil {
			if err := uc.cacheRepo.Set(ctx, key, data, uc.cacheTTL); err != nil {
				uc.logger.Warn("Failed to cache street images", zap.Error(err))
			}
		}
		return points, nil
	})
	if err != nil {
		uc.logger.Warn("Street imagery unavailable", zap.String("bbox", bbox.String()), zap.Error(err))
		return []domain.StreetImagePoint{}, err
	}
	if shared {
		uc.logger.Debug("Street images request shared", zap.String("bbox", bbox.String()))
	}
	return result.([]domain.StreetImagePoint), nil
}

// streetImagesKey не хранит токен в открытом виде
func streetImagesKey(bbox domain.BoundingBox, token string, limit int) string {
	sum := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%s:%s:%s:%d", streetImagesKeyPrefix, bbox.String(), hex.EncodeToString(sum[:8]), limit)
}
