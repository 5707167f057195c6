package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/streetsmart-service/internal/domain/repository"
	"github.com/streetsmart-service/internal/pkg/requestcsv"
	"go.uber.org/zap"
)

const snapshotContentType = "text/csv"

// SnapshotUseCase выгружает полную таблицу заявок во внешнее хранилище
type SnapshotUseCase struct {
	requests *RepairRequestUseCase
	uploader repository.SnapshotUploader
	prefix   string
	logger   *zap.Logger
	now      func() time.Time
}

func NewSnapshotUseCase(
	requests *RepairRequestUseCase,
	uploader repository.SnapshotUploader,
	prefix string,
	logger *zap.Logger,
) *SnapshotUseCase {
	return &SnapshotUseCase{
		requests: requests,
		uploader: uploader,
		prefix:   prefix,
		logger:   logger,
		now:      time.Now,
	}
}

// Export возвращает ключ загруженного объекта
func (uc *SnapshotUseCase) Export(ctx context.Context) (string, error) {
	requests, err := uc.requests.All(ctx)
	if err != nil {
		return "", fmt.Errorf("list repair requests: %w", err)
	}

	body, err := requestcsv.Encode(requests)
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}

	key := fmt.Sprintf("repair_requests-%d.csv", uc.now().Unix())
	if uc.prefix != "" {
		key = uc.prefix + "/" + key
	}

	if err := uc.uploader.Upload(ctx, key, body, snapshotContentType); err != nil {
		return "", err
	}

	uc.logger.Info("Snapshot exported", zap.String("key", key), zap.Int("requests", len(requests)))
	return key, nil
}

// Run - задача для периодического воркера
func (uc *SnapshotUseCase) Run(ctx context.Context) error {
	_, err := uc.Export(ctx)
	return err
}
