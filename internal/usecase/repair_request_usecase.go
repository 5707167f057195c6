package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/streetsmart-service/internal/domain"
	"github.com/streetsmart-service/internal/domain/repository"
	apperrors "github.com/streetsmart-service/internal/pkg/errors"
	"github.com/streetsmart-service/internal/pkg/utils"
	"github.com/streetsmart-service/internal/usecase/dto"
	"go.uber.org/zap"
)

const (
	DefaultRecentLimit = 10
	MaxRecentLimit     = 200
)

// RepairRequestUseCase - создание, голосование и чтение заявок на ремонт
type RepairRequestUseCase struct {
	repo       repository.RepairRequestRepository
	streamRepo repository.StreamRepository
	stream     string
	cityBounds *domain.BoundingBox
	logger     *zap.Logger
	now        func() time.Time
}

// NewRepairRequestUseCase создает новый экземпляр RepairRequestUseCase.
// streamRepo может быть nil - тогда события не публикуются.
func NewRepairRequestUseCase(
	repo repository.RepairRequestRepository,
	streamRepo repository.StreamRepository,
	stream string,
	cityBounds *domain.BoundingBox,
	logger *zap.Logger,
) *RepairRequestUseCase {
	return &RepairRequestUseCase{
		repo:       repo,
		streamRepo: streamRepo,
		stream:     stream,
		cityBounds: cityBounds,
		logger:     logger,
		now:        time.Now,
	}
}

// Create проверяет и сохраняет новую заявку с rating = 0
func (uc *RepairRequestUseCase) Create(ctx context.Context, req dto.CreateRepairRequestRequest) (*domain.RepairRequest, error) {
	severity, ok := domain.ParseSeverity(req.Severity)
	if !ok {
		return nil, apperrors.ErrInvalidSeverity
	}
	if req.Lat == nil || req.Lon == nil {
		return nil, apperrors.ErrInvalidCoordinates
	}
	location := domain.Point{Lat: *req.Lat, Lon: *req.Lon}
	if err := uc.checkLocation(location); err != nil {
		return nil, err
	}

	id := domain.NormalizeID(req.ID.String())
	if id == "" {
		id = uuid.NewString()
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = domain.AnonymousReporter
	}
	ts, ok := domain.ParseTimestamp(req.Timestamp)
	if !ok {
		ts = uc.now().UTC()
	}

	request := &domain.RepairRequest{
		ID:          id,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Severity:    severity,
		Lat:         location.Lat,
		Lon:         location.Lon,
		Timestamp:   ts,
	}

	if err := uc.repo.Append(ctx, request); err != nil {
		if errors.Is(err, domain.ErrDuplicateID) {
			return nil, apperrors.ErrDuplicateRequestID
		}
		uc.logger.Error("Failed to store repair request", zap.String("id", id), zap.Error(err))
		return nil, apperrors.ErrStorage.WithDetails(map[string]interface{}{"reason": err.Error()})
	}

	uc.logger.Info("Repair request created",
		zap.String("id", id),
		zap.String("severity", string(severity)),
		zap.Float64("lat", location.Lat),
		zap.Float64("lon", location.Lon))

	uc.publish(ctx, domain.NewCreatedEvent(request, uc.now()))
	return request, nil
}

// Upvote увеличивает rating заявки на 1
func (uc *RepairRequestUseCase) Upvote(ctx context.Context, id string) error {
	id = domain.NormalizeID(id)
	if id == "" {
		return apperrors.ErrInvalidRequest.WithMessage("id is required")
	}

	if err := uc.repo.Upvote(ctx, id); err != nil {
		switch {
		case errors.Is(err, domain.ErrStoreNotFound):
			return apperrors.ErrStoreNotFound
		case errors.Is(err, domain.ErrRequestNotFound):
			return apperrors.ErrRequestNotFound
		}
		uc.logger.Error("Failed to upvote repair request", zap.String("id", id), zap.Error(err))
		return apperrors.ErrStorage.WithMessage("Failed to upvote repair request")
	}

	uc.logger.Info("Repair request upvoted", zap.String("id", id))
	uc.publish(ctx, domain.NewUpvotedEvent(id, uc.now()))
	return nil
}

// ListRecent - последние заявки для превью; ошибки хранилища дают пустой список
func (uc *RepairRequestUseCase) ListRecent(ctx context.Context, limit int) []domain.RepairRequest {
	limit = utils.ClampLimit(limit, DefaultRecentLimit, MaxRecentLimit)

	requests, err := uc.repo.ListRecent(ctx, limit)
	if err != nil {
		uc.logger.Warn("Failed to list recent repair requests", zap.Error(err))
		return []domain.RepairRequest{}
	}
	return requests
}

// List - все заявки для слоя карты; ошибки хранилища дают пустой список
func (uc *RepairRequestUseCase) List(ctx context.Context) []domain.RepairRequest {
	requests, err := uc.All(ctx)
	if err != nil {
		uc.logger.Warn("Failed to list repair requests", zap.Error(err))
		return []domain.RepairRequest{}
	}
	return requests
}

// All возвращает все заявки вместе с ошибкой хранилища
func (uc *RepairRequestUseCase) All(ctx context.Context) ([]domain.RepairRequest, error) {
	return uc.repo.List(ctx)
}

func (uc *RepairRequestUseCase) checkLocation(p domain.Point) error {
	if !utils.ValidateCoordinates(p.Lat, p.Lon) {
		return apperrors.ErrInvalidCoordinates
	}
	if uc.cityBounds != nil && !uc.cityBounds.Contains(p) {
		return apperrors.ErrInvalidCoordinates.WithMessage("Location is outside the city bounds")
	}
	return nil
}

// publish отправляет событие в журнал; ошибка публикации не отменяет записанную заявку
func (uc *RepairRequestUseCase) publish(ctx context.Context, event *domain.RepairEvent) {
	if uc.streamRepo == nil {
		return
	}
	if err := uc.streamRepo.PublishToStream(ctx, uc.stream, event); err != nil {
		uc.logger.Warn("Failed to publish repair event",
			zap.String("type", string(event.Type)),
			zap.String("request_id", event.RequestID),
			zap.Error(err))
	}
}
