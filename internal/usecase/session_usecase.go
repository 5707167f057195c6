package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/streetsmart-service/internal/domain"
	"github.com/streetsmart-service/internal/domain/repository"
	apperrors "github.com/streetsmart-service/internal/pkg/errors"
	"github.com/streetsmart-service/internal/pkg/utils"
	"github.com/streetsmart-service/internal/usecase/dto"
	"go.uber.org/zap"
)

// SessionUseCase - координатор взаимодействия: клик, viewport, отправка формы.
// NoSelection -> Click -> Selected -> Submit -> NoSelection.
type SessionUseCase struct {
	sessions repository.SessionRepository
	requests *RepairRequestUseCase
	logger   *zap.Logger
	now      func() time.Time

	// изменения сессий в процессе сериализуются: read-modify-write поверх кеша
	mu sync.Mutex
}

func NewSessionUseCase(
	sessions repository.SessionRepository,
	requests *RepairRequestUseCase,
	logger *zap.Logger,
) *SessionUseCase {
	return &SessionUseCase{
		sessions: sessions,
		requests: requests,
		logger:   logger,
		now:      time.Now,
	}
}

// Start создаёт новую сессию без выбора
func (uc *SessionUseCase) Start(ctx context.Context) (*domain.SelectionState, error) {
	state := &domain.SelectionState{
		SessionID: uuid.NewString(),
		UpdatedAt: uc.now().UTC(),
	}
	if err := uc.save(ctx, state); err != nil {
		return nil, err
	}

	uc.logger.Debug("Session started", zap.String("session_id", state.SessionID))
	return state, nil
}

func (uc *SessionUseCase) Get(ctx context.Context, id string) (*domain.SelectionState, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperrors.ErrSessionNotFound
	}

	state, err := uc.sessions.Get(ctx, id)
	if err != nil {
		uc.logger.Error("Failed to load session", zap.String("session_id", id), zap.Error(err))
		return nil, apperrors.ErrInternalServer
	}
	if state == nil {
		return nil, apperrors.ErrSessionNotFound
	}
	return state, nil
}

// GetOrStart - сессия браузера: неизвестный или истёкший id заменяется новой сессией
func (uc *SessionUseCase) GetOrStart(ctx context.Context, id string) (*domain.SelectionState, error) {
	if id != "" {
		state, err := uc.Get(ctx, id)
		if err == nil {
			return state, nil
		}
		if !errors.Is(err, apperrors.ErrSessionNotFound) {
			return nil, err
		}
	}
	return uc.Start(ctx)
}

// Click всегда перезаписывает выбранную точку
func (uc *SessionUseCase) Click(ctx context.Context, id string, lat, lon float64) (*domain.SelectionState, error) {
	if !utils.ValidateCoordinates(lat, lon) {
		return nil, apperrors.ErrInvalidCoordinates
	}
	return uc.update(ctx, id, func(state *domain.SelectionState) error {
		state.Select(domain.Point{Lat: lat, Lon: lon})
		return nil
	})
}

// UpdateViewport не трогает выбранную точку
func (uc *SessionUseCase) UpdateViewport(ctx context.Context, id string, center *domain.Point, zoom *int) (*domain.SelectionState, error) {
	if center != nil && !utils.ValidateCoordinates(center.Lat, center.Lon) {
		return nil, apperrors.ErrInvalidCoordinates
	}
	return uc.update(ctx, id, func(state *domain.SelectionState) error {
		state.SetViewport(center, zoom)
		return nil
	})
}

// Submit создаёт заявку в выбранной точке и сбрасывает выбор.
// Без выбора - ErrMissingSelection, состояние не меняется.
// Сессия без выбора сохраняется до записи заявки, поэтому одна точка не даёт двух заявок;
// отклонённая заявка возвращает выбор обратно.
func (uc *SessionUseCase) Submit(ctx context.Context, id string, form dto.SubmitRequest) (*domain.RepairRequest, *domain.SelectionState, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	state, err := uc.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	point, ok := state.Selection()
	if !ok {
		return nil, nil, apperrors.ErrMissingSelection
	}

	state.ClearSelection()
	state.UpdatedAt = uc.now().UTC()
	if err := uc.save(ctx, state); err != nil {
		return nil, nil, err
	}

	created, err := uc.requests.Create(ctx, dto.CreateRepairRequestRequest{
		Name:        form.Name,
		Description: form.Description,
		Severity:    form.Severity,
		Lat:         &point.Lat,
		Lon:         &point.Lon,
	})
	if err != nil {
		state.Select(point)
		if restoreErr := uc.save(ctx, state); restoreErr != nil {
			uc.logger.Warn("Selection lost after rejected submit",
				zap.String("session_id", state.SessionID), zap.Error(restoreErr))
		}
		return nil, nil, err
	}
	return created, state, nil
}

// OpenViewer переключает сессию на просмотр уличного снимка
func (uc *SessionUseCase) OpenViewer(ctx context.Context, id, imageID string) (*domain.SelectionState, error) {
	imageID = strings.TrimSpace(imageID)
	if imageID == "" {
		return nil, apperrors.ErrInvalidRequest.WithMessage("image_id is required")
	}
	return uc.update(ctx, id, func(state *domain.SelectionState) error {
		state.ViewerImageID = imageID
		return nil
	})
}

// CloseViewer - возврат к карте
func (uc *SessionUseCase) CloseViewer(ctx context.Context, id string) (*domain.SelectionState, error) {
	return uc.update(ctx, id, func(state *domain.SelectionState) error {
		state.ViewerImageID = ""
		return nil
	})
}

func (uc *SessionUseCase) update(ctx context.Context, id string, fn func(state *domain.SelectionState) error) (*domain.SelectionState, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	state, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(state); err != nil {
		return nil, err
	}

	state.UpdatedAt = uc.now().UTC()
	if err := uc.save(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

func (uc *SessionUseCase) save(ctx context.Context, state *domain.SelectionState) error {
	if err := uc.sessions.Save(ctx, state); err != nil {
		uc.logger.Error("Failed to save session", zap.String("session_id", state.SessionID), zap.Error(err))
		return apperrors.ErrInternalServer
	}
	return nil
}
