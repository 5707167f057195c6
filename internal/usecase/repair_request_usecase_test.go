package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/streetsmart-service/internal/domain"
	apperrors "github.com/streetsmart-service/internal/pkg/errors"
	"github.com/streetsmart-service/internal/usecase"
	"github.com/streetsmart-service/internal/usecase/dto"
)

var cityBounds = &domain.BoundingBox{MinLon: -84.82, MinLat: 38.95, MaxLon: -84.25, MaxLat: 39.35}

func ptr[T any](v T) *T {
	return &v
}

func TestRepairRequestUseCase_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults and event", func(t *testing.T) {
		repo := &MockRepairRequestRepository{}
		stream := &MockStreamRepository{}
		uc := usecase.NewRepairRequestUseCase(repo, stream, domain.StreamRepairEvents, cityBounds, zap.NewNop())

		repo.On("Append", ctx, mock.MatchedBy(func(r *domain.RepairRequest) bool {
			return r.ID != "" && r.Name == domain.AnonymousReporter && r.Severity == domain.SeverityHigh &&
				r.Rating == 0 && !r.Timestamp.IsZero()
		})).Return(nil).Once()
		stream.On("PublishToStream", ctx, domain.StreamRepairEvents, mock.MatchedBy(func(e *domain.RepairEvent) bool {
			return e.Type == domain.RepairEventCreated && e.Request != nil
		})).Return(nil).Once()

		created, err := uc.Create(ctx, dto.CreateRepairRequestRequest{
			Name:     "   ",
			Severity: "high",
			Lat:      ptr(39.10),
			Lon:      ptr(-84.51),
		})
		require.NoError(t, err)
		assert.Equal(t, domain.AnonymousReporter, created.Name)
		assert.Equal(t, 0, created.Rating)

		repo.AssertExpectations(t)
		stream.AssertExpectations(t)
	})

	t.Run("client supplied id and timestamp are kept", func(t *testing.T) {
		repo := &MockRepairRequestRepository{}
		uc := usecase.NewRepairRequestUseCase(repo, nil, "", nil, zap.NewNop())
		repo.On("Append", ctx, mock.Anything).Return(nil).Once()

		created, err := uc.Create(ctx, dto.CreateRepairRequestRequest{
			ID:        " 42 ",
			Severity:  "Low",
			Lat:       ptr(39.1),
			Lon:       ptr(-84.5),
			Timestamp: "2025-10-18T14:03:07.123456",
		})
		require.NoError(t, err)
		assert.Equal(t, "42", created.ID)
		assert.Equal(t, 2025, created.Timestamp.Year())
	})

	t.Run("validation", func(t *testing.T) {
		repo := &MockRepairRequestRepository{}
		uc := usecase.NewRepairRequestUseCase(repo, nil, "", cityBounds, zap.NewNop())

		_, err := uc.Create(ctx, dto.CreateRepairRequestRequest{Severity: "Critical", Lat: ptr(39.1), Lon: ptr(-84.5)})
		assert.ErrorIs(t, err, apperrors.ErrInvalidSeverity)

		_, err = uc.Create(ctx, dto.CreateRepairRequestRequest{Severity: "Low", Lat: ptr(91.0), Lon: ptr(-84.5)})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCoordinates)

		_, err = uc.Create(ctx, dto.CreateRepairRequestRequest{Severity: "Low", Lat: ptr(40.7), Lon: ptr(-74.0)})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCoordinates, "outside the city")

		_, err = uc.Create(ctx, dto.CreateRepairRequestRequest{Severity: "Low"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCoordinates)

		repo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})

	t.Run("storage errors", func(t *testing.T) {
		repo := &MockRepairRequestRepository{}
		stream := &MockStreamRepository{}
		uc := usecase.NewRepairRequestUseCase(repo, stream, domain.StreamRepairEvents, nil, zap.NewNop())

		repo.On("Append", ctx, mock.Anything).Return(domain.ErrDuplicateID).Once()
		_, err := uc.Create(ctx, dto.CreateRepairRequestRequest{Severity: "Low", Lat: ptr(39.1), Lon: ptr(-84.5)})
		assert.ErrorIs(t, err, apperrors.ErrDuplicateRequestID)

		repo.On("Append", ctx, mock.Anything).Return(errors.New("disk full")).Once()
		_, err = uc.Create(ctx, dto.CreateRepairRequestRequest{Severity: "Low", Lat: ptr(39.1), Lon: ptr(-84.5)})
		assert.ErrorIs(t, err, apperrors.ErrStorage)

		stream.AssertNotCalled(t, "PublishToStream", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("publish failure does not fail the request", func(t *testing.T) {
		repo := &MockRepairRequestRepository{}
		stream := &MockStreamRepository{}
		uc := usecase.NewRepairRequestUseCase(repo, stream, domain.StreamRepairEvents, nil, zap.NewNop())

		repo.On("Append", ctx, mock.Anything).Return(nil).Once()
		stream.On("PublishToStream", ctx, domain.StreamRepairEvents, mock.Anything).Return(errors.New("redis down")).Once()

		_, err := uc.Create(ctx, dto.CreateRepairRequestRequest{Severity: "Medium", Lat: ptr(39.1), Lon: ptr(-84.5)})
		assert.NoError(t, err)
	})
}

func TestRepairRequestUseCase_Upvote(t *testing.T) {
	ctx := context.Background()
	repo := &MockRepairRequestRepository{}
	stream := &MockStreamRepository{}
	uc := usecase.NewRepairRequestUseCase(repo, stream, domain.StreamRepairEvents, nil, zap.NewNop())

	repo.On("Upvote", ctx, "known").Return(nil).Once()
	stream.On("PublishToStream", ctx, domain.StreamRepairEvents, mock.MatchedBy(func(e *domain.RepairEvent) bool {
		return e.Type == domain.RepairEventUpvoted && e.RequestID == "known"
	})).Return(nil).Once()
	assert.NoError(t, uc.Upvote(ctx, " known "))

	repo.On("Upvote", ctx, "unknown").Return(domain.ErrRequestNotFound).Once()
	assert.ErrorIs(t, uc.Upvote(ctx, "unknown"), apperrors.ErrRequestNotFound)

	repo.On("Upvote", ctx, "nofile").Return(domain.ErrStoreNotFound).Once()
	assert.ErrorIs(t, uc.Upvote(ctx, "nofile"), apperrors.ErrStoreNotFound)

	repo.On("Upvote", ctx, "broken").Return(errors.New("io error")).Once()
	assert.ErrorIs(t, uc.Upvote(ctx, "broken"), apperrors.ErrStorage)

	assert.ErrorIs(t, uc.Upvote(ctx, "  "), apperrors.ErrInvalidRequest)

	repo.AssertExpectations(t)
	stream.AssertExpectations(t)
}

func TestRepairRequestUseCase_ListRecent(t *testing.T) {
	ctx := context.Background()
	repo := &MockRepairRequestRepository{}
	uc := usecase.NewRepairRequestUseCase(repo, nil, "", nil, zap.NewNop())

	repo.On("ListRecent", ctx, usecase.DefaultRecentLimit).Return([]domain.RepairRequest{{ID: "1"}}, nil).Once()
	assert.Len(t, uc.ListRecent(ctx, 0), 1)

	repo.On("ListRecent", ctx, usecase.MaxRecentLimit).Return(nil, errors.New("no table")).Once()
	got := uc.ListRecent(ctx, 100000)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	repo.AssertExpectations(t)
}
