package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/streetsmart-service/internal/domain"
	"github.com/streetsmart-service/internal/usecase"
)

func TestProjectionUseCase_HandleMessage(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	req := &domain.RepairRequest{ID: "r-1", Name: "Ann", Severity: domain.SeverityLow, Lat: 39.1, Lon: -84.5, Timestamp: now}

	created, err := json.Marshal(domain.NewCreatedEvent(req, now))
	require.NoError(t, err)
	upvoted, err := json.Marshal(domain.NewUpvotedEvent("r-1", now))
	require.NoError(t, err)

	t.Run("created and duplicate", func(t *testing.T) {
		repo := &MockRepairRequestRepository{}
		uc := usecase.NewProjectionUseCase(repo, zap.NewNop())

		repo.On("Append", ctx, mock.MatchedBy(func(r *domain.RepairRequest) bool { return r.ID == "r-1" })).Return(nil).Once()
		repo.On("Append", ctx, mock.Anything).Return(domain.ErrDuplicateID).Once()

		assert.NoError(t, uc.HandleMessage(ctx, string(created)))
		assert.NoError(t, uc.HandleMessage(ctx, string(created)), "redelivery is ignored")
		repo.AssertExpectations(t)
	})

	t.Run("upvoted", func(t *testing.T) {
		repo := &MockRepairRequestRepository{}
		uc := usecase.NewProjectionUseCase(repo, zap.NewNop())

		repo.On("Upvote", ctx, "r-1").Return(nil).Once()
		repo.On("Upvote", ctx, "r-1").Return(domain.ErrRequestNotFound).Once()
		repo.On("Upvote", ctx, "r-1").Return(errors.New("db down")).Once()

		assert.NoError(t, uc.HandleMessage(ctx, string(upvoted)))
		assert.NoError(t, uc.HandleMessage(ctx, string(upvoted)))

		err := uc.HandleMessage(ctx, string(upvoted))
		require.Error(t, err)
		assert.False(t, errors.Is(err, usecase.ErrInvalidEvent), "transient errors are retried")
	})

	t.Run("invalid payloads", func(t *testing.T) {
		uc := usecase.NewProjectionUseCase(&MockRepairRequestRepository{}, zap.NewNop())

		assert.ErrorIs(t, uc.HandleMessage(ctx, "{not json"), usecase.ErrInvalidEvent)
		assert.ErrorIs(t, uc.HandleMessage(ctx, `{"type":"Deleted","request_id":"x"}`), usecase.ErrInvalidEvent)
	})
}
