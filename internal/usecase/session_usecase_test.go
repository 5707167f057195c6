package usecase_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/streetsmart-service/internal/domain"
	"github.com/streetsmart-service/internal/domain/repository"
	apperrors "github.com/streetsmart-service/internal/pkg/errors"
	"github.com/streetsmart-service/internal/repository/cache"
	"github.com/streetsmart-service/internal/repository/csvfile"
	"github.com/streetsmart-service/internal/usecase"
	"github.com/streetsmart-service/internal/usecase/dto"
)

func newSessionFixture(t *testing.T) (*usecase.SessionUseCase, *usecase.RepairRequestUseCase) {
	t.Helper()
	logger := zap.NewNop()
	store := csvfile.NewRepairRequestRepository(filepath.Join(t.TempDir(), "User_Requests.csv"), logger)
	requests := usecase.NewRepairRequestUseCase(store, nil, "", cityBounds, logger)
	sessions := cache.NewSessionRepository(cache.NewMemoryCache(), time.Hour, logger)
	return usecase.NewSessionUseCase(sessions, requests, logger), requests
}

func TestSessionUseCase_SelectionStateMachine(t *testing.T) {
	ctx := context.Background()
	uc, requests := newSessionFixture(t)

	state, err := uc.Start(ctx)
	require.NoError(t, err)
	assert.False(t, state.HasSelection())

	form := dto.SubmitRequest{Name: "Ann", Description: "Deep hole", Severity: "High"}

	_, _, err = uc.Submit(ctx, state.SessionID, form)
	assert.ErrorIs(t, err, apperrors.ErrMissingSelection)
	assert.Empty(t, requests.List(ctx))

	state, err = uc.Click(ctx, state.SessionID, 39.10, -84.51)
	require.NoError(t, err)
	assert.True(t, state.HasSelection())

	created, state, err := uc.Submit(ctx, state.SessionID, form)
	require.NoError(t, err)
	assert.False(t, state.HasSelection())
	assert.Equal(t, 39.10, created.Lat)
	assert.Equal(t, -84.51, created.Lon)

	all := requests.List(ctx)
	require.Len(t, all, 1)
	assert.Equal(t, 39.10, all[0].Lat)
	assert.Equal(t, -84.51, all[0].Lon)
	assert.Equal(t, domain.SeverityHigh, all[0].Severity)

	reloaded, err := uc.Get(ctx, state.SessionID)
	require.NoError(t, err)
	assert.False(t, reloaded.HasSelection())
}

func TestSessionUseCase_ClickOverwritesAndViewportIsIndependent(t *testing.T) {
	ctx := context.Background()
	uc, _ := newSessionFixture(t)

	state, err := uc.Start(ctx)
	require.NoError(t, err)

	_, err = uc.Click(ctx, state.SessionID, 39.10, -84.51)
	require.NoError(t, err)
	_, err = uc.Click(ctx, state.SessionID, 39.12, -84.55)
	require.NoError(t, err)

	zoom := 16
	state, err = uc.UpdateViewport(ctx, state.SessionID, &domain.Point{Lat: 39.2, Lon: -84.4}, &zoom)
	require.NoError(t, err)

	p, ok := state.Selection()
	require.True(t, ok)
	assert.Equal(t, domain.Point{Lat: 39.12, Lon: -84.55}, p)
	assert.Equal(t, 16, *state.MapZoom)
	assert.Equal(t, 39.2, state.MapCenter.Lat)
}

func TestSessionUseCase_FailedSubmitKeepsSelection(t *testing.T) {
	ctx := context.Background()
	uc, _ := newSessionFixture(t)

	state, err := uc.Start(ctx)
	require.NoError(t, err)

	// outside the configured city bounds
	_, err = uc.Click(ctx, state.SessionID, 40.71, -74.0)
	require.NoError(t, err)

	_, _, err = uc.Submit(ctx, state.SessionID, dto.SubmitRequest{Severity: "Low"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCoordinates)

	reloaded, err := uc.Get(ctx, state.SessionID)
	require.NoError(t, err)
	assert.True(t, reloaded.HasSelection())
}

func TestSessionUseCase_ViewerAndUnknownSession(t *testing.T) {
	ctx := context.Background()
	uc, _ := newSessionFixture(t)

	_, err := uc.Get(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)

	_, err = uc.Click(ctx, "missing", 39.1, -84.5)
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)

	state, err := uc.GetOrStart(ctx, "missing")
	require.NoError(t, err)
	assert.NotEqual(t, "missing", state.SessionID)

	state, err = uc.OpenViewer(ctx, state.SessionID, "12345")
	require.NoError(t, err)
	assert.Equal(t, "12345", state.ViewerImageID)

	state, err = uc.CloseViewer(ctx, state.SessionID)
	require.NoError(t, err)
	assert.Empty(t, state.ViewerImageID)

	_, err = uc.Click(ctx, state.SessionID, 200, 0)
	assert.ErrorIs(t, err, apperrors.ErrInvalidCoordinates)
}

// failingSaveSessions fails Save while failSaves is set
type failingSaveSessions struct {
	repository.SessionRepository
	failSaves bool
}

func (s *failingSaveSessions) Save(ctx context.Context, state *domain.SelectionState) error {
	if s.failSaves {
		return errors.New("session store unavailable")
	}
	return s.SessionRepository.Save(ctx, state)
}

func TestSessionUseCase_SubmitWithFailedSessionSaveWritesNothing(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()
	store := csvfile.NewRepairRequestRepository(filepath.Join(t.TempDir(), "User_Requests.csv"), logger)
	requests := usecase.NewRepairRequestUseCase(store, nil, "", cityBounds, logger)
	sessions := &failingSaveSessions{SessionRepository: cache.NewSessionRepository(cache.NewMemoryCache(), time.Hour, logger)}
	uc := usecase.NewSessionUseCase(sessions, requests, logger)

	state, err := uc.Start(ctx)
	require.NoError(t, err)
	_, err = uc.Click(ctx, state.SessionID, 39.10, -84.51)
	require.NoError(t, err)

	form := dto.SubmitRequest{Name: "Ann", Severity: "Low"}

	sessions.failSaves = true
	_, _, err = uc.Submit(ctx, state.SessionID, form)
	assert.ErrorIs(t, err, apperrors.ErrInternalServer)
	assert.Empty(t, requests.List(ctx))

	// retrying after the store recovers writes exactly one request
	sessions.failSaves = false
	_, state, err = uc.Submit(ctx, state.SessionID, form)
	require.NoError(t, err)
	assert.False(t, state.HasSelection())
	assert.Len(t, requests.List(ctx), 1)

	_, _, err = uc.Submit(ctx, state.SessionID, form)
	assert.ErrorIs(t, err, apperrors.ErrMissingSelection)
	assert.Len(t, requests.List(ctx), 1)
}
