package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/streetsmart-service/internal/domain"
	"github.com/streetsmart-service/internal/usecase"
)

func TestSnapshotUseCase_Export(t *testing.T) {
	ctx := context.Background()
	repo := &MockRepairRequestRepository{}
	uploader := &MockSnapshotUploader{}
	requests := usecase.NewRepairRequestUseCase(repo, nil, "", nil, zap.NewNop())
	uc := usecase.NewSnapshotUseCase(requests, uploader, "snapshots", zap.NewNop())

	repo.On("List", ctx).Return([]domain.RepairRequest{{ID: "1", Name: "Ann", Severity: domain.SeverityLow}}, nil).Once()
	uploader.On("Upload", ctx,
		mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "snapshots/repair_requests-") && strings.HasSuffix(key, ".csv")
		}),
		mock.MatchedBy(func(body []byte) bool {
			return strings.HasPrefix(string(body), "id,name,description,severity,lat,lon,timestamp,rating\n1,Ann,")
		}),
		"text/csv",
	).Return(nil).Once()

	key, err := uc.Export(ctx)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "snapshots/"))
	uploader.AssertExpectations(t)
}

func TestSnapshotUseCase_StoreErrorSkipsUpload(t *testing.T) {
	ctx := context.Background()
	repo := &MockRepairRequestRepository{}
	uploader := &MockSnapshotUploader{}
	requests := usecase.NewRepairRequestUseCase(repo, nil, "", nil, zap.NewNop())
	uc := usecase.NewSnapshotUseCase(requests, uploader, "", zap.NewNop())

	repo.On("List", ctx).Return(nil, errors.New("db down")).Once()

	assert.Error(t, uc.Run(ctx))
	uploader.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
