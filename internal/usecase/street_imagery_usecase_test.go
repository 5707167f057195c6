package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/streetsmart-service/internal/domain"
	"github.com/streetsmart-service/internal/repository/cache"
	"github.com/streetsmart-service/internal/usecase"
)

var imageryBBox = domain.BoundingBox{MinLon: -84.64, MinLat: 39.045, MaxLon: -84.45, MaxLat: 39.17}

func TestStreetImageryUseCase_CachesIdenticalCalls(t *testing.T) {
	ctx := context.Background()
	repo := &MockStreetImageryRepository{}
	uc := usecase.NewStreetImageryUseCase(repo, cache.NewMemoryCache(), 10*time.Minute, imageryBBox, 400, "token", zap.NewNop())

	points := []domain.StreetImagePoint{{ID: "1", Lat: 39.1, Lon: -84.5}}
	repo.On("Images", mock.Anything, imageryBBox, "token", 400).Return(points, nil).Once()

	first := uc.Fetch(ctx, imageryBBox, "token", 400)
	second := uc.Fetch(ctx, imageryBBox, "token", 400)

	assert.Equal(t, points, first)
	assert.Equal(t, points, second)
	repo.AssertNumberOfCalls(t, "Images", 1)
}

func TestStreetImageryUseCase_KeyIncludesAllInputs(t *testing.T) {
	ctx := context.Background()
	repo := &MockStreetImageryRepository{}
	uc := usecase.NewStreetImageryUseCase(repo, cache.NewMemoryCache(), 10*time.Minute, imageryBBox, 400, "token", zap.NewNop())

	repo.On("Images", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]domain.StreetImagePoint{}, nil)

	uc.Fetch(ctx, imageryBBox, "token", 400)
	uc.Fetch(ctx, imageryBBox, "token", 100)
	uc.Fetch(ctx, imageryBBox, "other", 400)

	repo.AssertNumberOfCalls(t, "Images", 3)
}

func TestStreetImageryUseCase_EmptyTokenNoCall(t *testing.T) {
	repo := &MockStreetImageryRepository{}
	uc := usecase.NewStreetImageryUseCase(repo, cache.NewMemoryCache(), 10*time.Minute, imageryBBox, 400, "", zap.NewNop())

	got := uc.Fetch(context.Background(), imageryBBox, "", 400)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	got, err := uc.FetchDefault(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.False(t, uc.Enabled())

	repo.AssertNotCalled(t, "Images", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestStreetImageryUseCase_FailureIsNotCached(t *testing.T) {
	ctx := context.Background()
	repo := &MockStreetImageryRepository{}
	uc := usecase.NewStreetImageryUseCase(repo, cache.NewMemoryCache(), 10*time.Minute, imageryBBox, 400, "token", zap.NewNop())

	repo.On("Images", mock.Anything, imageryBBox, "token", 400).Return(nil, errors.New("timeout")).Once()
	repo.On("Images", mock.Anything, imageryBBox, "token", 400).
		Return([]domain.StreetImagePoint{{ID: "9", Lat: 39.1, Lon: -84.5}}, nil).Once()

	assert.Empty(t, uc.Fetch(ctx, imageryBBox, "token", 400))

	_, err := uc.FetchDefault(ctx)
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "Images", 2)
}

func TestStreetImageryUseCase_ConcurrentMissesShareOneCall(t *testing.T) {
	ctx := context.Background()
	repo := &MockStreetImageryRepository{}
	uc := usecase.NewStreetImageryUseCase(repo, cache.NewMemoryCache(), 10*time.Minute, imageryBBox, 400, "token", zap.NewNop())

	points := []domain.StreetImagePoint{{ID: "1", Lat: 39.1, Lon: -84.5}}
	started := make(chan struct{}, 8)
	release := make(chan struct{})
	repo.On("Images", mock.Anything, imageryBBox, "token", 400).
		Run(func(mock.Arguments) {
			started <- struct{}{}
			<-release
		}).
		Return(points, nil)

	const callers = 5
	results := make([][]domain.StreetImagePoint, callers)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0] = uc.Fetch(ctx, imageryBBox, "token", 400)
	}()
	<-started

	for i := 1; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = uc.Fetch(ctx, imageryBBox, "token", 400)
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, points, got)
	}
	repo.AssertNumberOfCalls(t, "Images", 1)
}
