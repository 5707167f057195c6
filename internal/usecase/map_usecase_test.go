package usecase_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/streetsmart-service/internal/config"
	"github.com/streetsmart-service/internal/domain"
	"github.com/streetsmart-service/internal/repository/cache"
	"github.com/streetsmart-service/internal/repository/csvfile"
	"github.com/streetsmart-service/internal/usecase"
)

var testMapConfig = &config.MapConfig{
	CenterLat:            39.1031182,
	CenterLon:            -84.5120196,
	Zoom:                 12,
	SatelliteURL:         "https://sat.example.com/{z}/{y}/{x}",
	SatelliteAttribution: "Esri",
	ImageryLayers:        []config.ImageryLayer{{Name: "NAIP", URL: "https://naip.example.com/{z}/{x}/{y}"}},
}

func composeInput() usecase.ComposeInput {
	return usecase.ComposeInput{
		Municipal: []domain.MunicipalServiceRequest{
			{SRNumber: "SR1", Status: "NEW", TypeDescription: "Pothole", Address: "1 <Main> St", Lat: 39.1, Lon: -84.5},
			{SRNumber: "", Lat: 39.2, Lon: -84.6},
		},
		UserRequests: []domain.RepairRequest{
			{ID: "u1", Name: "Ann", Description: "deep", Severity: domain.SeverityHigh, Lat: 39.11, Lon: -84.51, Rating: 3},
		},
		StreetImages: []domain.StreetImagePoint{{ID: "img1", Lat: 39.12, Lon: -84.52}},
	}
}

func TestMapUseCase_ComposeLayers(t *testing.T) {
	uc := usecase.NewMapUseCase(testMapConfig, nil, nil, nil, nil, zap.NewNop())

	doc := uc.Compose(composeInput())

	assert.Equal(t, domain.Point{Lat: 39.1031182, Lon: -84.5120196}, doc.Center)
	assert.Equal(t, 12, doc.Zoom)

	require.Len(t, doc.BaseLayers, 2)
	assert.Equal(t, domain.LayerOpenStreetMap, doc.BaseLayers[0].Name)
	assert.True(t, doc.BaseLayers[0].Active)
	assert.Equal(t, domain.LayerEsriSatellite, doc.BaseLayers[1].Name)
	assert.False(t, doc.BaseLayers[1].Active)

	require.Len(t, doc.ImageryLayers, 1)
	assert.True(t, doc.ImageryLayers[0].Overlay)

	require.Len(t, doc.Overlays, 3)
	assert.Equal(t, domain.LayerOpenPotholes, doc.Overlays[0].Name)
	assert.True(t, doc.Overlays[0].Visible)
	assert.Equal(t, domain.LayerUserRequests, doc.Overlays[1].Name)
	assert.True(t, doc.Overlays[1].Visible)
	assert.Equal(t, domain.LayerStreetImages, doc.Overlays[2].Name)
	assert.False(t, doc.Overlays[2].Visible)

	pothole := doc.Overlays[0].Markers[0]
	assert.Equal(t, domain.MarkerCircle, pothole.Style)
	assert.Equal(t, "red", pothole.Color)
	assert.Equal(t, "SR #SR1", pothole.Tooltip)
	assert.Contains(t, pothole.Popup, "1 &lt;Main&gt; St", "popup fields are escaped")

	// missing fields degrade to empty strings
	assert.Equal(t, "sr-1", doc.Overlays[0].Markers[1].ID)
	assert.Contains(t, doc.Overlays[0].Markers[1].Popup, "Status: <br>")

	user := doc.Overlays[1].Markers[0]
	assert.Equal(t, "wrench", user.Icon)
	assert.Equal(t, "blue", user.Color)
	assert.Contains(t, user.Popup, "Upvotes: 3")

	image := doc.Overlays[2].Markers[0]
	assert.Equal(t, "camera", image.Icon)
	assert.Equal(t, "img1", image.ImageID)
}

func TestMapUseCase_SelectionDrawnLast(t *testing.T) {
	uc := usecase.NewMapUseCase(testMapConfig, nil, nil, nil, nil, zap.NewNop())

	in := composeInput()
	in.Selection = &domain.Point{Lat: 39.10, Lon: -84.51}
	zoom := 15
	in.Zoom = &zoom

	doc := uc.Compose(in)

	require.Len(t, doc.Overlays, 4)
	last := doc.Overlays[len(doc.Overlays)-1]
	assert.Equal(t, domain.LayerSelectedPoint, last.Name)
	require.Len(t, last.Markers, 1)
	assert.Equal(t, 39.10, last.Markers[0].Lat)
	assert.Equal(t, 15, doc.Zoom)
}

func TestMapUseCase_ComposeIsIdempotent(t *testing.T) {
	uc := usecase.NewMapUseCase(testMapConfig, nil, nil, nil, nil, zap.NewNop())

	in := composeInput()
	in.Selection = &domain.Point{Lat: 39.10, Lon: -84.51}

	assert.Equal(t, uc.Compose(in), uc.Compose(in))
}

func TestMapUseCase_Dashboard(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	store := csvfile.NewRepairRequestRepository(filepath.Join(t.TempDir(), "r.csv"), logger)
	requests := usecase.NewRepairRequestUseCase(store, nil, "", nil, logger)

	feedRepo := &MockFeedRepository{}
	feedRepo.On("Load", mock.Anything, "feed.csv").Return(&domain.FeedResult{
		Requests: []domain.MunicipalServiceRequest{{SRNumber: "1", Lat: 39.1, Lon: -84.5}},
		Warning:  "",
		LoadedAt: time.Now(),
	})
	feed := usecase.NewFeedUseCase(feedRepo, "feed.csv", time.Minute, logger)

	imageryRepo := &MockStreetImageryRepository{}
	imageryRepo.On("Images", mock.Anything, mock.Anything, "token", 400).Return(nil, errors.New("timeout"))
	imagery := usecase.NewStreetImageryUseCase(imageryRepo, cache.NewMemoryCache(), time.Minute, imageryBBox, 400, "token", logger)

	sessions := usecase.NewSessionUseCase(cache.NewSessionRepository(cache.NewMemoryCache(), time.Hour, logger), requests, logger)
	uc := usecase.NewMapUseCase(testMapConfig, requests, feed, imagery, sessions, logger)

	state, err := sessions.Start(ctx)
	require.NoError(t, err)
	_, err = sessions.Click(ctx, state.SessionID, 39.1, -84.5)
	require.NoError(t, err)

	doc, err := uc.Dashboard(ctx, state.SessionID)
	require.NoError(t, err)
	assert.Equal(t, state.SessionID, doc.SessionID)
	assert.Len(t, doc.Warnings, 1)

	layer, ok := doc.Overlay(domain.LayerOpenPotholes)
	require.True(t, ok)
	assert.Len(t, layer.Markers, 1)

	_, ok = doc.Overlay(domain.LayerSelectedPoint)
	assert.True(t, ok)

	_, err = uc.Dashboard(ctx, "missing")
	assert.Error(t, err)
}
