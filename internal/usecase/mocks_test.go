package usecase_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/streetsmart-service/internal/domain"
)

// MockRepairRequestRepository is a mock of RepairRequestRepository
type MockRepairRequestRepository struct {
	mock.Mock
}

func (m *MockRepairRequestRepository) Append(ctx context.Context, req *domain.RepairRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockRepairRequestRepository) Upvote(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepairRequestRepository) ListRecent(ctx context.Context, limit int) ([]domain.RepairRequest, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RepairRequest), args.Error(1)
}

func (m *MockRepairRequestRepository) List(ctx context.Context) ([]domain.RepairRequest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RepairRequest), args.Error(1)
}

// MockStreamRepository is a mock of StreamRepository
type MockStreamRepository struct {
	mock.Mock
}

func (m *MockStreamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	args := m.Called(ctx, stream, group)
	return args.Error(0)
}

func (m *MockStreamRepository) ConsumeStream(ctx context.Context, stream, group, consumer string) (<-chan domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) AckMessage(ctx context.Context, stream, group, messageID string) error {
	args := m.Called(ctx, stream, group, messageID)
	return args.Error(0)
}

func (m *MockStreamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	args := m.Called(ctx, stream, data)
	return args.Error(0)
}

// MockStreetImageryRepository is a mock of StreetImageryRepository
type MockStreetImageryRepository struct {
	mock.Mock
}

func (m *MockStreetImageryRepository) Images(ctx context.Context, bbox domain.BoundingBox, accessToken string, limit int) ([]domain.StreetImagePoint, error) {
	args := m.Called(ctx, bbox, accessToken, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StreetImagePoint), args.Error(1)
}

// MockFeedRepository is a mock of MunicipalFeedRepository
type MockFeedRepository struct {
	mock.Mock
}

func (m *MockFeedRepository) Load(ctx context.Context, path string) *domain.FeedResult {
	args := m.Called(ctx, path)
	return args.Get(0).(*domain.FeedResult)
}

// MockSnapshotUploader is a mock of SnapshotUploader
type MockSnapshotUploader struct {
	mock.Mock
}

func (m *MockSnapshotUploader) Upload(ctx context.Context, key string, body []byte, contentType string) error {
	args := m.Called(ctx, key, body, contentType)
	return args.Error(0)
}
