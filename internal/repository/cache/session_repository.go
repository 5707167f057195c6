package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/streetsmart-service/internal/domain"
	"github.com/streetsmart-service/internal/domain/repository"
	"go.uber.org/zap"
)

const sessionKeyPrefix = "session:"

type sessionRepository struct {
	cache  repository.CacheRepository
	ttl    time.Duration
	logger *zap.Logger
}

// NewSessionRepository хранит SelectionState как JSON в кеше с TTL
func NewSessionRepository(cache repository.CacheRepository, ttl time.Duration, logger *zap.Logger) repository.SessionRepository {
	return &sessionRepository{
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func (r *sessionRepository) Get(ctx context.Context, id string) (*domain.SelectionState, error) {
	data, err := r.cache.Get(ctx, sessionKey(id))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var state domain.SelectionState
	if err := json.Unmarshal(data, &state); err != nil {
		r.logger.Warn("Dropping corrupted session", zap.String("session_id", id), zap.Error(err))
		_ = r.cache.Delete(ctx, sessionKey(id))
		return nil, nil
	}

	return &state, nil
}

func (r *sessionRepository) Save(ctx context.Context, state *domain.SelectionState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return r.cache.Set(ctx, sessionKey(state.SessionID), data, r.ttl)
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	return r.cache.Delete(ctx, sessionKey(id))
}
