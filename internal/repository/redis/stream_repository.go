package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/streetsmart-service/internal/domain"
	"github.com/streetsmart-service/internal/domain/repository"
	"go.uber.org/zap"
)

const (
	readBatchSize  = 10
	readBlock      = time.Second
	readRetryDelay = time.Second
	claimInterval  = 30 * time.Second
	claimMinIdle   = time.Minute
	groupStartID   = "0"
)

type streamRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewStreamRepository создает новый экземпляр StreamRepository
func NewStreamRepository(client *redis.Client, logger *zap.Logger) repository.StreamRepository {
	return &streamRepository{
		client: client,
		logger: logger,
	}
}

// CreateConsumerGroup создаёт группу с начала стрима, чтобы проекция получила весь журнал.
// MKSTREAM создаёт стрим, если его ещё нет.
func (r *streamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	err := r.client.XGroupCreateMkStream(ctx, stream, group, groupStartID).Err()
	switch {
	case err == nil:
		r.logger.Info("Consumer group created", zap.String("stream", stream), zap.String("group", group))
		return nil
	case strings.HasPrefix(err.Error(), "BUSYGROUP"):
		return nil
	default:
		return fmt.Errorf("create group %s on %s: %w", group, stream, err)
	}
}

// ConsumeStream читает новые сообщения группы и периодически забирает зависшие
// у упавших потребителей (XAUTOCLAIM). Канал закрывается при отмене ctx.
func (r *streamRepository) ConsumeStream(ctx context.Context, stream, group, consumer string) (<-chan domain.StreamMessage, error) {
	out := make(chan domain.StreamMessage, readBatchSize)
	logger := r.logger.With(zap.String("stream", stream), zap.String("consumer", consumer))

	go func() {
		defer close(out)
		defer logger.Info("Stream consumer stopped")

		var lastClaim time.Time
		for ctx.Err() == nil {
			if time.Since(lastClaim) >= claimInterval {
				lastClaim = time.Now()
				claimed, err := r.claimStale(ctx, stream, group, consumer)
				if err != nil && ctx.Err() == nil {
					logger.Warn("Failed to claim stale messages", zap.Error(err))
				}
				if len(claimed) > 0 {
					logger.Info("Claimed stale messages", zap.Int("count", len(claimed)))
				}
				if !r.deliver(ctx, stream, group, claimed, out) {
					return
				}
			}

			result, err := r.client.XReadGroup(ctx, &redis.XReadGroupArgs{
				Group:    group,
				Consumer: consumer,
				Streams:  []string{stream, ">"},
				Count:    readBatchSize,
				Block:    readBlock,
			}).Result()
			if errors.Is(err, redis.Nil) {
				continue
			}
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				logger.Error("Failed to read from stream", zap.Error(err))
				select {
				case <-time.After(readRetryDelay):
				case <-ctx.Done():
					return
				}
				continue
			}

			for _, s := range result {
				if !r.deliver(ctx, stream, group, s.Messages, out) {
					return
				}
			}
		}
	}()

	return out, nil
}

func (r *streamRepository) claimStale(ctx context.Context, stream, group, consumer string) ([]redis.XMessage, error) {
	messages, _, err := r.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   stream,
		Group:    group,
		Consumer: consumer,
		MinIdle:  claimMinIdle,
		Start:    "0-0",
		Count:    readBatchSize,
	}).Result()
	return messages, err
}

// deliver отдаёт сообщения в канал; false - ctx отменён
func (r *streamRepository) deliver(ctx context.Context, stream, group string, messages []redis.XMessage, out chan<- domain.StreamMessage) bool {
	for _, msg := range messages {
		data, ok := msg.Values["data"].(string)
		if !ok {
			// без поля data сообщение обработать нельзя
			r.logger.Warn("Message does not contain 'data' field", zap.String("message_id", msg.ID))
			_ = r.AckMessage(ctx, stream, group, msg.ID)
			continue
		}

		select {
		case out <- domain.StreamMessage{ID: msg.ID, Data: data}:
		case <-ctx.Done():
			return false
		}
	}
	return true
}

// AckMessage подтверждает обработку сообщения
func (r *streamRepository) AckMessage(ctx context.Context, stream, group, messageID string) error {
	if err := r.client.XAck(ctx, stream, group, messageID).Err(); err != nil {
		return fmt.Errorf("xack %s/%s %s: %w", stream, group, messageID, err)
	}
	return nil
}

// PublishToStream кладёт JSON в поле data нового сообщения
func (r *streamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode stream payload: %w", err)
	}

	id, err := r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{"data": string(payload)},
	}).Result()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", stream, err)
	}

	r.logger.Debug("Event appended", zap.String("stream", stream), zap.String("message_id", id))
	return nil
}
