package repository

import (
	"context"

	"github.com/streetsmart-service/internal/domain"
)

// StreamRepository - интерфейс для работы с Redis Streams
type StreamRepository interface {
	// CreateConsumerGroup создаёт consumer group, существующая группа не ошибка
	CreateConsumerGroup(ctx context.Context, stream, group string) error

	// ConsumeStream читает сообщения группы до отмены ctx; канал закрывается при выходе
	ConsumeStream(ctx context.Context, stream, group, consumer string) (<-chan domain.StreamMessage, error)

	// AckMessage подтверждает обработку сообщения
	AckMessage(ctx context.Context, stream, group, messageID string) error

	// PublishToStream сериализует data в JSON и публикует в стрим
	PublishToStream(ctx context.Context, stream string, data interface{}) error
}
