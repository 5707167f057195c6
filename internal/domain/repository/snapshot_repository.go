package repository

import "context"

// SnapshotUploader - внешнее хранилище снимков таблицы заявок
type SnapshotUploader interface {
	Upload(ctx context.Context, key string, body []byte, contentType string) error
}
