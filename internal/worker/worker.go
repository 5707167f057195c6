package worker

import "context"

// Worker - фоновая задача процесса.
// Start блокирует до Stop или отмены ctx; Stop можно вызывать повторно.
type Worker interface {
	Start(ctx context.Context) error
	Stop() error
	Name() string
}
