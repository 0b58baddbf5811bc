package worker

import "context"

// Worker - фоновая задача под управлением WorkerManager.
// Start блокируется до отмены ctx или вызова Stop.
type Worker interface {
	Start(ctx context.Context) error
	Stop() error
	Name() string
}
