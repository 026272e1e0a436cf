package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/dashledger/internal/domain/shared"
)

// WorkerPoolIngestService implements the IngestService interface by fanning
// messages out over a fixed-size worker pool while preserving the caller's
// error semantics.
type WorkerPoolIngestService struct {
	baseService IngestService
	pool        *ants.Pool
	logger      *slog.Logger
	// Use a mutex to protect access to the results map
	mu      sync.Mutex
	results map[string]chan error
}

type WorkerPoolConfig struct {
	Size int
}

func NewWorkerPoolIngestService(
	baseService IngestService,
	config WorkerPoolConfig,
	logger *slog.Logger,
) (*WorkerPoolIngestService, error) {
	pool, err := ants.NewPool(config.Size)
	if err != nil {
		return nil, err
	}

	return &WorkerPoolIngestService{
		baseService: baseService,
		pool:        pool,
		logger:      logger,
		results:     make(map[string]chan error),
	}, nil
}

// IngestOrder submits a sync order message to the worker pool for ingestion.
func (s *WorkerPoolIngestService) IngestOrder(ctx context.Context, msg *shared.SyncOrderMessage) error {
	logger := s.logger
	if msg.CorrelationID != "" {
		logger = s.logger.With("correlation_id", msg.CorrelationID)
	}

	logger.Debug("Submitting sync order to worker pool",
		"message_id", msg.MessageID.String(),
		"platform", msg.Platform,
		"platform_order_id", msg.PlatformOrderID,
	)

	resultChan := make(chan error, 1)

	messageID := msg.MessageID.String()
	s.mu.Lock()
	s.results[messageID] = resultChan
	s.mu.Unlock()

	// Create a copy of the message to avoid data races
	msgCopy := *msg

	err := s.pool.Submit(func() {
		err := s.baseService.IngestOrder(ctx, &msgCopy)

		resultChan <- err

		s.mu.Lock()
		delete(s.results, messageID)
		close(resultChan)
		s.mu.Unlock()
	})

	if err != nil {
		s.mu.Lock()
		delete(s.results, messageID)
		close(resultChan)
		s.mu.Unlock()

		logger.Error("Failed to submit sync order to worker pool",
			"message_id", messageID,
			"error", err,
		)
		return err
	}

	return <-resultChan
}

// Shutdown gracefully shuts down the worker pool.
func (s *WorkerPoolIngestService) Shutdown() {
	s.logger.Info("Shutting down worker pool", "running_workers", s.pool.Running())
	s.pool.Release()
}

// Running returns the number of running workers in the pool.
func (s *WorkerPoolIngestService) Running() int {
	return s.pool.Running()
}

// Capacity returns the capacity of the worker pool.
func (s *WorkerPoolIngestService) Capacity() int {
	return s.pool.Cap()
}
