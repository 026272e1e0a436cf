package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dashledger/internal/domain/shared"
)

// MockIngestService mocks the IngestService interface
type MockIngestService struct {
	mock.Mock
}

func (m *MockIngestService) IngestOrder(ctx context.Context, msg *shared.SyncOrderMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func TestWorkerPoolIngestService_IngestOrder(t *testing.T) {
	logger := slog.Default()

	tests := []struct {
		name          string
		ingestErr     error
		expectedError error
	}{
		{
			name: "successful ingestion",
		},
		{
			name:          "ingestion error propagates",
			ingestErr:     errors.New("ingest error"),
			expectedError: errors.New("ingest error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockBase := &MockIngestService{}
			pool, err := NewWorkerPoolIngestService(mockBase, WorkerPoolConfig{Size: 2}, logger)
			assert.NoError(t, err)
			defer pool.Shutdown()

			msg := syncOrderMessage()
			mockBase.On("IngestOrder", mock.Anything, mock.MatchedBy(func(m *shared.SyncOrderMessage) bool {
				return m.MessageID == msg.MessageID
			})).Return(tt.ingestErr).Once()

			err = pool.IngestOrder(context.Background(), msg)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError.Error())
			} else {
				assert.NoError(t, err)
			}
			mockBase.AssertExpectations(t)
		})
	}
}

func TestWorkerPoolIngestService_Concurrency(t *testing.T) {
	logger := slog.Default()
	mockBase := &MockIngestService{}

	pool, err := NewWorkerPoolIngestService(mockBase, WorkerPoolConfig{Size: 5}, logger)
	assert.NoError(t, err)
	defer pool.Shutdown()

	var mu sync.Mutex
	counter := 0

	mockBase.On("IngestOrder", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		time.Sleep(10 * time.Millisecond)
		mu.Lock()
		counter++
		mu.Unlock()
	}).Return(nil)

	numMessages := 10
	var wg sync.WaitGroup
	wg.Add(numMessages)

	for i := 0; i < numMessages; i++ {
		go func() {
			defer wg.Done()

			msg := syncOrderMessage()
			msg.MessageID = uuid.New()

			err := pool.IngestOrder(context.Background(), msg)
			assert.NoError(t, err)
		}()
	}

	wg.Wait()

	mu.Lock()
	assert.Equal(t, numMessages, counter)
	mu.Unlock()

	assert.Equal(t, 5, pool.Capacity())
}
