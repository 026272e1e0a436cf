package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dashledger/internal/domain/shared"
	"github.com/dashledger/internal/sync_worker/service"
)

type MockIngestService struct {
	mock.Mock
}

func (m *MockIngestService) IngestOrder(ctx context.Context, msg *shared.SyncOrderMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

type MockDLQProducer struct {
	mock.Mock
}

func (m *MockDLQProducer) PublishToDLQ(ctx context.Context, key string, originalMessageValue []byte, reason string) error {
	args := m.Called(ctx, key, originalMessageValue, reason)
	return args.Error(0)
}

func (m *MockDLQProducer) Close() error {
	args := m.Called()
	return args.Error(0)
}

func newConsumerTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func validMessage(t *testing.T) (shared.SyncOrderMessage, []byte) {
	t.Helper()
	msg := shared.SyncOrderMessage{
		MessageID:       uuid.New(),
		Platform:        "UBER",
		PlatformOrderID: "trip-abc",
		Order: shared.PlatformOrder{
			Total:           decimal.NewFromFloat(18.75),
			DistanceMiles:   6.1,
			DurationMinutes: 32,
			CompletedAt:     time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC),
		},
		CorrelationID: "run-1",
	}
	value, err := json.Marshal(msg)
	require.NoError(t, err)
	return msg, value
}

func TestSyncOrderHandler_HandleMessage(t *testing.T) {
	ctx := context.Background()
	logger := newConsumerTestLogger()

	t.Run("Success commits the offset", func(t *testing.T) {
		mockIngest := new(MockIngestService)
		mockDLQ := new(MockDLQProducer)
		handler := NewSyncOrderHandler(logger, mockIngest, mockDLQ)

		msg, value := validMessage(t)
		mockIngest.On("IngestOrder", ctx, mock.MatchedBy(func(m *shared.SyncOrderMessage) bool {
			return m.MessageID == msg.MessageID
		})).Return(nil).Once()

		err := handler.HandleMessage(ctx, []byte("UBER:trip-abc"), value)

		assert.NoError(t, err)
		mockIngest.AssertExpectations(t)
		mockDLQ.AssertNotCalled(t, "PublishToDLQ")
	})

	t.Run("Malformed message goes to DLQ", func(t *testing.T) {
		mockIngest := new(MockIngestService)
		mockDLQ := new(MockDLQProducer)
		handler := NewSyncOrderHandler(logger, mockIngest, mockDLQ)

		value := []byte(`{"not json`)
		mockDLQ.On("PublishToDLQ", ctx, "bad-key", value, mock.AnythingOfType("string")).
			Return(nil).Once()

		err := handler.HandleMessage(ctx, []byte("bad-key"), value)

		assert.NoError(t, err)
		mockIngest.AssertNotCalled(t, "IngestOrder")
		mockDLQ.AssertExpectations(t)
	})

	t.Run("Malformed message without DLQ stays uncommitted", func(t *testing.T) {
		mockIngest := new(MockIngestService)
		handler := NewSyncOrderHandler(logger, mockIngest, nil)

		err := handler.HandleMessage(ctx, []byte("bad-key"), []byte(`{"not json`))

		assert.Error(t, err)
	})

	t.Run("Unprocessable order goes to DLQ", func(t *testing.T) {
		mockIngest := new(MockIngestService)
		mockDLQ := new(MockDLQProducer)
		handler := NewSyncOrderHandler(logger, mockIngest, mockDLQ)

		_, value := validMessage(t)
		mockIngest.On("IngestOrder", ctx, mock.Anything).
			Return(service.ErrUnprocessableOrder).Once()
		mockDLQ.On("PublishToDLQ", ctx, "UBER:trip-abc", value, mock.AnythingOfType("string")).
			Return(nil).Once()

		err := handler.HandleMessage(ctx, []byte("UBER:trip-abc"), value)

		assert.NoError(t, err)
		mockDLQ.AssertExpectations(t)
	})

	t.Run("Unprocessable order with failing DLQ is retried", func(t *testing.T) {
		mockIngest := new(MockIngestService)
		mockDLQ := new(MockDLQProducer)
		handler := NewSyncOrderHandler(logger, mockIngest, mockDLQ)

		_, value := validMessage(t)
		mockIngest.On("IngestOrder", ctx, mock.Anything).
			Return(service.ErrUnprocessableOrder).Once()
		mockDLQ.On("PublishToDLQ", ctx, "UBER:trip-abc", value, mock.AnythingOfType("string")).
			Return(errors.New("kafka down")).Once()

		err := handler.HandleMessage(ctx, []byte("UBER:trip-abc"), value)

		assert.Error(t, err)
	})

	t.Run("Transient ingest error is retried, not dead-lettered", func(t *testing.T) {
		mockIngest := new(MockIngestService)
		mockDLQ := new(MockDLQProducer)
		handler := NewSyncOrderHandler(logger, mockIngest, mockDLQ)

		_, value := validMessage(t)
		mockIngest.On("IngestOrder", ctx, mock.Anything).
			Return(errors.New("db timeout")).Once()

		err := handler.HandleMessage(ctx, []byte("UBER:trip-abc"), value)

		assert.Error(t, err)
		mockDLQ.AssertNotCalled(t, "PublishToDLQ")
	})
}
