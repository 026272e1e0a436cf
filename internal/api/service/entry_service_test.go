package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dashledger/internal/domain/entry"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockEntryRepository struct {
	mock.Mock
}

func (m *MockEntryRepository) Create(ctx context.Context, e *entry.Entry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEntryRepository) GetByID(ctx context.Context, id int64) (*entry.Entry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entry.Entry), args.Error(1)
}

func (m *MockEntryRepository) List(ctx context.Context, filter entry.ListFilter) ([]*entry.Entry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entry.Entry), args.Error(1)
}

func (m *MockEntryRepository) ListRange(ctx context.Context, from, to *time.Time) ([]*entry.Entry, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entry.Entry), args.Error(1)
}

func (m *MockEntryRepository) Update(ctx context.Context, e *entry.Entry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEntryRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockEntryRepository) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func TestEntryServiceImpl_CreateEntry(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockEntryRepository)
		service := NewEntryService(mockRepo)

		mockRepo.On("Create", ctx, mock.AnythingOfType("*entry.Entry")).Return(nil).Once()

		e, err := service.CreateEntry(ctx, entry.CreateParams{
			Kind:     entry.KindExpense,
			Platform: entry.PlatformOther,
			Amount:   decimal.NewFromFloat(25.00),
			Category: entry.CategoryGas,
		})

		assert.NoError(t, err)
		assert.NotNil(t, e)
		// Expenses are stored negative regardless of the input sign
		assert.True(t, e.Amount.Equal(decimal.NewFromFloat(-25.00)))
		assert.Equal(t, entry.KindExpense, e.Kind)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Invalid kind", func(t *testing.T) {
		mockRepo := new(MockEntryRepository)
		service := NewEntryService(mockRepo)

		e, err := service.CreateEntry(ctx, entry.CreateParams{
			Kind:     entry.Kind("REFUND"),
			Platform: entry.PlatformOther,
		})

		assert.Nil(t, e)
		assert.ErrorIs(t, err, entry.ErrInvalidKind)
		mockRepo.AssertNotCalled(t, "Create")
	})

	t.Run("Repository error", func(t *testing.T) {
		mockRepo := new(MockEntryRepository)
		service := NewEntryService(mockRepo)
		dbErr := errors.New("db error")

		mockRepo.On("Create", ctx, mock.AnythingOfType("*entry.Entry")).Return(dbErr).Once()

		e, err := service.CreateEntry(ctx, entry.CreateParams{
			Kind:     entry.KindOrder,
			Platform: entry.PlatformDoorDash,
			Amount:   decimal.NewFromFloat(10),
		})

		assert.Nil(t, e)
		assert.ErrorIs(t, err, dbErr)
		mockRepo.AssertExpectations(t)
	})
}

func TestEntryServiceImpl_UpdateEntry(t *testing.T) {
	ctx := context.Background()

	existing := func() *entry.Entry {
		return &entry.Entry{
			ID:        7,
			Timestamp: time.Date(2024, 3, 10, 18, 0, 0, 0, time.UTC),
			Kind:      entry.KindOrder,
			Platform:  entry.PlatformDoorDash,
			Amount:    decimal.NewFromFloat(12.50),
			CreatedAt: time.Date(2024, 3, 10, 18, 0, 0, 0, time.UTC),
			UpdatedAt: time.Date(2024, 3, 10, 18, 0, 0, 0, time.UTC),
		}
	}

	t.Run("Kind change resigns existing amount", func(t *testing.T) {
		mockRepo := new(MockEntryRepository)
		service := NewEntryService(mockRepo)
		e := existing()

		mockRepo.On("GetByID", ctx, int64(7)).Return(e, nil).Once()
		mockRepo.On("Update", ctx, e).Return(nil).Once()

		kind := entry.KindCancellation
		updated, err := service.UpdateEntry(ctx, 7, entry.UpdateParams{Kind: &kind})

		assert.NoError(t, err)
		assert.Equal(t, entry.KindCancellation, updated.Kind)
		assert.True(t, updated.Amount.Equal(decimal.NewFromFloat(-12.50)))
		assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))
		mockRepo.AssertExpectations(t)
	})

	t.Run("Not found", func(t *testing.T) {
		mockRepo := new(MockEntryRepository)
		service := NewEntryService(mockRepo)

		mockRepo.On("GetByID", ctx, int64(99)).Return(nil, entry.ErrEntryNotFound{ID: 99}).Once()

		updated, err := service.UpdateEntry(ctx, 99, entry.UpdateParams{})

		assert.Nil(t, updated)
		assert.ErrorIs(t, err, entry.ErrEntryNotFound{})
		mockRepo.AssertNotCalled(t, "Update")
	})

	t.Run("Invalid update leaves entry unsaved", func(t *testing.T) {
		mockRepo := new(MockEntryRepository)
		service := NewEntryService(mockRepo)
		e := existing()

		mockRepo.On("GetByID", ctx, int64(7)).Return(e, nil).Once()

		badMiles := -1.0
		updated, err := service.UpdateEntry(ctx, 7, entry.UpdateParams{DistanceMiles: &badMiles})

		assert.Nil(t, updated)
		assert.ErrorIs(t, err, entry.ErrNegativeDistance)
		mockRepo.AssertNotCalled(t, "Update")
	})
}

func TestEntryServiceImpl_DeleteEntry(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockEntryRepository)
		service := NewEntryService(mockRepo)

		mockRepo.On("Delete", ctx, int64(7)).Return(nil).Once()

		assert.NoError(t, service.DeleteEntry(ctx, 7))
		mockRepo.AssertExpectations(t)
	})

	t.Run("Not found", func(t *testing.T) {
		mockRepo := new(MockEntryRepository)
		service := NewEntryService(mockRepo)

		mockRepo.On("Delete", ctx, int64(7)).Return(entry.ErrEntryNotFound{ID: 7}).Once()

		err := service.DeleteEntry(ctx, 7)
		assert.ErrorIs(t, err, entry.ErrEntryNotFound{})
		mockRepo.AssertExpectations(t)
	})
}

func TestEntryServiceImpl_DeleteAllEntries(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockEntryRepository)
	service := NewEntryService(mockRepo)

	mockRepo.On("DeleteAll", ctx).Return(nil).Once()

	assert.NoError(t, service.DeleteAllEntries(ctx))
	mockRepo.AssertExpectations(t)
}
