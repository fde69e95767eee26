package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"talento/internal/database"
	"talento/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockBenefitRepo struct {
	mock.Mock
}

func (m *mockBenefitRepo) ListByEmployee(ctx context.Context, employeeID int64) ([]models.Benefit, error) {
	args := m.Called(ctx, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Benefit), args.Error(1)
}

func (m *mockBenefitRepo) Save(ctx context.Context, benefit *models.Benefit) error {
	args := m.Called(ctx, benefit)
	return args.Error(0)
}

func (m *mockBenefitRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newFailover(primary, fallback *mockBenefitRepo) *FailoverBenefitRepository {
	logger := zerolog.Nop()
	return NewFailoverBenefitRepository(primary, fallback, &logger)
}

func TestFailoverListByEmployee(t *testing.T) {
	ctx := context.Background()

	t.Run("PrimarySuccess", func(t *testing.T) {
		primary := new(mockBenefitRepo)
		fallback := new(mockBenefitRepo)
		r := newFailover(primary, fallback)

		primary.On("ListByEmployee", ctx, int64(1)).
			Return([]models.Benefit{{ID: 1}}, nil).Once()

		benefits, err := r.ListByEmployee(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, benefits, 1)
		fallback.AssertNotCalled(t, "ListByEmployee", mock.Anything, mock.Anything)
	})

	t.Run("PrimaryFailFallbackSuccess", func(t *testing.T) {
		primary := new(mockBenefitRepo)
		fallback := new(mockBenefitRepo)
		r := newFailover(primary, fallback)

		primary.On("ListByEmployee", ctx, int64(1)).
			Return(nil, errors.New("connection refused")).Once()
		fallback.On("ListByEmployee", ctx, int64(1)).
			Return([]models.Benefit{}, nil).Once()

		_, err := r.ListByEmployee(ctx, 1)
		require.NoError(t, err)
		assert.True(t, r.isDown.Load())
		primary.AssertExpectations(t)
		fallback.AssertExpectations(t)
	})

	t.Run("DownSkipsPrimary", func(t *testing.T) {
		primary := new(mockBenefitRepo)
		fallback := new(mockBenefitRepo)
		r := newFailover(primary, fallback)
		r.isDown.Store(true)
		r.lastCheck = time.Now()

		fallback.On("ListByEmployee", ctx, int64(1)).
			Return([]models.Benefit{}, nil).Once()

		_, err := r.ListByEmployee(ctx, 1)
		require.NoError(t, err)
		primary.AssertNotCalled(t, "ListByEmployee", mock.Anything, mock.Anything)
	})

	t.Run("RecoveryAttempt", func(t *testing.T) {
		primary := new(mockBenefitRepo)
		fallback := new(mockBenefitRepo)
		r := newFailover(primary, fallback)
		r.isDown.Store(true)
		r.lastCheck = time.Now().Add(-2 * time.Minute)

		primary.On("ListByEmployee", ctx, int64(1)).
			Return([]models.Benefit{{ID: 7}}, nil).Once()

		benefits, err := r.ListByEmployee(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, benefits, 1)
		assert.False(t, r.isDown.Load())
		fallback.AssertNotCalled(t, "ListByEmployee", mock.Anything, mock.Anything)
	})
}

func TestFailoverSave(t *testing.T) {
	ctx := context.Background()

	primary := new(mockBenefitRepo)
	fallback := new(mockBenefitRepo)
	r := newFailover(primary, fallback)

	b := &models.Benefit{EmployeeID: 1, Name: "Seguro médico"}
	primary.On("Save", ctx, b).Return(errors.New("connection refused")).Once()
	fallback.On("Save", ctx, b).Return(nil).Once()

	require.NoError(t, r.Save(ctx, b))
	assert.True(t, r.isDown.Load())
	primary.AssertExpectations(t)
	fallback.AssertExpectations(t)
}

func TestFailoverDeleteNotFoundIsNotAnOutage(t *testing.T) {
	ctx := context.Background()

	primary := new(mockBenefitRepo)
	fallback := new(mockBenefitRepo)
	r := newFailover(primary, fallback)

	primary.On("Delete", ctx, int64(9)).Return(database.ErrNotFound).Once()

	err := r.Delete(ctx, 9)
	assert.ErrorIs(t, err, database.ErrNotFound)
	assert.False(t, r.isDown.Load())
	fallback.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
