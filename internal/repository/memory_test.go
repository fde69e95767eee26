package repository

import (
	"context"
	"testing"

	"talento/internal/database"
	"talento/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBenefitRepository(t *testing.T) {
	repo := NewMemoryBenefitRepository()
	ctx := context.Background()

	t.Run("SaveAssignsID", func(t *testing.T) {
		b := &models.Benefit{EmployeeID: 1, Name: "Seguro médico", Amount: 45}
		require.NoError(t, repo.Save(ctx, b))
		assert.Equal(t, int64(1), b.ID)

		b2 := &models.Benefit{EmployeeID: 1, Name: "Transporte", Amount: 20}
		require.NoError(t, repo.Save(ctx, b2))
		assert.Equal(t, int64(2), b2.ID)
	})

	t.Run("ListByEmployee", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, &models.Benefit{EmployeeID: 2, Name: "Alimentación"}))

		benefits, err := repo.ListByEmployee(ctx, 1)
		require.NoError(t, err)
		require.Len(t, benefits, 2)
		assert.Equal(t, "Seguro médico", benefits[0].Name)
		assert.Equal(t, "Transporte", benefits[1].Name)
	})

	t.Run("SaveWithIDUpdates", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, &models.Benefit{ID: 1, EmployeeID: 1, Name: "Seguro dental", Amount: 30}))

		benefits, err := repo.ListByEmployee(ctx, 1)
		require.NoError(t, err)
		require.Len(t, benefits, 2)
		assert.Equal(t, "Seguro dental", benefits[0].Name)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, 1))

		benefits, err := repo.ListByEmployee(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, benefits, 1)
	})

	t.Run("DeleteMissing", func(t *testing.T) {
		err := repo.Delete(ctx, 999)
		assert.ErrorIs(t, err, database.ErrNotFound)
	})
}

func TestMemoryImportResultCache(t *testing.T) {
	cache := NewMemoryImportResultCache()
	ctx := context.Background()

	got, err := cache.GetLastResult(ctx, models.ImportPayroll)
	require.NoError(t, err)
	assert.Nil(t, got)

	result := &models.ImportResult{Kind: models.ImportPayroll, Processed: 10, Created: 4, Updated: 6}
	require.NoError(t, cache.SetLastResult(ctx, models.ImportPayroll, result))

	got, err = cache.GetLastResult(ctx, models.ImportPayroll)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 10, got.Processed)

	// Kinds are independent slots.
	got, err = cache.GetLastResult(ctx, models.ImportAttendance)
	require.NoError(t, err)
	assert.Nil(t, got)
}
