package repository

import (
	"context"
	"sort"
	"sync"

	"talento/internal/database"
	"talento/internal/models"
)

// MemoryBenefitRepository keeps benefit records in process memory. It is the
// failover fallback and the default when redis is not configured.
type MemoryBenefitRepository struct {
	mu       sync.RWMutex
	benefits map[int64]models.Benefit
	nextID   int64
}

func NewMemoryBenefitRepository() *MemoryBenefitRepository {
	return &MemoryBenefitRepository{benefits: make(map[int64]models.Benefit), nextID: 1}
}

func (r *MemoryBenefitRepository) ListByEmployee(ctx context.Context, employeeID int64) ([]models.Benefit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.Benefit
	for _, b := range r.benefits {
		if b.EmployeeID == employeeID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryBenefitRepository) Save(ctx context.Context, benefit *models.Benefit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if benefit.ID == 0 {
		benefit.ID = r.nextID
		r.nextID++
	}
	r.benefits[benefit.ID] = *benefit
	return nil
}

func (r *MemoryBenefitRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.benefits[id]; !ok {
		return database.ErrNotFound
	}
	delete(r.benefits, id)
	return nil
}

// MemoryImportResultCache holds the last import report per kind in process
// memory.
type MemoryImportResultCache struct {
	results sync.Map
}

func NewMemoryImportResultCache() *MemoryImportResultCache {
	return &MemoryImportResultCache{}
}

func (c *MemoryImportResultCache) SetLastResult(ctx context.Context, kind string, result *models.ImportResult) error {
	c.results.Store(kind, result)
	return nil
}

func (c *MemoryImportResultCache) GetLastResult(ctx context.Context, kind string) (*models.ImportResult, error) {
	val, ok := c.results.Load(kind)
	if !ok {
		return nil, nil
	}
	return val.(*models.ImportResult), nil
}
