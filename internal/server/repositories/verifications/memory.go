package verifications

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/google/uuid"
)

type MemoryRepository struct {
	mu   sync.RWMutex
	byID map[string]models.Verification
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: make(map[string]models.Verification)}
}

func (r *MemoryRepository) Create(ctx context.Context, v *models.Verification) (*models.Verification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v.ID = uuid.NewString()
	r.byID[v.ID] = *v
	return v, nil
}

func (r *MemoryRepository) FindByUserID(ctx context.Context, userID string) ([]*models.Verification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*models.Verification
	for _, v := range r.byID {
		if v.UserID == userID {
			c := v
			result = append(result, &c)
		}
	}
	slices.SortFunc(result, func(a, b *models.Verification) int {
		return cmp.Compare(b.CreatedAt.UnixNano(), a.CreatedAt.UnixNano())
	})
	return result, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.byID, id)
	return nil
}

func (r *MemoryRepository) DeleteByUserID(ctx context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, v := range r.byID {
		if v.UserID == userID {
			delete(r.byID, id)
			n++
		}
	}
	return n, nil
}

// Count returns the number of stored records.
func (r *MemoryRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
