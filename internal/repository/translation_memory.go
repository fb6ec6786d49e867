package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dangerclosesec/transpiler/internal/domain"
	"github.com/dangerclosesec/transpiler/internal/model"
	"github.com/google/uuid"
)

// MemoryTranslationRepository keeps translations in process memory. The
// API server falls back to it when no database is configured.
type MemoryTranslationRepository struct {
	mu    sync.RWMutex
	items []model.Translation
	max   int
}

// NewMemoryTranslationRepository keeps at most max records, dropping the
// oldest first. A max of zero means unbounded.
func NewMemoryTranslationRepository(max int) *MemoryTranslationRepository {
	return &MemoryTranslationRepository{max: max}
}

// Create stores a copy of t
func (r *MemoryTranslationRepository) Create(ctx context.Context, t *model.Translation) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now

	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = append(r.items, *t)
	if r.max > 0 && len(r.items) > r.max {
		r.items = r.items[len(r.items)-r.max:]
	}
	return nil
}

// FindByID retrieves a translation by its ID
func (r *MemoryTranslationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Translation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.items {
		if r.items[i].ID == id {
			t := r.items[i]
			return &t, nil
		}
	}
	return nil, fmt.Errorf("failed to find translation: %w", domain.ErrNotFound)
}

// Query filters, sorts newest first and paginates
func (r *MemoryTranslationRepository) Query(ctx context.Context, params QueryParams) ([]model.Translation, int64, error) {
	r.mu.RLock()
	var matched []model.Translation
	for _, t := range r.items {
		if params.Status != "" && t.Status != params.Status {
			continue
		}
		if params.ErrorStage != "" && t.ErrorStage != params.ErrorStage {
			continue
		}
		if params.SourceName != "" && t.SourceName != params.SourceName {
			continue
		}
		if params.SourceDigest != "" && t.SourceDigest != params.SourceDigest {
			continue
		}
		if !params.StartTime.IsZero() && t.CreatedAt.Before(params.StartTime) {
			continue
		}
		if !params.EndTime.IsZero() && t.CreatedAt.After(params.EndTime) {
			continue
		}
		matched = append(matched, t)
	}
	r.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	if params.Offset >= len(matched) {
		return []model.Translation{}, total, nil
	}
	matched = matched[params.Offset:]
	if limit := params.limit(); len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, total, nil
}
