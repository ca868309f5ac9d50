package postgres

import (
	"context"
	"sync"

	"github.com/foodwaste/predictor/internal/domain"
)

const mockCapacity = 100

// MockRepository implements domain.PredictionLogRepository in memory for
// testing/demo mode. Only the newest entries are kept.
type MockRepository struct {
	mu      sync.Mutex
	entries []domain.PredictionLog
}

// NewMockRepository creates a new mock repository
func NewMockRepository() *MockRepository {
	return &MockRepository{}
}

// SavePredictionLog keeps the entry in memory
func (r *MockRepository) SavePredictionLog(ctx context.Context, entry domain.PredictionLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, entry)
	if len(r.entries) > mockCapacity {
		r.entries = r.entries[len(r.entries)-mockCapacity:]
	}
	return nil
}

// RecentPredictions returns the newest entries first
func (r *MockRepository) RecentPredictions(ctx context.Context, limit int) ([]domain.PredictionLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.PredictionLog, 0, min(limit, len(r.entries)))
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.entries[i])
	}
	return out, nil
}

// Health always returns nil in mock mode
func (r *MockRepository) Health(ctx context.Context) error {
	return nil
}
