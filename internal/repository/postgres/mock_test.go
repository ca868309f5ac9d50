package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodwaste/predictor/internal/domain"
)

func TestMockRepositoryNewestFirst(t *testing.T) {
	repo := NewMockRepository()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.SavePredictionLog(ctx, domain.PredictionLog{
			ID:        fmt.Sprintf("p-%d", i),
			Value:     float64(i),
			ModelUsed: domain.PrimaryModel,
			CreatedAt: time.Now(),
		}))
	}

	got, err := repo.RecentPredictions(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "p-2", got[0].ID)
	assert.Equal(t, "p-1", got[1].ID)
	assert.NoError(t, repo.Health(ctx))
}

func TestMockRepositoryIsBounded(t *testing.T) {
	repo := NewMockRepository()
	ctx := context.Background()

	for i := 0; i < mockCapacity+10; i++ {
		require.NoError(t, repo.SavePredictionLog(ctx, domain.PredictionLog{ID: fmt.Sprintf("p-%d", i)}))
	}

	got, err := repo.RecentPredictions(ctx, 1000)
	require.NoError(t, err)
	assert.Len(t, got, mockCapacity)
	assert.Equal(t, fmt.Sprintf("p-%d", mockCapacity+9), got[0].ID)
}
