package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodwaste/predictor/internal/testutil"
)

func TestCachedClassifierMemoizes(t *testing.T) {
	next := &testutil.StaticClassifier{Category: "dairy products", Score: 0.75}
	c := NewCachedClassifier(next, 512*1024, 0)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		category, score, err := c.MatchBestCategory(ctx, "paneer tikka")
		require.NoError(t, err)
		assert.Equal(t, "dairy products", category)
		assert.Equal(t, 0.75, score)
	}
	assert.Len(t, next.Matched, 1)

	for i := 0; i < 2; i++ {
		category, err := c.Classify(ctx, "paneer tikka")
		require.NoError(t, err)
		assert.Equal(t, "dairy products", category)
	}
	assert.Len(t, next.Classified, 1)
	assert.Greater(t, c.HitRate(), 0.0)
}

func TestCachedClassifierDoesNotCacheFailures(t *testing.T) {
	next := &testutil.StaticClassifier{Err: errors.New("offline")}
	c := NewCachedClassifier(next, 512*1024, 0)

	_, err := c.Classify(context.Background(), "samosa")
	require.Error(t, err)

	next.Err = nil
	next.Category = "vegetables"
	category, err := c.Classify(context.Background(), "samosa")
	require.NoError(t, err)
	assert.Equal(t, "vegetables", category)
	assert.Len(t, next.Classified, 2)
}
