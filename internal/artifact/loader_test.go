package artifact

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodwaste/predictor/internal/domain"
	"github.com/foodwaste/predictor/internal/testutil"
)

func TestLoad(t *testing.T) {
	dir := testutil.ArtifactDir(t)

	b, err := NewLoader(dir, DefaultFiles, domain.TargetColumn).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, testutil.TrainingColumns, b.TrainingColumns)
	assert.True(t, b.HasSecondary())
	assert.Equal(t, len(testutil.TrainingColumns), b.Primary.NumFeatures())
	assert.Equal(t, SecondaryWidth, b.Secondary.NumFeatures())
	assert.Equal(t, 3, b.Reference.Len())
	assert.Equal(t, []string{"number_of_guests", "quantity_of_food"}, b.Schema.Numeric)
}

func TestLoadWithoutSecondaryFile(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteArtifacts(t, dir, false)

	b, err := NewLoader(dir, DefaultFiles, domain.TargetColumn).Load(context.Background())
	require.NoError(t, err)
	assert.False(t, b.HasSecondary())
}

func TestLoadSecondaryDisabled(t *testing.T) {
	files := DefaultFiles
	files.SecondaryModel = ""

	b, err := NewLoader(testutil.ArtifactDir(t), files, domain.TargetColumn).Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, b.Secondary)
}

func TestLoadFailures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(t *testing.T, dir string)
		wantErr error
	}{
		{
			name:    "missing primary model",
			mutate:  func(t *testing.T, dir string) { require.NoError(t, os.Remove(filepath.Join(dir, "rf.json"))) },
			wantErr: domain.ErrArtifactLoad,
		},
		{
			name:    "missing training columns",
			mutate:  func(t *testing.T, dir string) { require.NoError(t, os.Remove(filepath.Join(dir, "input_columns.json"))) },
			wantErr: domain.ErrArtifactLoad,
		},
		{
			name:    "missing reference dataset",
			mutate:  func(t *testing.T, dir string) { require.NoError(t, os.Remove(filepath.Join(dir, "df_preprocessed.csv"))) },
			wantErr: domain.ErrArtifactLoad,
		},
		{
			name:    "corrupt secondary model",
			mutate:  func(t *testing.T, dir string) { write(t, dir, "pol.json", `{"kind":"polynomial"`) },
			wantErr: domain.ErrArtifactLoad,
		},
		{
			name:    "secondary model too wide",
			mutate:  func(t *testing.T, dir string) { write(t, dir, "pol.json", `{"kind":"linear","coefficients":[1,2,3]}`) },
			wantErr: domain.ErrArtifactLoad,
		},
		{
			name:    "column list width disagrees with model",
			mutate:  func(t *testing.T, dir string) { write(t, dir, "input_columns.json", `["number_of_guests"]`) },
			wantErr: domain.ErrArtifactLoad,
		},
		{
			name:    "duplicate training column",
			mutate:  func(t *testing.T, dir string) { write(t, dir, "input_columns.json", `["a","a"]`) },
			wantErr: domain.ErrArtifactLoad,
		},
		{
			name: "reference column without values",
			mutate: func(t *testing.T, dir string) {
				write(t, dir, "df_preprocessed.csv", "event_type,notes,wastage_food_amount\nwedding,,1\n")
			},
			wantErr: domain.ErrSchema,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := testutil.ArtifactDir(t)
			tt.mutate(t, dir)

			_, err := NewLoader(dir, DefaultFiles, domain.TargetColumn).Load(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoader(testutil.ArtifactDir(t), DefaultFiles, domain.TargetColumn).Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCachedReturnsSameBundle(t *testing.T) {
	ctx := context.Background()
	cached, err := NewCached(ctx, NewLoader(testutil.ArtifactDir(t), DefaultFiles, domain.TargetColumn))
	require.NoError(t, err)

	first, err := cached.Artifacts(ctx)
	require.NoError(t, err)
	second, err := cached.Artifacts(ctx)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func write(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
