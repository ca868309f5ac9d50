// Package testutil provides artifact fixtures and collaborator doubles
// shared by the package tests.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// ReferenceCSV is a small preprocessed training table.
// Means: number_of_guests 250, quantity_of_food 350.
const ReferenceCSV = `type_of_food,number_of_guests,event_type,quantity_of_food,serving_method,geographical_location,pricing,wastage_food_amount
meat,300,wedding,450,buffet,urban,moderate,25
vegetables,200,corporate,350,sit-down dinner,rural,high,20
dairy products,NA,birthday,250,finger food,suburban,low,15
`

// TrainingColumns is the encoded schema the fixture models were fit on.
var TrainingColumns = []string{
	"number_of_guests",
	"quantity_of_food",
	"type_of_food_meat",
	"type_of_food_vegetables",
	"type_of_food_dairy_products",
	"event_type_wedding",
	"event_type_corporate",
	"event_type_birthday",
	"serving_method_buffet",
	"geographical_location_urban",
	"geographical_location_rural",
	"pricing_moderate",
	"event_food_combo_wedding_dairy_products",
	"event_geo_combo_wedding_urban",
}

// ColumnsJSON is TrainingColumns as written by the training export.
const ColumnsJSON = `["number_of_guests","quantity_of_food","type_of_food_meat","type_of_food_vegetables",
"type_of_food_dairy_products","event_type_wedding","event_type_corporate","event_type_birthday",
"serving_method_buffet","geographical_location_urban","geographical_location_rural","pricing_moderate",
"event_food_combo_wedding_dairy_products","event_geo_combo_wedding_urban"]`

// PrimaryJSON predicts 1 + 0.05*guests + 0.01*quantity + 2*[wedding with dairy products].
const PrimaryJSON = `{
  "kind": "linear",
  "coefficients": [0.05, 0.01, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 2, 0],
  "intercept": 1
}`

// SecondaryJSON predicts 0.1*guests.
const SecondaryJSON = `{
  "kind": "polynomial",
  "degree": 2,
  "include_bias": true,
  "n_features_in": 2,
  "feature_names": ["number_of_guests", "quantity_of_food"],
  "coefficients": [0, 0.1, 0, 0, 0, 0],
  "intercept": 0
}`

// WriteArtifacts writes the fixture artifacts into dir under their default names.
func WriteArtifacts(t *testing.T, dir string, withSecondary bool) {
	t.Helper()

	files := map[string]string{
		"rf.json":             PrimaryJSON,
		"input_columns.json":  ColumnsJSON,
		"df_preprocessed.csv": ReferenceCSV,
	}
	if withSecondary {
		files["pol.json"] = SecondaryJSON
	}

	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
}

// ArtifactDir returns a temporary directory holding every fixture artifact.
func ArtifactDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	WriteArtifacts(t, dir, true)
	return dir
}

// StaticClassifier answers every request with the same category.
type StaticClassifier struct {
	Category string
	Score    float64
	Err      error

	Classified []string
	Matched    []string
}

// Classify records the hint and returns the fixed category.
func (c *StaticClassifier) Classify(ctx context.Context, text string) (string, error) {
	c.Classified = append(c.Classified, text)
	if c.Err != nil {
		return "", c.Err
	}
	return c.Category, nil
}

// MatchBestCategory records the dish name and returns the fixed category.
func (c *StaticClassifier) MatchBestCategory(ctx context.Context, text string) (string, float64, error) {
	c.Matched = append(c.Matched, text)
	if c.Err != nil {
		return "", 0, c.Err
	}
	return c.Category, c.Score, nil
}
