// Package schema derives column roles and default values from the
// reference dataset the model was trained on.
package schema

import (
	"fmt"

	"github.com/foodwaste/predictor/internal/dataset"
	"github.com/foodwaste/predictor/internal/domain"
)

// Schema partitions the reference feature columns and carries their defaults.
// It is computed once per artifact load and never mutated afterwards.
type Schema struct {
	Target      string
	Numeric     []string
	Categorical []string

	numericDefaults     map[string]float64
	categoricalDefaults map[string]string
}

// Inspect partitions every non-target column of ds into numeric and
// categorical roles. Numeric columns default to the mean of their observed
// values; categorical columns default to their first observed value.
func Inspect(ds *dataset.Dataset, target string) (*Schema, error) {
	s := &Schema{
		Target:              target,
		numericDefaults:     make(map[string]float64),
		categoricalDefaults: make(map[string]string),
	}

	for _, col := range ds.Columns() {
		if col == target {
			continue
		}

		switch ds.Kind(col) {
		case dataset.Numeric:
			values, err := ds.Numbers(col)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", domain.ErrSchema, err)
			}
			s.Numeric = append(s.Numeric, col)
			s.numericDefaults[col] = mean(values)

		case dataset.Textual:
			cells, _ := ds.Values(col)
			s.Categorical = append(s.Categorical, col)
			s.categoricalDefaults[col] = firstObserved(cells)

		default:
			return nil, fmt.Errorf("%w: schema: column %q has no observed value to default to", domain.ErrSchema, col)
		}
	}

	return s, nil
}

// NumericDefault returns the mean of a numeric column.
func (s *Schema) NumericDefault(col string) (float64, bool) {
	v, ok := s.numericDefaults[col]
	return v, ok
}

// CategoricalDefault returns the first observed value of a categorical column.
func (s *Schema) CategoricalDefault(col string) (string, bool) {
	v, ok := s.categoricalDefaults[col]
	return v, ok
}

// IsCategorical reports whether col was classified as categorical.
func (s *Schema) IsCategorical(col string) bool {
	_, ok := s.categoricalDefaults[col]
	return ok
}

// IsNumeric reports whether col was classified as numeric.
func (s *Schema) IsNumeric(col string) bool {
	_, ok := s.numericDefaults[col]
	return ok
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func firstObserved(cells []string) string {
	for _, cell := range cells {
		if !dataset.IsMissing(cell) {
			return cell
		}
	}
	return ""
}
