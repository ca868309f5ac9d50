package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Polynomial is a linear model fit on a polynomial feature expansion.
// Terms follow the graded order used by the training pipeline: the bias
// term, then every degree-1 term, then every degree-2 combination in
// lexicographic order, and so on.
type Polynomial struct {
	header
	Degree          int       `json:"degree"`
	IncludeBias     bool      `json:"include_bias"`
	InteractionOnly bool      `json:"interaction_only"`
	Coefficients    []float64 `json:"coefficients"`
	Intercept       float64   `json:"intercept"`

	terms [][]int
}

func decodePolynomial(data []byte) (*Polynomial, error) {
	m := Polynomial{IncludeBias: true}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("model: invalid polynomial model: %w", err)
	}
	if m.Degree < 1 {
		return nil, fmt.Errorf("model: polynomial degree must be at least 1, got %d", m.Degree)
	}
	if m.NFeaturesIn == 0 && len(m.Names) == 0 {
		return nil, errors.New("model: polynomial model must declare n_features_in")
	}
	if err := m.resolveWidth(1); err != nil {
		return nil, err
	}

	m.terms = expansionTerms(m.NFeaturesIn, m.Degree, m.IncludeBias, m.InteractionOnly)
	if len(m.terms) != len(m.Coefficients) {
		return nil, fmt.Errorf("model: polynomial expansion has %d terms, got %d coefficients", len(m.terms), len(m.Coefficients))
	}
	return &m, nil
}

// Predict expands x and evaluates the linear part.
func (m *Polynomial) Predict(x []float64) (float64, error) {
	if err := m.checkWidth(x); err != nil {
		return 0, err
	}

	y := m.Intercept
	for i, term := range m.terms {
		v := 1.0
		for _, f := range term {
			v *= x[f]
		}
		y += m.Coefficients[i] * v
	}
	return y, nil
}

// expansionTerms lists the feature indices multiplied together in each
// expanded column. The bias term is the empty product.
func expansionTerms(nFeatures, degree int, includeBias, interactionOnly bool) [][]int {
	var terms [][]int
	if includeBias {
		terms = append(terms, []int{})
	}

	for d := 1; d <= degree; d++ {
		var walk func(start int, prefix []int)
		walk = func(start int, prefix []int) {
			if len(prefix) == d {
				term := make([]int, d)
				copy(term, prefix)
				terms = append(terms, term)
				return
			}
			for i := start; i < nFeatures; i++ {
				next := i
				if interactionOnly {
					next = i + 1
				}
				walk(next, append(prefix, i))
			}
		}
		walk(0, make([]int, 0, d))
	}
	return terms
}
