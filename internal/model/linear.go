package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Linear is an ordinary least squares model: y = intercept + w·x.
type Linear struct {
	header
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

func decodeLinear(data []byte) (*Linear, error) {
	var m Linear
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("model: invalid linear model: %w", err)
	}
	if len(m.Coefficients) == 0 {
		return nil, errors.New("model: linear model has no coefficients")
	}
	if err := m.resolveWidth(len(m.Coefficients)); err != nil {
		return nil, err
	}
	if m.NFeaturesIn != len(m.Coefficients) {
		return nil, fmt.Errorf("model: linear model has %d coefficients for %d features", len(m.Coefficients), m.NFeaturesIn)
	}
	return &m, nil
}

// Predict evaluates the model on x.
func (m *Linear) Predict(x []float64) (float64, error) {
	if err := m.checkWidth(x); err != nil {
		return 0, err
	}
	return m.Intercept + dot(m.Coefficients, x), nil
}

func dot(w, x []float64) float64 {
	var sum float64
	for i := range w {
		sum += w[i] * x[i]
	}
	return sum
}
