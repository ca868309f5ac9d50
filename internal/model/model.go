// Package model evaluates regression models exported from training as JSON.
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Kind identifies the exported estimator family
type Kind string

const (
	KindLinear       Kind = "linear"
	KindPolynomial   Kind = "polynomial"
	KindDecisionTree Kind = "decision_tree"
	KindRandomForest Kind = "random_forest"
)

// Regressor is a fitted single-output regression model.
type Regressor interface {
	// Predict evaluates one input row.
	Predict(x []float64) (float64, error)

	// NumFeatures is the input width the model was fit on.
	NumFeatures() int

	// FeatureNames returns the training feature names, if exported.
	FeatureNames() []string

	Kind() Kind
}

// ErrWidth is returned when an input row has the wrong number of features.
var ErrWidth = errors.New("model: input width mismatch")

type header struct {
	Type        Kind     `json:"kind"`
	NFeaturesIn int      `json:"n_features_in"`
	Names       []string `json:"feature_names,omitempty"`
}

func (h header) NumFeatures() int {
	return h.NFeaturesIn
}

func (h header) FeatureNames() []string {
	return h.Names
}

func (h header) Kind() Kind {
	return h.Type
}

func (h header) checkWidth(x []float64) error {
	if len(x) != h.NFeaturesIn {
		return fmt.Errorf("%w: got %d features, model expects %d", ErrWidth, len(x), h.NFeaturesIn)
	}
	return nil
}

// Decode parses an exported model document.
func Decode(data []byte) (Regressor, error) {
	var h header
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("model: invalid document: %w", err)
	}
	if len(h.Names) > 0 && h.NFeaturesIn != 0 && len(h.Names) != h.NFeaturesIn {
		return nil, fmt.Errorf("model: %d feature names for %d features", len(h.Names), h.NFeaturesIn)
	}

	var (
		r   Regressor
		err error
	)
	switch h.Type {
	case KindLinear:
		r, err = decodeLinear(data)
	case KindPolynomial:
		r, err = decodePolynomial(data)
	case KindDecisionTree:
		r, err = decodeDecisionTree(data)
	case KindRandomForest:
		r, err = decodeRandomForest(data)
	case "":
		return nil, errors.New("model: document has no kind")
	default:
		return nil, fmt.Errorf("model: unsupported kind %q", h.Type)
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// LoadFile reads and decodes a model document from disk.
func LoadFile(path string) (Regressor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("model: failed to read %s: %w", path, err)
	}

	r, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// resolveWidth reconciles the declared input width with the width implied by
// the fitted parameters.
func (h *header) resolveWidth(implied int) error {
	if h.NFeaturesIn == 0 {
		h.NFeaturesIn = implied
		if len(h.Names) > 0 {
			h.NFeaturesIn = len(h.Names)
		}
	}
	if h.NFeaturesIn < implied {
		return fmt.Errorf("model: parameters need %d features, document declares %d", implied, h.NFeaturesIn)
	}
	if h.NFeaturesIn == 0 {
		return errors.New("model: input width is zero")
	}
	return nil
}
