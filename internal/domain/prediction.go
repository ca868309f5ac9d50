package domain

import (
	"encoding/json"
	"fmt"
	"math"
)

// Fixed feature names shared by the assembler, the encoder and the predictor.
const (
	TargetColumn = "wastage_food_amount"

	GuestsColumn        = "number_of_guests"
	QuantityColumn      = "quantity_of_food"
	FoodTypeColumn      = "type_of_food"
	EventTypeColumn     = "event_type"
	LocationColumn      = "geographical_location"
	EventFoodComboKey   = "event_food_combo"
	EventGeoComboKey    = "event_geo_combo"
	DefaultLocationName = "urban"
)

// RequestEvent is the caller-supplied event. Field names vary by caller version.
type RequestEvent map[string]any

// ParseRequestEvent decodes a JSON object into a RequestEvent. Anything that
// is not a single JSON object is ErrMalformedInput.
func ParseRequestEvent(data []byte) (RequestEvent, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedInput, err)
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected a JSON object, got %T", ErrMalformedInput, raw)
	}
	return RequestEvent(obj), nil
}

// Lookup returns the value stored under key and whether the key was present.
// A present key holding JSON null still counts as present.
func (e RequestEvent) Lookup(key string) (any, bool) {
	v, ok := e[key]
	return v, ok
}

// FeatureRecord is a single row keyed by reference feature name.
type FeatureRecord map[string]any

// Float returns the value under name as a float64 if it holds a JSON number.
func (r FeatureRecord) Float(name string) (float64, bool) {
	switch v := r[name].(type) {
	case float64:
		return v, !math.IsNaN(v)
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}

// String returns the value under name if it is a string.
func (r FeatureRecord) String(name string) (string, bool) {
	s, ok := r[name].(string)
	return s, ok
}

// EncodedVector is the one-hot row aligned with the training columns.
type EncodedVector struct {
	Columns []string  `json:"columns"`
	Values  []float64 `json:"values"`
}

// Len returns the vector width.
func (v EncodedVector) Len() int {
	return len(v.Values)
}

// ModelKind tags which fitted model produced a prediction.
type ModelKind string

const (
	PrimaryModel   ModelKind = "primary"
	SecondaryModel ModelKind = "secondary"
)

// PredictionResult is the value returned for one request
type PredictionResult struct {
	Value     float64   `json:"predicted_waste_kg"`
	ModelUsed ModelKind `json:"model_used"`
}
