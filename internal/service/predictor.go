package service

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/foodwaste/predictor/internal/domain"
	"github.com/foodwaste/predictor/internal/model"
)

// Envelope is the guest-count and quantity range the primary model is
// trusted in. Bounds are inclusive.
type Envelope struct {
	MinGuests   float64
	MaxGuests   float64
	MinQuantity float64
	MaxQuantity float64
}

// DefaultEnvelope returns the validated operating range of the primary model.
func DefaultEnvelope() Envelope {
	return Envelope{
		MinGuests:   200,
		MaxGuests:   500,
		MinQuantity: 250.0,
		MaxQuantity: 550.0,
	}
}

// Contains reports whether a request lies inside the envelope.
func (e Envelope) Contains(guests, quantity float64) bool {
	return guests >= e.MinGuests && guests <= e.MaxGuests &&
		quantity >= e.MinQuantity && quantity <= e.MaxQuantity
}

// Predictor applies the piecewise model policy: the primary model always
// runs, and its answer is replaced by the secondary model's when a secondary
// model is configured and the request lies outside the envelope.
type Predictor struct {
	primary   model.Regressor
	secondary model.Regressor
	envelope  Envelope
}

// NewPredictor creates a predictor; secondary may be nil.
func NewPredictor(primary, secondary model.Regressor, envelope Envelope) *Predictor {
	return &Predictor{primary: primary, secondary: secondary, envelope: envelope}
}

// Predict evaluates vec and returns exactly one model's output.
func (p *Predictor) Predict(vec domain.EncodedVector, guests, quantity float64) (domain.PredictionResult, error) {
	value, err := p.primary.Predict(vec.Values)
	if err != nil {
		return domain.PredictionResult{}, fmt.Errorf("%w: predictor: primary model: %w", domain.ErrEncoding, err)
	}
	result := domain.PredictionResult{Value: value, ModelUsed: domain.PrimaryModel}

	if p.secondary != nil && !p.envelope.Contains(guests, quantity) {
		// the secondary model only sees guests and quantity
		value, err := p.secondary.Predict([]float64{guests, quantity})
		if err != nil {
			return domain.PredictionResult{}, fmt.Errorf("%w: predictor: secondary model: %w", domain.ErrEncoding, err)
		}
		log.Debug().
			Float64("guests", guests).
			Float64("quantity", quantity).
			Float64("primary", result.Value).
			Msg("Request outside primary envelope, using secondary model")
		result = domain.PredictionResult{Value: value, ModelUsed: domain.SecondaryModel}
	}

	log.Debug().Float64("prediction", result.Value).Str("model_used", string(result.ModelUsed)).Msg("Prediction result")
	return result, nil
}
