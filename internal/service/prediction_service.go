package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/foodwaste/predictor/internal/artifact"
	"github.com/foodwaste/predictor/internal/domain"
	"github.com/foodwaste/predictor/internal/encoding"
	"github.com/foodwaste/predictor/internal/features"
)

// PredictionService runs the whole pipeline for one request: artifacts,
// feature assembly, encoding and model selection.
type PredictionService struct {
	source    artifact.Source
	assembler *features.Assembler
	envelope  Envelope
}

// NewPredictionService creates a new prediction service
func NewPredictionService(source artifact.Source, assembler *features.Assembler, envelope Envelope) *PredictionService {
	return &PredictionService{
		source:    source,
		assembler: assembler,
		envelope:  envelope,
	}
}

// Predict returns the expected food waste for event. The pipeline holds no
// state between calls; every input comes from the artifact source and event.
func (s *PredictionService) Predict(ctx context.Context, event domain.RequestEvent) (domain.PredictionResult, error) {
	log.Debug().Interface("event", event).Msg("Received event data")

	bundle, err := s.source.Artifacts(ctx)
	if err != nil {
		return domain.PredictionResult{}, err
	}
	log.Debug().Strs("columns", bundle.TrainingColumns).Msg("Model input columns")

	record, err := s.assembler.Assemble(ctx, event, bundle.Schema)
	if err != nil {
		return domain.PredictionResult{}, err
	}

	vec, err := encoding.New(bundle.TrainingColumns).Encode(record)
	if err != nil {
		return domain.PredictionResult{}, err
	}

	var guests, quantity float64
	if bundle.HasSecondary() {
		if guests, err = envelopeOperand(record, domain.GuestsColumn); err != nil {
			return domain.PredictionResult{}, err
		}
		if quantity, err = envelopeOperand(record, domain.QuantityColumn); err != nil {
			return domain.PredictionResult{}, err
		}
	}

	return NewPredictor(bundle.Primary, bundle.Secondary, s.envelope).Predict(vec, guests, quantity)
}

func envelopeOperand(record domain.FeatureRecord, col string) (float64, error) {
	if _, ok := record[col]; !ok {
		return 0, fmt.Errorf("%w: service: %s is unresolved, cannot choose a model", domain.ErrAssembly, col)
	}
	v, ok := record.Float(col)
	if !ok {
		return 0, fmt.Errorf("%w: service: %s must be a number, got %T", domain.ErrAssembly, col, record[col])
	}
	return v, nil
}
