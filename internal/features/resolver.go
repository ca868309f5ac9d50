package features

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/foodwaste/predictor/internal/domain"
)

// CategoryResolver resolves the food category of a request.
type CategoryResolver interface {
	// ResolveFoodCategory returns ok=false when the request carries no food hint.
	ResolveFoodCategory(ctx context.Context, event domain.RequestEvent) (category string, ok bool, err error)
}

// ClassifierResolver routes the first food hint present in a request to a
// classifier. The match score is logged and otherwise ignored.
type ClassifierResolver struct {
	classifier domain.Classifier
	hints      []CategoryHint
}

// NewClassifierResolver creates a resolver over hints, tried in order.
func NewClassifierResolver(classifier domain.Classifier, hints []CategoryHint) *ClassifierResolver {
	return &ClassifierResolver{classifier: classifier, hints: hints}
}

// ResolveFoodCategory implements CategoryResolver.
func (r *ClassifierResolver) ResolveFoodCategory(ctx context.Context, event domain.RequestEvent) (string, bool, error) {
	for _, hint := range r.hints {
		v, present := event.Lookup(hint.Source)
		if !present {
			continue
		}

		text, isText := v.(string)
		if !isText {
			return "", false, fmt.Errorf("%w: features: %s must be a string, got %T", domain.ErrAssembly, hint.Source, v)
		}
		if r.classifier == nil {
			return "", false, fmt.Errorf("%w: features: no food classifier configured for %s", domain.ErrAssembly, hint.Source)
		}

		if hint.Scored {
			category, score, err := r.classifier.MatchBestCategory(ctx, text)
			if err != nil {
				return "", false, fmt.Errorf("%w: features: failed to match %q: %w", domain.ErrAssembly, text, err)
			}
			log.Info().Str("food", text).Str("category", category).Float64("score", score).Msg("Best matched category")
			return category, true, nil
		}

		category, err := r.classifier.Classify(ctx, text)
		if err != nil {
			return "", false, fmt.Errorf("%w: features: failed to classify %q: %w", domain.ErrAssembly, text, err)
		}
		log.Debug().Str("food_type", text).Str("category", category).Msg("Classified food type")
		return category, true, nil
	}
	return "", false, nil
}
