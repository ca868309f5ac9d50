package domain

import "context"

// Classifier maps free text describing a dish onto the food category
// vocabulary the model was trained with.
type Classifier interface {
	// Classify returns the category for a coarse food-type hint.
	Classify(ctx context.Context, text string) (string, error)

	// MatchBestCategory returns the best category for a dish name and its match score.
	MatchBestCategory(ctx context.Context, text string) (string, float64, error)
}
