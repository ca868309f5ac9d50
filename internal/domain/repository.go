package domain

import (
	"context"
	"time"
)

// PredictionLog is one audited prediction served over HTTP
type PredictionLog struct {
	ID        string       `json:"id"`
	Event     RequestEvent `json:"event"`
	Value     float64      `json:"predicted_waste_kg"`
	ModelUsed ModelKind    `json:"model_used"`
	CreatedAt time.Time    `json:"created_at"`
}

// PredictionLogRepository defines the interface for prediction audit persistence
// The domain defines the interface, storage adapters implement it
type PredictionLogRepository interface {
	// SavePredictionLog persists a served prediction
	SavePredictionLog(ctx context.Context, entry PredictionLog) error

	// RecentPredictions returns the newest entries, newest first
	RecentPredictions(ctx context.Context, limit int) ([]PredictionLog, error)

	// Health checks storage connectivity
	Health(ctx context.Context) error
}
