package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/foodwaste/predictor/internal/domain"
)

// PostgresRepository implements domain.PredictionLogRepository
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// SavePredictionLog persists a served prediction to PostgreSQL
func (r *PostgresRepository) SavePredictionLog(ctx context.Context, entry domain.PredictionLog) error {
	query := `
		INSERT INTO prediction_logs (
			id, event, predicted_waste_kg, model_used, created_at
		) VALUES ($1, $2, $3, $4, $5)
	`

	event, err := json.Marshal(entry.Event)
	if err != nil {
		return fmt.Errorf("postgres: failed to encode event: %w", err)
	}

	_, err = r.pool.Exec(ctx, query,
		entry.ID, event, entry.Value, string(entry.ModelUsed), entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to save prediction log: %w", err)
	}

	return nil
}

// RecentPredictions retrieves the newest prediction logs from PostgreSQL
func (r *PostgresRepository) RecentPredictions(ctx context.Context, limit int) ([]domain.PredictionLog, error) {
	query := `
		SELECT id, event, predicted_waste_kg, model_used, created_at
		FROM prediction_logs
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query prediction logs: %w", err)
	}
	defer rows.Close()

	var results []domain.PredictionLog
	for rows.Next() {
		var (
			entry     domain.PredictionLog
			event     []byte
			modelUsed string
		)
		err := rows.Scan(&entry.ID, &event, &entry.Value, &modelUsed, &entry.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan prediction log row: %w", err)
		}
		if err := json.Unmarshal(event, &entry.Event); err != nil {
			return nil, fmt.Errorf("postgres: failed to decode event of %s: %w", entry.ID, err)
		}
		entry.ModelUsed = domain.ModelKind(modelUsed)
		results = append(results, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: failed to read prediction logs: %w", err)
	}

	return results, nil
}

// Health checks database connectivity
func (r *PostgresRepository) Health(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: health check failed: %w", err)
	}
	return nil
}
