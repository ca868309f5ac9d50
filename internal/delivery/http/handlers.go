package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/foodwaste/predictor/internal/artifact"
	"github.com/foodwaste/predictor/internal/domain"
	"github.com/foodwaste/predictor/internal/service"
	"github.com/foodwaste/predictor/pkg/utils"
)

// Handler contains all HTTP handlers
type Handler struct {
	predictionSvc *service.PredictionService
	source        artifact.Source
	repo          service.PredictionLogRepository
	metrics       *Metrics
}

// NewHandler creates a new handler
func NewHandler(predictionSvc *service.PredictionService, source artifact.Source, repo service.PredictionLogRepository, metrics *Metrics) *Handler {
	return &Handler{
		predictionSvc: predictionSvc,
		source:        source,
		repo:          repo,
		metrics:       metrics,
	}
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	ctx := c.Context()

	bundle, err := h.source.Artifacts(ctx)
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unavailable",
			"error":  err.Error(),
		})
	}

	database := "ok"
	if err := h.repo.Health(ctx); err != nil {
		log.Warn().Err(err).Msg("Audit log database unhealthy")
		database = "unavailable"
	}

	return c.JSON(fiber.Map{
		"status":           "ok",
		"service":          "food-waste-predictor",
		"training_columns": len(bundle.TrainingColumns),
		"secondary_model":  bundle.HasSecondary(),
		"database":         database,
	})
}

// Predict runs the prediction pipeline for the event in the request body
func (h *Handler) Predict(c *fiber.Ctx) error {
	ctx := c.Context()
	started := time.Now()

	body := c.Body()
	if len(body) == 0 {
		h.metrics.observeFailure(domain.ErrMalformedInput, time.Since(started).Seconds())
		return c.Status(fiber.StatusBadRequest).JSON(failure(domain.MsgMissingJSON))
	}

	event, err := domain.ParseRequestEvent(body)
	if err != nil {
		h.metrics.observeFailure(err, time.Since(started).Seconds())
		return c.Status(fiber.StatusBadRequest).JSON(failure(domain.MsgInvalidJSON))
	}

	result, err := h.predictionSvc.Predict(ctx, event)
	if err != nil {
		h.metrics.observeFailure(err, time.Since(started).Seconds())
		log.Error().Err(err).Msg("Prediction failed")
		return c.Status(statusFor(err)).JSON(failure(domain.MsgPredictionFailed))
	}
	h.metrics.observeSuccess(result.ModelUsed, time.Since(started).Seconds())

	entry := domain.PredictionLog{
		ID:        uuid.New().String(),
		Event:     event,
		Value:     result.Value,
		ModelUsed: result.ModelUsed,
		CreatedAt: time.Now().UTC(),
	}

	// Log prediction to database asynchronously
	go func() {
		bgCtx := context.Background()
		if saveErr := h.repo.SavePredictionLog(bgCtx, entry); saveErr != nil {
			log.Error().Err(saveErr).Str("id", entry.ID).Msg("Failed to save prediction log")
		}
	}()

	return c.JSON(fiber.Map{
		"predicted_waste_kg": utils.RoundTo(result.Value, 2),
		"model_used":         result.ModelUsed,
	})
}

// GetRecentPredictions returns the newest audit log entries
func (h *Handler) GetRecentPredictions(c *fiber.Ctx) error {
	ctx := c.Context()

	limit := c.QueryInt("limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}

	data, err := h.repo.RecentPredictions(ctx, limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read prediction logs")
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch prediction history")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
		"count":   len(data),
	})
}

func failure(message string) fiber.Map {
	return fiber.Map{
		"error":              message,
		"predicted_waste_kg": 0,
	}
}

// ErrorHandler renders errors that escape the handlers
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
