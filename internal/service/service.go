package service

import (
	"github.com/foodwaste/predictor/internal/domain"
)

// PredictionLogRepository is re-exported from domain for convenience
type PredictionLogRepository = domain.PredictionLogRepository
