package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/foodwaste/predictor/internal/domain"
)

// Metrics counts served predictions.
type Metrics struct {
	predictions *prometheus.CounterVec
	failures    *prometheus.CounterVec
	duration    prometheus.Histogram
}

// NewMetrics creates the prediction metrics and registers them with registerer
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fwp_predictions_total",
			Help: "Successful predictions by model used",
		}, []string{"model"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fwp_prediction_failures_total",
			Help: "Failed predictions by error kind",
		}, []string{"kind"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fwp_prediction_duration_seconds",
			Help:    "Prediction pipeline latency in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}

	if registerer != nil {
		registerer.MustRegister(m.predictions)
		registerer.MustRegister(m.failures)
		registerer.MustRegister(m.duration)
	}

	return m
}

func (m *Metrics) observeSuccess(model domain.ModelKind, seconds float64) {
	m.predictions.WithLabelValues(string(model)).Inc()
	m.duration.Observe(seconds)
}

func (m *Metrics) observeFailure(err error, seconds float64) {
	m.failures.WithLabelValues(errorKind(err)).Inc()
	m.duration.Observe(seconds)
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrMalformedInput):
		return "malformed_input"
	case errors.Is(err, domain.ErrArtifactLoad):
		return "artifact_load"
	case errors.Is(err, domain.ErrSchema):
		return "schema"
	case errors.Is(err, domain.ErrAssembly):
		return "assembly"
	case errors.Is(err, domain.ErrEncoding):
		return "encoding"
	default:
		return "internal"
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrMalformedInput):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrSchema), errors.Is(err, domain.ErrAssembly), errors.Is(err, domain.ErrEncoding):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}
