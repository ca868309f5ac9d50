package cli

import (
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/foodwaste/predictor/internal/domain"
)

// runPredict never fails the process for a prediction problem: every failure
// becomes the error JSON on standard output. Only a failed write is returned.
func runPredict(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := loadConfig(cmd.ErrOrStderr())
	if err != nil {
		return reportFailure(out, domain.MsgPredictionFailed, err)
	}

	if len(args) == 0 {
		return reportFailure(out, domain.MsgMissingJSON, domain.ErrMalformedInput)
	}

	event, err := domain.ParseRequestEvent([]byte(args[0]))
	if err != nil {
		return reportFailure(out, domain.MsgInvalidJSON, err)
	}

	classifier, err := newClassifier(cfg)
	if err != nil {
		return reportFailure(out, domain.MsgPredictionFailed, err)
	}

	svc := newPredictionService(cfg, newLoader(cfg), classifier)
	result, err := svc.Predict(cmd.Context(), event)
	if err != nil {
		return reportFailure(out, domain.MsgPredictionFailed, err)
	}

	log.Debug().
		Float64("predicted_waste_kg", result.Value).
		Str("model_used", string(result.ModelUsed)).
		Msg("Prediction complete")
	return writeSuccess(out, result.Value)
}

func reportFailure(w io.Writer, message string, err error) error {
	log.Error().Err(err).Msg("Prediction failed")
	return writeFailure(w, message)
}
