package cli

import (
	"errors"
	"io/fs"

	"github.com/rs/zerolog/log"

	"github.com/foodwaste/predictor/internal/artifact"
	"github.com/foodwaste/predictor/internal/config"
	"github.com/foodwaste/predictor/internal/domain"
	"github.com/foodwaste/predictor/internal/features"
	"github.com/foodwaste/predictor/internal/service"
)

// newClassifier picks the food classifier: the remote bridge when a URL is
// configured, the local keyword classifier otherwise.
func newClassifier(cfg *config.Config) (domain.Classifier, error) {
	if cfg.Classifier.URL == "" {
		keyword, err := newKeywordClassifier(cfg)
		if err != nil {
			return nil, err
		}
		return keyword, nil
	}

	var fallback domain.Classifier
	if cfg.Classifier.Fallback {
		keyword, err := newKeywordClassifier(cfg)
		if err != nil {
			return nil, err
		}
		fallback = keyword
	}
	return service.NewClassifierBridge(cfg.Classifier.URL, cfg.Classifier.Timeout, fallback), nil
}

func newKeywordClassifier(cfg *config.Config) (*service.KeywordClassifier, error) {
	lex := service.DefaultLexicon()
	if path := cfg.LexiconPath(); path != "" {
		loaded, err := service.LoadLexicon(path)
		switch {
		case err == nil:
			lex = loaded
		case errors.Is(err, fs.ErrNotExist):
			log.Debug().Str("path", path).Msg("No lexicon file, using built-in categories")
		default:
			return nil, err
		}
	}
	return service.NewKeywordClassifier(lex)
}

func newPredictionService(cfg *config.Config, source artifact.Source, classifier domain.Classifier) *service.PredictionService {
	featureCfg := features.DefaultConfig()
	assembler := features.NewAssembler(featureCfg, features.NewClassifierResolver(classifier, featureCfg.CategoryHints))

	envelope := service.Envelope{
		MinGuests:   cfg.Envelope.MinGuests,
		MaxGuests:   cfg.Envelope.MaxGuests,
		MinQuantity: cfg.Envelope.MinQuantity,
		MaxQuantity: cfg.Envelope.MaxQuantity,
	}
	return service.NewPredictionService(source, assembler, envelope)
}

func newLoader(cfg *config.Config) *artifact.Loader {
	return artifact.NewLoader(cfg.ArtifactDir, cfg.Files(), cfg.TargetColumn)
}
