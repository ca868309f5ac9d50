// Package config resolves runtime settings from the environment, an optional
// .env file and an optional fwp.yaml file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/foodwaste/predictor/internal/artifact"
	"github.com/foodwaste/predictor/internal/domain"
)

// EnvPrefix is prepended to every environment variable, e.g. FWP_ARTIFACT_DIR.
const EnvPrefix = "FWP"

// Config holds every setting of the predictor.
type Config struct {
	ArtifactDir      string
	PrimaryModel     string
	SecondaryModel   string
	TrainingColumns  string
	ReferenceDataset string
	TargetColumn     string

	Envelope   EnvelopeConfig
	Classifier ClassifierConfig

	DatabaseURL string
	Port        string
	LogLevel    string
}

// EnvelopeConfig bounds the region where the primary model is trusted.
type EnvelopeConfig struct {
	MinGuests   float64
	MaxGuests   float64
	MinQuantity float64
	MaxQuantity float64
}

// ClassifierConfig selects and tunes the food-category classifier.
type ClassifierConfig struct {
	URL        string // empty selects the local keyword classifier
	Timeout    time.Duration
	Fallback   bool
	Lexicon    string
	CacheBytes int
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("artifact_dir", executableDir())
	v.SetDefault("primary_model", artifact.DefaultFiles.PrimaryModel)
	v.SetDefault("secondary_model", artifact.DefaultFiles.SecondaryModel)
	v.SetDefault("training_columns", artifact.DefaultFiles.TrainingColumns)
	v.SetDefault("reference_dataset", artifact.DefaultFiles.ReferenceDataset)
	v.SetDefault("target_column", domain.TargetColumn)

	v.SetDefault("envelope.min_guests", 200)
	v.SetDefault("envelope.max_guests", 500)
	v.SetDefault("envelope.min_quantity", 250)
	v.SetDefault("envelope.max_quantity", 550)

	v.SetDefault("classifier.url", "")
	v.SetDefault("classifier.timeout", 10*time.Second)
	v.SetDefault("classifier.fallback", false)
	v.SetDefault("classifier.lexicon", "food_lexicon.yaml")
	v.SetDefault("classifier.cache_bytes", 1024*1024)

	v.SetDefault("database_url", "")
	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")
}

// NewViper returns a viper instance wired to the FWP_ environment and, when
// found, the config file. cfgFile overrides the search path.
func NewViper(cfgFile string) (*viper.Viper, error) {
	_ = godotenv.Load()

	v := viper.New()
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("fwp")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".fwp"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AllowEmptyEnv(true) // FWP_SECONDARY_MODEL= disables the fallback model
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: failed to read config file: %w", err)
		}
	}

	return v, nil
}

// Load builds a Config from v and validates it.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		ArtifactDir:      v.GetString("artifact_dir"),
		PrimaryModel:     v.GetString("primary_model"),
		SecondaryModel:   v.GetString("secondary_model"),
		TrainingColumns:  v.GetString("training_columns"),
		ReferenceDataset: v.GetString("reference_dataset"),
		TargetColumn:     v.GetString("target_column"),
		Envelope: EnvelopeConfig{
			MinGuests:   v.GetFloat64("envelope.min_guests"),
			MaxGuests:   v.GetFloat64("envelope.max_guests"),
			MinQuantity: v.GetFloat64("envelope.min_quantity"),
			MaxQuantity: v.GetFloat64("envelope.max_quantity"),
		},
		Classifier: ClassifierConfig{
			URL:        v.GetString("classifier.url"),
			Timeout:    v.GetDuration("classifier.timeout"),
			Fallback:   v.GetBool("classifier.fallback"),
			Lexicon:    v.GetString("classifier.lexicon"),
			CacheBytes: v.GetInt("classifier.cache_bytes"),
		},
		DatabaseURL: v.GetString("database_url"),
		Port:        v.GetString("port"),
		LogLevel:    strings.ToLower(v.GetString("log_level")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.ArtifactDir == "":
		return errors.New("config: artifact_dir is required")
	case c.PrimaryModel == "" || c.TrainingColumns == "" || c.ReferenceDataset == "":
		return errors.New("config: primary_model, training_columns and reference_dataset are required")
	case c.TargetColumn == "":
		return errors.New("config: target_column is required")
	case c.Envelope.MinGuests > c.Envelope.MaxGuests:
		return fmt.Errorf("config: envelope guests range [%g, %g] is empty", c.Envelope.MinGuests, c.Envelope.MaxGuests)
	case c.Envelope.MinQuantity > c.Envelope.MaxQuantity:
		return fmt.Errorf("config: envelope quantity range [%g, %g] is empty", c.Envelope.MinQuantity, c.Envelope.MaxQuantity)
	case c.Classifier.URL != "" && c.Classifier.Timeout <= 0:
		return fmt.Errorf("config: classifier.timeout must be positive, got %s", c.Classifier.Timeout)
	}
	return nil
}

// Files names the artifacts inside ArtifactDir.
func (c *Config) Files() artifact.Files {
	return artifact.Files{
		PrimaryModel:     c.PrimaryModel,
		SecondaryModel:   c.SecondaryModel,
		TrainingColumns:  c.TrainingColumns,
		ReferenceDataset: c.ReferenceDataset,
	}
}

// LexiconPath resolves the lexicon file against ArtifactDir. It returns ""
// when no lexicon is configured.
func (c *Config) LexiconPath() string {
	if c.Classifier.Lexicon == "" || filepath.IsAbs(c.Classifier.Lexicon) {
		return c.Classifier.Lexicon
	}
	return filepath.Join(c.ArtifactDir, c.Classifier.Lexicon)
}

func executableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}
