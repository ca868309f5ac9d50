package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/foodwaste/predictor/internal/config"
	"github.com/foodwaste/predictor/internal/domain"
)

// configFileEnv points at an explicit config file; the predict path takes no flags.
const configFileEnv = "FWP_CONFIG"

// rootCmd predicts food waste for the event passed as its first argument
var rootCmd = &cobra.Command{
	Use:   "fwp '<event-json>'",
	Short: "Predict food waste for a catering event",
	Long: `fwp predicts the food waste in kilograms of a catering event described by a JSON object.

The result is always a single JSON object on standard output:
  {"predicted_waste_kg": 12.5}
  {"error": "Invalid JSON input", "predicted_waste_kg": 0}

Diagnostics go to standard error. Settings come from FWP_* environment variables,
a .env file or fwp.yaml.

Examples:
  fwp '{"number_of_guests": 300, "quantity_of_food": 400, "event_type": "Wedding"}'
  fwp serve --port 8080`,
	Version:       getVersion(),
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runPredict,
}

func init() {
	// Anything that is not an event must still answer with the failure JSON,
	// so the root command has no help or completion subcommands.
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetHelpCommand(&cobra.Command{
		Use:    "__help",
		Hidden: true,
		Run: func(cmd *cobra.Command, args []string) {
			_ = reportFailure(cmd.OutOrStdout(), domain.MsgInvalidJSON, domain.ErrMalformedInput)
		},
	})

	defaultHelp := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd != rootCmd {
			defaultHelp(cmd, args)
			return
		}
		_ = reportFailure(cmd.OutOrStdout(), domain.MsgInvalidJSON, domain.ErrMalformedInput)
	})

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		if cmd != rootCmd {
			log.Error().Err(err).Str("command", cmd.Name()).Msg("Invalid flags")
			return err
		}
		return reportFailure(cmd.OutOrStdout(), domain.MsgInvalidJSON, fmt.Errorf("%w: %w", domain.ErrMalformedInput, err))
	})
}

// Execute runs the root command. This is called by main.main().
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

// loadConfig reads settings and configures logging for the invocation. When
// the settings are unusable logging still goes to w at info level.
func loadConfig(w io.Writer) (*config.Config, error) {
	v, err := config.NewViper(os.Getenv(configFileEnv))
	if err != nil {
		initLogging(w, "info")
		return nil, err
	}

	cfg, err := config.Load(v)
	if err != nil {
		initLogging(w, "info")
		return nil, err
	}

	initLogging(w, cfg.LogLevel)
	return cfg, nil
}

// initLogging configures the global logger
func initLogging(w io.Writer, level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "disabled":
		zerolog.SetGlobalLevel(zerolog.Disabled)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: w, NoColor: true})
}

// getVersion returns the version information
func getVersion() string {
	return fmt.Sprintf("%s (commit: %s, built: %s, go: %s)", Version, Commit, Date, GoVersion)
}
