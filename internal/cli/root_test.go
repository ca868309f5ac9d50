package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodwaste/predictor/internal/testutil"
)

const weddingEvent = `{"number_of_guests": 300, "quantity_of_food": 400, "event_type": "Wedding", "name_of_food": "paneer tikka"}`

// setupEnv points the CLI at a fixture artifact directory and isolates it
// from any .env or fwp.yaml in the working directory.
func setupEnv(t *testing.T, artifactDir string) {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv("FWP_ARTIFACT_DIR", artifactDir)
	t.Setenv("FWP_LOG_LEVEL", "disabled")
	t.Setenv(configFileEnv, "")
}

func executeCommand(args ...string) (stdout, stderr string, err error) {
	if args == nil {
		// cobra falls back to os.Args on nil
		args = []string{}
	}

	outBuf, errBuf := new(bytes.Buffer), new(bytes.Buffer)
	rootCmd.SetOut(outBuf)
	rootCmd.SetErr(errBuf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	}()

	err = Execute()
	return outBuf.String(), errBuf.String(), err
}

func TestPredictCommand(t *testing.T) {
	setupEnv(t, testutil.ArtifactDir(t))

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "primary model",
			args: []string{weddingEvent},
			want: `{"predicted_waste_kg": 22.0}`,
		},
		{
			name: "secondary model outside the envelope",
			args: []string{`{"number_of_guests": 100, "quantity_of_food": 400}`},
			want: `{"predicted_waste_kg": 10.0}`,
		},
		{
			name: "rounded to two decimals",
			args: []string{`{"number_of_guests": 301, "quantity_of_food": 401}`},
			want: `{"predicted_waste_kg": 20.06}`,
		},
		{
			name: "extra arguments are ignored",
			args: []string{weddingEvent, "ignored"},
			want: `{"predicted_waste_kg": 22.0}`,
		},
		{
			name: "missing argument",
			args: nil,
			want: `{"error": "No input JSON provided", "predicted_waste_kg": 0}`,
		},
		{
			name: "malformed json",
			args: []string{`{"number_of_guests": 300`},
			want: `{"error": "Invalid JSON input", "predicted_waste_kg": 0}`,
		},
		{
			name: "json array",
			args: []string{`[300, 400]`},
			want: `{"error": "Invalid JSON input", "predicted_waste_kg": 0}`,
		},
		{
			name: "negative number looks like a flag",
			args: []string{"-5"},
			want: `{"error": "Invalid JSON input", "predicted_waste_kg": 0}`,
		},
		{
			name: "unknown flag",
			args: []string{"--bogus"},
			want: `{"error": "Invalid JSON input", "predicted_waste_kg": 0}`,
		},
		{
			name: "help word is not a command",
			args: []string{"help"},
			want: `{"error": "Invalid JSON input", "predicted_waste_kg": 0}`,
		},
		{
			name: "completion word is not a command",
			args: []string{"completion", "bash"},
			want: `{"error": "Invalid JSON input", "predicted_waste_kg": 0}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := executeCommand(tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want+"\n", stdout)
		})
	}
}

func TestPredictCommandArtifactFailure(t *testing.T) {
	setupEnv(t, t.TempDir())
	t.Setenv("FWP_LOG_LEVEL", "error")

	stdout, stderr, err := executeCommand(weddingEvent)
	require.NoError(t, err)

	assert.Equal(t, `{"error": "Prediction failed", "predicted_waste_kg": 0}`+"\n", stdout)
	assert.Contains(t, stderr, "artifact load error")
}

func TestPredictCommandDiagnosticsStayOnStderr(t *testing.T) {
	setupEnv(t, testutil.ArtifactDir(t))
	t.Setenv("FWP_LOG_LEVEL", "debug")

	stdout, stderr, err := executeCommand(weddingEvent)
	require.NoError(t, err)

	assert.Equal(t, `{"predicted_waste_kg": 22.0}`+"\n", stdout)
	assert.Contains(t, stderr, "Received event data")
	assert.Contains(t, stderr, "Prediction complete")
}

func TestPredictCommandWithoutSecondaryModel(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteArtifacts(t, dir, false)
	setupEnv(t, dir)

	stdout, _, err := executeCommand(`{"number_of_guests": 100, "quantity_of_food": 400}`)
	require.NoError(t, err)
	assert.Equal(t, `{"predicted_waste_kg": 10.0}`+"\n", stdout)
}

func TestPredictCommandUsesRemoteClassifier(t *testing.T) {
	var paths []string
	classifier := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"category": "dairy products", "score": 0.9}`))
	}))
	defer classifier.Close()

	setupEnv(t, testutil.ArtifactDir(t))
	t.Setenv("FWP_CLASSIFIER_URL", classifier.URL)

	stdout, _, err := executeCommand(`{"number_of_guests": 300, "quantity_of_food": 400, "event_type": "wedding", "name_of_food": "mystery dish"}`)
	require.NoError(t, err)
	assert.Equal(t, `{"predicted_waste_kg": 22.0}`+"\n", stdout)
	assert.Equal(t, []string{"/match"}, paths)
}

func TestPredictCommandLexiconFile(t *testing.T) {
	dir := testutil.ArtifactDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "food_lexicon.yaml"), []byte(`
categories:
  - name: dairy products
    keywords: [mystery]
`), 0o644))
	setupEnv(t, dir)

	stdout, _, err := executeCommand(`{"number_of_guests": 300, "quantity_of_food": 400, "event_type": "wedding", "name_of_food": "mystery dish"}`)
	require.NoError(t, err)
	assert.Equal(t, `{"predicted_waste_kg": 22.0}`+"\n", stdout)
}

func TestPredictCommandInvalidConfig(t *testing.T) {
	setupEnv(t, testutil.ArtifactDir(t))
	t.Setenv("FWP_ENVELOPE_MIN_GUESTS", "900")

	stdout, stderr, err := executeCommand(weddingEvent)
	require.NoError(t, err)

	assert.Equal(t, `{"error": "Prediction failed", "predicted_waste_kg": 0}`+"\n", stdout)
	assert.NotContains(t, stdout, "envelope")
	assert.Contains(t, stderr, "envelope guests range")
}

func TestHelpFlagAnswersWithFailureJSON(t *testing.T) {
	setupEnv(t, testutil.ArtifactDir(t))
	t.Cleanup(func() { _ = rootCmd.Flags().Set("help", "false") })

	stdout, _, err := executeCommand("-h")
	require.NoError(t, err)
	assert.Equal(t, `{"error": "Invalid JSON input", "predicted_waste_kg": 0}`+"\n", stdout)
}

func TestServeHelpStillPrintsUsage(t *testing.T) {
	setupEnv(t, testutil.ArtifactDir(t))
	t.Cleanup(func() { _ = serveCmd.Flags().Set("help", "false") })

	stdout, _, err := executeCommand("serve", "--help")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Load the artifacts once")
}

func TestVersionFlag(t *testing.T) {
	setupEnv(t, testutil.ArtifactDir(t))
	t.Cleanup(func() { _ = rootCmd.Flags().Set("version", "false") })

	stdout, _, err := executeCommand("--version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "dev")
	assert.Contains(t, stdout, "commit: unknown")
}

func TestServeRejectsArguments(t *testing.T) {
	setupEnv(t, testutil.ArtifactDir(t))

	_, _, err := executeCommand("serve", "extra")
	assert.Error(t, err)
}
