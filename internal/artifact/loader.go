// Package artifact loads the frozen outputs of a training run: the fitted
// models, the encoded input column list and the reference dataset.
package artifact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/foodwaste/predictor/internal/dataset"
	"github.com/foodwaste/predictor/internal/domain"
	"github.com/foodwaste/predictor/internal/model"
	"github.com/foodwaste/predictor/internal/schema"
)

// SecondaryWidth is the input width of the fallback model: guests and quantity.
const SecondaryWidth = 2

// Files names each artifact relative to the artifact directory.
type Files struct {
	PrimaryModel     string
	SecondaryModel   string // empty disables the fallback model
	TrainingColumns  string
	ReferenceDataset string
}

// DefaultFiles are the names written by the training export.
var DefaultFiles = Files{
	PrimaryModel:     "rf.json",
	SecondaryModel:   "pol.json",
	TrainingColumns:  "input_columns.json",
	ReferenceDataset: "df_preprocessed.csv",
}

// Bundle holds everything loaded from one training run. It is read-only once
// returned and safe to share between requests.
type Bundle struct {
	Primary         model.Regressor
	Secondary       model.Regressor // nil when no fallback model is configured
	TrainingColumns []string
	Reference       *dataset.Dataset
	Schema          *schema.Schema
}

// HasSecondary reports whether a fallback model was loaded.
func (b *Bundle) HasSecondary() bool {
	return b.Secondary != nil
}

// Source hands out artifact bundles to the prediction pipeline.
type Source interface {
	Artifacts(ctx context.Context) (*Bundle, error)
}

// Loader reads artifacts from disk on every call.
type Loader struct {
	dir    string
	files  Files
	target string
}

// NewLoader creates a loader rooted at dir
func NewLoader(dir string, files Files, target string) *Loader {
	return &Loader{dir: dir, files: files, target: target}
}

// Artifacts loads a fresh bundle; nothing is cached between calls.
func (l *Loader) Artifacts(ctx context.Context) (*Bundle, error) {
	return l.Load(ctx)
}

// Load reads and validates every artifact, failing on the first one that is
// missing or unreadable. Only the secondary model may be absent.
func (l *Loader) Load(ctx context.Context) (*Bundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	primary, err := model.LoadFile(l.path(l.files.PrimaryModel))
	if err != nil {
		return nil, loadError("primary model", err)
	}

	secondary, err := l.loadSecondary()
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	columns, err := readColumns(l.path(l.files.TrainingColumns))
	if err != nil {
		return nil, loadError("training columns", err)
	}
	if primary.NumFeatures() != len(columns) {
		return nil, loadError("primary model", fmt.Errorf("model expects %d features, training columns list %d", primary.NumFeatures(), len(columns)))
	}

	reference, err := dataset.ReadFile(l.path(l.files.ReferenceDataset))
	if err != nil {
		return nil, loadError("reference dataset", err)
	}

	s, err := schema.Inspect(reference, l.target)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("dir", l.dir).
		Str("primary", string(primary.Kind())).
		Bool("secondary", secondary != nil).
		Int("training_columns", len(columns)).
		Int("reference_rows", reference.Len()).
		Strs("numeric", s.Numeric).
		Strs("categorical", s.Categorical).
		Msg("Artifacts loaded")

	return &Bundle{
		Primary:         primary,
		Secondary:       secondary,
		TrainingColumns: columns,
		Reference:       reference,
		Schema:          s,
	}, nil
}

func (l *Loader) loadSecondary() (model.Regressor, error) {
	if l.files.SecondaryModel == "" {
		return nil, nil
	}

	m, err := model.LoadFile(l.path(l.files.SecondaryModel))
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug().Str("file", l.files.SecondaryModel).Msg("No secondary model, primary model serves every request")
		return nil, nil
	}
	if err != nil {
		return nil, loadError("secondary model", err)
	}
	if m.NumFeatures() != SecondaryWidth {
		return nil, loadError("secondary model", fmt.Errorf("model expects %d features, want %d", m.NumFeatures(), SecondaryWidth))
	}
	return m, nil
}

func (l *Loader) path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(l.dir, name)
}

func readColumns(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var columns []string
	if err := json.Unmarshal(data, &columns); err != nil {
		return nil, fmt.Errorf("%s: expected a JSON array of column names: %w", path, err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("%s: column list is empty", path)
	}

	seen := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		if _, dup := seen[c]; dup {
			return nil, fmt.Errorf("%s: duplicate column %q", path, c)
		}
		seen[c] = struct{}{}
	}
	return columns, nil
}

func loadError(what string, err error) error {
	return fmt.Errorf("%w: artifact: failed to load %s: %w", domain.ErrArtifactLoad, what, err)
}

// Cached serves one bundle loaded up front. The bundle is never mutated, so
// concurrent readers need no locking.
type Cached struct {
	bundle *Bundle
}

// NewCached loads the artifacts once through loader.
func NewCached(ctx context.Context, loader *Loader) (*Cached, error) {
	b, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &Cached{bundle: b}, nil
}

// Artifacts returns the shared bundle.
func (c *Cached) Artifacts(ctx context.Context) (*Bundle, error) {
	return c.bundle, nil
}
