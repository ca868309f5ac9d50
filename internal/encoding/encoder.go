// Package encoding turns an assembled feature record into the one-hot row
// a frozen model expects.
package encoding

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/foodwaste/predictor/internal/domain"
)

// Encoder reconciles one-hot expansions against a training column list.
type Encoder struct {
	columns []string
}

// New creates an encoder for the given training columns. The slice is not copied
// and must not be modified afterwards.
func New(trainingColumns []string) *Encoder {
	return &Encoder{columns: trainingColumns}
}

// NormalizeName lower-cases a column name and replaces spaces with underscores.
func NormalizeName(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", "_"))
}

// Expand one-hot encodes a record. Numbers and booleans keep their column;
// each string value becomes a <column>_<value> indicator; nulls produce no
// column. Every resulting name is normalized.
func Expand(record domain.FeatureRecord) (map[string]float64, error) {
	keys := make([]string, 0, len(record))
	for k := range record {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]float64, len(record))
	origin := make(map[string]string, len(record))

	for _, key := range keys {
		name, value, ok, err := expandValue(key, record[key])
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		name = NormalizeName(name)
		if prev, dup := origin[name]; dup {
			return nil, fmt.Errorf("%w: encoding: %q and %q both encode to column %q", domain.ErrEncoding, prev, key, name)
		}
		origin[name] = key
		out[name] = value
	}
	return out, nil
}

func expandValue(key string, v any) (string, float64, bool, error) {
	switch val := v.(type) {
	case nil:
		return "", 0, false, nil
	case float64:
		return key, val, true, nil
	case float32:
		return key, float64(val), true, nil
	case int:
		return key, float64(val), true, nil
	case int64:
		return key, float64(val), true, nil
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return "", 0, false, fmt.Errorf("%w: encoding: column %q: %w", domain.ErrEncoding, key, err)
		}
		return key, f, true, nil
	case bool:
		if val {
			return key, 1, true, nil
		}
		return key, 0, true, nil
	case string:
		return key + "_" + val, 1, true, nil
	default:
		return "", 0, false, fmt.Errorf("%w: encoding: column %q has unsupported value of type %T", domain.ErrEncoding, key, v)
	}
}

// Encode expands record and selects exactly the training columns in order,
// zero-filling indicators the record did not produce and discarding the
// ones the model was never trained on.
func (e *Encoder) Encode(record domain.FeatureRecord) (domain.EncodedVector, error) {
	expanded, err := Expand(record)
	if err != nil {
		return domain.EncodedVector{}, err
	}

	values := make([]float64, len(e.columns))
	var missing []string
	used := 0
	for i, col := range e.columns {
		v, ok := expanded[col]
		if !ok {
			missing = append(missing, col)
			continue
		}
		values[i] = v
		used++
	}

	if used != len(expanded) {
		log.Debug().Strs("dropped", dropped(expanded, e.columns)).Msg("Discarded columns unknown to the model")
	}
	if len(missing) > 0 {
		log.Debug().Strs("columns", missing).Msg("Added missing columns")
	}
	log.Debug().Int("width", len(values)).Msg("Final input shape")

	return domain.EncodedVector{Columns: e.columns, Values: values}, nil
}

func dropped(expanded map[string]float64, columns []string) []string {
	known := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		known[c] = struct{}{}
	}

	var out []string
	for name := range expanded {
		if _, ok := known[name]; !ok {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
