// Package features rebuilds, at inference time, the feature row the model
// was trained on from a caller's event.
package features

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/foodwaste/predictor/internal/domain"
	"github.com/foodwaste/predictor/internal/schema"
)

// Assembler maps request events onto feature records.
type Assembler struct {
	cfg      Config
	resolver CategoryResolver
}

// NewAssembler creates an assembler using cfg's alias table and resolver for
// the food category.
func NewAssembler(cfg Config, resolver CategoryResolver) *Assembler {
	return &Assembler{cfg: cfg, resolver: resolver}
}

// Assemble builds a fully populated feature record for event. Numeric
// columns start at their reference mean and categorical columns at their
// first observed value unless the event supplies them; combination features
// are derived last from the resolved operands.
func (a *Assembler) Assemble(ctx context.Context, event domain.RequestEvent, s *schema.Schema) (domain.FeatureRecord, error) {
	record := make(domain.FeatureRecord, len(s.Numeric)+len(s.Categorical)+2)

	for _, col := range s.Numeric {
		record[col], _ = s.NumericDefault(col)
	}

	explicit := make(map[string]bool, len(a.cfg.Aliases))
	for _, alias := range a.cfg.Aliases {
		if _, v, ok := firstPresent(event, alias.Sources); ok {
			record[alias.Target] = v
			explicit[alias.Target] = true
		}
	}

	for _, col := range s.Categorical {
		if explicit[col] {
			continue
		}
		record[col], _ = s.CategoricalDefault(col)
	}

	if a.resolver != nil {
		category, ok, err := a.resolver.ResolveFoodCategory(ctx, event)
		if err != nil {
			return nil, err
		}
		if ok {
			record[domain.FoodTypeColumn] = category
		}
	}

	if v, ok := event.Lookup(a.cfg.EventTypeSource); ok {
		eventType, err := lowerString(a.cfg.EventTypeSource, v)
		if err != nil {
			return nil, err
		}
		record[domain.EventTypeColumn] = eventType
	}

	if key, v, ok := firstPresent(event, a.cfg.LocationSources); ok {
		location, err := lowerString(key, v)
		if err != nil {
			return nil, err
		}
		record[domain.LocationColumn] = location
	} else {
		record[domain.LocationColumn] = a.cfg.DefaultLocation
	}

	if err := addCombinations(record); err != nil {
		return nil, err
	}

	log.Debug().Interface("record", record).Msg("Prepared input data")
	return record, nil
}

func addCombinations(record domain.FeatureRecord) error {
	eventType, err := operand(record, domain.EventTypeColumn)
	if err != nil {
		return err
	}
	food, err := operand(record, domain.FoodTypeColumn)
	if err != nil {
		return err
	}
	location, err := operand(record, domain.LocationColumn)
	if err != nil {
		return err
	}

	record[domain.EventFoodComboKey] = eventType + "_" + food
	record[domain.EventGeoComboKey] = eventType + "_" + location
	return nil
}

func operand(record domain.FeatureRecord, col string) (string, error) {
	v, ok := record[col]
	if !ok {
		return "", fmt.Errorf("%w: features: %s is unresolved, cannot build combination features", domain.ErrAssembly, col)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: features: %s must be text to build combination features, got %T", domain.ErrAssembly, col, v)
	}
	return s, nil
}

func lowerString(key string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: features: %s must be a string, got %T", domain.ErrAssembly, key, v)
	}
	return strings.ToLower(s), nil
}
