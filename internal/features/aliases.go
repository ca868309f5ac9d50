package features

import "github.com/foodwaste/predictor/internal/domain"

// FieldAlias copies the first request field present in Sources into the
// Target feature column. Sources are listed newest key first.
type FieldAlias struct {
	Target  string
	Sources []string
}

// CategoryHint names a request field routed to the food classifier. Scored
// hints are full dish names matched with a confidence score; unscored hints
// are coarse food-type labels.
type CategoryHint struct {
	Source string
	Scored bool
}

// Config is the field-alias resolution table shared by every caller version.
type Config struct {
	Aliases         []FieldAlias
	CategoryHints   []CategoryHint
	EventTypeSource string
	LocationSources []string
	DefaultLocation string
}

// DefaultConfig accepts both the current and the legacy request keys, with
// the current keys taking precedence.
func DefaultConfig() Config {
	return Config{
		Aliases: []FieldAlias{
			{Target: domain.GuestsColumn, Sources: []string{"number_of_guests"}},
			{Target: domain.QuantityColumn, Sources: []string{"quantity_of_food", "total_quantity"}},
			{Target: "serving_method", Sources: []string{"preparation_method"}},
			{Target: "pricing", Sources: []string{"pricing"}},
		},
		CategoryHints: []CategoryHint{
			{Source: "name_of_food", Scored: true},
			{Source: "food_type", Scored: false},
		},
		EventTypeSource: "event_type",
		LocationSources: []string{"geographical_location", "location_type"},
		DefaultLocation: domain.DefaultLocationName,
	}
}

// firstPresent returns the value of the first key present in event.
func firstPresent(event domain.RequestEvent, keys []string) (string, any, bool) {
	for _, k := range keys {
		if v, ok := event.Lookup(k); ok {
			return k, v, true
		}
	}
	return "", nil, false
}
