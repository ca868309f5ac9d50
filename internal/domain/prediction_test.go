package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequestEvent(t *testing.T) {
	event, err := ParseRequestEvent([]byte(`{"number_of_guests": 300, "event_type": "Wedding", "pricing": null}`))
	require.NoError(t, err)

	assert.Equal(t, 300.0, event["number_of_guests"])
	assert.Equal(t, "Wedding", event["event_type"])

	v, ok := event.Lookup("pricing")
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestParseRequestEventRejectsNonObjects(t *testing.T) {
	for _, raw := range []string{``, `{`, `[1, 2]`, `"text"`, `42`, `null`, `{"a": 1} trailing`} {
		_, err := ParseRequestEvent([]byte(raw))
		assert.ErrorIs(t, err, ErrMalformedInput, raw)
	}
}

func TestFeatureRecordFloat(t *testing.T) {
	record := FeatureRecord{
		"f64":    2.5,
		"int":    3,
		"number": json.Number("4.25"),
		"text":   "5",
		"nil":    nil,
	}

	tests := []struct {
		key  string
		want float64
		ok   bool
	}{
		{"f64", 2.5, true},
		{"int", 3, true},
		{"number", 4.25, true},
		{"text", 0, false},
		{"nil", 0, false},
		{"absent", 0, false},
	}
	for _, tt := range tests {
		got, ok := record.Float(tt.key)
		assert.Equal(t, tt.ok, ok, tt.key)
		assert.Equal(t, tt.want, got, tt.key)
	}
}
