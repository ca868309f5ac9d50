package dataset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = "\ufeffnumber_of_guests,event_type,pricing,served,notes\n" +
	"310,wedding,moderate,True,\n" +
	"NA,corporate,high,False,\n" +
	"290,,low,True,\n"

func TestReadCSV(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, []string{"number_of_guests", "event_type", "pricing", "served", "notes"}, ds.Columns())
	assert.Equal(t, 3, ds.Len())
	assert.True(t, ds.Has("number_of_guests"))
	assert.False(t, ds.Has("missing"))

	values, ok := ds.Values("event_type")
	require.True(t, ok)
	assert.Equal(t, []string{"wedding", "corporate", ""}, values)
}

func TestKind(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	tests := []struct {
		column string
		want   ColumnKind
	}{
		{"number_of_guests", Numeric},
		{"event_type", Textual},
		{"pricing", Textual},
		{"served", Numeric},
		{"notes", Empty},
		{"unknown", Empty},
	}

	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			assert.Equal(t, tt.want, ds.Kind(tt.column))
		})
	}
}

func TestNumbersSkipsMissing(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	guests, err := ds.Numbers("number_of_guests")
	require.NoError(t, err)
	assert.Equal(t, []float64{310, 290}, guests)

	served, err := ds.Numbers("served")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0, 1}, served)

	_, err = ds.Numbers("event_type")
	assert.Error(t, err)
}

func TestReadCSVErrors(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	assert.Error(t, err)

	_, err = ReadCSV(strings.NewReader("a,a\n1,2\n"))
	assert.ErrorContains(t, err, "duplicate column")

	_, err = ReadCSV(strings.NewReader("a,b\n1,2,3\n"))
	assert.Error(t, err)
}

func TestIsMissing(t *testing.T) {
	for _, cell := range []string{"", " ", "NA", "NaN", "null", "None", "n/a"} {
		assert.True(t, IsMissing(cell), cell)
	}
	for _, cell := range []string{"0", "urban", "na_value"} {
		assert.False(t, IsMissing(cell), cell)
	}
}
