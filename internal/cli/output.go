package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/foodwaste/predictor/pkg/utils"
)

// The result line keeps the exact layout existing callers parse:
// ": " and ", " separators, floats always carrying a fraction or exponent
// and non-ASCII text escaped.

func writeSuccess(w io.Writer, value float64) error {
	_, err := fmt.Fprintf(w, "{\"predicted_waste_kg\": %s}\n", formatFloat(utils.RoundTo(value, 2)))
	return err
}

func writeFailure(w io.Writer, message string) error {
	_, err := fmt.Fprintf(w, "{\"error\": %s, \"predicted_waste_kg\": 0}\n", quote(message))
	return err
}

func formatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}

	if abs := math.Abs(v); abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

func quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return `""`
	}
	encoded := strings.TrimSuffix(buf.String(), "\n")

	var out strings.Builder
	for _, r := range encoded {
		if r < 0x80 {
			out.WriteRune(r)
			continue
		}
		if r > 0xffff {
			hi, lo := utf16.EncodeRune(r)
			fmt.Fprintf(&out, `\u%04x\u%04x`, hi, lo)
			continue
		}
		fmt.Fprintf(&out, `\u%04x`, r)
	}
	return out.String()
}
