package utils

import (
	"math"
)

// RoundTo rounds a float to specified decimal places, halves away from zero
func RoundTo(value float64, places int) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return value
	}
	factor := math.Pow(10, float64(places))
	return math.Round(value*factor) / factor
}
