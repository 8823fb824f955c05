package output

import (
	"math"
	"strconv"
)

// RoundFloat rounds a float to at most 6 decimal places.
func RoundFloat(f float64) float64 {
	return math.Round(f*1e6) / 1e6
}

// FormatFloat formats a rounded float without trailing zeros.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(RoundFloat(f), 'f', -1, 64)
}

// Percent returns part as a percentage of whole, 0 when whole is 0.
func Percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return RoundFloat(float64(part) * 100 / float64(whole))
}
