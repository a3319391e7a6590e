package model

import (
	"fmt"
	"math"
	"strconv"
)

// ParseCents converts decimal string amounts (dollars) to cents (int64).
// The catalog search API returns variant prices as decimal text
// (e.g., "99.00" = $99.00); all internal price fields are minor units.
// Handles edge cases: empty strings, missing decimals, large values.
// Examples: "99.00" → 9900, "1234.56" → 123456, "" → 0
func ParseCents(s string) int64 {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	// math.Round handles both positive and negative numbers correctly
	return int64(math.Round(f * 100))
}

// FormatCents renders minor units as decimal dollar text for display.
// Examples: 9900 → "99.00", 5 → "0.05", -1000 → "-10.00"
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
