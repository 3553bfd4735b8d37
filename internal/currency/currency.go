// Package currency formats consultation fees for display in a caller's
// local currency. Rates are fixed display-only approximations; fees are
// stored and compared in the base currency (INR) everywhere else.
package currency

import (
	"fmt"
	"math"
	"strings"
)

type setting struct {
	symbol string
	code   string
	// rate is units of this currency per INR.
	rate float64
}

var settings = map[string]setting{
	"IN": {symbol: "₹", code: "INR", rate: 1.0},
	"US": {symbol: "$", code: "USD", rate: 1.0 / 83.0},
}

const defaultCountry = "IN"

// Convert returns the amount in the currency of the given country code.
// Unknown codes fall back to the base currency.
func Convert(amount float64, countryCode string) (float64, string) {
	s, ok := settings[strings.ToUpper(strings.TrimSpace(countryCode))]
	if !ok {
		s = settings[defaultCountry]
	}
	return amount * s.rate, s.code
}

// Format renders the amount with the currency symbol of the given country.
// Whole amounts drop the decimals.
func Format(amount float64, countryCode string) string {
	s, ok := settings[strings.ToUpper(strings.TrimSpace(countryCode))]
	if !ok {
		s = settings[defaultCountry]
	}
	converted := amount * s.rate
	if converted == math.Trunc(converted) {
		return fmt.Sprintf("%s%d", s.symbol, int64(converted))
	}
	return fmt.Sprintf("%s%.2f", s.symbol, converted)
}
