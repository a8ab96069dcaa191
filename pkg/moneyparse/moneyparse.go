// Package moneyparse converts free-text monetary strings, as found in bank
// export files with inconsistent locale-dependent formatting, into a canonical
// value + currency pair.
//
// Parse is a total function: it never returns an error and never produces a
// NaN or infinite value. Malformed input yields the zero-value fallback in the
// default currency, so batch importers can keep going past bad records.
package moneyparse

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// CurrencyCode is a supported ISO-style currency tag.
type CurrencyCode string

const (
	INR CurrencyCode = "INR"
	USD CurrencyCode = "USD"
)

// DefaultCurrency is assumed for numerals that carry no currency marker.
// Source exports are predominantly Indian bank statements, so an un-marked
// amount is treated as the primary working currency rather than an error.
const DefaultCurrency = INR

// IsSupported reports whether code names a currency this package can emit.
func IsSupported(code string) bool {
	switch CurrencyCode(strings.ToUpper(strings.TrimSpace(code))) {
	case INR, USD:
		return true
	}
	return false
}

// ParsedAmount is the result of parsing one monetary string.
type ParsedAmount struct {
	Value    float64      `json:"value"`
	Currency CurrencyCode `json:"currency"`
}

// marker associates a currency indicator with its code. Symbols match
// anywhere in the string, prefixes only at the start (case-insensitive).
// Order matters: first match wins.
type marker struct {
	symbol string
	prefix string
	code   CurrencyCode
}

var markers = []marker{
	{symbol: "₹", code: INR},
	{symbol: "$", code: USD},
	{prefix: "INR", code: INR},
	{prefix: "USD", code: USD},
}

// Parse converts a raw monetary string into a ParsedAmount.
//
// Grouping commas are stripped without regard to position, which handles both
// Western (1,234,567.89) and lakh/crore (1,23,456.78) grouping: separators
// only ever subdivide an unbroken digit run, so removing them reconstructs
// the digit sequence either way.
func Parse(input string) ParsedAmount {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return fallback()
	}

	currency := detectCurrency(trimmed)

	value, ok := resolveValue(NormalizeNumeral(trimmed))
	if !ok {
		// A string whose numeral cannot be trusted cannot be trusted to
		// have been currency-tagged correctly either.
		return fallback()
	}

	return ParsedAmount{Value: value, Currency: currency}
}

func fallback() ParsedAmount {
	return ParsedAmount{Value: 0, Currency: DefaultCurrency}
}

func detectCurrency(s string) CurrencyCode {
	for _, m := range markers {
		if m.symbol != "" && strings.Contains(s, m.symbol) {
			return m.code
		}
		if m.prefix != "" && hasPrefixFold(s, m.prefix) {
			return m.code
		}
	}
	return DefaultCurrency
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// NormalizeNumeral drops every rune that is not a digit, a minus sign, or a
// decimal point. This removes the currency marker, grouping commas and any
// interior whitespace while keeping a minus that sits between the symbol and
// the digits (e.g. "₹-100.50"). Grouping separators only ever subdivide an
// unbroken digit run, so removing them reconstructs the digit sequence for
// Western and lakh/crore grouping alike.
func NormalizeNumeral(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsDigit(r) || r == '-' || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func resolveValue(numeral string) (float64, bool) {
	if numeral == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(numeral, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
