package moneyparse_test

import (
	"fmt"
	"math"
	"strconv"
	"testing"

	"github.com/finlens/finlens_backend/pkg/moneyparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Scenarios(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  moneyparse.ParsedAmount
	}{
		{"rupee symbol with western grouping", "₹1,234.56", moneyparse.ParsedAmount{Value: 1234.56, Currency: moneyparse.INR}},
		{"INR prefix with lakh grouping", "INR 1,23,456.78", moneyparse.ParsedAmount{Value: 123456.78, Currency: moneyparse.INR}},
		{"dollar symbol with western grouping", "$1,234,567.89", moneyparse.ParsedAmount{Value: 1234567.89, Currency: moneyparse.USD}},
		{"minus between symbol and digits", "₹-100.50", moneyparse.ParsedAmount{Value: -100.5, Currency: moneyparse.INR}},
		{"no marker defaults to INR", "100.50", moneyparse.ParsedAmount{Value: 100.5, Currency: moneyparse.INR}},
		{"empty string", "", moneyparse.ParsedAmount{Value: 0, Currency: moneyparse.INR}},
		{"non numeric", "invalid", moneyparse.ParsedAmount{Value: 0, Currency: moneyparse.INR}},
		{"whitespace only", "   \t ", moneyparse.ParsedAmount{Value: 0, Currency: moneyparse.INR}},
		{"space between symbol and digits", "₹ 1,234.56", moneyparse.ParsedAmount{Value: 1234.56, Currency: moneyparse.INR}},
		{"dollar with space", "$ 123.45", moneyparse.ParsedAmount{Value: 123.45, Currency: moneyparse.USD}},
		{"usd prefix", "USD 99.99", moneyparse.ParsedAmount{Value: 99.99, Currency: moneyparse.USD}},
		{"lowercase prefix", "inr 42", moneyparse.ParsedAmount{Value: 42, Currency: moneyparse.INR}},
		{"crore grouping", "₹10,00,000.00", moneyparse.ParsedAmount{Value: 1000000, Currency: moneyparse.INR}},
		{"legitimate zero", "₹0.00", moneyparse.ParsedAmount{Value: 0, Currency: moneyparse.INR}},
		{"leading minus no marker", "-250", moneyparse.ParsedAmount{Value: -250, Currency: moneyparse.INR}},
		{"surrounding whitespace", "  $42.00  ", moneyparse.ParsedAmount{Value: 42, Currency: moneyparse.USD}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, moneyparse.Parse(tt.input))
		})
	}
}

func TestNormalizeNumeral(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"₹ 1,23,456.78", "123456.78"},
		{"$1,234.56", "1234.56"},
		{"USD 100", "100"},
		{"₹-100.50", "-100.50"},
		{"1 234.56", "1234.56"},
		{"no digits", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, moneyparse.NormalizeNumeral(tt.input), "input %q", tt.input)
	}
}

func TestParse_FallbackResetsCurrency(t *testing.T) {
	// A detected marker must not survive a failed numeric parse.
	for _, input := range []string{"$", "$abc", "₹..", "USD 1.2.3", "₹1..2"} {
		got := moneyparse.Parse(input)
		assert.Equal(t, moneyparse.ParsedAmount{Value: 0, Currency: moneyparse.DefaultCurrency}, got, "input %q", input)
	}
}

func TestParse_GroupingIsConventionAgnostic(t *testing.T) {
	// Any comma placement inside the digit run must parse to the same value
	// as the ungrouped numeral.
	groupings := map[string]string{
		"1234567.89":  "1,234,567.89",
		"123456.78":   "1,23,456.78",
		"1000000.00":  "10,00,000.00",
		"12345678.90": "1,23,45,678.90",
	}

	for plain, grouped := range groupings {
		for _, prefix := range []string{"", "₹", "$", "INR ", "USD "} {
			want := moneyparse.Parse(prefix + plain)
			got := moneyparse.Parse(prefix + grouped)
			assert.Equal(t, want, got, "prefix %q grouped %q", prefix, grouped)
		}
	}
}

func TestParse_IdempotentOnCanonicalForm(t *testing.T) {
	inputs := []string{"₹1,234.56", "$-9,876.54", "INR 1,23,456.78", "42"}

	for _, input := range inputs {
		first := moneyparse.Parse(input)

		var canonical string
		switch first.Currency {
		case moneyparse.INR:
			canonical = "₹" + strconv.FormatFloat(first.Value, 'f', -1, 64)
		case moneyparse.USD:
			canonical = "$" + strconv.FormatFloat(first.Value, 'f', -1, 64)
		}

		second := moneyparse.Parse(canonical)
		assert.Equal(t, first, second, "input %q canonical %q", input, canonical)
	}
}

func TestParse_AlwaysWellFormed(t *testing.T) {
	adversarial := []string{
		"", " ", "-", ".", "-.", "--1", "1-", "1.2.3", "₹", "$",
		"NaN", "Inf", "-Inf", "1e309", "1E10", "0x10", "…", "१२३",
		"₹₹100", "$INR 5", "USD$3", ",,,", "1,", ",1", "(100.00)",
		"9999999999999999999999999999999999999999999999999999999999",
		string([]byte{0xff, 0xfe, 0x30}),
	}

	for _, input := range adversarial {
		got := moneyparse.Parse(input)
		require.False(t, math.IsNaN(got.Value), "NaN for %q", input)
		require.False(t, math.IsInf(got.Value, 0), "Inf for %q", input)
		assert.Contains(t, []moneyparse.CurrencyCode{moneyparse.INR, moneyparse.USD}, got.Currency, "input %q", input)
	}
}

func TestParse_DefaultCurrencyInvariant(t *testing.T) {
	for i := 0; i < 50; i++ {
		input := fmt.Sprintf("%d.%02d", i*137, i%100)
		assert.Equal(t, moneyparse.DefaultCurrency, moneyparse.Parse(input).Currency, "input %q", input)
	}
}
