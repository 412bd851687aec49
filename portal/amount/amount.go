// Package amount parses user-entered money amounts and formats them for display.
//
// Parsing and display are deliberately separate: the value sent to the backend
// is always the unformatted decimal returned by Parse.
package amount

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// ErrInvalidAmount is returned for empty, non-numeric, zero or negative input.
var ErrInvalidAmount = errors.New("amount must be a number greater than zero")

const displayScale = 2

// Parse strips grouping separators and whitespace from raw and returns the
// decimal value, which must be strictly greater than zero.
//
//	Parse("1,234.50") // 1234.5
func Parse(raw string) (decimal.Decimal, error) {
	cleaned := strings.Map(func(r rune) rune {
		if r == ',' || unicode.IsSpace(r) {
			return -1
		}

		return r
	}, raw)

	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("%w: empty input", ErrInvalidAmount)
	}

	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}

	if !value.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrInvalidAmount, value.String())
	}

	return value, nil
}

// Valid reports whether raw parses to a positive amount.
func Valid(raw string) bool {
	_, err := Parse(raw)

	return err == nil
}

// Wire renders d the way the backend expects it: plain decimal, no grouping,
// no currency symbol.
func Wire(d decimal.Decimal) string {
	return d.String()
}

// FormatNumber renders d with locale grouping and two fixed decimals.
func FormatNumber(d decimal.Decimal, tag language.Tag) string {
	p := message.NewPrinter(tag)

	return p.Sprint(number.Decimal(d.Round(displayScale).InexactFloat64(), number.Scale(displayScale)))
}

// Format renders d as a currency amount for display, e.g. "$1,234.50" for USD
// in English.
func Format(d decimal.Decimal, unit currency.Unit, tag language.Tag) string {
	p := message.NewPrinter(tag)

	return p.Sprint(currency.Symbol(unit)) + FormatNumber(d, tag)
}
