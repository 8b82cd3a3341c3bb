package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Rate is a non-negative hourly rate in hundredths of the currency unit.
// It is rendered with exactly two fractional digits, e.g. "50.00".
type Rate int64

const (
	rateFractionDigits = 2
	rateIntegerDigits  = 8
	// boundIntegerDigits keeps a bound's hundredths inside int64.
	boundIntegerDigits = 15
)

// RateError describes why a textual rate was rejected. The text is shown to
// API clients as-is.
type RateError string

func (e RateError) Error() string { return string(e) }

const (
	ErrRateInvalid   RateError = "A valid number is required."
	ErrRateNegative  RateError = "Ensure this value is greater than or equal to 0."
	ErrRatePrecision RateError = "Ensure that there are no more than 2 decimal places."
	ErrRateTooLarge  RateError = "Ensure that there are no more than 8 digits before the decimal point."
)

// NewRate builds a Rate from whole units and hundredths: NewRate(50, 0) is 50.00.
func NewRate(units, cents int64) Rate {
	return Rate(units*100 + cents)
}

func (r Rate) String() string {
	return fmt.Sprintf("%d.%02d", int64(r)/100, int64(r)%100)
}

func (r Rate) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(r.String())), nil
}

// ParseRate parses a plain decimal such as "50", "50.5" or "50.00".
func ParseRate(s string) (Rate, error) {
	d, err := parseDecimal(s)
	if err != nil {
		return 0, err
	}
	if len(d.frac) > rateFractionDigits {
		return 0, ErrRatePrecision
	}
	if len(d.integer) > rateIntegerDigits {
		return 0, ErrRateTooLarge
	}
	cents := d.cents()
	if d.negative && cents != 0 {
		return 0, ErrRateNegative
	}
	return Rate(cents), nil
}

// ParseRateBound parses a search bound. Unlike ParseRate it accepts any number
// of fractional digits and negative values, rounding to the nearest Rate in
// the direction that keeps an inclusive comparison exact: up for lower bounds,
// down for upper bounds. A bound too large for int64 is clamped to the int64
// range, beyond every storable rate.
func ParseRateBound(s string, lower bool) (Rate, error) {
	d, err := parseDecimal(s)
	if err != nil {
		return 0, err
	}
	if len(d.integer) > boundIntegerDigits {
		if d.negative {
			return Rate(math.MinInt64), nil
		}
		return Rate(math.MaxInt64), nil
	}

	cents := d.cents()
	remainder := strings.Trim(d.fracTail(), "0") != ""
	if !d.negative {
		if remainder && lower {
			cents++
		}
		return Rate(cents), nil
	}
	if remainder && !lower {
		cents++
	}
	return Rate(-cents), nil
}

type decimal struct {
	negative bool
	integer  string
	frac     string
}

func parseDecimal(s string) (decimal, error) {
	s = strings.TrimSpace(s)
	var d decimal
	switch {
	case strings.HasPrefix(s, "-"):
		d.negative = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}

	intPart, fracPart, hasDot := strings.Cut(s, ".")
	if intPart == "" && fracPart == "" {
		return decimal{}, ErrRateInvalid
	}
	if hasDot && strings.Contains(fracPart, ".") {
		return decimal{}, ErrRateInvalid
	}
	if !allDigits(intPart) || !allDigits(fracPart) {
		return decimal{}, ErrRateInvalid
	}

	d.integer = strings.TrimLeft(intPart, "0")
	d.frac = strings.TrimRight(fracPart, "0")
	if len(fracPart) > rateFractionDigits && len(d.frac) <= rateFractionDigits {
		// "50.000" carries three decimal places even though the tail is zero.
		d.frac = fracPart
	}
	return d, nil
}

// cents returns the absolute value truncated to hundredths.
func (d decimal) cents() int64 {
	var units int64
	for _, c := range d.integer {
		units = units*10 + int64(c-'0')
	}
	head := d.frac
	if len(head) > rateFractionDigits {
		head = head[:rateFractionDigits]
	}
	head += strings.Repeat("0", rateFractionDigits-len(head))
	hundredths, _ := strconv.ParseInt(head, 10, 64)
	return units*100 + hundredths
}

func (d decimal) fracTail() string {
	if len(d.frac) <= rateFractionDigits {
		return ""
	}
	return d.frac[rateFractionDigits:]
}

func allDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
