// Package money formats and parses monetary amounts held in minor units
// using the separators and currency symbols of a locale.
package money

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrUnknownCurrency = errors.New("unknown currency")
)

// MinorUnitsPerMajor is the number of minor units in one major unit.
const MinorUnitsPerMajor = 100

// Format knows how a locale writes amounts.
type Format struct {
	tag     language.Tag
	unit    currency.Unit
	printer *message.Printer
	decimal string
	group   string
}

// NewFormat builds a Format for a BCP 47 locale and an ISO 4217 currency code.
func NewFormat(locale, currencyCode string) (Format, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return Format{}, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		return Format{}, fmt.Errorf("%w: %q", ErrUnknownCurrency, currencyCode)
	}

	p := message.NewPrinter(tag)
	decimal, group := separators(p)

	return Format{tag: tag, unit: unit, printer: p, decimal: decimal, group: group}, nil
}

// MustFormat is NewFormat that panics on error.
func MustFormat(locale, currencyCode string) Format {
	f, err := NewFormat(locale, currencyCode)
	if err != nil {
		panic(err)
	}
	return f
}

// separators prints a probe number and reads the separators back from it.
// Locales with non-latin digits fall back to "." and ",".
func separators(p *message.Printer) (decimal, group string) {
	s := p.Sprint(number.Decimal(1234567.5, number.MinFractionDigits(1), number.MaxFractionDigits(1)))

	rest, ok := strings.CutPrefix(s, "1")
	if !ok {
		return ".", ","
	}
	i := strings.Index(rest, "234")
	if i < 0 {
		return ".", ","
	}
	group = rest[:i]
	rest = rest[i+3:]

	j := strings.Index(rest, "567")
	if j < 0 || !strings.HasSuffix(rest, "5") || len(rest) < j+4 {
		return ".", ","
	}
	decimal = rest[j+3 : len(rest)-1]
	if decimal == "" {
		return ".", ","
	}
	if group == decimal {
		group = ""
	}
	return decimal, group
}

// Locale returns the language tag the format was built for.
func (f Format) Locale() language.Tag { return f.tag }

// Currency returns the currency unit.
func (f Format) Currency() currency.Unit { return f.unit }

// DecimalSeparator returns the locale decimal separator.
func (f Format) DecimalSeparator() string { return f.decimal }

// GroupSeparator returns the locale grouping separator, possibly empty.
func (f Format) GroupSeparator() string { return f.group }

func (f Format) p() *message.Printer {
	if f.printer == nil {
		return message.NewPrinter(language.English)
	}
	return f.printer
}

// FormatAmount renders minor units as a plain localized number with up to
// two fraction digits and no trailing zeros.
func (f Format) FormatAmount(minor int64) string {
	return f.p().Sprint(number.Decimal(toMajor(minor), number.MaxFractionDigits(2)))
}

// FormatCurrency renders minor units with the narrow currency symbol.
func (f Format) FormatCurrency(minor int64) string {
	return f.p().Sprint(currency.NarrowSymbol(f.unit.Amount(toMajor(minor))))
}

// FormatPercent renders a 0..1 fraction as a whole percentage.
func (f Format) FormatPercent(fraction float64) string {
	return f.p().Sprint(number.Percent(fraction, number.MaxFractionDigits(0)))
}

// Parse reads a localized decimal number and returns it in minor units,
// rounding half away from zero. Grouping separators are ignored; the only
// accepted decimal separator is the locale one.
func (f Format) Parse(text string) (int64, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, ErrInvalidAmount
	}

	decimal := f.decimal
	if decimal == "" {
		decimal = "."
	}
	if f.group != "" {
		s = strings.ReplaceAll(s, f.group, "")
		// Locales that group with a no-break space are often typed with a plain one.
		if strings.TrimSpace(f.group) == "" {
			s = strings.ReplaceAll(s, " ", "")
		}
	}

	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}

	intPart, fracPart, _ := strings.Cut(s, decimal)
	if !digitsOnly(intPart) || !digitsOnly(fracPart) || intPart+fracPart == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, text)
	}

	if intPart == "" {
		intPart = "0"
	}
	if fracPart == "" {
		fracPart = "0"
	}

	r, ok := new(big.Rat).SetString(intPart + "." + fracPart)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, text)
	}
	r.Mul(r, big.NewRat(MinorUnitsPerMajor, 1))

	minor, err := roundHalfAway(r)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", err, text)
	}
	if neg {
		minor = -minor
	}
	return minor, nil
}

func digitsOnly(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func roundHalfAway(r *big.Rat) (int64, error) {
	num := new(big.Int).Set(r.Num())
	den := r.Denom()

	q, m := new(big.Int).QuoRem(num, den, new(big.Int))
	if new(big.Int).Mul(m, big.NewInt(2)).Cmp(den) >= 0 {
		q.Add(q, big.NewInt(1))
	}
	if !q.IsInt64() {
		return 0, ErrInvalidAmount
	}
	return q.Int64(), nil
}

// ToMajor converts minor units to a major-unit float for display.
func ToMajor(minor int64) float64 { return toMajor(minor) }

func toMajor(minor int64) float64 {
	return float64(minor) / MinorUnitsPerMajor
}

// FromMajor converts a major-unit value to minor units, rounding half away
// from zero.
func FromMajor(major float64) int64 {
	return int64(math.Round(major * MinorUnitsPerMajor))
}
