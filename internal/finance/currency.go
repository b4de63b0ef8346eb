package finance

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	DefaultLocale   = "en-IN"
	DefaultCurrency = "INR"
)

var currencySymbols = map[string]string{
	"INR": "₹",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

// Formatter renders amounts as whole-unit currency strings for a locale.
type Formatter struct {
	unit    currency.Unit
	symbol  string
	printer *message.Printer
}

// NewFormatter returns a Formatter for a BCP 47 locale and an ISO 4217
// currency code.
func NewFormatter(locale, code string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("parse currency %q: %w", code, err)
	}

	symbol, ok := currencySymbols[unit.String()]
	if !ok {
		symbol = unit.String() + " "
	}

	return &Formatter{
		unit:    unit,
		symbol:  symbol,
		printer: message.NewPrinter(tag),
	}, nil
}

// Currency returns the ISO code of the formatter's currency.
func (f *Formatter) Currency() string {
	return f.unit.String()
}

// Format rounds half away from zero to whole units and groups digits
// according to the locale. Non-finite amounts format as zero.
func (f *Formatter) Format(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}
	rounded := decimal.NewFromFloat(amount).Round(0)

	s := f.symbol + f.printer.Sprint(number.Decimal(rounded.Abs().IntPart()))
	if rounded.IsNegative() {
		return "-" + s
	}
	return s
}

var defaultFormatter = mustFormatter(DefaultLocale, DefaultCurrency)

func mustFormatter(locale, code string) *Formatter {
	f, err := NewFormatter(locale, code)
	if err != nil {
		panic(err)
	}
	return f
}

// FormatCurrency formats an amount with the default en-IN / INR formatter.
func FormatCurrency(amount float64) string {
	return defaultFormatter.Format(amount)
}
