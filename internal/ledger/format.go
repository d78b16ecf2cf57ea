package ledger

import (
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/osse101/CaseVault_Go/internal/domain"
)

// Formatter renders minor-unit amounts as localized currency strings
type Formatter struct {
	unit    currency.Unit
	printer *message.Printer
}

// NewFormatter creates a formatter for an ISO 4217 code. An unknown code yields EUR and false.
func NewFormatter(code string) (*Formatter, bool) {
	ok := true
	unit, err := currency.ParseISO(code)
	if err != nil {
		unit = currency.EUR
		ok = false
	}
	return &Formatter{unit: unit, printer: message.NewPrinter(language.English)}, ok
}

// Format renders m, e.g. "€ 1,234.50"
func (f *Formatter) Format(m domain.Money) string {
	return f.printer.Sprint(currency.Symbol(f.unit.Amount(m.Major().InexactFloat64())))
}
