// Package report renders project budget summaries as xlsx workbooks and
// PDF documents.
package report

import (
	"strings"
	"time"

	"github.com/landscape/backend/internal/domain/budget"
	"github.com/landscape/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	defaultLocale   = "en-US"
	defaultCurrency = "USD"
)

// BudgetDocument is the input to both budget renderers
type BudgetDocument struct {
	ProjectName string
	ProjectType string
	GeneratedAt time.Time
	Summary     budget.Summary
}

// Formatter formats money and labels for a locale
type Formatter struct {
	tag     language.Tag
	printer *message.Printer
	unit    currency.Unit
}

// NewFormatter builds a formatter; empty values fall back to en-US and USD.
func NewFormatter(locale, currencyCode string) (*Formatter, error) {
	if strings.TrimSpace(locale) == "" {
		locale = defaultLocale
	}
	if strings.TrimSpace(currencyCode) == "" {
		currencyCode = defaultCurrency
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, shared.NewInvalidInputError("invalid report locale %q", locale)
	}
	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		return nil, shared.NewInvalidInputError("invalid report currency %q", currencyCode)
	}
	return &Formatter{
		tag:     tag,
		printer: message.NewPrinter(tag),
		unit:    unit,
	}, nil
}

// Currency returns the ISO code used as the money prefix
func (f *Formatter) Currency() string {
	return f.unit.String()
}

// Number formats an amount with locale grouping and two decimals
func (f *Formatter) Number(d decimal.Decimal) string {
	return f.printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
}

// Money formats an amount prefixed with the currency code
func (f *Formatter) Money(d decimal.Decimal) string {
	return f.unit.String() + " " + f.Number(d)
}

// Title converts snake_case enum values into display labels.
// Casers are stateful, so one is built per call.
func (f *Formatter) Title(s string) string {
	return cases.Title(f.tag).String(strings.ReplaceAll(s, "_", " "))
}

// Date formats a timestamp as an ISO date
func (f *Formatter) Date(t time.Time) string {
	return t.Format("2006-01-02")
}
