package importer

import (
	"io"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/basbook/internal/model"
)

// Variant names accepted by the registry.
const (
	FormatStandard = "standard"
	FormatInferred = "inferred"
)

// DefaultGSTRate is the GST share of the amount assumed by the inferred
// variant when the CSV has no gst column.
var DefaultGSTRate = decimal.RequireFromString("0.10")

// Options tune how rows are normalized.
type Options struct {
	// DropUndated discards rows whose date cannot be parsed.
	DropUndated bool
	// GSTRate overrides DefaultGSTRate for the inferred variant.
	GSTRate decimal.Decimal
}

func (o Options) keep(txn model.Transaction) bool {
	return !o.DropUndated || txn.Dated()
}

// StandardParser requires a category column and defaults a missing gst
// column to zero.
type StandardParser struct {
	Options Options
}

// Format returns the parser name.
func (p *StandardParser) Format() string { return FormatStandard }

// Parse reads a transactions CSV.
func (p *StandardParser) Parse(r io.Reader) (model.RecordSet, error) {
	required := []string{ColDate, ColDescription, ColAmount, ColCategory}
	return normalize(r, required, func(columns) rowFunc {
		return func(cols columns, rec []string) (model.Transaction, bool) {
			txn := baseRow(cols, rec)
			return txn, p.Options.keep(txn)
		}
	})
}

// InferredParser derives a missing category from the amount sign and a
// missing gst from a flat rate of the absolute amount. GST values are
// always stored as absolute values.
type InferredParser struct {
	Options Options
}

// Format returns the parser name.
func (p *InferredParser) Format() string { return FormatInferred }

// Parse reads a transactions CSV.
func (p *InferredParser) Parse(r io.Reader) (model.RecordSet, error) {
	rate := p.Options.GSTRate
	if rate.IsZero() {
		rate = DefaultGSTRate
	}

	required := []string{ColDate, ColDescription, ColAmount}
	return normalize(r, required, func(cols columns) rowFunc {
		hasCategory := cols.has(ColCategory)
		hasGST := cols.has(ColGST)

		return func(cols columns, rec []string) (model.Transaction, bool) {
			txn := baseRow(cols, rec)
			if !hasCategory {
				txn.Category = model.CategoryIncome
				if txn.Amount.IsNegative() {
					txn.Category = model.CategoryExpense
				}
			}
			if hasGST {
				txn.GST = txn.GST.Abs()
			} else {
				txn.GST = txn.Amount.Abs().Mul(rate)
			}
			return txn, p.Options.keep(txn)
		}
	})
}
