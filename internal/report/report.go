// Package report runs the filter and aggregation steps over a normalized
// record set.
package report

import (
	"fmt"

	"github.com/cleared-dev/basbook/internal/model"
	"github.com/cleared-dev/basbook/internal/period"
	"github.com/cleared-dev/basbook/internal/summary"
)

// Report is the outcome of summarizing a record set for one selector.
type Report struct {
	Selector     period.Selector
	Summary      model.Summary
	Transactions model.RecordSet
}

// Build filters set by sel and aggregates the result.
func Build(set model.RecordSet, sel period.Selector) (Report, error) {
	filtered, err := period.Filter(set, sel)
	if err != nil {
		return Report{}, fmt.Errorf("filtering transactions: %w", err)
	}
	return Report{
		Selector:     sel,
		Summary:      summary.Calculate(filtered),
		Transactions: filtered,
	}, nil
}

// Label describes the selected period, e.g. "FY2024 Q3" or "all dates".
func Label(sel period.Selector) string {
	const layout = "2006-01-02"
	switch {
	case sel.BASPeriod != 0:
		return fmt.Sprintf("FY%d %s", sel.FinancialYear, sel.BASPeriod)
	case sel.FinancialYear != 0:
		return fmt.Sprintf("FY%d", sel.FinancialYear)
	case !sel.From.IsZero() && !sel.To.IsZero():
		return sel.From.Format(layout) + " to " + sel.To.Format(layout)
	case !sel.From.IsZero():
		return "from " + sel.From.Format(layout)
	case !sel.To.IsZero():
		return "to " + sel.To.Format(layout)
	}
	return "all dates"
}
