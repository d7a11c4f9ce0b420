package summary

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/basbook/internal/model"
)

// Calculate reduces set into its accounting aggregates. Category totals
// are plain sums of the signed amounts; categories outside the four known
// buckets are ignored.
func Calculate(set model.RecordSet) model.Summary {
	s := model.Summary{
		Income:       decimal.Zero,
		Expenses:     decimal.Zero,
		Assets:       decimal.Zero,
		Liabilities:  decimal.Zero,
		GSTCollected: decimal.Zero,
		GSTPaid:      decimal.Zero,
	}

	for i := 0; i < set.Len(); i++ {
		t := set.At(i)
		switch t.Category {
		case model.CategoryIncome:
			s.Income = s.Income.Add(t.Amount)
			s.GSTCollected = s.GSTCollected.Add(t.GST)
		case model.CategoryExpense:
			s.Expenses = s.Expenses.Add(t.Amount)
			s.GSTPaid = s.GSTPaid.Add(t.GST)
		case model.CategoryAsset:
			s.Assets = s.Assets.Add(t.Amount)
		case model.CategoryLiability:
			s.Liabilities = s.Liabilities.Add(t.Amount)
		}
	}

	s.ProfitLoss = s.Income.Sub(s.Expenses)
	s.GSTNet = s.GSTCollected.Sub(s.GSTPaid)
	return s
}
