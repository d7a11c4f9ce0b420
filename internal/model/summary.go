package model

import "github.com/shopspring/decimal"

// Summary holds the accounting aggregates for a record set.
type Summary struct {
	Income       decimal.Decimal `json:"income"`
	Expenses     decimal.Decimal `json:"expenses"`
	ProfitLoss   decimal.Decimal `json:"profit_loss"`
	Assets       decimal.Decimal `json:"assets"`
	Liabilities  decimal.Decimal `json:"liabilities"`
	GSTCollected decimal.Decimal `json:"gst_collected"`
	GSTPaid      decimal.Decimal `json:"gst_paid"`
	GSTNet       decimal.Decimal `json:"gst_net"`
}
