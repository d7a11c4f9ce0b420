package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category classifies a transaction into an aggregate bucket.
type Category string

const (
	CategoryIncome    Category = "income"
	CategoryExpense   Category = "expense"
	CategoryAsset     Category = "asset"
	CategoryLiability Category = "liability"
)

// Known reports whether c is one of the four aggregate buckets.
func (c Category) Known() bool {
	switch c {
	case CategoryIncome, CategoryExpense, CategoryAsset, CategoryLiability:
		return true
	}
	return false
}

// Transaction is a single normalized CSV row.
type Transaction struct {
	Date        time.Time // UTC midnight; zero when the source date was unparseable
	Description string
	Amount      decimal.Decimal
	Category    Category // always lowercase, may be outside the known buckets
	GST         decimal.Decimal
}

// Dated reports whether the transaction carries a valid calendar date.
func (t Transaction) Dated() bool {
	return !t.Date.IsZero()
}

// RecordSet is an ordered, immutable sequence of transactions.
type RecordSet struct {
	txns []Transaction
}

// NewRecordSet copies txns into a new RecordSet.
func NewRecordSet(txns []Transaction) RecordSet {
	if len(txns) == 0 {
		return RecordSet{}
	}
	cp := make([]Transaction, len(txns))
	copy(cp, txns)
	return RecordSet{txns: cp}
}

// Len returns the number of transactions.
func (s RecordSet) Len() int {
	return len(s.txns)
}

// At returns the i-th transaction.
func (s RecordSet) At(i int) Transaction {
	return s.txns[i]
}

// All returns a copy of the transactions in input order.
func (s RecordSet) All() []Transaction {
	if len(s.txns) == 0 {
		return nil
	}
	cp := make([]Transaction, len(s.txns))
	copy(cp, s.txns)
	return cp
}

// Select returns a new RecordSet holding the transactions for which keep
// returns true, in their original order.
func (s RecordSet) Select(keep func(Transaction) bool) RecordSet {
	var out []Transaction
	for _, t := range s.txns {
		if keep(t) {
			out = append(out, t)
		}
	}
	return RecordSet{txns: out}
}
