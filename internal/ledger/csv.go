// Package ledger reads and writes the canonical transactions CSV: the
// normalized form of an imported file, as kept in the session store and
// emitted by `basbook transactions --format csv`.
package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/basbook/internal/model"
)

// Header is the canonical CSV header.
const Header = "date,description,amount,category,gst"

const (
	numFields  = 5
	dateFormat = "2006-01-02"
	colDate    = 0
	colDesc    = 1
	colAmount  = 2
	colCat     = 3
	colGST     = 4
)

// ReadTransactions reads a canonical CSV into a RecordSet.
func ReadTransactions(r io.Reader) (model.RecordSet, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return model.RecordSet{}, fmt.Errorf("reading transactions CSV: %w", err)
	}

	if len(records) == 0 {
		return model.RecordSet{}, nil
	}
	if got := strings.Join(records[0], ","); got != Header {
		return model.RecordSet{}, fmt.Errorf("unexpected header %q", got)
	}

	// Skip header row.
	txns := make([]model.Transaction, 0, len(records)-1)
	for i, rec := range records[1:] {
		txn, err := UnmarshalTransaction(rec)
		if err != nil {
			return model.RecordSet{}, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, txn)
	}
	return model.NewRecordSet(txns), nil
}

// WriteTransactions writes set as a canonical CSV (including header).
func WriteTransactions(w io.Writer, set model.RecordSet) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i := 0; i < set.Len(); i++ {
		if err := cw.Write(MarshalTransaction(set.At(i))); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalTransaction converts a Transaction to a CSV row. An absent date
// is written as an empty cell.
func MarshalTransaction(txn model.Transaction) []string {
	row := make([]string, numFields)
	if txn.Dated() {
		row[colDate] = txn.Date.Format(dateFormat)
	}
	row[colDesc] = txn.Description
	row[colAmount] = txn.Amount.String()
	row[colCat] = string(txn.Category)
	row[colGST] = txn.GST.String()
	return row
}

// UnmarshalTransaction converts a canonical CSV row to a Transaction.
func UnmarshalTransaction(record []string) (model.Transaction, error) {
	if len(record) != numFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	var date time.Time
	if record[colDate] != "" {
		var err error
		date, err = time.Parse(dateFormat, record[colDate])
		if err != nil {
			return model.Transaction{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
		}
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	gst, err := decimal.NewFromString(record[colGST])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing gst %q: %w", record[colGST], err)
	}

	return model.Transaction{
		Date:        date,
		Description: record[colDesc],
		Amount:      amount,
		Category:    model.Category(record[colCat]),
		GST:         gst,
	}, nil
}
