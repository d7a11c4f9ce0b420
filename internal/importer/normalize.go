package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/basbook/internal/model"
)

// Canonical column names, matched after trimming and lowercasing headers.
const (
	ColDate        = "date"
	ColDescription = "description"
	ColAmount      = "amount"
	ColCategory    = "category"
	ColGST         = "gst"
)

// SchemaError reports required columns missing from the CSV header.
type SchemaError struct {
	Missing []string // sorted
}

func (e *SchemaError) Error() string {
	return "missing required column(s): " + strings.Join(e.Missing, ", ")
}

// dateLayouts are tried in order. Slash dates are day-first.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"02/01/2006",
	"2/1/2006",
	"2 Jan 2006",
	"02-Jan-2006",
	"January 2, 2006",
}

// ParseDate parses s as a calendar date at UTC midnight.
// The second return is false when no layout matches.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// maxExponent bounds the decimal exponent accepted from a CSV cell.
// Rescaling 1e999999999 for an Add or String would allocate a
// billion-digit integer.
const maxExponent = 28

// ParseAmount parses s as a decimal, coercing blanks, garbage and
// out-of-range exponents to zero.
func ParseAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	if exp := d.Exponent(); exp > maxExponent || exp < -maxExponent {
		return decimal.Zero
	}
	return d
}

// columns maps canonical column names to their index in a row.
type columns map[string]int

func newColumns(header []string) columns {
	cols := make(columns, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		if _, dup := cols[name]; dup {
			continue
		}
		cols[name] = i
	}
	return cols
}

func (c columns) has(name string) bool {
	_, ok := c[name]
	return ok
}

// get returns the named cell, or "" for an absent column or short row.
func (c columns) get(rec []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return rec[i]
}

func (c columns) missing(required []string) []string {
	var out []string
	for _, name := range required {
		if !c.has(name) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// rowFunc builds a transaction from one data row. ok=false drops the row.
type rowFunc func(cols columns, rec []string) (txn model.Transaction, ok bool)

// normalize reads header + rows from r, checks required columns and
// applies build to each row in order.
func normalize(r io.Reader, required []string, prepare func(columns) rowFunc) (model.RecordSet, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return model.RecordSet{}, &SchemaError{Missing: newColumns(nil).missing(required)}
	}
	if err != nil {
		return model.RecordSet{}, fmt.Errorf("reading CSV header: %w", err)
	}

	// Strip a UTF-8 BOM left by spreadsheet exports.
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	cols := newColumns(header)
	if missing := cols.missing(required); len(missing) > 0 {
		return model.RecordSet{}, &SchemaError{Missing: missing}
	}
	build := prepare(cols)

	var txns []model.Transaction
	for row := 2; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return model.RecordSet{}, fmt.Errorf("row %d: %w", row, err)
		}
		if isBlank(rec) {
			continue
		}
		if txn, ok := build(cols, rec); ok {
			txns = append(txns, txn)
		}
	}
	return model.NewRecordSet(txns), nil
}

// baseRow fills the fields every variant treats the same way.
func baseRow(cols columns, rec []string) model.Transaction {
	date, _ := ParseDate(cols.get(rec, ColDate))
	return model.Transaction{
		Date:        date,
		Description: cols.get(rec, ColDescription),
		Amount:      ParseAmount(cols.get(rec, ColAmount)),
		Category:    model.Category(strings.ToLower(strings.TrimSpace(cols.get(rec, ColCategory)))),
		GST:         ParseAmount(cols.get(rec, ColGST)),
	}
}

func isBlank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
