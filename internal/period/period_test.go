package period

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/basbook/internal/model"
)

func txn(desc string, y int, m time.Month, d int) model.Transaction {
	return model.Transaction{
		Date:        date(y, m, d),
		Description: desc,
		Amount:      decimal.NewFromInt(1),
		Category:    model.CategoryIncome,
	}
}

func descriptions(set model.RecordSet) []string {
	var out []string
	for _, t := range set.All() {
		out = append(out, t.Description)
	}
	return out
}

func fy2024Set() model.RecordSet {
	return model.NewRecordSet([]model.Transaction{
		txn("before", 2023, time.June, 30),
		txn("q1-start", 2023, time.July, 1),
		txn("q1-end", 2023, time.September, 30),
		txn("q2", 2023, time.November, 5),
		txn("q2-end", 2023, time.December, 31),
		txn("q3", 2024, time.February, 10),
		txn("q3-end", 2024, time.March, 31),
		txn("q4-start", 2024, time.April, 1),
		txn("q4-end", 2024, time.June, 30),
		txn("after", 2024, time.July, 1),
		{Description: "undated", Category: model.CategoryIncome},
	})
}

func TestParseQuarter(t *testing.T) {
	tests := []struct {
		input string
		want  Quarter
	}{
		{"Q1", Q1},
		{"q2", Q2},
		{" Q3 ", Q3},
		{"Q4", Q4},
		{"", 0},
	}
	for _, tt := range tests {
		got, err := ParseQuarter(tt.input)
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got)
	}

	for _, bad := range []string{"Q5", "Q0", "first", "1"} {
		_, err := ParseQuarter(bad)
		var selErr *InvalidSelectorError
		assert.ErrorAs(t, err, &selErr, "input %q", bad)
	}
}

func TestQuarterString(t *testing.T) {
	assert.Equal(t, "Q3", Q3.String())
	assert.Equal(t, "", Quarter(0).String())
	assert.Equal(t, "", Quarter(9).String())
}

func TestFinancialYear(t *testing.T) {
	r := FinancialYear(2024)
	assert.Equal(t, date(2023, time.July, 1), r.Start)
	assert.Equal(t, date(2024, time.June, 30), r.End)
}

func TestBASQuarter(t *testing.T) {
	tests := []struct {
		q          Quarter
		start, end time.Time
	}{
		{Q1, date(2023, time.July, 1), date(2023, time.September, 30)},
		{Q2, date(2023, time.October, 1), date(2023, time.December, 31)},
		{Q3, date(2024, time.January, 1), date(2024, time.March, 31)},
		{Q4, date(2024, time.April, 1), date(2024, time.June, 30)},
	}
	for _, tt := range tests {
		r := BASQuarter(2024, tt.q)
		assert.Equal(t, tt.start, r.Start, "%s start", tt.q)
		assert.Equal(t, tt.end, r.End, "%s end", tt.q)
	}
}

func TestFinancialYearOfAndQuarterOf(t *testing.T) {
	tests := []struct {
		d  time.Time
		fy int
		q  Quarter
	}{
		{date(2023, time.July, 1), 2024, Q1},
		{date(2023, time.September, 30), 2024, Q1},
		{date(2023, time.October, 1), 2024, Q2},
		{date(2023, time.December, 31), 2024, Q2},
		{date(2024, time.January, 1), 2024, Q3},
		{date(2024, time.April, 1), 2024, Q4},
		{date(2024, time.June, 30), 2024, Q4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.fy, FinancialYearOf(tt.d), "FY of %s", tt.d)
		assert.Equal(t, tt.q, QuarterOf(tt.d), "quarter of %s", tt.d)
		assert.True(t, BASQuarter(tt.fy, tt.q).Contains(tt.d))
	}
}

func TestRangeContains(t *testing.T) {
	r := Range{Start: date(2024, time.January, 1), End: date(2024, time.January, 31)}
	assert.True(t, r.Contains(date(2024, time.January, 1)), "start is inclusive")
	assert.True(t, r.Contains(date(2024, time.January, 31)), "end is inclusive")
	assert.False(t, r.Contains(date(2023, time.December, 31)))
	assert.False(t, r.Contains(date(2024, time.February, 1)))
	assert.False(t, r.Contains(time.Time{}), "absent date never matches")

	openEnd := Range{Start: date(2024, time.January, 1)}
	assert.True(t, openEnd.Contains(date(2030, time.January, 1)))
	assert.False(t, openEnd.Contains(time.Time{}))
	assert.False(t, openEnd.Open())
	assert.True(t, Range{}.Open())
}

func TestSelectorRange_Errors(t *testing.T) {
	tests := []struct {
		name string
		sel  Selector
	}{
		{"quarter without year", Selector{BASPeriod: Q3}},
		{"negative year", Selector{FinancialYear: -1}},
		{"unknown quarter", Selector{FinancialYear: 2024, BASPeriod: Quarter(5)}},
		{"year with dates", Selector{FinancialYear: 2024, From: date(2024, time.January, 1)}},
		{"from after to", Selector{From: date(2024, time.February, 1), To: date(2024, time.January, 1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tt.sel.Range()
			var selErr *InvalidSelectorError
			require.ErrorAs(t, err, &selErr)
		})
	}
}

func TestSelectorRange_Empty(t *testing.T) {
	_, ok, err := Selector{}.Range()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, Selector{}.IsZero())
}

func TestFilter_Identity(t *testing.T) {
	set := fy2024Set()
	got, err := Filter(set, Selector{})
	require.NoError(t, err)
	assert.Equal(t, descriptions(set), descriptions(got))
}

func TestFilter_FinancialYear(t *testing.T) {
	got, err := Filter(fy2024Set(), Selector{FinancialYear: 2024})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"q1-start", "q1-end", "q2", "q2-end", "q3", "q3-end", "q4-start", "q4-end",
	}, descriptions(got))
}

func TestFilter_Quarter(t *testing.T) {
	got, err := Filter(fy2024Set(), Selector{FinancialYear: 2024, BASPeriod: Q3})
	require.NoError(t, err)
	assert.Equal(t, []string{"q3", "q3-end"}, descriptions(got))
}

func TestFilter_QuartersPartitionYear(t *testing.T) {
	set := fy2024Set()
	year, err := Filter(set, Selector{FinancialYear: 2024})
	require.NoError(t, err)

	var union []string
	for _, q := range []Quarter{Q1, Q2, Q3, Q4} {
		part, err := Filter(set, Selector{FinancialYear: 2024, BASPeriod: q})
		require.NoError(t, err)
		union = append(union, descriptions(part)...)
	}
	assert.Equal(t, descriptions(year), union)
}

func TestFilter_ExplicitRange(t *testing.T) {
	sel := Selector{From: date(2023, time.December, 31), To: date(2024, time.February, 10)}
	got, err := Filter(fy2024Set(), sel)
	require.NoError(t, err)
	assert.Equal(t, []string{"q2-end", "q3"}, descriptions(got))
}

func TestFilter_InvalidSelector(t *testing.T) {
	_, err := Filter(fy2024Set(), Selector{BASPeriod: Q1})
	var selErr *InvalidSelectorError
	require.ErrorAs(t, err, &selErr)
	assert.Contains(t, err.Error(), "requires a financial year")
}

func TestFilter_DoesNotMutateSource(t *testing.T) {
	set := fy2024Set()
	before := descriptions(set)
	_, err := Filter(set, Selector{FinancialYear: 2024, BASPeriod: Q1})
	require.NoError(t, err)
	assert.Equal(t, before, descriptions(set))
}

func TestFilterRange_OpenIsIdentity(t *testing.T) {
	set := fy2024Set()
	assert.Equal(t, set.Len(), FilterRange(set, Range{}).Len())
}

func TestParseSelector(t *testing.T) {
	sel, err := ParseSelector("2024", "q3", "", "")
	require.NoError(t, err)
	assert.Equal(t, Selector{FinancialYear: 2024, BASPeriod: Q3}, sel)

	sel, err = ParseSelector("", "", "2024-01-01", "2024-03-31")
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.January, 1), sel.From)
	assert.Equal(t, date(2024, time.March, 31), sel.To)

	sel, err = ParseSelector("", "", "", "")
	require.NoError(t, err)
	assert.True(t, sel.IsZero())
}

func TestParseSelector_Errors(t *testing.T) {
	tests := []struct {
		name              string
		fy, bas, from, to string
	}{
		{"non-numeric year", "twenty", "", "", ""},
		{"zero year", "0", "", "", ""},
		{"bad quarter", "2024", "Q9", "", ""},
		{"quarter without year", "", "Q1", "", ""},
		{"bad from", "", "", "01/01/2024", ""},
		{"bad to", "", "", "", "soon"},
		{"mixed modes", "2024", "", "2024-01-01", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSelector(tt.fy, tt.bas, tt.from, tt.to)
			var selErr *InvalidSelectorError
			require.ErrorAs(t, err, &selErr)
		})
	}
}
