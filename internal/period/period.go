// Package period narrows record sets to Australian financial-year, BAS
// quarter or explicit date ranges.
//
// A financial year is named by the calendar year in which it ends: FY 2024
// runs from 1 July 2023 to 30 June 2024. BAS quarters Q1..Q4 split that
// range in order, so Q1 and Q2 fall in calendar year Y-1 and Q3 and Q4 in Y.
package period

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cleared-dev/basbook/internal/model"
)

// InvalidSelectorError reports a malformed or inconsistent selector.
type InvalidSelectorError struct {
	Reason string
}

func (e *InvalidSelectorError) Error() string {
	return "invalid selector: " + e.Reason
}

func invalid(format string, args ...any) error {
	return &InvalidSelectorError{Reason: fmt.Sprintf(format, args...)}
}

// Quarter is a BAS period within a financial year. The zero value means
// no quarter was given.
type Quarter int

const (
	Q1 Quarter = iota + 1
	Q2
	Q3
	Q4
)

// ParseQuarter parses "Q1".."Q4" case-insensitively. An empty string
// yields the zero Quarter.
func ParseQuarter(s string) (Quarter, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "":
		return 0, nil
	case "Q1":
		return Q1, nil
	case "Q2":
		return Q2, nil
	case "Q3":
		return Q3, nil
	case "Q4":
		return Q4, nil
	}
	return 0, invalid("unknown BAS period %q", s)
}

func (q Quarter) String() string {
	if q < Q1 || q > Q4 {
		return ""
	}
	return "Q" + strconv.Itoa(int(q))
}

// MarshalText renders the quarter as "Q1".."Q4".
func (q Quarter) MarshalText() ([]byte, error) {
	return []byte(q.String()), nil
}

// Range is an inclusive date range. A zero Start or End leaves that side open.
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t lies within the range. The zero time never
// matches a bound check.
func (r Range) Contains(t time.Time) bool {
	if t.IsZero() {
		return false
	}
	if !r.Start.IsZero() && t.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && t.After(r.End) {
		return false
	}
	return true
}

// Open reports whether neither side is bounded.
func (r Range) Open() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FinancialYear returns the range of the financial year ending 30 June fy.
func FinancialYear(fy int) Range {
	return Range{Start: date(fy-1, time.July, 1), End: date(fy, time.June, 30)}
}

// BASQuarter returns the range of quarter q of financial year fy.
func BASQuarter(fy int, q Quarter) Range {
	switch q {
	case Q1:
		return Range{Start: date(fy-1, time.July, 1), End: date(fy-1, time.September, 30)}
	case Q2:
		return Range{Start: date(fy-1, time.October, 1), End: date(fy-1, time.December, 31)}
	case Q3:
		return Range{Start: date(fy, time.January, 1), End: date(fy, time.March, 31)}
	case Q4:
		return Range{Start: date(fy, time.April, 1), End: date(fy, time.June, 30)}
	}
	return FinancialYear(fy)
}

// FinancialYearOf returns the financial year containing t.
func FinancialYearOf(t time.Time) int {
	if t.Month() >= time.July {
		return t.Year() + 1
	}
	return t.Year()
}

// QuarterOf returns the BAS quarter containing t.
func QuarterOf(t time.Time) Quarter {
	switch m := t.Month(); {
	case m >= time.July && m <= time.September:
		return Q1
	case m >= time.October:
		return Q2
	case m <= time.March:
		return Q3
	default:
		return Q4
	}
}

// Selector picks a date range either by financial year (optionally
// narrowed to a BAS quarter) or by explicit From/To dates. Zero fields are
// unset; the zero Selector selects everything.
type Selector struct {
	FinancialYear int
	BASPeriod     Quarter
	From          time.Time
	To            time.Time
}

// IsZero reports whether no selector field is set.
func (s Selector) IsZero() bool {
	return s.FinancialYear == 0 && s.BASPeriod == 0 && s.From.IsZero() && s.To.IsZero()
}

// Range resolves the selector. ok is false when the selector is empty and
// filtering is the identity.
func (s Selector) Range() (r Range, ok bool, err error) {
	explicit := !s.From.IsZero() || !s.To.IsZero()

	switch {
	case s.FinancialYear < 0:
		return Range{}, false, invalid("financial year %d must be positive", s.FinancialYear)
	case s.BASPeriod != 0 && s.FinancialYear == 0:
		return Range{}, false, invalid("BAS period %s requires a financial year", s.BASPeriod)
	case s.BASPeriod != 0 && s.BASPeriod.String() == "":
		return Range{}, false, invalid("unknown BAS period %d", int(s.BASPeriod))
	case s.FinancialYear != 0 && explicit:
		return Range{}, false, invalid("financial year and from/to dates are mutually exclusive")
	case !s.From.IsZero() && !s.To.IsZero() && s.From.After(s.To):
		return Range{}, false, invalid("from %s is after to %s", s.From.Format(dateLayout), s.To.Format(dateLayout))
	}

	switch {
	case s.BASPeriod != 0:
		return BASQuarter(s.FinancialYear, s.BASPeriod), true, nil
	case s.FinancialYear != 0:
		return FinancialYear(s.FinancialYear), true, nil
	case explicit:
		return Range{Start: s.From, End: s.To}, true, nil
	}
	return Range{}, false, nil
}

const dateLayout = "2006-01-02"

// ParseSelector builds a Selector from its string form as used by CLI
// flags and query parameters. Empty strings leave a field unset.
func ParseSelector(financialYear, basPeriod, from, to string) (Selector, error) {
	var sel Selector

	if fy := strings.TrimSpace(financialYear); fy != "" {
		n, err := strconv.Atoi(fy)
		if err != nil || n <= 0 {
			return Selector{}, invalid("financial year %q is not a positive integer", financialYear)
		}
		sel.FinancialYear = n
	}

	q, err := ParseQuarter(basPeriod)
	if err != nil {
		return Selector{}, err
	}
	sel.BASPeriod = q

	if sel.From, err = parseBound("from", from); err != nil {
		return Selector{}, err
	}
	if sel.To, err = parseBound("to", to); err != nil {
		return Selector{}, err
	}

	if _, _, err := sel.Range(); err != nil {
		return Selector{}, err
	}
	return sel, nil
}

func parseBound(name, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, invalid("%s date %q must be YYYY-MM-DD", name, s)
	}
	return t, nil
}

// Filter returns the transactions of set that fall within the selector's
// range, in input order. An empty selector returns set unchanged.
func Filter(set model.RecordSet, sel Selector) (model.RecordSet, error) {
	r, ok, err := sel.Range()
	if err != nil {
		return model.RecordSet{}, err
	}
	if !ok {
		return set, nil
	}
	return FilterRange(set, r), nil
}

// FilterRange returns the transactions of set dated within r. A fully
// open range returns set unchanged.
func FilterRange(set model.RecordSet, r Range) model.RecordSet {
	if r.Open() {
		return set
	}
	return set.Select(func(t model.Transaction) bool {
		return r.Contains(t.Date)
	})
}
