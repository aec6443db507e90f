// Package reporting buckets the sales log by day, month or year and
// computes period aggregates. Everything here is pure: it operates on
// a sales snapshot and never touches storage.
package reporting

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/manha/pos/internal/models"
)

type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
	PeriodAll     Period = "all"
)

func (p Period) Valid() bool {
	switch p {
	case PeriodDaily, PeriodMonthly, PeriodYearly, PeriodAll:
		return true
	}
	return false
}

// Query selects sales by free-text search and calendar period. Year,
// Month and Day are read according to Period: daily uses all three,
// monthly uses year+month, yearly just the year.
type Query struct {
	Search string
	Period Period
	Year   int
	Month  time.Month
	Day    int
}

type Summary struct {
	Revenue int64 `json:"revenue"`
	Orders  int   `json:"orders"`
}

// Filter returns the sales matching the query, preserving input order.
func Filter(sales []models.Sale, q Query) []models.Sale {
	term := strings.ToLower(strings.TrimSpace(q.Search))

	out := make([]models.Sale, 0, len(sales))
	for i := range sales {
		if !matchesSearch(&sales[i], term) {
			continue
		}
		if !matchesPeriod(&sales[i], q) {
			continue
		}
		out = append(out, sales[i])
	}
	return out
}

func Summarize(sales []models.Sale) Summary {
	s := Summary{Orders: len(sales)}
	for i := range sales {
		s.Revenue += sales[i].Total
	}
	return s
}

// SortNewestFirst orders sales by server timestamp, descending. A
// sale with no timestamp yet (written locally, not round-tripped
// through sync) sorts as the newest of all.
func SortNewestFirst(sales []models.Sale) {
	sort.SliceStable(sales, func(i, j int) bool {
		return sortKey(&sales[i]) > sortKey(&sales[j])
	})
}

func sortKey(s *models.Sale) int64 {
	if s.CreatedAt == nil {
		return math.MaxInt64
	}
	return s.CreatedAt.UnixNano()
}

func matchesSearch(s *models.Sale, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s.OrderNumber), term) ||
		strings.Contains(strings.ToLower(s.CustomerName), term) ||
		strings.Contains(strings.ToLower(s.CustomerMobile), term)
}

// matchesPeriod applies the calendar constraint. A sale whose date
// cannot be derived fails open: the date constraint is skipped, not
// the whole record.
func matchesPeriod(s *models.Sale, q Query) bool {
	if q.Period == PeriodAll || q.Period == "" {
		return true
	}
	y, m, d, ok := derivedDate(s)
	if !ok {
		return true
	}
	switch q.Period {
	case PeriodDaily:
		return y == q.Year && m == q.Month && d == q.Day
	case PeriodMonthly:
		return y == q.Year && m == q.Month
	case PeriodYearly:
		return y == q.Year
	}
	return true
}

// dateLayouts covers the stored display format plus ISO dates coming
// in through sale edits or backup imports.
var dateLayouts = []string{
	"1/2/2006",
	"2006-01-02",
	"01/02/2006",
}

func derivedDate(s *models.Sale) (int, time.Month, int, bool) {
	if s.CreatedAt != nil {
		y, m, d := s.CreatedAt.Date()
		return y, m, d, true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s.DateStr); err == nil {
			y, m, d := t.Date()
			return y, m, d, true
		}
	}
	return 0, 0, 0, false
}
