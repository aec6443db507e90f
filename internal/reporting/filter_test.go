package reporting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/manha/pos/internal/models"
)

func saleAt(order string, t time.Time, total int64) models.Sale {
	ts := t
	return models.Sale{
		OrderNumber: order,
		CreatedAt:   &ts,
		DateStr:     t.Format("1/2/2006"),
		Total:       total,
		ItemCount:   1,
	}
}

func TestFilterDaily(t *testing.T) {
	day := time.Date(2026, time.March, 5, 10, 0, 0, 0, time.UTC)
	sales := []models.Sale{
		saleAt("ORD-100001", day, 1000),
		saleAt("ORD-100002", day.AddDate(0, 0, -1), 2000),
		saleAt("ORD-100003", day.Add(8*time.Hour), 3000),
	}

	got := Filter(sales, Query{Period: PeriodDaily, Year: 2026, Month: time.March, Day: 5})
	require.Len(t, got, 2)
	require.Equal(t, "ORD-100001", got[0].OrderNumber)
	require.Equal(t, "ORD-100003", got[1].OrderNumber)
}

func TestFilterMonthlyAndYearly(t *testing.T) {
	sales := []models.Sale{
		saleAt("ORD-100001", time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC), 1000),
		saleAt("ORD-100002", time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC), 2000),
		saleAt("ORD-100003", time.Date(2025, time.March, 9, 0, 0, 0, 0, time.UTC), 3000),
	}

	monthly := Filter(sales, Query{Period: PeriodMonthly, Year: 2026, Month: time.March})
	require.Len(t, monthly, 1)
	require.Equal(t, "ORD-100001", monthly[0].OrderNumber)

	yearly := Filter(sales, Query{Period: PeriodYearly, Year: 2026})
	require.Len(t, yearly, 2)
}

func TestFilterSearchMatchesOrderNameAndMobile(t *testing.T) {
	day := time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC)
	sales := []models.Sale{
		saleAt("ORD-123456", day, 1000),
		saleAt("ORD-654321", day, 2000),
	}
	sales[0].CustomerName = "Jane Smith"
	sales[0].CustomerMobile = "555-1234"
	sales[1].CustomerName = "Walk-in Customer"

	require.Len(t, Filter(sales, Query{Search: "jane"}), 1)
	require.Len(t, Filter(sales, Query{Search: "555-12"}), 1)
	require.Len(t, Filter(sales, Query{Search: "ord-6543"}), 1)
	require.Len(t, Filter(sales, Query{Search: "  "}), 2)
	require.Empty(t, Filter(sales, Query{Search: "nobody"}))
}

func TestFilterUnderivableDateFailsOpen(t *testing.T) {
	// No timestamp and a date string no layout accepts: the period
	// constraint is skipped rather than excluding the record.
	orphan := models.Sale{OrderNumber: "ORD-999999", DateStr: "sometime"}
	sales := []models.Sale{orphan}

	got := Filter(sales, Query{Period: PeriodDaily, Year: 2026, Month: time.March, Day: 5})
	require.Len(t, got, 1)
}

func TestFilterDateStrFallback(t *testing.T) {
	sale := models.Sale{OrderNumber: "ORD-100001", DateStr: "3/5/2026"}

	got := Filter([]models.Sale{sale}, Query{Period: PeriodDaily, Year: 2026, Month: time.March, Day: 5})
	require.Len(t, got, 1)

	got = Filter([]models.Sale{sale}, Query{Period: PeriodDaily, Year: 2026, Month: time.March, Day: 6})
	require.Empty(t, got)
}

func TestSortNewestFirst(t *testing.T) {
	old := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)

	sales := []models.Sale{
		saleAt("ORD-OLD", old, 1000),
		saleAt("ORD-NEW", recent, 2000),
		{OrderNumber: "ORD-PENDING"}, // not yet timestamped
	}
	SortNewestFirst(sales)

	require.Equal(t, "ORD-PENDING", sales[0].OrderNumber)
	require.Equal(t, "ORD-NEW", sales[1].OrderNumber)
	require.Equal(t, "ORD-OLD", sales[2].OrderNumber)
}

func TestSummarize(t *testing.T) {
	day := time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC)
	sales := []models.Sale{
		saleAt("ORD-100001", day, 1000),
		saleAt("ORD-100002", day, 2500),
	}

	s := Summarize(sales)
	require.Equal(t, int64(3500), s.Revenue)
	require.Equal(t, 2, s.Orders)

	require.Equal(t, Summary{}, Summarize(nil))
}

func TestPeriodValid(t *testing.T) {
	require.True(t, PeriodDaily.Valid())
	require.True(t, PeriodAll.Valid())
	require.False(t, Period("weekly").Valid())
}
