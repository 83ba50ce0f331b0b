// Package timeseries provides validated monthly-calendar containers for
// historical market data. All containers are checked once at construction
// for a strictly increasing, gap-free monthly index; downstream components
// treat them as read-only.
package timeseries

import (
	"fmt"
	"time"
)

// Month is a calendar month encoded as year*12 + (month - 1).
// The encoding makes "next month" a plain +1, which is what the gap-free
// validation and the samplers rely on.
type Month int

// NewMonth builds a Month from a calendar year and month.
func NewMonth(year int, m time.Month) Month {
	return Month(year*12 + int(m) - 1)
}

// Year returns the calendar year.
func (m Month) Year() int {
	return int(m) / 12
}

// Month returns the calendar month (January = 1).
func (m Month) Month() time.Month {
	return time.Month(int(m)%12 + 1)
}

// Add returns the month n months after m (n may be negative).
func (m Month) Add(n int) Month {
	return m + Month(n)
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year(), int(m.Month()))
}

// MonthRange returns n consecutive months starting at start.
func MonthRange(start Month, n int) []Month {
	months := make([]Month, n)
	for i := range months {
		months[i] = start + Month(i)
	}
	return months
}

// Series is an ordered, gap-free monthly series of float values.
type Series struct {
	months []Month
	values []float64
}

// NewSeries builds a Series from parallel month/value slices. It fails when
// the slices are empty, have different lengths, or the months are not
// consecutive calendar months.
func NewSeries(months []Month, values []float64) (*Series, error) {
	if len(months) == 0 {
		return nil, fmt.Errorf("timeseries: empty series")
	}
	if len(months) != len(values) {
		return nil, fmt.Errorf("timeseries: %d months but %d values", len(months), len(values))
	}
	if err := checkConsecutive(months); err != nil {
		return nil, err
	}
	s := &Series{
		months: make([]Month, len(months)),
		values: make([]float64, len(values)),
	}
	copy(s.months, months)
	copy(s.values, values)
	return s, nil
}

// Len returns the number of months in the series.
func (s *Series) Len() int {
	return len(s.months)
}

// MonthAt returns the calendar month at row i.
func (s *Series) MonthAt(i int) Month {
	return s.months[i]
}

// ValueAt returns the value at row i.
func (s *Series) ValueAt(i int) float64 {
	return s.values[i]
}

// Values returns a copy of the value vector in calendar order.
func (s *Series) Values() []float64 {
	out := make([]float64, len(s.values))
	copy(out, s.values)
	return out
}

// Table is a months-by-assets matrix of simple monthly returns on a
// gap-free monthly calendar.
type Table struct {
	months []Month
	assets []string
	rows   [][]float64
}

// NewTable builds a Table. Every row must have one value per asset and the
// month index must be consecutive.
func NewTable(months []Month, assets []string, rows [][]float64) (*Table, error) {
	if len(assets) == 0 {
		return nil, fmt.Errorf("timeseries: table has no assets")
	}
	if len(months) == 0 {
		return nil, fmt.Errorf("timeseries: table has no rows")
	}
	if len(months) != len(rows) {
		return nil, fmt.Errorf("timeseries: %d months but %d rows", len(months), len(rows))
	}
	if err := checkConsecutive(months); err != nil {
		return nil, err
	}
	t := &Table{
		months: make([]Month, len(months)),
		assets: make([]string, len(assets)),
		rows:   make([][]float64, len(rows)),
	}
	copy(t.months, months)
	copy(t.assets, assets)
	for i, row := range rows {
		if len(row) != len(assets) {
			return nil, fmt.Errorf("timeseries: row %s has %d values, want %d", months[i], len(row), len(assets))
		}
		t.rows[i] = make([]float64, len(row))
		copy(t.rows[i], row)
	}
	return t, nil
}

// Len returns the number of rows (months) in the table.
func (t *Table) Len() int {
	return len(t.rows)
}

// NumAssets returns the number of asset columns.
func (t *Table) NumAssets() int {
	return len(t.assets)
}

// Assets returns a copy of the ordered asset names.
func (t *Table) Assets() []string {
	out := make([]string, len(t.assets))
	copy(out, t.assets)
	return out
}

// MonthAt returns the calendar month at row i.
func (t *Table) MonthAt(i int) Month {
	return t.months[i]
}

// Row returns a copy of the return vector at row i.
func (t *Table) Row(i int) []float64 {
	out := make([]float64, len(t.rows[i]))
	copy(out, t.rows[i])
	return out
}

// History bundles the aligned inputs the projection core consumes: a
// returns table, a monthly inflation series and a monthly risk-free
// series, all on the identical calendar.
type History struct {
	Returns   *Table
	Inflation *Series
	RiskFree  *Series
}

// NewHistory validates that all three inputs share the same calendar.
func NewHistory(returns *Table, inflation, riskFree *Series) (*History, error) {
	if returns == nil || inflation == nil || riskFree == nil {
		return nil, fmt.Errorf("timeseries: history requires returns, inflation and risk-free series")
	}
	if inflation.Len() != returns.Len() || inflation.MonthAt(0) != returns.MonthAt(0) {
		return nil, fmt.Errorf("timeseries: inflation calendar not aligned with returns")
	}
	if riskFree.Len() != returns.Len() || riskFree.MonthAt(0) != returns.MonthAt(0) {
		return nil, fmt.Errorf("timeseries: risk-free calendar not aligned with returns")
	}
	return &History{Returns: returns, Inflation: inflation, RiskFree: riskFree}, nil
}

func checkConsecutive(months []Month) error {
	for i := 1; i < len(months); i++ {
		if months[i] == months[i-1] {
			return fmt.Errorf("timeseries: duplicate month %s", months[i])
		}
		if months[i] != months[i-1]+1 {
			return fmt.Errorf("timeseries: gap between %s and %s", months[i-1], months[i])
		}
	}
	return nil
}
