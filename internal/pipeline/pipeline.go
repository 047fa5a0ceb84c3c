// Package pipeline filters a normalized list by date range and orders it by a
// column. Apply performs no I/O and never fails; the clock is an input.
package pipeline

import (
	"sort"
	"time"

	pkgerrors "github.com/honeynil/bankfront/pkg/errors"
)

type DateFilter string

const (
	FilterAll         DateFilter = "all"
	FilterToday       DateFilter = "today"
	FilterWeek        DateFilter = "week"
	FilterMonth       DateFilter = "month"
	FilterThreeMonths DateFilter = "three_months"
	FilterCustom      DateFilter = "custom"
)

func ParseDateFilter(s string) (DateFilter, error) {
	switch f := DateFilter(s); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterToday, FilterWeek, FilterMonth, FilterThreeMonths, FilterCustom:
		return f, nil
	}
	return "", pkgerrors.ErrInvalidFilter
}

// Query is everything that determines the derived view of a list.
type Query struct {
	Filter DateFilter
	// Start and End are only read for FilterCustom. Their time of day is
	// ignored: the range covers whole days.
	Start *time.Time
	End   *time.Time
	Sort  SortState
	Now   time.Time
}

// Window returns the inclusive instant range the filter selects, or ok=false
// when the filter keeps everything.
func (q Query) Window() (from, to time.Time, ok bool) {
	now := q.Now
	switch q.Filter {
	case FilterToday:
		return startOfDay(now), now, true
	case FilterWeek:
		return now.AddDate(0, 0, -7), now, true
	case FilterMonth:
		return now.AddDate(0, -1, 0), now, true
	case FilterThreeMonths:
		return now.AddDate(0, -3, 0), now, true
	case FilterCustom:
		if q.Start == nil || q.End == nil {
			return time.Time{}, time.Time{}, false
		}
		loc := now.Location()
		return startOfDay(q.Start.In(loc)), endOfDay(q.End.In(loc)), true
	}
	return time.Time{}, time.Time{}, false
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// Schema describes how to read the date and the sortable columns of T.
type Schema[T any] struct {
	// Date returns the record's instant; ok=false drops the record from any
	// active date filter.
	Date    func(T) (time.Time, bool)
	Columns map[string]Column[T]
	// DefaultColumn is used when the query names an unknown column.
	DefaultColumn string
}

// Apply returns a new slice; items is never modified.
func Apply[T any](items []T, q Query, schema Schema[T]) []T {
	out := make([]T, 0, len(items))
	from, to, active := q.Window()
	for _, item := range items {
		if active {
			at, ok := schema.Date(item)
			if !ok || at.Before(from) || at.After(to) {
				continue
			}
		}
		out = append(out, item)
	}

	col, ok := schema.Columns[q.Sort.Column]
	if !ok {
		col, ok = schema.Columns[schema.DefaultColumn]
	}
	if !ok {
		return out
	}

	cmp := col.comparator()
	desc := q.Sort.Direction != Asc
	sort.SliceStable(out, func(i, j int) bool {
		c := cmp(out[i], out[j])
		if desc {
			return c > 0
		}
		return c < 0
	})
	return out
}
