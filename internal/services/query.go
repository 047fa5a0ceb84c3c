package service

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/honeynil/bankfront/internal/pipeline"
	pkgerrors "github.com/honeynil/bankfront/pkg/errors"
)

const DateLayout = "2006-01-02"

// ParseListQuery reads filter, start, end, sort, dir, toggle and reload.
// Dates are calendar days in loc.
func ParseListQuery(v url.Values, loc *time.Location) (ListQuery, error) {
	filter, err := pipeline.ParseDateFilter(v.Get("filter"))
	if err != nil {
		return ListQuery{}, err
	}
	q := ListQuery{Filter: filter, Toggle: v.Get("toggle")}
	if q.Start, err = parseDay(v.Get("start"), loc); err != nil {
		return ListQuery{}, err
	}
	if q.End, err = parseDay(v.Get("end"), loc); err != nil {
		return ListQuery{}, err
	}
	switch dir := pipeline.Direction(v.Get("dir")); dir {
	case "", pipeline.Asc, pipeline.Desc:
		q.Dir = dir
	default:
		return ListQuery{}, fmt.Errorf("%w: unknown sort direction %q", pkgerrors.ErrInvalidInput, dir)
	}
	if col := v.Get("sort"); col != "" {
		q.Sort = pipeline.NewSortState(col)
		if q.Dir != "" {
			q.Sort.Direction = q.Dir
		}
	}
	if s := v.Get("reload"); s != "" {
		if q.Reload, err = strconv.ParseBool(s); err != nil {
			return ListQuery{}, fmt.Errorf("%w: reload must be a boolean", pkgerrors.ErrInvalidInput)
		}
	}
	return q, nil
}

func parseDay(s string, loc *time.Location) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a YYYY-MM-DD date", pkgerrors.ErrInvalidFilter, s)
	}
	return &t, nil
}
