package pipeline

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

func (d Direction) Flip() Direction {
	if d == Asc {
		return Desc
	}
	return Asc
}

// SortState is the column a list is ordered by. The zero Direction is Desc.
type SortState struct {
	Column    string    `json:"column"`
	Direction Direction `json:"direction"`
}

func NewSortState(column string) SortState {
	return SortState{Column: column, Direction: Desc}
}

// Toggle is a click on a column header: the same column flips direction,
// another column starts over at Desc.
func (s SortState) Toggle(column string) SortState {
	if s.Column == column {
		dir := s.Direction
		if dir == "" {
			dir = Desc
		}
		return SortState{Column: column, Direction: dir.Flip()}
	}
	return NewSortState(column)
}

type ColumnKind int

const (
	Text ColumnKind = iota
	Numeric
	Date
)

type Column[T any] struct {
	Kind   ColumnKind
	text   func(T) string
	number func(T) decimal.Decimal
	date   func(T) time.Time
}

// TextColumn compares with Hebrew collation.
func TextColumn[T any](f func(T) string) Column[T] {
	return Column[T]{Kind: Text, text: f}
}

func NumericColumn[T any](f func(T) decimal.Decimal) Column[T] {
	return Column[T]{Kind: Numeric, number: f}
}

// DateColumn compares instants; zero times order first.
func DateColumn[T any](f func(T) time.Time) Column[T] {
	return Column[T]{Kind: Date, date: f}
}

// comparator builds a three-way compare. A collator is not safe for
// concurrent use, so each call gets its own.
func (c Column[T]) comparator() func(a, b T) int {
	switch c.Kind {
	case Numeric:
		return func(a, b T) int { return c.number(a).Cmp(c.number(b)) }
	case Date:
		return func(a, b T) int { return c.date(a).Compare(c.date(b)) }
	default:
		col := collate.New(language.Hebrew)
		return func(a, b T) int { return col.CompareString(c.text(a), c.text(b)) }
	}
}
