package pipeline

import (
	"fmt"
	"testing"
	"time"

	"github.com/honeynil/bankfront/internal/models"
	"github.com/honeynil/bankfront/internal/normalize"
	pkgerrors "github.com/honeynil/bankfront/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func tx(at time.Time, action, amount, desc string) models.Transaction {
	return models.Transaction{
		TransactionDate: at.Format(time.RFC3339Nano),
		ActionType:      action,
		Amount:          amount,
		Description:     desc,
		At:              at,
	}
}

func descriptions(txs []models.Transaction) []string {
	out := make([]string, 0, len(txs))
	for _, t := range txs {
		out = append(out, t.Description)
	}
	return out
}

func sample() []models.Transaction {
	return []models.Transaction{
		tx(now.Add(-1*time.Hour), "deposit", "100", "a"),
		tx(now.AddDate(0, 0, -3), "withdraw", "20", "b"),
		tx(now.AddDate(0, 0, -20), "transfer", "3", "c"),
		tx(now.AddDate(0, -2, 0), "received", "45.5", "d"),
		tx(now.AddDate(-1, 0, 0), "payment", "7", "e"),
		{TransactionDate: "-", ActionType: "deposit", Amount: "1", Description: "nodate"},
	}
}

func TestApply_CustomSingleDayInclusive(t *testing.T) {
	day := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	items := []models.Transaction{
		tx(day.Add(-time.Nanosecond), "deposit", "1", "before"),
		tx(day, "deposit", "2", "start"),
		tx(day.Add(13*time.Hour), "deposit", "3", "middle"),
		tx(day.AddDate(0, 0, 1).Add(-time.Nanosecond), "deposit", "4", "end"),
		tx(day.AddDate(0, 0, 1), "deposit", "5", "after"),
	}
	start := day.Add(15 * time.Hour)
	end := day.Add(2 * time.Hour)

	got := Apply(items, Query{
		Filter: FilterCustom,
		Start:  &start,
		End:    &end,
		Sort:   SortState{Column: ColumnAmount, Direction: Asc},
		Now:    now,
	}, TransactionSchema)

	assert.Equal(t, []string{"start", "middle", "end"}, descriptions(got))
}

func TestApply_CustomNeedsBothBounds(t *testing.T) {
	start := now.AddDate(0, 0, -1)
	items := sample()

	for _, q := range []Query{
		{Filter: FilterCustom, Start: &start, Now: now},
		{Filter: FilterCustom, End: &start, Now: now},
		{Filter: FilterCustom, Now: now},
	} {
		assert.Len(t, Apply(items, q, TransactionSchema), len(items))
	}
}

func TestApply_Presets(t *testing.T) {
	items := []models.Transaction{
		tx(now.AddDate(0, 0, -7), "deposit", "1", "week-edge"),
		tx(now.AddDate(0, 0, -7).Add(-time.Second), "deposit", "2", "week-out"),
		tx(now.Add(time.Minute), "deposit", "3", "future"),
		tx(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), "deposit", "4", "midnight"),
		tx(now.AddDate(0, -1, 0), "deposit", "5", "month-edge"),
		tx(now.AddDate(0, -3, 0), "deposit", "6", "quarter-edge"),
		{Description: "nodate"},
	}
	asc := SortState{Column: ColumnAmount, Direction: Asc}

	tests := []struct {
		filter DateFilter
		want   []string
	}{
		{FilterToday, []string{"midnight"}},
		{FilterWeek, []string{"week-edge", "midnight"}},
		{FilterMonth, []string{"week-edge", "week-out", "midnight", "month-edge"}},
		{FilterThreeMonths, []string{"week-edge", "week-out", "midnight", "month-edge", "quarter-edge"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			got := Apply(items, Query{Filter: tt.filter, Sort: asc, Now: now}, TransactionSchema)
			assert.Equal(t, tt.want, descriptions(got))
		})
	}
}

func TestApply_AllKeepsDateless(t *testing.T) {
	got := Apply(sample(), Query{Filter: FilterAll, Now: now}, TransactionSchema)
	assert.Contains(t, descriptions(got), "nodate")

	got = Apply(sample(), Query{Filter: FilterWeek, Now: now}, TransactionSchema)
	assert.NotContains(t, descriptions(got), "nodate")
}

func TestApply_Pure(t *testing.T) {
	items := sample()
	snapshot := append([]models.Transaction(nil), items...)
	start, end := now.AddDate(0, -3, 0), now

	filters := []DateFilter{FilterAll, FilterToday, FilterWeek, FilterMonth, FilterThreeMonths, FilterCustom}
	for _, f := range filters {
		for col := range TransactionSchema.Columns {
			for _, dir := range []Direction{Asc, Desc} {
				t.Run(fmt.Sprintf("%s/%s/%s", f, col, dir), func(t *testing.T) {
					q := Query{Filter: f, Start: &start, End: &end, Sort: SortState{Column: col, Direction: dir}, Now: now}
					first := Apply(items, q, TransactionSchema)
					second := Apply(items, q, TransactionSchema)
					assert.Equal(t, first, second)
					assert.Equal(t, snapshot, items)
				})
			}
		}
	}
}

func TestApply_Comparators(t *testing.T) {
	items := sample()[:5]

	t.Run("numeric, not lexicographic", func(t *testing.T) {
		got := Apply(items, Query{Sort: SortState{Column: ColumnAmount, Direction: Asc}, Now: now}, TransactionSchema)
		amounts := make([]string, 0, len(got))
		for _, g := range got {
			amounts = append(amounts, g.Amount)
		}
		assert.Equal(t, []string{"3", "7", "20", "45.5", "100"}, amounts)
	})

	t.Run("date desc by default", func(t *testing.T) {
		got := Apply(items, Query{Sort: SortState{Column: ColumnTransactionDate}, Now: now}, TransactionSchema)
		assert.Equal(t, []string{"a", "b", "c", "d", "e"}, descriptions(got))
	})

	t.Run("hebrew collation", func(t *testing.T) {
		reqs := []models.PaymentRequest{{Name: "תמר"}, {Name: "אבי"}, {Name: "בני"}, {Name: "דנה"}}
		got := Apply(reqs, Query{Sort: SortState{Column: ColumnName, Direction: Asc}, Now: now}, PaymentRequestSchema)
		names := make([]string, 0, len(got))
		for _, r := range got {
			names = append(names, r.Name)
		}
		assert.Equal(t, []string{"אבי", "בני", "דנה", "תמר"}, names)
	})

	t.Run("unknown column falls back to default", func(t *testing.T) {
		got := Apply(items, Query{Sort: SortState{Column: "nope", Direction: Asc}, Now: now}, TransactionSchema)
		assert.Equal(t, []string{"e", "d", "c", "b", "a"}, descriptions(got))
	})
}

func TestSortState_Toggle(t *testing.T) {
	s := NewSortState(ColumnAmount)
	assert.Equal(t, Desc, s.Direction)

	s = s.Toggle(ColumnAmount)
	assert.Equal(t, SortState{Column: ColumnAmount, Direction: Asc}, s)

	s = s.Toggle(ColumnAmount)
	assert.Equal(t, SortState{Column: ColumnAmount, Direction: Desc}, s)

	s = s.Toggle(ColumnAmount).Toggle(ColumnDescription)
	assert.Equal(t, SortState{Column: ColumnDescription, Direction: Desc}, s)

	assert.Equal(t, Asc, SortState{Column: ColumnAmount}.Toggle(ColumnAmount).Direction)
}

func TestApply_DoubleToggleIsInvolution(t *testing.T) {
	items := sample()[:5]
	state := NewSortState(ColumnAmount)
	q := Query{Sort: state, Now: now}

	original := Apply(items, q, TransactionSchema)

	q.Sort = state.Toggle(ColumnAmount)
	flipped := Apply(items, q, TransactionSchema)
	require.Len(t, flipped, len(original))
	for i := range original {
		assert.Equal(t, original[i], flipped[len(flipped)-1-i])
	}

	q.Sort = q.Sort.Toggle(ColumnAmount)
	assert.Equal(t, original, Apply(items, q, TransactionSchema))
}

func TestApply_HistoryScenario(t *testing.T) {
	n := normalize.New(time.UTC)
	list := n.Transactions([]normalize.Record{{
		"transaction_date": "2024-01-01T10:00:00Z",
		"action_type":      "deposit",
		"amount":           "100",
		"description":      "d",
	}})

	got := Apply(list, Query{Filter: FilterAll, Sort: NewSortState(ColumnTransactionDate), Now: now}, TransactionSchema)
	require.Len(t, got, 1)
	assert.Equal(t, list[0], got[0])
}

func TestParseDateFilter(t *testing.T) {
	f, err := ParseDateFilter("")
	require.NoError(t, err)
	assert.Equal(t, FilterAll, f)

	f, err = ParseDateFilter("three_months")
	require.NoError(t, err)
	assert.Equal(t, FilterThreeMonths, f)

	_, err = ParseDateFilter("year")
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidFilter)
}

func TestStatusBuckets(t *testing.T) {
	reqs := []models.PaymentRequest{
		{ID: "1", Status: models.StatusPending},
		{ID: "2", Status: models.StatusApproved},
		{ID: "3", Status: models.StatusPending},
		{ID: "4", Status: models.StatusRejected},
	}
	assert.Equal(t, StatusCounts{All: 4, Pending: 2, Approved: 1, Rejected: 1}, CountByStatus(reqs))
	assert.Len(t, FilterByStatus(reqs, "pending"), 2)
	assert.Len(t, FilterByStatus(reqs, StatusAll), 4)
	assert.Empty(t, FilterByStatus(reqs, "unknown"))
}
