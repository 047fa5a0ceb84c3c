package normalize

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/honeynil/bankfront/internal/models"
	pkgerrors "github.com/honeynil/bankfront/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jerusalem(t *testing.T) *time.Location {
	loc, err := time.LoadLocation("Asia/Jerusalem")
	if err != nil {
		t.Skip("tzdata not available")
	}
	return loc
}

func TestNormalizer_Transaction(t *testing.T) {
	n := New(time.UTC)

	t.Run("all fields present", func(t *testing.T) {
		tx := n.Transaction(Record{
			"transaction_date": "2024-01-01T10:00:00Z",
			"action_type":      "deposit",
			"amount":           "100",
			"description":      "d",
		})
		assert.Equal(t, "2024-01-01T10:00:00Z", tx.TransactionDate)
		assert.Equal(t, "deposit", tx.ActionType)
		assert.Equal(t, "100", tx.Amount)
		assert.Equal(t, "d", tx.Description)
		assert.Equal(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), tx.At.UTC())
	})

	t.Run("aliases in priority order", func(t *testing.T) {
		tx := n.Transaction(Record{
			"date":       "2024-02-02",
			"created_at": "2020-01-01",
			"type":       "withdraw",
			"amount":     json.Number("12.5"),
			"note":       "atm",
		})
		assert.Equal(t, "2024-02-02", tx.TransactionDate)
		assert.Equal(t, "withdraw", tx.ActionType)
		assert.Equal(t, "12.5", tx.Amount)
		assert.Equal(t, "atm", tx.Description)
	})

	t.Run("empty string falls through to next alias", func(t *testing.T) {
		tx := n.Transaction(Record{"transaction_date": "", "created_at": "2023-05-05 08:00:00"})
		assert.Equal(t, "2023-05-05 08:00:00", tx.TransactionDate)
		assert.False(t, tx.At.IsZero())
	})

	t.Run("missing everything yields defaults", func(t *testing.T) {
		assert.NotPanics(t, func() {
			tx := n.Transaction(Record{})
			assert.Equal(t, models.Transaction{Amount: "0"}, tx)
		})
	})

	t.Run("objects are not values", func(t *testing.T) {
		tx := n.Transaction(Record{"amount": map[string]any{"x": 1}, "description": []any{"a"}})
		assert.Equal(t, "0", tx.Amount)
		assert.Equal(t, "", tx.Description)
	})
}

func TestNormalizer_PaymentRequest(t *testing.T) {
	n := New(time.UTC)
	raw := Record{
		"id":              json.Number("7"),
		"status":          "approved",
		"created_at":      "2024-03-01T09:30:00Z",
		"requester_name":  "Dana",
		"requester_phone": "0501111111",
		"recipient_name":  "Avi",
		"recipient_phone": "0502222222",
		"amount":          "100.50",
	}

	t.Run("incoming shows the requester", func(t *testing.T) {
		req := n.PaymentRequest(raw, models.DirectionIncoming)
		assert.Equal(t, "7", req.ID)
		assert.Equal(t, models.StatusApproved, req.Status)
		assert.Equal(t, "2024-03-01T09:30:00Z", req.Date)
		assert.Equal(t, "Dana", req.Name)
		assert.Equal(t, "0501111111", req.Phone)
		assert.Equal(t, "100.5", req.Amount)
		assert.Equal(t, models.DirectionIncoming, req.Direction)
	})

	t.Run("sent shows the recipient", func(t *testing.T) {
		req := n.PaymentRequest(raw, models.DirectionSent)
		assert.Equal(t, "Avi", req.Name)
		assert.Equal(t, "0502222222", req.Phone)
		assert.Equal(t, models.DirectionSent, req.Direction)
	})

	t.Run("fallback aliases", func(t *testing.T) {
		req := n.PaymentRequest(Record{
			"request_id": "r-1",
			"phone":      "0503333333",
			"name":       "Noa",
			"amount":     json.Number("20"),
		}, models.DirectionIncoming)
		assert.Equal(t, "r-1", req.ID)
		assert.Equal(t, "0503333333", req.Phone)
		assert.Equal(t, "Noa", req.Name)
	})

	t.Run("inner whitespace kept", func(t *testing.T) {
		req := n.PaymentRequest(Record{"requester_name": "  Noa   Levi ", "amount": "20"}, models.DirectionIncoming)
		assert.Equal(t, "Noa   Levi", req.Name)
		assert.Equal(t, "20", req.Amount)
	})

	t.Run("defaults", func(t *testing.T) {
		req := n.PaymentRequest(Record{}, models.DirectionIncoming)
		assert.Equal(t, models.PaymentRequest{
			ID:        "0",
			Status:    models.StatusPending,
			Date:      "-",
			Amount:    "0",
			Direction: models.DirectionIncoming,
		}, req)
		assert.True(t, req.Actionable())
	})

	t.Run("unknown status and bad amount", func(t *testing.T) {
		req := n.PaymentRequest(Record{"status": "weird", "amount": "abc"}, models.DirectionSent)
		assert.Equal(t, models.StatusPending, req.Status)
		assert.Equal(t, "0", req.Amount)
		assert.False(t, req.Actionable())
	})
}

func TestNormalizer_ParseTime(t *testing.T) {
	loc := jerusalem(t)
	n := New(loc)

	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-01-01T10:00:00Z", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-01-01T10:00:00+02:00", time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)},
		{"2024-01-01 10:00:00", time.Date(2024, 1, 1, 10, 0, 0, 0, loc)},
		{"2024-01-01T10:00:00.123456", time.Date(2024, 1, 1, 10, 0, 0, 123456000, loc)},
		{"2024-01-01", time.Date(2024, 1, 1, 0, 0, 0, 0, loc)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := n.ParseTime(tt.in)
			require.True(t, ok)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}

	for _, bad := range []string{"", "-", "yesterday"} {
		_, ok := n.ParseTime(bad)
		assert.False(t, ok, bad)
	}
}

func TestMergeUser(t *testing.T) {
	creds := models.User{Phone: "0501234567", IDNum: "123456789", Secret: "1234"}

	t.Run("profile fields from nested user", func(t *testing.T) {
		u := MergeUser(creds, Record{"user": map[string]any{
			"name":           "Dana",
			"balance":        "250.00",
			"role":           "admin",
			"bank_number":    "12",
			"branch_number":  "345",
			"account_number": "678901",
			"phone_number":   "0000000000",
		}})
		assert.Equal(t, "0501234567", u.Phone)
		assert.Equal(t, "1234", u.Secret)
		assert.Equal(t, "Dana", u.Name)
		assert.Equal(t, "250.00", u.Balance)
		assert.True(t, u.IsAdmin())
		require.NotNil(t, u.Account)
		assert.Equal(t, "Dana", u.Account.AccountOwner)
		assert.Equal(t, "678901", u.Account.AccountNumber)
	})

	t.Run("empty reply keeps credentials", func(t *testing.T) {
		u := MergeUser(creds, Record{})
		assert.Equal(t, creds.Phone, u.Phone)
		assert.Equal(t, models.RoleUser, u.Role)
		assert.Nil(t, u.Account)
	})
}

func TestAdminUser(t *testing.T) {
	u := AdminUser(Record{"phone_number": "050", "id_number": "1", "role": "admin", "name": "Root"})
	assert.Equal(t, "050", u.Phone)
	assert.Equal(t, "0", u.Balance)
	assert.Equal(t, "מנהל", u.RoleLabel)

	u = AdminUser(Record{})
	assert.Equal(t, models.RoleUser, u.Role)
	assert.Equal(t, "משתמש", u.RoleLabel)
}

func TestParseAmount(t *testing.T) {
	d, err := ParseAmount(" 10.25 ")
	require.NoError(t, err)
	assert.Equal(t, "10.25", d.String())

	for _, bad := range []string{"", "0", "-5", "abc"} {
		_, err := ParseAmount(bad)
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidAmount, bad)
	}
}

func TestRecords(t *testing.T) {
	rs := Records([]any{map[string]any{"a": "1"}, "junk", nil, 3.0, map[string]any{}})
	assert.Len(t, rs, 2)
}
