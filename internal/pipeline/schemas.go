package pipeline

import (
	"time"

	"github.com/honeynil/bankfront/internal/models"
	"github.com/honeynil/bankfront/internal/normalize"
	"github.com/shopspring/decimal"
)

const (
	ColumnTransactionDate = "transaction_date"
	ColumnActionType      = "action_type"
	ColumnDescription     = "description"
	ColumnAmount          = "amount"

	ColumnDate   = "date"
	ColumnName   = "name"
	ColumnPhone  = "phone"
	ColumnStatus = "status"

	ColumnIDNumber = "id_number"
	ColumnBalance  = "balance"
	ColumnRole     = "role"
)

var TransactionSchema = Schema[models.Transaction]{
	Date: func(t models.Transaction) (time.Time, bool) { return t.At, !t.At.IsZero() },
	Columns: map[string]Column[models.Transaction]{
		ColumnTransactionDate: DateColumn(func(t models.Transaction) time.Time { return t.At }),
		ColumnActionType:      TextColumn(func(t models.Transaction) string { return t.ActionType }),
		ColumnDescription:     TextColumn(func(t models.Transaction) string { return t.Description }),
		ColumnAmount:          NumericColumn(func(t models.Transaction) decimal.Decimal { return normalize.Decimal(t.Amount) }),
	},
	DefaultColumn: ColumnTransactionDate,
}

var PaymentRequestSchema = Schema[models.PaymentRequest]{
	Date: func(r models.PaymentRequest) (time.Time, bool) { return r.At, !r.At.IsZero() },
	Columns: map[string]Column[models.PaymentRequest]{
		ColumnDate:   DateColumn(func(r models.PaymentRequest) time.Time { return r.At }),
		ColumnName:   TextColumn(func(r models.PaymentRequest) string { return r.Name }),
		ColumnPhone:  TextColumn(func(r models.PaymentRequest) string { return r.Phone }),
		ColumnStatus: TextColumn(func(r models.PaymentRequest) string { return string(r.Status) }),
		ColumnAmount: NumericColumn(func(r models.PaymentRequest) decimal.Decimal { return normalize.Decimal(r.Amount) }),
	},
	DefaultColumn: ColumnDate,
}

// AdminUserSchema has no date; only FilterAll is meaningful for it.
var AdminUserSchema = Schema[models.AdminUser]{
	Date: func(models.AdminUser) (time.Time, bool) { return time.Time{}, false },
	Columns: map[string]Column[models.AdminUser]{
		ColumnName:     TextColumn(func(u models.AdminUser) string { return u.Name }),
		ColumnPhone:    TextColumn(func(u models.AdminUser) string { return u.Phone }),
		ColumnIDNumber: TextColumn(func(u models.AdminUser) string { return u.IDNum }),
		ColumnRole:     TextColumn(func(u models.AdminUser) string { return string(u.Role) }),
		ColumnBalance:  NumericColumn(func(u models.AdminUser) decimal.Decimal { return normalize.Decimal(u.Balance) }),
	},
	DefaultColumn: ColumnName,
}
