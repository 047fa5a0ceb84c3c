package service

import (
	"context"
	"time"

	"github.com/honeynil/bankfront/internal/infrastructure/bankapi"
	"github.com/honeynil/bankfront/internal/models"
	"github.com/honeynil/bankfront/internal/normalize"
	"github.com/honeynil/bankfront/internal/pipeline"
	"github.com/honeynil/bankfront/internal/view"
)

const (
	MsgNoTransactions   = "אין תנועות להצגה"
	MsgNoMatchingRange  = "אין תנועות תואמות לטווח הזמן שנבחר."
	MsgNoRequests       = "אין בקשות תשלום להצגה"
	MsgNoMatchRequests  = "אין בקשות תשלום תואמות לטווח הזמן שנבחר."
	MsgNoUsers          = "אין משתמשים להצגה"
	MsgActionSucceeded  = "הפעולה בוצעה בהצלחה! היתרה תתעדכן בקרוב."
	MsgRequestApproved  = "הבקשה אושרה"
	MsgRequestRejected  = "הבקשה נדחתה"
	MsgProfileUpdated   = "הפרטים עודכנו בהצלחה"
	MsgAccountOpened    = "החשבון נפתח בהצלחה"
	MsgLoggedIn         = "התחברת בהצלחה"
	MsgBalanceRefreshed = "היתרה עודכנה"
)

// Dashboard holds the list views of one session.
type Dashboard struct {
	History      *view.ListView[models.Transaction]
	Transactions *view.ListView[models.Transaction]
	Incoming     *view.ListView[models.PaymentRequest]
	Sent         *view.ListView[models.PaymentRequest]
	Users        *view.ListView[models.AdminUser]
}

func newDashboard(api bankapi.API, n *normalize.Normalizer, now func() time.Time) *Dashboard {
	return &Dashboard{
		History: view.NewListView(view.Config[models.Transaction]{
			Name: "history",
			Fetch: func(ctx context.Context, u models.User) view.Result[models.Transaction] {
				r := api.History(ctx, u)
				if !r.OK() {
					return view.Failed[models.Transaction](r.Text())
				}
				return view.Loaded(n.Transactions(r.History))
			},
			Schema:         pipeline.TransactionSchema,
			EmptyMessage:   MsgNoTransactions,
			NoMatchMessage: MsgNoMatchingRange,
			DefaultSort:    pipeline.NewSortState(pipeline.ColumnTransactionDate),
			Now:            now,
		}),
		Transactions: view.NewListView(view.Config[models.Transaction]{
			Name: "transactions",
			Fetch: func(ctx context.Context, u models.User) view.Result[models.Transaction] {
				r := api.Transactions(ctx, u)
				if !r.OK() {
					return view.Failed[models.Transaction](r.Text())
				}
				return view.Loaded(n.Transactions(r.Transactions))
			},
			Schema:         pipeline.TransactionSchema,
			EmptyMessage:   MsgNoTransactions,
			NoMatchMessage: MsgNoMatchingRange,
			DefaultSort:    pipeline.NewSortState(pipeline.ColumnTransactionDate),
			Now:            now,
		}),
		Incoming: requestsView("incoming", models.DirectionIncoming, api.PaymentRequests, n, now),
		Sent:     requestsView("sent", models.DirectionSent, api.SentPaymentRequests, n, now),
		Users: view.NewListView(view.Config[models.AdminUser]{
			Name: "users",
			Fetch: func(ctx context.Context, u models.User) view.Result[models.AdminUser] {
				r := api.AllUsers(ctx, u)
				if !r.OK() {
					return view.Failed[models.AdminUser](r.Text())
				}
				return view.Loaded(normalize.AdminUsers(r.Users))
			},
			Schema:       pipeline.AdminUserSchema,
			EmptyMessage: MsgNoUsers,
			DefaultSort:  pipeline.SortState{Column: pipeline.ColumnName, Direction: pipeline.Asc},
			Now:          now,
		}),
	}
}

func requestsView(
	name string,
	dir models.Direction,
	fetch func(context.Context, models.User) bankapi.RequestsReply,
	n *normalize.Normalizer,
	now func() time.Time,
) *view.ListView[models.PaymentRequest] {
	return view.NewListView(view.Config[models.PaymentRequest]{
		Name: name,
		Fetch: func(ctx context.Context, u models.User) view.Result[models.PaymentRequest] {
			r := fetch(ctx, u)
			if !r.OK() {
				return view.Failed[models.PaymentRequest](r.Text())
			}
			return view.Loaded(n.PaymentRequests(r.Requests, dir))
		},
		Schema:         pipeline.PaymentRequestSchema,
		EmptyMessage:   MsgNoRequests,
		NoMatchMessage: MsgNoMatchRequests,
		DefaultSort:    pipeline.NewSortState(pipeline.ColumnDate),
		Now:            now,
	})
}

// invalidateMoney marks every view that a money movement can change.
func (d *Dashboard) invalidateMoney() {
	d.History.Invalidate()
	d.Transactions.Invalidate()
	d.Incoming.Invalidate()
	d.Sent.Invalidate()
}

func (d *Dashboard) reset() {
	d.History.Reset()
	d.Transactions.Reset()
	d.Incoming.Reset()
	d.Sent.Reset()
	d.Users.Reset()
}
