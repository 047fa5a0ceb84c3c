package bankapi

import "github.com/honeynil/bankfront/internal/normalize"

type Action string

const (
	ActionOpenAccount        Action = "open_account"
	ActionAuthenticate       Action = "authenticate"
	ActionUpdateUser         Action = "update_user"
	ActionCheckBalance       Action = "check_balance"
	ActionDeposit            Action = "deposit"
	ActionWithdraw           Action = "withdraw"
	ActionTransfer           Action = "transfer"
	ActionRequestPayment     Action = "request_payment"
	ActionApprovePayment     Action = "approve_payment"
	ActionRejectPayment      Action = "reject_payment"
	ActionGetHistory         Action = "get_history"
	ActionGetPaymentRequests Action = "get_payment_requests"
	ActionGetSentRequests    Action = "get_sent_payment_requests"
	ActionGetTransactions    Action = "get_transactions"
	ActionGetAllUsers        Action = "get_all_users"
)

// Reply is the decoded result of one call. The concrete type is fixed by the
// action: callers type-switch or use the typed Client methods.
type Reply interface {
	Action() Action
	OK() bool
	Text() string
	reply()
}

// Status is the part every reply shares.
type Status struct {
	action  Action
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (s Status) Action() Action { return s.action }
func (s Status) OK() bool       { return s.Success }
func (s Status) Text() string   { return s.Message }
func (Status) reply()           {}

// StatusReply carries no payload: open_account, update_user, deposit,
// withdraw, transfer, approve_payment, reject_payment.
type StatusReply struct {
	Status
}

type AuthReply struct {
	Status
	Profile normalize.Record
}

type BalanceReply struct {
	Status
	Balance string
}

type HistoryReply struct {
	Status
	History []normalize.Record
}

// RequestsReply answers both get_payment_requests and get_sent_payment_requests.
type RequestsReply struct {
	Status
	Requests []normalize.Record
}

type RequestReply struct {
	Status
	Request normalize.Record
}

type TransactionsReply struct {
	Status
	Transactions []normalize.Record
}

type UsersReply struct {
	Status
	Users []normalize.Record
}

// Decode turns an envelope into the reply variant of action. A successful
// envelope missing the list a view needs becomes a failed reply with a
// descriptive message and an empty list.
func Decode(action Action, env Envelope) Reply {
	st := Status{action: action, Success: env.Success, Message: env.Message}
	if !st.Success && st.Message == "" {
		st.Message = failureMessage(action)
	}

	switch action {
	case ActionAuthenticate:
		r := AuthReply{Status: st}
		if st.Success {
			r.Profile, _ = object(env.Data)
		}
		return r

	case ActionCheckBalance:
		r := BalanceReply{Status: st}
		if st.Success {
			if b, ok := scalar(env.Balance); ok {
				r.Balance = b
			} else if data, ok := object(env.Data); ok {
				r.Balance = data.FirstOr("", "balance")
			}
		}
		return r

	case ActionGetHistory:
		r := HistoryReply{Status: st, History: []normalize.Record{}}
		if st.Success {
			if items, ok := list(env.History); ok {
				r.History = items
			} else {
				r.Success = false
				r.Message = MsgHistoryFormat
			}
		}
		return r

	case ActionGetPaymentRequests, ActionGetSentRequests:
		r := RequestsReply{Status: st, Requests: []normalize.Record{}}
		if st.Success {
			if items, ok := list(env.Requests); ok {
				r.Requests = items
			} else if data, ok := object(env.Data); ok {
				if items, ok := data["requests"].([]any); ok {
					r.Requests = normalize.Records(items)
				}
			}
		}
		return r

	case ActionRequestPayment:
		r := RequestReply{Status: st}
		if st.Success {
			r.Request, _ = object(env.Request)
		}
		return r

	case ActionGetTransactions:
		r := TransactionsReply{Status: st, Transactions: []normalize.Record{}}
		if st.Success {
			if items, ok := list(env.Data); ok {
				r.Transactions = items
			}
		}
		return r

	case ActionGetAllUsers:
		r := UsersReply{Status: st, Users: []normalize.Record{}}
		if st.Success {
			if items, ok := list(env.Users); ok {
				r.Users = items
			} else {
				r.Success = false
				r.Message = MsgUsersFailed
			}
		}
		return r
	}

	return StatusReply{Status: st}
}

func failureMessage(action Action) string {
	switch action {
	case ActionGetHistory:
		return MsgHistoryFailed
	case ActionGetPaymentRequests, ActionGetSentRequests:
		return MsgRequestsFailed
	case ActionGetAllUsers:
		return MsgUsersFailed
	}
	return MsgActionFailed
}
