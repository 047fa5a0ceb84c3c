package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Transaction is a read-only history row. The four string fields keep the
// text the server sent; At is the parsed TransactionDate, zero when the date
// could not be parsed.
type Transaction struct {
	TransactionDate string    `json:"transaction_date"`
	ActionType      string    `json:"action_type"`
	Amount          string    `json:"amount"`
	Description     string    `json:"description"`
	At              time.Time `json:"-"`
}

type ActionKind string

const (
	ActionDeposit  ActionKind = "deposit"
	ActionWithdraw ActionKind = "withdraw"
	ActionTransfer ActionKind = "transfer"
	ActionReceived ActionKind = "received"
	ActionPayment  ActionKind = "payment"
	ActionOther    ActionKind = "other"
)

var actionLabels = map[ActionKind]string{
	ActionDeposit:  "הפקדה",
	ActionWithdraw: "משיכה",
	ActionTransfer: "העברה",
	ActionReceived: "התקבל",
	ActionPayment:  "תשלום",
}

// ClassifyAction maps a free-text action tag onto a known kind by keyword.
// "received" is checked first so that "transfer_received" counts as incoming.
func ClassifyAction(actionType string) ActionKind {
	a := strings.ToLower(actionType)
	switch {
	case strings.Contains(a, "received"):
		return ActionReceived
	case strings.Contains(a, "deposit"):
		return ActionDeposit
	case strings.Contains(a, "withdraw"):
		return ActionWithdraw
	case strings.Contains(a, "payment"):
		return ActionPayment
	case strings.Contains(a, "transfer"):
		return ActionTransfer
	default:
		return ActionOther
	}
}

func (t Transaction) Kind() ActionKind {
	return ClassifyAction(t.ActionType)
}

// IsCredit reports whether the row added money to the account.
func (t Transaction) IsCredit() bool {
	k := t.Kind()
	return k == ActionDeposit || k == ActionReceived
}

func (t Transaction) Label() string {
	if label, ok := actionLabels[t.Kind()]; ok {
		return label
	}
	return t.ActionType
}

func (t Transaction) SignedAmount() string {
	if t.IsCredit() {
		return "+ " + t.Amount
	}
	return "- " + t.Amount
}

func (t Transaction) MarshalJSON() ([]byte, error) {
	type row Transaction
	return json.Marshal(struct {
		row
		ActionLabel  string `json:"action_label"`
		Credit       bool   `json:"credit"`
		SignedAmount string `json:"signed_amount"`
	}{row(t), t.Label(), t.IsCredit(), t.SignedAmount()})
}
