package models

import "time"

type ActivityType string

const (
	ActivityLogin          ActivityType = "login"
	ActivityRegister       ActivityType = "register"
	ActivityLogout         ActivityType = "logout"
	ActivityProfileUpdate  ActivityType = "profile_update"
	ActivityDeposit        ActivityType = "deposit"
	ActivityWithdraw       ActivityType = "withdraw"
	ActivityTransfer       ActivityType = "transfer"
	ActivityRequestPayment ActivityType = "request_payment"
	ActivityApprove        ActivityType = "approve_payment"
	ActivityReject         ActivityType = "reject_payment"
)

func (t ActivityType) Valid() bool {
	switch t {
	case ActivityLogin, ActivityRegister, ActivityLogout, ActivityProfileUpdate,
		ActivityDeposit, ActivityWithdraw, ActivityTransfer, ActivityRequestPayment,
		ActivityApprove, ActivityReject:
		return true
	}
	return false
}

// Activity is one audited user action as published on the activity topic.
type Activity struct {
	ID           string       `json:"id"`
	Phone        string       `json:"phone"`
	Type         ActivityType `json:"type"`
	Amount       string       `json:"amount,omitempty"`
	Counterparty string       `json:"counterparty,omitempty"`
	RequestID    string       `json:"request_id,omitempty"`
	Success      bool         `json:"success"`
	Message      string       `json:"message,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}
