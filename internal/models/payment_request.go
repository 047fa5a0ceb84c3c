package models

import (
	"encoding/json"
	"time"
)

type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
)

var statusLabels = map[RequestStatus]string{
	StatusPending:  "ממתין",
	StatusApproved: "אושר",
	StatusRejected: "נדחה",
}

func ParseRequestStatus(s string) (RequestStatus, bool) {
	switch RequestStatus(s) {
	case StatusPending, StatusApproved, StatusRejected:
		return RequestStatus(s), true
	}
	return "", false
}

func (s RequestStatus) Label() string {
	return statusLabels[s]
}

// Direction tells whose perspective a request is seen from: incoming requests
// name the requester, sent requests name the recipient.
type Direction string

const (
	DirectionIncoming Direction = "incoming"
	DirectionSent     Direction = "sent"
)

type PaymentRequest struct {
	ID        string        `json:"id"`
	Status    RequestStatus `json:"status"`
	Date      string        `json:"date"`
	Name      string        `json:"name"`
	Phone     string        `json:"phone"`
	Amount    string        `json:"amount"`
	Direction Direction     `json:"direction"`
	At        time.Time     `json:"-"`
}

// Actionable reports whether approve/reject may be offered for the request.
func (r PaymentRequest) Actionable() bool {
	return r.Direction == DirectionIncoming && r.Status == StatusPending
}

const (
	RequestActionApprove = "approve"
	RequestActionReject  = "reject"
)

// Actions lists what a page may offer for the row.
func (r PaymentRequest) Actions() []string {
	if !r.Actionable() {
		return []string{}
	}
	return []string{RequestActionApprove, RequestActionReject}
}

func (r PaymentRequest) MarshalJSON() ([]byte, error) {
	type row PaymentRequest
	return json.Marshal(struct {
		row
		StatusLabel string   `json:"status_label"`
		Actionable  bool     `json:"actionable"`
		Actions     []string `json:"actions"`
	}{row(r), r.Status.Label(), r.Actionable(), r.Actions()})
}
