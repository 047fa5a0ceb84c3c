package bankapi

import (
	"bytes"
	"encoding/json"

	"github.com/honeynil/bankfront/internal/normalize"
)

const (
	MsgCommunicationError = "שגיאת תקשורת עם השרת."
	MsgHistoryFormat      = "המערכת לא זיהתה את מבנה נתוני ההיסטוריה."
	MsgHistoryFailed      = "שגיאה בטעינת היסטוריית פעולות."
	MsgRequestsFailed     = "שגיאה בטעינת הבקשות."
	MsgUsersFailed        = "שגיאה בטעינת המשתמשים."
	MsgActionFailed       = "הפעולה נכשלה."
)

// Envelope is the wire shape shared by every reply. Which of the optional
// fields is set depends on the action.
type Envelope struct {
	Success  bool            `json:"success"`
	Message  string          `json:"message"`
	Data     json.RawMessage `json:"data,omitempty"`
	Balance  json.RawMessage `json:"balance,omitempty"`
	History  json.RawMessage `json:"history,omitempty"`
	Requests json.RawMessage `json:"requests,omitempty"`
	Request  json.RawMessage `json:"request,omitempty"`
	Users    json.RawMessage `json:"users,omitempty"`
}

func communicationError() Envelope {
	return Envelope{Success: false, Message: MsgCommunicationError}
}

func decodeAny(raw json.RawMessage) (any, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil || v == nil {
		return nil, false
	}
	return v, true
}

// list returns the object items of raw when it is a JSON array.
func list(raw json.RawMessage) ([]normalize.Record, bool) {
	v, ok := decodeAny(raw)
	if !ok {
		return nil, false
	}
	items, ok := v.([]any)
	if !ok {
		return nil, false
	}
	return normalize.Records(items), true
}

func object(raw json.RawMessage) (normalize.Record, bool) {
	v, ok := decodeAny(raw)
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	return normalize.Record(m), true
}

// scalar returns raw as text when it is a string or a number.
func scalar(raw json.RawMessage) (string, bool) {
	v, ok := decodeAny(raw)
	if !ok {
		return "", false
	}
	return normalize.Record{"v": v}.First("v")
}
