// Package normalize maps the inconsistent field names of remote replies onto
// one canonical record per entity. Every function here is total: a record
// missing all aliases of a field gets that field's default.
package normalize

import (
	"strings"
	"time"

	"github.com/honeynil/bankfront/internal/models"
	pkgerrors "github.com/honeynil/bankfront/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	missingDate      = "-"
	missingRequestID = "0"
)

var zonedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
}

var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006 15:04",
	"02/01/2006",
}

// Normalizer resolves timestamps without a zone in its location.
type Normalizer struct {
	loc *time.Location
}

func New(loc *time.Location) *Normalizer {
	if loc == nil {
		loc = time.UTC
	}
	return &Normalizer{loc: loc}
}

func (n *Normalizer) Location() *time.Location {
	return n.loc
}

// ParseTime accepts the timestamp shapes the API has been seen to emit.
func (n *Normalizer) ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == missingDate {
		return time.Time{}, false
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, n.loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (n *Normalizer) Transaction(r Record) models.Transaction {
	tx := models.Transaction{
		TransactionDate: r.FirstOr("", "transaction_date", "date", "created_at"),
		ActionType:      r.FirstOr("", "action_type", "type", "action"),
		Amount:          r.FirstOr("0", "amount", "sum"),
		Description:     r.FirstOr("", "description", "note"),
	}
	if at, ok := n.ParseTime(tx.TransactionDate); ok {
		tx.At = at
	}
	return tx
}

func (n *Normalizer) Transactions(rs []Record) []models.Transaction {
	out := make([]models.Transaction, 0, len(rs))
	for _, r := range rs {
		out = append(out, n.Transaction(r))
	}
	return out
}

// PaymentRequest normalizes one request. The counterparty is the requester
// for incoming requests and the recipient for sent ones.
func (n *Normalizer) PaymentRequest(r Record, dir models.Direction) models.PaymentRequest {
	status, ok := models.ParseRequestStatus(r.FirstOr("", "status"))
	if !ok {
		status = models.StatusPending
	}

	req := models.PaymentRequest{
		ID:        r.FirstOr(missingRequestID, "id", "request_id"),
		Status:    status,
		Date:      r.FirstOr(missingDate, "transaction_date", "date", "created_at", "request_date"),
		Amount:    Amount(r["amount"]),
		Direction: dir,
	}
	if dir == models.DirectionSent {
		req.Name = r.FirstOr("", "recipient_name", "to_user", "name")
		req.Phone = r.FirstOr("", "recipient_phone", "phone", "related_phone")
	} else {
		req.Direction = models.DirectionIncoming
		req.Name = r.FirstOr("", "requester_name", "from_user", "name")
		req.Phone = r.FirstOr("", "requester_phone", "phone", "related_phone")
	}
	if at, ok := n.ParseTime(req.Date); ok {
		req.At = at
	}
	return req
}

func (n *Normalizer) PaymentRequests(rs []Record, dir models.Direction) []models.PaymentRequest {
	out := make([]models.PaymentRequest, 0, len(rs))
	for _, r := range rs {
		out = append(out, n.PaymentRequest(r, dir))
	}
	return out
}

func AdminUser(r Record) models.AdminUser {
	role := models.Role(r.FirstOr(string(models.RoleUser), "role"))
	return models.AdminUser{
		Phone:     r.FirstOr("", "phone_number", "phone"),
		IDNum:     r.FirstOr("", "id_number", "id"),
		Balance:   r.FirstOr("0", "balance"),
		Role:      role,
		RoleLabel: role.Label(),
		Name:      r.FirstOr("", "name"),
	}
}

func AdminUsers(rs []Record) []models.AdminUser {
	out := make([]models.AdminUser, 0, len(rs))
	for _, r := range rs {
		out = append(out, AdminUser(r))
	}
	return out
}

// MergeUser overlays the profile fields of an authenticate reply onto the
// credentials the user signed in with. Credentials are never taken from r.
func MergeUser(creds models.User, r Record) models.User {
	if nested, ok := r.Object("user"); ok {
		r = nested
	}
	u := creds
	u.Name = r.FirstOr(creds.Name, "name")
	u.Balance = r.FirstOr(creds.Balance, "balance")
	u.Role = models.Role(r.FirstOr(string(roleOrDefault(creds.Role)), "role"))

	account := BankAccount(r, u.Name)
	if account != nil {
		u.Account = account
	} else if u.Account != nil {
		acc := *u.Account
		if acc.AccountOwner == "" {
			acc.AccountOwner = u.Name
		}
		u.Account = &acc
	}
	return u
}

// BankAccount reads the bank sub-record, or nil when r carries none of its
// fields. The owner defaults to the user's name.
func BankAccount(r Record, name string) *models.BankAccount {
	acc := models.BankAccount{
		BankNumber:    r.FirstOr("", "bank_number", "bankNumber"),
		BranchNumber:  r.FirstOr("", "branch_number", "branchNumber"),
		AccountNumber: r.FirstOr("", "account_number", "accountNumber"),
		AccountOwner:  r.FirstOr("", "account_owner", "accountOwner"),
	}
	if acc == (models.BankAccount{}) {
		return nil
	}
	if acc.AccountOwner == "" {
		acc.AccountOwner = name
	}
	return &acc
}

func roleOrDefault(r models.Role) models.Role {
	if r == "" {
		return models.RoleUser
	}
	return r
}

// Amount renders v as a number in shortest decimal form, or "0" when v is
// missing or not numeric.
func Amount(v any) string {
	s, ok := text(v)
	if !ok || s == "" {
		return "0"
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return "0"
	}
	return d.String()
}

// ParseAmount parses a user-entered amount and requires it to be positive.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || !d.IsPositive() {
		return decimal.Zero, pkgerrors.ErrInvalidAmount
	}
	return d, nil
}

// Decimal parses s for numeric comparison; anything unparsable is zero.
func Decimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}
