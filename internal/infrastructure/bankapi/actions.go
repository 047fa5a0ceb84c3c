package bankapi

import (
	"context"
	"net/url"

	"github.com/honeynil/bankfront/internal/models"
	"github.com/shopspring/decimal"
)

// API defines the remote operations used by the service layer.
//go:generate mockgen -destination=mocks/mock_api.go -package=mocks . API

type API interface {
	OpenAccount(ctx context.Context, u models.User) StatusReply
	Authenticate(ctx context.Context, u models.User) AuthReply
	UpdateUser(ctx context.Context, u models.User) StatusReply
	CheckBalance(ctx context.Context, u models.User) BalanceReply
	Deposit(ctx context.Context, u models.User, amount decimal.Decimal) StatusReply
	Withdraw(ctx context.Context, u models.User, amount decimal.Decimal) StatusReply
	Transfer(ctx context.Context, u models.User, recipientPhone string, amount decimal.Decimal) StatusReply
	RequestPayment(ctx context.Context, u models.User, recipientPhone string, amount decimal.Decimal) RequestReply
	RespondToRequest(ctx context.Context, u models.User, requestID string, approve bool) StatusReply
	History(ctx context.Context, u models.User) HistoryReply
	PaymentRequests(ctx context.Context, u models.User) RequestsReply
	SentPaymentRequests(ctx context.Context, u models.User) RequestsReply
	Transactions(ctx context.Context, u models.User) TransactionsReply
	AllUsers(ctx context.Context, u models.User) UsersReply
}

var _ API = (*Client)(nil)

func credentials(u models.User) url.Values {
	return url.Values{
		"phone_number": {u.Phone},
		"id_number":    {u.IDNum},
		"secret_code":  {u.Secret},
	}
}

func setProfile(params url.Values, u models.User) {
	if u.Name != "" {
		params.Set("name", u.Name)
	}
	if u.Account == nil {
		return
	}
	params.Set("bank_number", u.Account.BankNumber)
	params.Set("branch_number", u.Account.BranchNumber)
	params.Set("account_number", u.Account.AccountNumber)
	if u.Account.AccountOwner != "" {
		params.Set("account_owner", u.Account.AccountOwner)
	}
}

func (c *Client) OpenAccount(ctx context.Context, u models.User) StatusReply {
	params := credentials(u)
	setProfile(params, u)
	return c.Call(ctx, ActionOpenAccount, params).(StatusReply)
}

func (c *Client) Authenticate(ctx context.Context, u models.User) AuthReply {
	return c.Call(ctx, ActionAuthenticate, credentials(u)).(AuthReply)
}

func (c *Client) UpdateUser(ctx context.Context, u models.User) StatusReply {
	params := credentials(u)
	setProfile(params, u)
	return c.Call(ctx, ActionUpdateUser, params).(StatusReply)
}

func (c *Client) CheckBalance(ctx context.Context, u models.User) BalanceReply {
	return c.Call(ctx, ActionCheckBalance, credentials(u)).(BalanceReply)
}

func (c *Client) Deposit(ctx context.Context, u models.User, amount decimal.Decimal) StatusReply {
	params := credentials(u)
	params.Set("amount", amount.String())
	return c.Call(ctx, ActionDeposit, params).(StatusReply)
}

func (c *Client) Withdraw(ctx context.Context, u models.User, amount decimal.Decimal) StatusReply {
	params := credentials(u)
	params.Set("amount", amount.String())
	return c.Call(ctx, ActionWithdraw, params).(StatusReply)
}

func (c *Client) Transfer(ctx context.Context, u models.User, recipientPhone string, amount decimal.Decimal) StatusReply {
	params := credentials(u)
	params.Set("recipient_phone", recipientPhone)
	params.Set("amount", amount.String())
	return c.Call(ctx, ActionTransfer, params).(StatusReply)
}

func (c *Client) RequestPayment(ctx context.Context, u models.User, recipientPhone string, amount decimal.Decimal) RequestReply {
	params := credentials(u)
	params.Set("recipient_phone", recipientPhone)
	params.Set("amount", amount.String())
	return c.Call(ctx, ActionRequestPayment, params).(RequestReply)
}

func (c *Client) RespondToRequest(ctx context.Context, u models.User, requestID string, approve bool) StatusReply {
	action := ActionRejectPayment
	if approve {
		action = ActionApprovePayment
	}
	params := credentials(u)
	params.Set("request_id", requestID)
	return c.Call(ctx, action, params).(StatusReply)
}

func (c *Client) History(ctx context.Context, u models.User) HistoryReply {
	return c.Call(ctx, ActionGetHistory, credentials(u)).(HistoryReply)
}

func (c *Client) PaymentRequests(ctx context.Context, u models.User) RequestsReply {
	return c.Call(ctx, ActionGetPaymentRequests, credentials(u)).(RequestsReply)
}

func (c *Client) SentPaymentRequests(ctx context.Context, u models.User) RequestsReply {
	return c.Call(ctx, ActionGetSentRequests, credentials(u)).(RequestsReply)
}

func (c *Client) Transactions(ctx context.Context, u models.User) TransactionsReply {
	return c.Call(ctx, ActionGetTransactions, credentials(u)).(TransactionsReply)
}

// AllUsers calls the admin listing, which authenticates with phone and
// secret code only.
func (c *Client) AllUsers(ctx context.Context, u models.User) UsersReply {
	params := url.Values{
		"phone_number": {u.Phone},
		"secret_code":  {u.Secret},
	}
	return Decode(ActionGetAllUsers, c.call(ctx, adminPath, ActionGetAllUsers, params)).(UsersReply)
}
