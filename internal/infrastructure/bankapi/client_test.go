package bankapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/honeynil/bankfront/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUser = models.User{Phone: "0501234567", IDNum: "123456789", Secret: "1234"}

// fakeBank answers with body and records the last request.
type fakeBank struct {
	status int
	body   string
	path   string
	query  url.Values
}

func (f *fakeBank) server(t *testing.T) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.path = r.URL.Path
		f.query = r.URL.Query()
		if f.status != 0 {
			w.WriteHeader(f.status)
		}
		w.Write([]byte(f.body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_TransportFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("connection refused", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()
		c := NewClient(srv.URL, time.Second)

		r := c.CheckBalance(ctx, testUser)
		assert.False(t, r.OK())
		assert.Equal(t, MsgCommunicationError, r.Text())
	})

	t.Run("non-2xx", func(t *testing.T) {
		f := &fakeBank{status: http.StatusInternalServerError, body: `{"success":true,"message":"ok"}`}
		c := NewClient(f.server(t).URL, time.Second)

		r := c.Deposit(ctx, testUser, decimal.NewFromInt(5))
		assert.False(t, r.Success)
		assert.Equal(t, MsgCommunicationError, r.Message)
	})

	t.Run("malformed body", func(t *testing.T) {
		f := &fakeBank{body: `<html>oops</html>`}
		c := NewClient(f.server(t).URL, time.Second)

		r := c.History(ctx, testUser)
		assert.False(t, r.Success)
		assert.Equal(t, MsgCommunicationError, r.Message)
		assert.Empty(t, r.History)
	})

	t.Run("timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		t.Cleanup(srv.Close)
		c := NewClient(srv.URL, 20*time.Millisecond)

		r := c.Authenticate(ctx, testUser)
		assert.Equal(t, MsgCommunicationError, r.Message)
	})
}

func TestClient_SendsActionAndCredentials(t *testing.T) {
	f := &fakeBank{body: `{"success":true,"message":"הועבר"}`}
	c := NewClient(f.server(t).URL+"/", time.Second)

	r := c.Transfer(context.Background(), testUser, "0509999999", decimal.RequireFromString("12.50"))
	require.True(t, r.OK())
	assert.Equal(t, "הועבר", r.Text())
	assert.Equal(t, ActionTransfer, r.Action())

	assert.Equal(t, "/api/web", f.path)
	assert.Equal(t, "transfer", f.query.Get("action"))
	assert.Equal(t, "0501234567", f.query.Get("phone_number"))
	assert.Equal(t, "123456789", f.query.Get("id_number"))
	assert.Equal(t, "1234", f.query.Get("secret_code"))
	assert.Equal(t, "0509999999", f.query.Get("recipient_phone"))
	assert.Equal(t, "12.5", f.query.Get("amount"))
}

func TestClient_BusinessRejectionVerbatim(t *testing.T) {
	f := &fakeBank{body: `{"success":false,"message":"קוד סודי שגוי"}`}
	c := NewClient(f.server(t).URL, time.Second)

	r := c.History(context.Background(), testUser)
	assert.False(t, r.Success)
	assert.Equal(t, "קוד סודי שגוי", r.Message)
	assert.Empty(t, r.History)
}

func TestClient_RespondToRequest(t *testing.T) {
	f := &fakeBank{body: `{"success":true,"message":""}`}
	c := NewClient(f.server(t).URL, time.Second)

	c.RespondToRequest(context.Background(), testUser, "42", true)
	assert.Equal(t, "approve_payment", f.query.Get("action"))
	assert.Equal(t, "42", f.query.Get("request_id"))

	c.RespondToRequest(context.Background(), testUser, "42", false)
	assert.Equal(t, "reject_payment", f.query.Get("action"))
}

func TestClient_OpenAccountSendsProfile(t *testing.T) {
	f := &fakeBank{body: `{"success":true,"message":"נפתח"}`}
	c := NewClient(f.server(t).URL, time.Second)

	u := testUser
	u.Name = "Dana"
	u.Account = &models.BankAccount{BankNumber: "12", BranchNumber: "345", AccountNumber: "678"}
	r := c.OpenAccount(context.Background(), u)
	require.True(t, r.OK())
	assert.Equal(t, "open_account", f.query.Get("action"))
	assert.Equal(t, "Dana", f.query.Get("name"))
	assert.Equal(t, "12", f.query.Get("bank_number"))
	assert.Equal(t, "345", f.query.Get("branch_number"))
	assert.Equal(t, "678", f.query.Get("account_number"))
}

func TestClient_AllUsers(t *testing.T) {
	f := &fakeBank{body: `{"success":true,"message":"","users":[{"phone_number":"050","name":"A","role":"admin","balance":10}]}`}
	c := NewClient(f.server(t).URL, time.Second)

	r := c.AllUsers(context.Background(), testUser)
	require.True(t, r.Success)
	require.Len(t, r.Users, 1)
	assert.Equal(t, "/api/admin/get_all_users", f.path)
	assert.Equal(t, "0501234567", f.query.Get("phone_number"))
	assert.Equal(t, "1234", f.query.Get("secret_code"))
	assert.False(t, f.query.Has("id_number"))
	assert.False(t, f.query.Has("action"))
	assert.Equal(t, "10", r.Users[0].FirstOr("", "balance"))
}

func TestClient_BalanceAndRequests(t *testing.T) {
	ctx := context.Background()

	t.Run("numeric balance", func(t *testing.T) {
		f := &fakeBank{body: `{"success":true,"message":"","balance":1500.75}`}
		r := NewClient(f.server(t).URL, time.Second).CheckBalance(ctx, testUser)
		assert.Equal(t, "1500.75", r.Balance)
	})

	t.Run("requests nested in data", func(t *testing.T) {
		f := &fakeBank{body: `{"success":true,"message":"","data":{"requests":[{"id":1},{"id":2},"junk"]}}`}
		r := NewClient(f.server(t).URL, time.Second).SentPaymentRequests(ctx, testUser)
		require.True(t, r.Success)
		assert.Len(t, r.Requests, 2)
		assert.Equal(t, "get_sent_payment_requests", f.query.Get("action"))
	})

	t.Run("created request", func(t *testing.T) {
		f := &fakeBank{body: `{"success":true,"message":"נשלח","request":{"id":9,"recipient_phone":"052","amount":"30"}}`}
		r := NewClient(f.server(t).URL, time.Second).RequestPayment(ctx, testUser, "052", decimal.NewFromInt(30))
		require.True(t, r.Success)
		assert.Equal(t, "9", r.Request.FirstOr("", "id"))
	})
}
