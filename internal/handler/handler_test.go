package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/gorilla/mux"
	"github.com/honeynil/bankfront/internal/handler"
	"github.com/honeynil/bankfront/internal/infrastructure/auth"
	"github.com/honeynil/bankfront/internal/infrastructure/bankapi"
	"github.com/honeynil/bankfront/internal/infrastructure/bankapi/mocks"
	"github.com/honeynil/bankfront/internal/normalize"
	service "github.com/honeynil/bankfront/internal/services"
	"github.com/honeynil/bankfront/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	api    *mocks.MockAPI
	router *mux.Router
	cookie *http.Cookie
}

func newTestServer(t *testing.T) *testServer {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	api := mocks.NewMockAPI(ctrl)
	svc := service.NewBankService(api, normalize.New(time.UTC), nil, nil)
	sessions := session.NewManager(func(string) session.Store { return session.NewMemoryStore() }, time.Hour)
	issuer, err := auth.NewIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	h := handler.NewHandler(svc, time.UTC)
	r := mux.NewRouter()
	h.RegisterPublicRoutes(r)
	sub := r.PathPrefix("/").Subrouter()
	sub.Use(auth.SessionMiddleware(issuer, sessions))
	h.RegisterSessionRoutes(sub)

	return &testServer{api: api, router: r}
}

// do sends a request with the session cookie of earlier calls, picking up a
// new one when the server sets it.
func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if s.cookie != nil {
		req.AddCookie(s.cookie)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.CookieName {
			s.cookie = c
		}
	}
	return w
}

func (s *testServer) login(t *testing.T, role string) {
	t.Helper()
	s.api.EXPECT().Authenticate(gomock.Any(), gomock.Any()).
		Return(bankapi.AuthReply{Status: bankapi.Status{Success: true}, Profile: normalize.Record{"name": "Dana", "role": role, "balance": "100"}})
	w := s.do(t, http.MethodPost, "/login", `{"phone":"0501234567","idNum":"123456789","secret":"1234"}`)
	require.Equal(t, http.StatusOK, w.Code)
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, s.cookie)
}

func TestLoginAndProfile(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/profile", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	require.NotNil(t, s.cookie)
	first := s.cookie.Value

	s.login(t, "admin")
	assert.Equal(t, first, s.cookie.Value)

	w = s.do(t, http.MethodGet, "/profile", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Dana", body["name"])
	assert.Equal(t, "מנהל", body["role_label"])
	assert.NotContains(t, w.Body.String(), "1234\"")
}

func TestLoginRejected(t *testing.T) {
	s := newTestServer(t)
	s.api.EXPECT().Authenticate(gomock.Any(), gomock.Any()).
		Return(bankapi.AuthReply{Status: bankapi.Status{Success: false, Message: "קוד סודי שגוי"}})

	w := s.do(t, http.MethodPost, "/login", `{"phone":"0501234567","idNum":"123456789","secret":"0000"}`)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "קוד סודי שגוי", body["message"])

	w = s.do(t, http.MethodGet, "/profile", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginBadRequests(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/login", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/login", `{"phone":"0501234567"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodPost, "/register", `{"phone":"12","idNum":"123456789","secret":"1234","name":"Dana"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decodeBody(t, w)
	fields, ok := body["fields"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "טלפון לא תקין", fields["phone"])
	assert.Contains(t, fields, "accountNumber")
}

func TestRegisterCreated(t *testing.T) {
	s := newTestServer(t)
	s.api.EXPECT().OpenAccount(gomock.Any(), gomock.Any()).Return(bankapi.StatusReply{Status: bankapi.Status{Success: true}})

	w := s.do(t, http.MethodPost, "/register", `{
		"phone":"0501234567","idNum":"123456789","secret":"1234","name":"Dana",
		"bank_account":{"bank_number":"12","branch_number":"345","account_number":"678901"}
	}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, service.MsgAccountOpened, decodeBody(t, w)["message"])
}

func TestMoneyRoutes(t *testing.T) {
	s := newTestServer(t)
	s.login(t, "user")

	w := s.do(t, http.MethodPost, "/deposit", `{"amount":-5}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/transfer", `{"amount":10}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	s.api.EXPECT().Withdraw(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(bankapi.StatusReply{Status: bankapi.Status{Success: false, Message: "אין מספיק כסף"}})
	w = s.do(t, http.MethodPost, "/withdraw", `{"amount":"500"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "אין מספיק כסף", decodeBody(t, w)["message"])
}

func TestBalance(t *testing.T) {
	s := newTestServer(t)
	s.login(t, "user")
	s.api.EXPECT().CheckBalance(gomock.Any(), gomock.Any()).
		Return(bankapi.BalanceReply{Status: bankapi.Status{Success: true}, Balance: "320.00"})

	w := s.do(t, http.MethodGet, "/balance", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "320", decodeBody(t, w)["balance"])
}

func TestHistoryQuery(t *testing.T) {
	s := newTestServer(t)
	s.login(t, "user")

	w := s.do(t, http.MethodGet, "/history?filter=yesterday", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/history?filter=custom&start=2024-13-01", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/history?sort=amount&dir=sideways", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	s.api.EXPECT().History(gomock.Any(), gomock.Any()).Return(bankapi.HistoryReply{
		Status: bankapi.Status{Success: true},
		History: []normalize.Record{
			{"transaction_date": "2024-05-01 10:00:00", "action_type": "deposit", "amount": "50"},
			{"transaction_date": "2024-05-03 10:00:00", "action_type": "withdraw", "amount": "20"},
		},
	})
	w = s.do(t, http.MethodGet, "/history?filter=custom&start=2024-05-01&end=2024-05-02&sort=amount&dir=asc", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	rows, ok := body["rows"].([]any)
	require.True(t, ok)
	require.Len(t, rows, 1)
	assert.Equal(t, "data", body["display"])
	row := rows[0].(map[string]any)
	assert.Equal(t, "הפקדה", row["action_label"])
	assert.Equal(t, "+ 50", row["signed_amount"])

	w = s.do(t, http.MethodGet, "/history?dir=sideways", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	s.api.EXPECT().History(gomock.Any(), gomock.Any()).Return(bankapi.HistoryReply{
		Status: bankapi.Status{Success: true},
		History: []normalize.Record{
			{"transaction_date": "2024-05-01 10:00:00", "action_type": "deposit", "amount": "50"},
			{"transaction_date": "2024-05-03 10:00:00", "action_type": "withdraw", "amount": "20"},
		},
	})
	w = s.do(t, http.MethodGet, "/history?dir=desc", "")
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Equal(t, map[string]any{"column": "amount", "direction": "desc"}, body["sort"])
	rows = body["rows"].([]any)
	require.Len(t, rows, 2)
	assert.Equal(t, "50", rows[0].(map[string]any)["amount"])
}

func TestRespondRoutes(t *testing.T) {
	s := newTestServer(t)
	s.login(t, "user")

	s.api.EXPECT().PaymentRequests(gomock.Any(), gomock.Any()).Return(bankapi.RequestsReply{
		Status: bankapi.Status{Success: true},
		Requests: []normalize.Record{
			{"id": "7", "requester_phone": "0527654321", "amount": "30", "status": "approved", "created_at": "2024-05-01 09:00:00"},
		},
	})

	w := s.do(t, http.MethodPost, "/requests/7/approve", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	s.api.EXPECT().PaymentRequests(gomock.Any(), gomock.Any()).Return(bankapi.RequestsReply{Status: bankapi.Status{Success: true}})
	w = s.do(t, http.MethodPost, "/requests/99/reject", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRespondUpdatesRowActions(t *testing.T) {
	s := newTestServer(t)
	s.login(t, "user")

	s.api.EXPECT().PaymentRequests(gomock.Any(), gomock.Any()).Return(bankapi.RequestsReply{
		Status: bankapi.Status{Success: true},
		Requests: []normalize.Record{
			{"id": "7", "requester_name": "Noa", "requester_phone": "0527654321", "amount": "30", "status": "pending", "created_at": "2024-05-01 09:00:00"},
		},
	})
	w := s.do(t, http.MethodGet, "/requests/incoming", "")
	require.Equal(t, http.StatusOK, w.Code)
	row := firstRow(t, w)
	assert.Equal(t, true, row["actionable"])
	assert.Equal(t, []any{"approve", "reject"}, row["actions"])
	assert.Equal(t, "ממתין", row["status_label"])

	s.api.EXPECT().RespondToRequest(gomock.Any(), gomock.Any(), "7", true).
		Return(bankapi.StatusReply{Status: bankapi.Status{Success: true}})
	w = s.do(t, http.MethodPost, "/requests/7/approve", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/requests/incoming", "")
	require.Equal(t, http.StatusOK, w.Code)
	row = firstRow(t, w)
	assert.Equal(t, "approved", row["status"])
	assert.Equal(t, false, row["actionable"])
	assert.Equal(t, []any{}, row["actions"])
}

func TestRespondKeepsDateRange(t *testing.T) {
	s := newTestServer(t)
	s.login(t, "user")

	s.api.EXPECT().PaymentRequests(gomock.Any(), gomock.Any()).Return(bankapi.RequestsReply{Status: bankapi.Status{Success: true}})
	w := s.do(t, http.MethodGet, "/requests/incoming?filter=custom&start=2024-05-01&end=2024-05-02", "")
	require.Equal(t, http.StatusOK, w.Code)

	s.api.EXPECT().PaymentRequests(gomock.Any(), gomock.Any()).Return(bankapi.RequestsReply{
		Status: bankapi.Status{Success: true},
		Requests: []normalize.Record{
			{"id": "8", "requester_phone": "0527654321", "amount": "10", "status": "pending", "created_at": "2024-06-01 09:00:00"},
		},
	})
	s.api.EXPECT().RespondToRequest(gomock.Any(), gomock.Any(), "8", false).
		Return(bankapi.StatusReply{Status: bankapi.Status{Success: true}})
	w = s.do(t, http.MethodPost, "/requests/8/reject", "")
	require.Equal(t, http.StatusOK, w.Code)

	// Same range as before, so no refetch; the June row stays filtered out.
	w = s.do(t, http.MethodGet, "/requests/incoming?filter=custom&start=2024-05-01&end=2024-05-02", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "custom", body["filter"])
	assert.Equal(t, "empty", body["display"])
}

func firstRow(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	rows, ok := decodeBody(t, w)["rows"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, rows)
	row, ok := rows[0].(map[string]any)
	require.True(t, ok)
	return row
}

func TestIncomingStatusFilter(t *testing.T) {
	s := newTestServer(t)
	s.login(t, "user")

	w := s.do(t, http.MethodGet, "/requests/incoming?status=maybe", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminAndActivity(t *testing.T) {
	s := newTestServer(t)
	s.login(t, "user")

	w := s.do(t, http.MethodGet, "/admin/users", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodGet, "/activity", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = s.do(t, http.MethodGet, "/activity?limit=-1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogout(t *testing.T) {
	s := newTestServer(t)
	s.login(t, "user")

	w := s.do(t, http.MethodPost, "/logout", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, http.MethodGet, "/profile", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
