package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/honeynil/bankfront/internal/handler"
	"github.com/honeynil/bankfront/internal/infrastructure/auth"
	"github.com/honeynil/bankfront/internal/infrastructure/bankapi/mocks"
	"github.com/honeynil/bankfront/internal/normalize"
	service "github.com/honeynil/bankfront/internal/services"
	"github.com/honeynil/bankfront/internal/session"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupRouter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := service.NewBankService(mocks.NewMockAPI(ctrl), normalize.New(time.UTC), nil, nil)
	sessions := session.NewManager(func(string) session.Store { return session.NewMemoryStore() }, time.Hour)
	issuer, err := auth.NewIssuer("secret", time.Hour)
	require.NoError(t, err)
	r := SetupRouter(handler.NewHandler(svc, time.UTC), issuer, sessions)

	serve := func(method, path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
		return w
	}

	w := serve(http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Result().Cookies())

	w = serve(http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(http.MethodGet, "/profile")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Len(t, w.Result().Cookies(), 1)

	before := approveCount(t)
	w = serve(http.MethodPost, "/requests/42/approve")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, before+1, approveCount(t))
}

func approveCount(t *testing.T) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, RequestCounter.WithLabelValues(http.MethodPost, "/requests/{id}/approve", "401").Write(&m))
	return m.GetCounter().GetValue()
}
