package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/honeynil/bankfront/internal/infrastructure/auth"
	"github.com/honeynil/bankfront/internal/models"
	service "github.com/honeynil/bankfront/internal/services"
	"github.com/honeynil/bankfront/internal/session"
	pkgerrors "github.com/honeynil/bankfront/pkg/errors"
)

type Handler struct {
	service service.BankService
	loc     *time.Location
}

func NewHandler(s service.BankService, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{service: s, loc: loc}
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func (h *Handler) writeError(w http.ResponseWriter, status int, err error) {
	resp := errorResponse{Error: err.Error()}
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		resp.Fields = verr.Fields
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeOutcome answers 200 for both accepted and rejected actions; the
// success flag carries the remote verdict.
func (h *Handler) writeOutcome(w http.ResponseWriter, res service.Outcome, err error) {
	if err != nil {
		h.fail(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, pkgerrors.ErrNotAuthenticated):
		h.writeError(w, http.StatusUnauthorized, err)
	case errors.Is(err, pkgerrors.ErrForbidden):
		h.writeError(w, http.StatusForbidden, err)
	case errors.Is(err, pkgerrors.ErrRequestNotFound):
		h.writeError(w, http.StatusNotFound, err)
	case errors.Is(err, pkgerrors.ErrRequestNotPending):
		h.writeError(w, http.StatusConflict, err)
	case errors.Is(err, pkgerrors.ErrRequestNotIncoming):
		h.writeError(w, http.StatusUnprocessableEntity, err)
	case errors.Is(err, pkgerrors.ErrInvalidInput),
		errors.Is(err, pkgerrors.ErrInvalidAmount),
		errors.Is(err, pkgerrors.ErrMissingRecipient),
		errors.Is(err, pkgerrors.ErrMissingCredentials),
		errors.Is(err, pkgerrors.ErrInvalidFilter):
		h.writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, pkgerrors.ErrActivityDisabled):
		h.writeError(w, http.StatusServiceUnavailable, err)
	default:
		h.writeError(w, http.StatusInternalServerError, err)
	}
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, ok := auth.SessionFrom(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, pkgerrors.ErrNotAuthenticated)
		return nil, false
	}
	return sess, true
}

func (h *Handler) RegisterPublicRoutes(r *mux.Router) {
	r.HandleFunc("/healthz", h.Health).Methods("GET")
}

// RegisterSessionRoutes mounts the routes that need a browser session. The
// router must run auth.SessionMiddleware in front of them.
func (h *Handler) RegisterSessionRoutes(r *mux.Router) {
	r.HandleFunc("/login", h.Login).Methods("POST")
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.HandleFunc("/logout", h.Logout).Methods("POST")
	r.HandleFunc("/profile", h.Profile).Methods("GET")
	r.HandleFunc("/profile", h.UpdateProfile).Methods("PUT")
	r.HandleFunc("/balance", h.RefreshBalance).Methods("GET")
	r.HandleFunc("/deposit", h.Deposit).Methods("POST")
	r.HandleFunc("/withdraw", h.Withdraw).Methods("POST")
	r.HandleFunc("/transfer", h.Transfer).Methods("POST")
	r.HandleFunc("/history", h.History).Methods("GET")
	r.HandleFunc("/transactions", h.Transactions).Methods("GET")
	r.HandleFunc("/requests", h.RequestPayment).Methods("POST")
	r.HandleFunc("/requests/incoming", h.IncomingRequests).Methods("GET")
	r.HandleFunc("/requests/sent", h.SentRequests).Methods("GET")
	r.HandleFunc("/requests/{id}/approve", h.Approve).Methods("POST")
	r.HandleFunc("/requests/{id}/reject", h.Reject).Methods("POST")
	r.HandleFunc("/admin/users", h.Users).Methods("GET")
	r.HandleFunc("/activity", h.Activity).Methods("GET")
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type credentialsRequest struct {
	Phone  string `json:"phone"`
	IDNum  string `json:"idNum"`
	Secret string `json:"secret"`
}

type registerRequest struct {
	credentialsRequest
	Name    string              `json:"name"`
	Account *models.BankAccount `json:"bank_account"`
}

type amountRequest struct {
	Amount json.Number `json:"amount"`
}

type moveRequest struct {
	Recipient string      `json:"recipient"`
	Amount    json.Number `json:"amount"`
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Errorf("%w: %v", pkgerrors.ErrInvalidInput, err))
		return false
	}
	return true
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req credentialsRequest
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.service.Login(r.Context(), sess, models.User{Phone: req.Phone, IDNum: req.IDNum, Secret: req.Secret})
	h.writeOutcome(w, res, err)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req registerRequest
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.service.Register(r.Context(), sess, models.User{
		Phone:   req.Phone,
		IDNum:   req.IDNum,
		Secret:  req.Secret,
		Name:    req.Name,
		Account: req.Account,
	})
	if err == nil && res.Success {
		h.writeJSON(w, http.StatusCreated, res)
		return
	}
	h.writeOutcome(w, res, err)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := h.service.Logout(r.Context(), sess); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	p, err := h.service.Profile(sess)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, p)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var patch service.ProfilePatch
	if !h.decode(w, r, &patch) {
		return
	}
	res, err := h.service.UpdateProfile(r.Context(), sess, patch)
	h.writeOutcome(w, res, err)
}

func (h *Handler) RefreshBalance(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	res, err := h.service.RefreshBalance(r.Context(), sess)
	if err != nil {
		h.fail(w, err)
		return
	}
	p, _ := h.service.Profile(sess)
	h.writeJSON(w, http.StatusOK, map[string]any{
		"success": res.Success,
		"message": res.Message,
		"balance": p.Balance,
	})
}

func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req amountRequest
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.service.Deposit(r.Context(), sess, req.Amount.String())
	h.writeOutcome(w, res, err)
}

func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req amountRequest
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.service.Withdraw(r.Context(), sess, req.Amount.String())
	h.writeOutcome(w, res, err)
}

func (h *Handler) Transfer(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req moveRequest
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.service.Transfer(r.Context(), sess, req.Recipient, req.Amount.String())
	h.writeOutcome(w, res, err)
}

func (h *Handler) RequestPayment(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req moveRequest
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.service.RequestPayment(r.Context(), sess, req.Recipient, req.Amount.String())
	h.writeOutcome(w, res, err)
}

func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, true)
}

func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, false)
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, approve bool) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	res, err := h.service.Respond(r.Context(), sess, mux.Vars(r)["id"], approve)
	h.writeOutcome(w, res, err)
}

func (h *Handler) listQuery(r *http.Request) (service.ListQuery, error) {
	return service.ParseListQuery(r.URL.Query(), h.loc)
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	q, err := h.listQuery(r)
	if err != nil {
		h.fail(w, err)
		return
	}
	snap, err := h.service.History(r.Context(), sess, q)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) Transactions(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	q, err := h.listQuery(r)
	if err != nil {
		h.fail(w, err)
		return
	}
	snap, err := h.service.Transactions(r.Context(), sess, q)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) IncomingRequests(w http.ResponseWriter, r *http.Request) {
	h.requests(w, r, h.service.IncomingRequests)
}

func (h *Handler) SentRequests(w http.ResponseWriter, r *http.Request) {
	h.requests(w, r, h.service.SentRequests)
}

type requestsFunc func(ctx context.Context, sess *session.Session, q service.ListQuery, status string) (service.RequestsPage, error)

func (h *Handler) requests(w http.ResponseWriter, r *http.Request, list requestsFunc) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	q, err := h.listQuery(r)
	if err != nil {
		h.fail(w, err)
		return
	}
	page, err := list(r.Context(), sess, q, r.URL.Query().Get("status"))
	if err != nil {
		h.fail(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, page)
}

func (h *Handler) Users(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	q, err := h.listQuery(r)
	if err != nil {
		h.fail(w, err)
		return
	}
	snap, err := h.service.Users(r.Context(), sess, q)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) Activity(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			h.writeError(w, http.StatusBadRequest, fmt.Errorf("%w: limit must be a non-negative integer", pkgerrors.ErrInvalidInput))
			return
		}
		limit = n
	}
	items, err := h.service.Activity(r.Context(), sess, limit)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"activity": items})
}
