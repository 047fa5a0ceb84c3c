package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/honeynil/bankfront/internal/infrastructure/bankapi"
	"github.com/honeynil/bankfront/internal/infrastructure/kafka"
	"github.com/honeynil/bankfront/internal/infrastructure/observability"
	"github.com/honeynil/bankfront/internal/models"
	"github.com/honeynil/bankfront/internal/normalize"
	"github.com/honeynil/bankfront/internal/pipeline"
	"github.com/honeynil/bankfront/internal/repository"
	"github.com/honeynil/bankfront/internal/session"
	"github.com/honeynil/bankfront/internal/view"
	pkgerrors "github.com/honeynil/bankfront/pkg/errors"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// BankService runs every user action against the remote bank. Business
// rejections come back as an unsuccessful Outcome; a returned error means the
// action was refused locally (not signed in, bad input, failing session store).
type BankService interface {
	Register(ctx context.Context, sess *session.Session, u models.User) (Outcome, error)
	Login(ctx context.Context, sess *session.Session, creds models.User) (Outcome, error)
	Logout(ctx context.Context, sess *session.Session) error
	Profile(sess *session.Session) (models.Profile, error)
	UpdateProfile(ctx context.Context, sess *session.Session, patch ProfilePatch) (Outcome, error)
	RefreshBalance(ctx context.Context, sess *session.Session) (Outcome, error)
	Deposit(ctx context.Context, sess *session.Session, amount string) (Outcome, error)
	Withdraw(ctx context.Context, sess *session.Session, amount string) (Outcome, error)
	Transfer(ctx context.Context, sess *session.Session, recipient, amount string) (Outcome, error)
	RequestPayment(ctx context.Context, sess *session.Session, recipient, amount string) (Outcome, error)
	Respond(ctx context.Context, sess *session.Session, requestID string, approve bool) (Outcome, error)
	History(ctx context.Context, sess *session.Session, q ListQuery) (view.Snapshot[models.Transaction], error)
	Transactions(ctx context.Context, sess *session.Session, q ListQuery) (view.Snapshot[models.Transaction], error)
	IncomingRequests(ctx context.Context, sess *session.Session, q ListQuery, status string) (RequestsPage, error)
	SentRequests(ctx context.Context, sess *session.Session, q ListQuery, status string) (RequestsPage, error)
	Users(ctx context.Context, sess *session.Session, q ListQuery) (view.Snapshot[models.AdminUser], error)
	Activity(ctx context.Context, sess *session.Session, limit int) ([]models.Activity, error)
}

var _ BankService = (*bankService)(nil)

type Outcome struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ProfilePatch holds the editable profile fields; nil leaves a field as is.
type ProfilePatch struct {
	Name    *string             `json:"name,omitempty"`
	Account *models.BankAccount `json:"bank_account,omitempty"`
}

// ListQuery is what a list page asks for. Sort overrides the current order,
// Dir alone reorders the current column, Toggle is a header click applied on
// top of both.
type ListQuery struct {
	Filter pipeline.DateFilter
	Start  *time.Time
	End    *time.Time
	Sort   pipeline.SortState
	Dir    pipeline.Direction
	Toggle string
	Reload bool
}

type RequestsPage struct {
	view.Snapshot[models.PaymentRequest]
	Status string                `json:"status_filter"`
	Counts pipeline.StatusCounts `json:"counts"`
}

type bankService struct {
	api          bankapi.API
	normalizer   *normalize.Normalizer
	publisher    kafka.ActivityPublisher
	activityRepo repository.ActivityRepository
	now          func() time.Time

	mu         sync.Mutex
	dashboards map[string]*Dashboard
}

// NewBankService wires the service. activityRepo may be nil when no
// database is configured.
func NewBankService(
	api bankapi.API,
	normalizer *normalize.Normalizer,
	publisher kafka.ActivityPublisher,
	activityRepo repository.ActivityRepository,
) *bankService {
	if publisher == nil {
		publisher = kafka.NopPublisher{}
	}
	loc := normalizer.Location()
	return &bankService{
		api:          api,
		normalizer:   normalizer,
		publisher:    publisher,
		activityRepo: activityRepo,
		now:          func() time.Time { return time.Now().In(loc) },
		dashboards:   make(map[string]*Dashboard),
	}
}

func (s *bankService) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return otel.Tracer("bank-service").Start(ctx, name)
}

func fail(span trace.Span, err error, msg string) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	return err
}

// Dashboard returns the views of sess, creating them on first use.
func (s *bankService) Dashboard(sess *session.Session) *Dashboard {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.dashboards[sess.ID()]
	if !ok {
		d = newDashboard(s.api, s.normalizer, s.now)
		s.dashboards[sess.ID()] = d
	}
	return d
}

// ForgetSession drops the views of a session that left memory.
func (s *bankService) ForgetSession(id string) {
	s.mu.Lock()
	delete(s.dashboards, id)
	s.mu.Unlock()
}

func outcome(r bankapi.Reply, successMessage string) Outcome {
	o := Outcome{Success: r.OK(), Message: r.Text()}
	if o.Success && o.Message == "" {
		o.Message = successMessage
	}
	return o
}

func (s *bankService) Register(ctx context.Context, sess *session.Session, u models.User) (Outcome, error) {
	ctx, span := s.startSpan(ctx, "Register")
	defer span.End()

	u.Phone = strings.TrimSpace(u.Phone)
	u.IDNum = strings.TrimSpace(u.IDNum)
	u.Name = strings.TrimSpace(u.Name)
	if u.Account != nil && strings.TrimSpace(u.Account.AccountOwner) == "" {
		acc := *u.Account
		acc.AccountOwner = u.Name
		u.Account = &acc
	}
	if err := ValidateUser(u, true); err != nil {
		slog.Warn("registration form rejected", "error", err)
		return Outcome{}, fail(span, err, "invalid registration form")
	}
	u.Role = models.RoleUser
	if u.Balance == "" {
		u.Balance = "0"
	}

	res := outcome(s.api.OpenAccount(ctx, u), MsgAccountOpened)
	s.publish(ctx, models.Activity{Phone: u.Phone, Type: models.ActivityRegister, Success: res.Success, Message: res.Message})
	if !res.Success {
		span.SetStatus(codes.Error, "open_account rejected")
		slog.Info("account opening rejected", observability.UserAttrs(u.Phone), "message", res.Message)
		return res, nil
	}

	if err := sess.Login(ctx, u); err != nil {
		slog.Error("failed to store registered user", "error", err)
		return Outcome{}, fail(span, err, "session store failed")
	}
	s.Dashboard(sess).reset()
	slog.Info("account opened", observability.UserAttrs(u.Phone))
	return res, nil
}

func (s *bankService) Login(ctx context.Context, sess *session.Session, creds models.User) (Outcome, error) {
	ctx, span := s.startSpan(ctx, "Login")
	defer span.End()

	creds = models.User{
		Phone:  strings.TrimSpace(creds.Phone),
		IDNum:  strings.TrimSpace(creds.IDNum),
		Secret: creds.Secret,
	}
	if err := checkCredentials(creds); err != nil {
		return Outcome{}, fail(span, err, "missing credentials")
	}

	reply := s.api.Authenticate(ctx, creds)
	res := outcome(reply, MsgLoggedIn)
	s.publish(ctx, models.Activity{Phone: creds.Phone, Type: models.ActivityLogin, Success: res.Success, Message: res.Message})
	if !res.Success {
		span.SetStatus(codes.Error, "authentication rejected")
		slog.Info("login rejected", observability.UserAttrs(creds.Phone), "message", res.Message)
		return res, nil
	}

	u := normalize.MergeUser(creds, reply.Profile)
	if err := sess.Login(ctx, u); err != nil {
		slog.Error("failed to store logged in user", "error", err)
		return Outcome{}, fail(span, err, "session store failed")
	}
	s.Dashboard(sess).reset()
	span.SetAttributes(attribute.String("role", string(u.Role)))
	slog.Info("user logged in", observability.UserAttrs(u.Phone), "role", u.Role)
	return res, nil
}

func (s *bankService) Logout(ctx context.Context, sess *session.Session) error {
	ctx, span := s.startSpan(ctx, "Logout")
	defer span.End()

	u, signedIn := sess.Current()
	if err := sess.Logout(ctx); err != nil {
		slog.Error("failed to clear session", "error", err)
		return fail(span, err, "session store failed")
	}
	s.ForgetSession(sess.ID())
	if signedIn {
		s.publish(ctx, models.Activity{Phone: u.Phone, Type: models.ActivityLogout, Success: true})
	}
	return nil
}

func (s *bankService) Profile(sess *session.Session) (models.Profile, error) {
	u, err := sess.RequireUser()
	if err != nil {
		return models.Profile{}, err
	}
	return u.Profile(), nil
}

func (s *bankService) UpdateProfile(ctx context.Context, sess *session.Session, patch ProfilePatch) (Outcome, error) {
	ctx, span := s.startSpan(ctx, "UpdateProfile")
	defer span.End()

	u, err := sess.RequireUser()
	if err != nil {
		return Outcome{}, fail(span, err, "not authenticated")
	}
	next := u.Clone()
	if patch.Name != nil {
		next.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Account != nil {
		acc := *patch.Account
		next.Account = &acc
	}
	if next.Account != nil && strings.TrimSpace(next.Account.AccountOwner) == "" {
		next.Account.AccountOwner = next.Name
	}
	if err := ValidateUser(next, false); err != nil {
		return Outcome{}, fail(span, err, "invalid profile form")
	}

	res := outcome(s.api.UpdateUser(ctx, next), MsgProfileUpdated)
	s.publish(ctx, models.Activity{Phone: u.Phone, Type: models.ActivityProfileUpdate, Success: res.Success, Message: res.Message})
	if !res.Success {
		span.SetStatus(codes.Error, "update_user rejected")
		return res, nil
	}
	if _, err := sess.Update(ctx, func(cur *models.User) { *cur = next }); err != nil {
		return Outcome{}, fail(span, err, "session store failed")
	}
	slog.Info("profile updated", observability.UserAttrs(u.Phone))
	return res, nil
}

func (s *bankService) RefreshBalance(ctx context.Context, sess *session.Session) (Outcome, error) {
	ctx, span := s.startSpan(ctx, "RefreshBalance")
	defer span.End()

	u, err := sess.RequireUser()
	if err != nil {
		return Outcome{}, fail(span, err, "not authenticated")
	}
	reply := s.api.CheckBalance(ctx, u)
	res := outcome(reply, MsgBalanceRefreshed)
	if !res.Success {
		span.SetStatus(codes.Error, "check_balance rejected")
		return res, nil
	}
	balance := normalize.Amount(reply.Balance)
	if _, err := sess.Update(ctx, func(cur *models.User) { cur.Balance = balance }); err != nil {
		return Outcome{}, fail(span, err, "session store failed")
	}
	return res, nil
}

func (s *bankService) Deposit(ctx context.Context, sess *session.Session, amount string) (Outcome, error) {
	return s.moveMoney(ctx, sess, models.ActivityDeposit, "", amount, func(ctx context.Context, u models.User, d decimal.Decimal) bankapi.Reply {
		return s.api.Deposit(ctx, u, d)
	})
}

func (s *bankService) Withdraw(ctx context.Context, sess *session.Session, amount string) (Outcome, error) {
	return s.moveMoney(ctx, sess, models.ActivityWithdraw, "", amount, func(ctx context.Context, u models.User, d decimal.Decimal) bankapi.Reply {
		return s.api.Withdraw(ctx, u, d)
	})
}

func (s *bankService) Transfer(ctx context.Context, sess *session.Session, recipient, amount string) (Outcome, error) {
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return Outcome{}, pkgerrors.ErrMissingRecipient
	}
	return s.moveMoney(ctx, sess, models.ActivityTransfer, recipient, amount, func(ctx context.Context, u models.User, d decimal.Decimal) bankapi.Reply {
		return s.api.Transfer(ctx, u, recipient, d)
	})
}

func (s *bankService) RequestPayment(ctx context.Context, sess *session.Session, recipient, amount string) (Outcome, error) {
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return Outcome{}, pkgerrors.ErrMissingRecipient
	}
	return s.moveMoney(ctx, sess, models.ActivityRequestPayment, recipient, amount, func(ctx context.Context, u models.User, d decimal.Decimal) bankapi.Reply {
		return s.api.RequestPayment(ctx, u, recipient, d)
	})
}

// moveMoney runs one amount-carrying action. A successful action makes every
// list that may show its effect fetch again on next view.
func (s *bankService) moveMoney(
	ctx context.Context,
	sess *session.Session,
	kind models.ActivityType,
	counterparty, amount string,
	call func(context.Context, models.User, decimal.Decimal) bankapi.Reply,
) (Outcome, error) {
	ctx, span := s.startSpan(ctx, string(kind))
	defer span.End()

	u, err := sess.RequireUser()
	if err != nil {
		return Outcome{}, fail(span, err, "not authenticated")
	}
	d, err := normalize.ParseAmount(amount)
	if err != nil {
		return Outcome{}, fail(span, err, "invalid amount")
	}
	span.SetAttributes(attribute.String("amount", d.String()))

	res := outcome(call(ctx, u, d), MsgActionSucceeded)
	s.publish(ctx, models.Activity{
		Phone:        u.Phone,
		Type:         kind,
		Amount:       d.String(),
		Counterparty: counterparty,
		Success:      res.Success,
		Message:      res.Message,
	})
	if !res.Success {
		span.SetStatus(codes.Error, string(kind)+" rejected")
		slog.Info("action rejected", "action", kind, observability.UserAttrs(u.Phone), "message", res.Message)
		return res, nil
	}
	s.Dashboard(sess).invalidateMoney()
	slog.Info("action completed", "action", kind, observability.UserAttrs(u.Phone), "amount", d.String())
	return res, nil
}

// Respond approves or rejects one incoming request. Only pending incoming
// requests can be answered; on success the row changes status in place.
func (s *bankService) Respond(ctx context.Context, sess *session.Session, requestID string, approve bool) (Outcome, error) {
	ctx, span := s.startSpan(ctx, "Respond")
	defer span.End()
	span.SetAttributes(attribute.String("request_id", requestID), attribute.Bool("approve", approve))

	u, err := sess.RequireUser()
	if err != nil {
		return Outcome{}, fail(span, err, "not authenticated")
	}
	incoming := s.Dashboard(sess).Incoming
	byID := func(r models.PaymentRequest) bool { return r.ID == requestID }

	req, ok := incoming.Find(byID)
	if !ok {
		deps := incoming.Deps()
		deps.UserKey = u.Phone
		snap := incoming.Load(ctx, u, deps)
		if snap.State == view.StateError {
			return Outcome{Success: false, Message: snap.Message}, nil
		}
		if req, ok = incoming.Find(byID); !ok {
			return Outcome{}, fail(span, pkgerrors.ErrRequestNotFound, "request not found")
		}
	}
	if req.Direction != models.DirectionIncoming {
		return Outcome{}, fail(span, pkgerrors.ErrRequestNotIncoming, "request not incoming")
	}
	if !req.Actionable() {
		return Outcome{}, fail(span, pkgerrors.ErrRequestNotPending, "request not pending")
	}

	kind, status, okMsg := models.ActivityReject, models.StatusRejected, MsgRequestRejected
	if approve {
		kind, status, okMsg = models.ActivityApprove, models.StatusApproved, MsgRequestApproved
	}
	res := outcome(s.api.RespondToRequest(ctx, u, requestID, approve), okMsg)
	s.publish(ctx, models.Activity{
		Phone:        u.Phone,
		Type:         kind,
		Amount:       req.Amount,
		Counterparty: req.Phone,
		RequestID:    requestID,
		Success:      res.Success,
		Message:      res.Message,
	})
	if !res.Success {
		span.SetStatus(codes.Error, "respond rejected")
		return res, nil
	}

	incoming.UpdateWhere(byID, func(r *models.PaymentRequest) { r.Status = status })
	d := s.Dashboard(sess)
	d.History.Invalidate()
	d.Transactions.Invalidate()
	slog.Info("payment request answered", observability.UserAttrs(u.Phone), "request_id", requestID, "status", status)
	return res, nil
}

func bindList[T any](ctx context.Context, v *view.ListView[T], u models.User, q ListQuery) view.Snapshot[T] {
	sortState := q.Sort
	if sortState.Column == "" {
		sortState = v.Sort()
		if q.Dir != "" {
			sortState.Direction = q.Dir
		}
	}
	if q.Toggle != "" {
		sortState = sortState.Toggle(q.Toggle)
	}
	filter := q.Filter
	if filter == "" {
		filter = pipeline.FilterAll
	}
	deps := view.Deps{UserKey: u.Phone, Filter: filter, Start: q.Start, End: q.End, Sort: sortState}
	if q.Reload {
		return v.Load(ctx, u, deps)
	}
	return v.Bind(ctx, u, deps)
}

func (s *bankService) History(ctx context.Context, sess *session.Session, q ListQuery) (view.Snapshot[models.Transaction], error) {
	ctx, span := s.startSpan(ctx, "History")
	defer span.End()
	u, err := sess.RequireUser()
	if err != nil {
		return view.Snapshot[models.Transaction]{}, fail(span, err, "not authenticated")
	}
	return bindList(ctx, s.Dashboard(sess).History, u, q), nil
}

func (s *bankService) Transactions(ctx context.Context, sess *session.Session, q ListQuery) (view.Snapshot[models.Transaction], error) {
	ctx, span := s.startSpan(ctx, "Transactions")
	defer span.End()
	u, err := sess.RequireUser()
	if err != nil {
		return view.Snapshot[models.Transaction]{}, fail(span, err, "not authenticated")
	}
	return bindList(ctx, s.Dashboard(sess).Transactions, u, q), nil
}

func (s *bankService) IncomingRequests(ctx context.Context, sess *session.Session, q ListQuery, status string) (RequestsPage, error) {
	return s.requests(ctx, sess, q, status, func(d *Dashboard) *view.ListView[models.PaymentRequest] { return d.Incoming })
}

func (s *bankService) SentRequests(ctx context.Context, sess *session.Session, q ListQuery, status string) (RequestsPage, error) {
	return s.requests(ctx, sess, q, status, func(d *Dashboard) *view.ListView[models.PaymentRequest] { return d.Sent })
}

// requests binds a request list and applies the status tab on top of the
// date filter. Counts are taken before the status tab.
func (s *bankService) requests(
	ctx context.Context,
	sess *session.Session,
	q ListQuery,
	status string,
	pick func(*Dashboard) *view.ListView[models.PaymentRequest],
) (RequestsPage, error) {
	ctx, span := s.startSpan(ctx, "PaymentRequests")
	defer span.End()

	if status == "" {
		status = pipeline.StatusAll
	}
	if _, ok := models.ParseRequestStatus(status); !ok && status != pipeline.StatusAll {
		return RequestsPage{}, fail(span, pkgerrors.ErrInvalidFilter, "invalid status filter")
	}
	u, err := sess.RequireUser()
	if err != nil {
		return RequestsPage{}, fail(span, err, "not authenticated")
	}

	snap := bindList(ctx, pick(s.Dashboard(sess)), u, q)
	page := RequestsPage{Snapshot: snap, Status: status, Counts: pipeline.CountByStatus(snap.Rows)}
	if snap.Display == view.DisplayData {
		page.Rows = pipeline.FilterByStatus(snap.Rows, status)
	}
	return page, nil
}

func (s *bankService) Users(ctx context.Context, sess *session.Session, q ListQuery) (view.Snapshot[models.AdminUser], error) {
	ctx, span := s.startSpan(ctx, "Users")
	defer span.End()
	u, err := sess.RequireUser()
	if err != nil {
		return view.Snapshot[models.AdminUser]{}, fail(span, err, "not authenticated")
	}
	if !u.IsAdmin() {
		slog.Warn("admin listing refused", observability.UserAttrs(u.Phone))
		return view.Snapshot[models.AdminUser]{}, fail(span, pkgerrors.ErrForbidden, "not an admin")
	}
	q.Filter = pipeline.FilterAll
	return bindList(ctx, s.Dashboard(sess).Users, u, q), nil
}

func (s *bankService) Activity(ctx context.Context, sess *session.Session, limit int) ([]models.Activity, error) {
	ctx, span := s.startSpan(ctx, "Activity")
	defer span.End()
	u, err := sess.RequireUser()
	if err != nil {
		return nil, fail(span, err, "not authenticated")
	}
	if s.activityRepo == nil {
		return nil, fail(span, pkgerrors.ErrActivityDisabled, "activity disabled")
	}
	items, err := s.activityRepo.ListByPhone(ctx, u.Phone, limit)
	if err != nil {
		return nil, fail(span, err, "activity listing failed")
	}
	return items, nil
}

// publish never fails the action it reports on.
func (s *bankService) publish(ctx context.Context, a models.Activity) {
	if err := s.publisher.Publish(ctx, a); err != nil {
		slog.Error("failed to publish activity", "type", a.Type, "error", err)
	}
}
