// Package bankapi is the client of the remote banking API. Every call makes a
// single GET attempt and always yields a reply: transport failures are logged
// and turned into a failed reply carrying MsgCommunicationError.
package bankapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/honeynil/bankfront/internal/infrastructure/observability"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	webPath   = "/api/web"
	adminPath = "/api/admin/get_all_users"

	maxBodyBytes = 4 << 20
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// NewClientWithHTTP is NewClient with a caller-provided http.Client.
func NewClientWithHTTP(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// call performs one request and decodes the envelope. It never returns an
// error: anything that prevents reading a server envelope becomes
// communicationError().
func (c *Client) call(ctx context.Context, path string, action Action, params url.Values) Envelope {
	tracer := otel.Tracer("bank-api")
	ctx, span := tracer.Start(ctx, "BankAPI."+string(action))
	defer span.End()
	span.SetAttributes(attribute.String("bank.action", string(action)))

	start := time.Now()
	status := "success"
	defer func() {
		observability.BankAPICalls.WithLabelValues(string(action), status).Inc()
		observability.BankAPIDuration.WithLabelValues(string(action)).Observe(time.Since(start).Seconds())
	}()

	env, err := c.do(ctx, path, params)
	if err != nil {
		status = "transport_error"
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport error")
		slog.Error("bank API call failed", "action", action, "error", err)
		return communicationError()
	}
	if !env.Success {
		status = "rejected"
		span.SetStatus(codes.Error, "rejected")
		slog.Info("bank API rejected action", "action", action, "message", env.Message)
	}
	return env
}

func (c *Client) do(ctx context.Context, path string, params url.Values) (Envelope, error) {
	var env Envelope
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return env, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return env, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return env, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&env); err != nil {
		return env, fmt.Errorf("decode envelope: %w", err)
	}
	return env, nil
}

// Call runs any web action and returns its decoded reply variant.
func (c *Client) Call(ctx context.Context, action Action, params url.Values) Reply {
	if params == nil {
		params = url.Values{}
	}
	params.Set("action", string(action))
	return Decode(action, c.call(ctx, webPath, action, params))
}
