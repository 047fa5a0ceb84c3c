package errors

import (
	"errors"
	"fmt"
)

var (
	ErrNotAuthenticated    = errors.New("not authenticated")
	ErrMissingCredentials  = errors.New("phone, id number and secret code are required")
	ErrInvalidAmount       = errors.New("amount must be a positive number")
	ErrMissingRecipient    = errors.New("recipient phone is required")
	ErrRequestNotFound     = errors.New("payment request not found")
	ErrRequestNotPending   = errors.New("payment request is no longer pending")
	ErrRequestNotIncoming  = errors.New("only incoming payment requests can be answered")
	ErrForbidden           = errors.New("admin role required")
	ErrInvalidSessionToken = errors.New("invalid session token")
	ErrNilActivity         = errors.New("activity is nil")
	ErrActivityDisabled    = errors.New("activity log is not configured")
	ErrInvalidFilter       = fmt.Errorf("invalid date filter")
	ErrInvalidInput        = fmt.Errorf("ErrInvalidInput")
)
