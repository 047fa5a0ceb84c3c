package models

import "time"

// SessionClaims is what the browser session cookie carries. The user record
// itself stays server side under SessionID.
type SessionClaims struct {
	SessionID string    `json:"sid"`
	ExpiresAt time.Time `json:"exp"`
	IssuedAt  time.Time `json:"iat"`
}
