package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/honeynil/bankfront/internal/models"
	"github.com/honeynil/bankfront/internal/session"
	pkgerrors "github.com/honeynil/bankfront/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuer(t *testing.T) {
	_, err := NewIssuer("", time.Hour)
	assert.Error(t, err)

	issuer, err := NewIssuer("secret", time.Hour)
	require.NoError(t, err)
	now := time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return now }

	token, err := issuer.Issue("sess-1")
	require.NoError(t, err)

	claims, err := issuer.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", claims.SessionID)
	assert.True(t, claims.ExpiresAt.Equal(now.Add(time.Hour)))

	t.Run("expired", func(t *testing.T) {
		issuer.now = func() time.Time { return now.Add(2 * time.Hour) }
		defer func() { issuer.now = func() time.Time { return now } }()
		_, err := issuer.Validate(token)
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidSessionToken)
	})

	t.Run("other secret", func(t *testing.T) {
		other, _ := NewIssuer("other", time.Hour)
		other.now = issuer.now
		_, err := other.Validate(token)
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidSessionToken)
	})

	t.Run("unsigned", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sid": "sess-1"})
		s, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = issuer.Validate(s)
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidSessionToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := issuer.Validate("not-a-token")
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidSessionToken)
	})
}

func TestSessionMiddleware(t *testing.T) {
	issuer, err := NewIssuer("secret", time.Hour)
	require.NoError(t, err)
	sessions := session.NewManager(func(string) session.Store { return session.NewMemoryStore() }, time.Hour)

	var seen []string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := SessionFrom(r.Context())
		require.True(t, ok)
		seen = append(seen, sess.ID())
		if r.URL.Path == "/login" {
			require.NoError(t, sess.Login(r.Context(), models.User{Phone: "0501234567", IDNum: "123456789", Secret: "1234"}))
		}
	})
	h := SessionMiddleware(issuer, sessions)(next)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	t.Run("cookie restores the session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/profile", nil)
		req.AddCookie(cookies[0])
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Empty(t, w.Result().Cookies())
		assert.Equal(t, seen[0], seen[len(seen)-1])

		sess, err := sessions.Get(context.Background(), seen[0])
		require.NoError(t, err)
		_, signedIn := sess.Current()
		assert.True(t, signedIn)
	})

	t.Run("bearer header works too", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/profile", nil)
		req.Header.Set("Authorization", "Bearer "+cookies[0].Value)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Empty(t, w.Result().Cookies())
		assert.Equal(t, seen[0], seen[len(seen)-1])
	})

	t.Run("tampered token starts a new session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/profile", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: cookies[0].Value + "x"})
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		require.Len(t, w.Result().Cookies(), 1)
		assert.NotEqual(t, seen[0], seen[len(seen)-1])
	})
}

func TestSessionFrom_Missing(t *testing.T) {
	_, ok := SessionFrom(context.Background())
	assert.False(t, ok)
}
