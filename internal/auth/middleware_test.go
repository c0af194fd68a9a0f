package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avelin/snapfeed-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSessions map[string]string // token -> username

func (f fakeSessions) Username(token string) (string, error) {
	username, ok := f[token]
	if !ok {
		return "", models.ErrNotFound
	}
	return username, nil
}

type fakeUsers map[string]models.User

func (f fakeUsers) GetByUsername(username string) (models.User, error) {
	user, ok := f[username]
	if !ok {
		return models.User{}, models.ErrNotFound
	}
	return user, nil
}

const testSecret = "middleware-test-secret"

func requestWithSession(t *testing.T, token string) *http.Request {
	t.Helper()
	signed, err := SignSessionToken(token, testSecret)
	require.NoError(t, err)
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: signed})
	return r
}

func TestRequireLogin(t *testing.T) {
	guard := NewGuard(
		fakeSessions{"tok-alice": "alice", "tok-ghost": "ghost"},
		fakeUsers{"alice": {ID: 1, Username: "alice"}},
		testSecret,
	)

	var seen models.User
	handler := guard.RequireLogin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := CurrentUser(r.Context())
		require.True(t, ok)
		seen = user
	}))

	t.Run("no cookie", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("tampered cookie", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "garbage"})
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown session", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, requestWithSession(t, "tok-nobody"))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("user deleted mid-session", func(t *testing.T) {
		// Session still resolves, but the user row is gone. The request must
		// not proceed as anonymous.
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, requestWithSession(t, "tok-ghost"))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid session", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, requestWithSession(t, "tok-alice"))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "alice", seen.Username)
	})
}

func TestRequireAdmin(t *testing.T) {
	guard := NewGuard(
		fakeSessions{"tok-admin": "root", "tok-user": "bob"},
		fakeUsers{
			"root": {ID: 1, Username: "root", IsAdmin: true},
			"bob":  {ID: 2, Username: "bob"},
		},
		testSecret,
	)

	handler := guard.RequireLogin(guard.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	t.Run("anonymous", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("non-admin", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, requestWithSession(t, "tok-user"))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, requestWithSession(t, "tok-admin"))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
