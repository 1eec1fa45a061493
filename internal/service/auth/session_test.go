package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saed34123/investa/internal/apperrors"
	"github.com/saed34123/investa/internal/models"
)

func Test_SessionManager(t *testing.T) {
	t.Parallel()

	t.Run("new defaults", func(t *testing.T) {
		m, err := NewSessionManager(SessionConfig{SecretKey: "secret"})
		require.NoError(t, err, "session manager should be created without errors")

		require.Equal(t, "secret", m.key, "secret key should be set")
		require.Equal(t, defaultSessionTTL, m.ttl, "default session TTL should be set")
		require.Equal(t, defaultSigningMethod, m.alg.Alg(), "default signing method should be set")
	})

	t.Run("empty secret key rejected", func(t *testing.T) {
		_, err := NewSessionManager(SessionConfig{})

		require.Error(t, err)
	})

	t.Run("issue and parse roundtrip", func(t *testing.T) {
		m, err := NewSessionManager(SessionConfig{SecretKey: "secret"})
		require.NoError(t, err)
		user := models.User{ID: uuid.New()}

		token, err := m.Issue(user)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		userID, err := m.Parse(token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, userID)
	})

	t.Run("expired token", func(t *testing.T) {
		m, err := NewSessionManager(SessionConfig{SecretKey: "secret", TTL: -time.Minute})
		require.NoError(t, err)

		token, err := m.Issue(models.User{ID: uuid.New()})
		require.NoError(t, err)

		_, err = m.Parse(token)

		require.ErrorIs(t, err, apperrors.ErrSessionExpired)
	})

	t.Run("token signed with another key rejected", func(t *testing.T) {
		m, err := NewSessionManager(SessionConfig{SecretKey: "secret"})
		require.NoError(t, err)
		other, err := NewSessionManager(SessionConfig{SecretKey: "other-secret"})
		require.NoError(t, err)

		token, err := other.Issue(models.User{ID: uuid.New()})
		require.NoError(t, err)

		_, err = m.Parse(token)

		require.ErrorIs(t, err, apperrors.ErrSessionNotFound)
	})

	t.Run("cookie lifecycle", func(t *testing.T) {
		m, err := NewSessionManager(SessionConfig{SecretKey: "secret"})
		require.NoError(t, err)

		t.Run("set cookie", func(t *testing.T) {
			rec := httptest.NewRecorder()

			m.SetCookie(rec, "the-token")

			cookies := rec.Result().Cookies()
			require.Len(t, cookies, 1)
			assert.Equal(t, "session", cookies[0].Name)
			assert.Equal(t, "the-token", cookies[0].Value)
			assert.True(t, cookies[0].HttpOnly, "session cookie must be HttpOnly")
			assert.Positive(t, cookies[0].MaxAge)
		})

		t.Run("clear cookie", func(t *testing.T) {
			rec := httptest.NewRecorder()

			m.ClearCookie(rec)

			cookies := rec.Result().Cookies()
			require.Len(t, cookies, 1)
			assert.Equal(t, "session", cookies[0].Name)
			assert.Empty(t, cookies[0].Value)
			assert.Negative(t, cookies[0].MaxAge, "cookie should be dropped")
		})
	})

	t.Run("token from request", func(t *testing.T) {
		m, err := NewSessionManager(SessionConfig{SecretKey: "secret"})
		require.NoError(t, err)

		t.Run("cookie wins over header", func(t *testing.T) {
			rec := httptest.NewRecorder()
			m.SetCookie(rec, "cookie-token")
			r := httptest.NewRequest("GET", "/", nil)
			for _, c := range rec.Result().Cookies() {
				r.AddCookie(c)
			}
			r.Header.Set("Authorization", "Bearer header-token")

			token, err := m.TokenFromRequest(r)

			require.NoError(t, err)
			assert.Equal(t, "cookie-token", token)
		})

		t.Run("from cookie", func(t *testing.T) {
			rec := httptest.NewRecorder()
			m.SetCookie(rec, "cookie-token")
			r := httptest.NewRequest("GET", "/", nil)
			for _, c := range rec.Result().Cookies() {
				r.AddCookie(c)
			}

			token, err := m.TokenFromRequest(r)

			require.NoError(t, err)
			assert.Equal(t, "cookie-token", token)
		})

		t.Run("from bearer header", func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.Header.Set("Authorization", "Bearer header-token")

			token, err := m.TokenFromRequest(r)

			require.NoError(t, err)
			assert.Equal(t, "header-token", token)
		})

		t.Run("nothing set", func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)

			_, err := m.TokenFromRequest(r)

			require.ErrorIs(t, err, apperrors.ErrSessionNotFound)
		})
	})
}
