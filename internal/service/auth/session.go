package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/saed34123/investa/internal/apperrors"
	"github.com/saed34123/investa/internal/models"
)

const (
	defaultSessionTTL    = 24 * time.Hour
	defaultSigningMethod = "HS256"

	sessionCookieName = "session"
)

type sessionClaims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID `json:"uid"`
}

type SessionConfig struct {
	// Secret key to sign session tokens
	// Required to be set
	SecretKey string

	// JWT MAC (Message Authentication Code) algorithm
	// If not set than default is used
	Alg string

	// Session lifetime
	// If not set than default is used
	TTL time.Duration

	// Set the Secure flag on the session cookie
	CookieSecure bool
}

// SessionManager issues and verifies the signed session tokens carried in an
// HttpOnly cookie. It stores nothing server side: the user id is the whole
// session payload and the user row is loaded fresh on every request.
type SessionManager struct {
	key    string
	alg    jwt.SigningMethod
	ttl    time.Duration
	secure bool
}

func NewSessionManager(cfg SessionConfig) (*SessionManager, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("secret key must not be empty")
	}
	if cfg.Alg == "" {
		cfg.Alg = defaultSigningMethod
	}
	if cfg.TTL == 0 {
		cfg.TTL = defaultSessionTTL
	}

	return &SessionManager{
		key:    cfg.SecretKey,
		alg:    jwt.GetSigningMethod(cfg.Alg),
		ttl:    cfg.TTL,
		secure: cfg.CookieSecure,
	}, nil
}

func (m *SessionManager) Issue(user models.User) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		UserID: user.ID,
	}

	return jwt.NewWithClaims(m.alg, claims).SignedString([]byte(m.key))
}

func (m *SessionManager) Parse(token string) (uuid.UUID, error) {
	var claims sessionClaims

	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return []byte(m.key), nil
	}, jwt.WithValidMethods([]string{m.alg.Alg()}))

	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return uuid.Nil, apperrors.ErrSessionExpired
	case err != nil, !parsed.Valid:
		return uuid.Nil, apperrors.ErrSessionNotFound
	}

	return claims.UserID, nil
}

// SetCookie writes the session cookie to the response.
func (m *SessionManager) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie drops the session cookie.
func (m *SessionManager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// TokenFromRequest reads the session token from the cookie, with a
// 'Bearer' Authorization header fallback for non-browser clients.
func (m *SessionManager) TokenFromRequest(r *http.Request) (string, error) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	header := r.Header.Get("Authorization")
	if token, found := strings.CutPrefix(header, "Bearer "); found && token != "" {
		return token, nil
	}

	return "", apperrors.ErrSessionNotFound
}
