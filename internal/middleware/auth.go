package middleware

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// SessionCookieName is the HTTP-only cookie that carries the session token.
	SessionCookieName = "session"

	sessionIssuer   = "implantstock"
	sessionAudience = "implantstock-web"
)

// ErrInvalidSession covers every way a presented token can fail verification.
var ErrInvalidSession = errors.New("invalid or expired session")

// SessionClaims are the signed contents of a session token. The subject is the user id.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// UserID parses the subject claim.
func (c *SessionClaims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: bad subject", ErrInvalidSession)
	}
	return uint(id), nil
}

// TTL returns how long the token stays valid from now.
func (c *SessionClaims) TTL() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return time.Until(c.ExpiresAt.Time)
}

// SessionManager signs and verifies HS256 session tokens.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
}

// NewSessionManager creates a SessionManager; ttl is the lifetime of issued tokens.
func NewSessionManager(secret string, ttl time.Duration) *SessionManager {
	return &SessionManager{secret: []byte(secret), ttl: ttl}
}

// TTL returns the lifetime of newly issued tokens.
func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a new session token for userID with a fresh token id.
func (m *SessionManager) Issue(userID uint) (string, *SessionClaims, error) {
	now := time.Now()
	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			Issuer:    sessionIssuer,
			Audience:  jwt.ClaimStrings{sessionAudience},
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign session token: %w", err)
	}
	return token, claims, nil
}

// Parse verifies signature, algorithm, issuer, audience and expiry.
func (m *SessionManager) Parse(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithAudience(sessionAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidSession
	}
	if _, err := claims.UserID(); err != nil {
		return nil, err
	}
	return claims, nil
}

// SessionToken extracts the session token from the cookie, falling back to an
// "Authorization: Bearer" header. bearer reports which source was used.
func SessionToken(c *fiber.Ctx) (token string, bearer bool) {
	if cookie := c.Cookies(SessionCookieName); cookie != "" {
		return cookie, false
	}
	authHeader := c.Get(fiber.HeaderAuthorization)
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") && strings.TrimSpace(parts[1]) != "" {
		return strings.TrimSpace(parts[1]), true
	}
	return "", false
}

// WantsJSONAuthError reports whether an unauthenticated request should get a
// 401 body instead of a redirect to the login page.
func WantsJSONAuthError(c *fiber.Ctx) bool {
	if strings.HasPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ") {
		return true
	}
	if strings.HasPrefix(c.Path(), "/ws/") {
		return true
	}
	return strings.Contains(c.Get(fiber.HeaderAccept), fiber.MIMEApplicationJSON) &&
		!strings.Contains(c.Get(fiber.HeaderAccept), fiber.MIMETextHTML)
}
