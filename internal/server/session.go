package server

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"
	"unicode"

	"implantstock/internal/cache"
	"implantstock/internal/middleware"
	"implantstock/internal/models"

	"github.com/gofiber/fiber/v2"
)

const (
	localUserID  = "userID"
	localUser    = "user"
	localSession = "session"

	msgLoginRequired = "Please log in to access this page."
)

// issueSession signs a token for userID and stores it in the session cookie.
func (s *Server) issueSession(c *fiber.Ctx, userID uint) error {
	token, claims, err := s.sessions.Issue(userID)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  claims.ExpiresAt.Time,
		HTTPOnly: true,
		Secure:   s.config.SecureCookies(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return nil
}

func (s *Server) clearSession(c *fiber.Ctx) {
	s.expireCookie(c, middleware.SessionCookieName)
}

func (s *Server) expireCookie(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   s.config.SecureCookies(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// revokeSession blacklists the token of the current request until it expires.
func (s *Server) revokeSession(c *fiber.Ctx) {
	claims, ok := c.Locals(localSession).(*middleware.SessionClaims)
	if !ok {
		return
	}
	if err := cache.RevokeSession(c.UserContext(), claims.ID, claims.TTL()); err != nil {
		middleware.Logger.WarnContext(c.UserContext(), "failed to revoke session", slog.String("error", err.Error()))
	}
}

// resolveSession returns the user behind the request's session token.
// Every client-side failure is reported as middleware.ErrInvalidSession.
func (s *Server) resolveSession(c *fiber.Ctx) (*middleware.SessionClaims, *models.User, error) {
	token, _ := middleware.SessionToken(c)
	if token == "" {
		return nil, nil, middleware.ErrInvalidSession
	}
	claims, err := s.sessions.Parse(token)
	if err != nil {
		return nil, nil, middleware.ErrInvalidSession
	}

	revoked, err := cache.IsSessionRevoked(c.UserContext(), claims.ID)
	if err != nil {
		middleware.Logger.WarnContext(c.UserContext(), "session revocation check failed", slog.String("error", err.Error()))
	}
	if revoked {
		return nil, nil, middleware.ErrInvalidSession
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, nil, middleware.ErrInvalidSession
	}
	user, err := s.userService.CurrentUser(c.UserContext(), userID)
	if err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return nil, nil, middleware.ErrInvalidSession
		}
		return nil, nil, err
	}
	return claims, user, nil
}

// AuthRequired returns the session middleware. Browsers without a valid
// session are sent to the login page; API and WebSocket clients get a 401.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, user, err := s.resolveSession(c)
		if err != nil {
			if !errors.Is(err, middleware.ErrInvalidSession) {
				return err
			}
			if middleware.WantsJSONAuthError(c) {
				return models.RespondWithError(c, fiber.StatusUnauthorized,
					models.NewUnauthorizedError("Authentication required"))
			}
			if c.Cookies(middleware.SessionCookieName) != "" {
				s.clearSession(c)
			}
			s.flash(c, FlashInfo, msgLoginRequired)
			return c.Redirect("/login?next="+url.QueryEscape(c.OriginalURL()), fiber.StatusFound)
		}

		c.Locals(localUserID, user.ID)
		c.Locals(localUser, user)
		c.Locals(localSession, claims)
		// Sync to UserContext for logging and downstream services
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, user.ID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// optionalUser reports the logged-in user on routes that do not require one.
func (s *Server) optionalUser(c *fiber.Ctx) *models.User {
	_, user, err := s.resolveSession(c)
	if err != nil {
		return nil
	}
	return user
}

func currentUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals(localUserID).(uint)
	return id
}

func currentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(localUser).(*models.User)
	return user
}

// safeNext accepts only local absolute paths as post-login targets. Control
// characters are refused outright because browsers strip them, which can
// turn "/\t/host" into "//host".
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") {
		return "/"
	}
	if strings.HasPrefix(next, "//") || strings.Contains(next, `\`) || strings.ContainsFunc(next, unicode.IsControl) {
		return "/"
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}
	return next
}
