package server

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Flash categories.
const (
	FlashInfo    = "info"
	FlashSuccess = "success"
	FlashWarning = "warning"
	FlashDanger  = "danger"
)

const (
	flashCookieName = "flash"
	localFlashes    = "flashes"
	flashCookieTTL  = 10 * time.Minute
)

// Flash is a one-shot notice shown on the next rendered view.
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

func encodeFlashes(flashes []Flash) (string, error) {
	raw, err := json.Marshal(flashes)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

func decodeFlashes(value string) []Flash {
	if value == "" {
		return nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil
	}
	var flashes []Flash
	if err := json.Unmarshal(raw, &flashes); err != nil {
		return nil
	}
	return flashes
}

// pendingFlashes returns the notices queued so far: the ones carried in by the
// request cookie plus any added while handling it.
func pendingFlashes(c *fiber.Ctx) []Flash {
	if flashes, ok := c.Locals(localFlashes).([]Flash); ok {
		return flashes
	}
	return decodeFlashes(c.Cookies(flashCookieName))
}

// flash queues a notice for the next rendered view.
func (s *Server) flash(c *fiber.Ctx, category, message string) {
	flashes := append(pendingFlashes(c), Flash{Category: category, Message: message})
	c.Locals(localFlashes, flashes)

	value, err := encodeFlashes(flashes)
	if err != nil {
		return
	}
	c.Cookie(&fiber.Cookie{
		Name:     flashCookieName,
		Value:    value,
		Path:     "/",
		Expires:  time.Now().Add(flashCookieTTL),
		HTTPOnly: true,
		Secure:   s.config.SecureCookies(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// consumeFlashes returns every queued notice and clears the cookie.
func (s *Server) consumeFlashes(c *fiber.Ctx) []Flash {
	flashes := pendingFlashes(c)
	c.Locals(localFlashes, []Flash{})
	if c.Cookies(flashCookieName) != "" || len(flashes) > 0 {
		s.expireCookie(c, flashCookieName)
	}
	if flashes == nil {
		return []Flash{}
	}
	return flashes
}

// redirectWithFlash queues a notice and answers 303 See Other.
func (s *Server) redirectWithFlash(c *fiber.Ctx, location, category, message string) error {
	s.flash(c, category, message)
	return c.Redirect(location, fiber.StatusSeeOther)
}
