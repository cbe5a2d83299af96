package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/candilyzer/internal/services"
)

const sessionLocalKey = "session"

// SessionMiddleware attaches the caller's session, issuing a new cookie when
// the old one is missing or has expired.
func SessionMiddleware(store *services.SessionStore, cookieName string, ttl time.Duration, secure bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, created := store.GetOrCreate(c.Cookies(cookieName))
		if created {
			c.Cookie(&fiber.Cookie{
				Name:     cookieName,
				Value:    session.ID,
				Path:     "/",
				MaxAge:   int(ttl.Seconds()),
				HTTPOnly: true,
				Secure:   secure,
				SameSite: fiber.CookieSameSiteStrictMode,
			})
		}
		c.Locals(sessionLocalKey, session)
		return c.Next()
	}
}

func sessionFrom(c *fiber.Ctx) (*services.Session, error) {
	session, ok := c.Locals(sessionLocalKey).(*services.Session)
	if !ok || session == nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "session middleware not installed")
	}
	return session, nil
}
