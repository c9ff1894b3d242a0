package middleware

import (
	"time"

	"github.com/fadilmartias/job-coach-ai/internal/model"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const sessionLocalsKey = "session"

type SessionStore interface {
	Create() *model.Session
	Find(id string) (*model.Session, bool)
}

// Session attaches the caller's session to the request, starting a new one
// when the cookie is missing or expired.
func Session(store SessionStore, cookieName string, ttl time.Duration, secure bool, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, ok := store.Find(c.Cookies(cookieName))
		if !ok {
			sess = store.Create()
			logger.Debug("Session started", zap.String("session", sess.ID))
		}

		c.Cookie(&fiber.Cookie{
			Name:     cookieName,
			Value:    sess.ID,
			Path:     "/",
			MaxAge:   int(ttl.Seconds()),
			HTTPOnly: true,
			Secure:   secure,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
		c.Locals(sessionLocalsKey, sess)
		return c.Next()
	}
}

// CurrentSession returns the session attached by Session, or nil.
func CurrentSession(c *fiber.Ctx) *model.Session {
	sess, _ := c.Locals(sessionLocalsKey).(*model.Session)
	return sess
}
