package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	sessionKey = "console_session"

	// HeaderName carries the session token for API clients.
	HeaderName = "X-Session-Token"
	// CookieName carries the session token for browsers.
	CookieName = "worker_session"
)

// SessionMiddleware attaches a console session to every request, starting a
// new one when the caller presents no valid token.
type SessionMiddleware struct {
	tokens *TokenManager
	logger *zap.Logger
}

// NewSessionMiddleware constructs middleware.
func NewSessionMiddleware(tokens *TokenManager, logger *zap.Logger) *SessionMiddleware {
	return &SessionMiddleware{tokens: tokens, logger: logger}
}

// Handle resolves the session and refreshes its token.
func (m *SessionMiddleware) Handle(c *fiber.Ctx) error {
	raw := c.Get(HeaderName)
	if raw == "" {
		raw = c.Cookies(CookieName)
	}

	var sessionID string
	if raw != "" {
		id, err := m.tokens.Parse(raw)
		if err != nil {
			m.logger.Debug("discarding session token", zap.Error(err))
		} else {
			sessionID = id
		}
	}

	var (
		token     string
		expiresAt time.Time
		err       error
	)
	if sessionID == "" {
		sessionID, token, expiresAt, err = m.tokens.Issue()
	} else {
		token, expiresAt, err = m.tokens.Sign(sessionID)
	}
	if err != nil {
		return err
	}

	c.Locals(sessionKey, sessionID)
	c.Set(HeaderName, token)
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    token,
		Expires:  expiresAt,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Next()
}

// SessionFromContext returns the session ID attached by Handle.
func SessionFromContext(c *fiber.Ctx) (string, bool) {
	id, ok := c.Locals(sessionKey).(string)
	return id, ok && id != ""
}
