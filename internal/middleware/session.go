package middleware

import (
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/internal/identity"
	"storefront/internal/session"
)

// SessionCookie names the cookie carrying the session token.
const SessionCookie = "session_token"

// ContextKey is the gin context key the resolved session is stored under.
const ContextKey = "session"

const cookieMaxAge = 30 * 24 * 60 * 60

// Attach resolves the browsing session for every request and stores it in
// the gin context. A request without a known session token gets a fresh
// guest session and a new cookie. When the request carries a valid Bearer
// token, the session's identity is restored from its claims, so a logged-in
// user keeps their cart slot across server restarts.
func Attach(registry *session.Registry, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(SessionCookie)
		s := registry.Get(token)
		if s.ID != token {
			c.SetCookie(SessionCookie, s.ID, cookieMaxAge, "/", "", false, true)
		}

		if raw := strings.TrimSpace(c.GetHeader("Authorization")); raw != "" {
			parts := strings.Split(raw, " ")
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				id, err := identity.FromToken(parts[1], jwtSecret)
				if err != nil {
					log.Println("[AUTH] [ERROR] token validation failed:", err)
				} else {
					s.Identity.Set(id)
				}
			}
		}

		c.Set(ContextKey, s)
		c.Next()
	}
}

// FromContext returns the session attached to the request. It panics when
// Attach did not run, which is a routing mistake, not a runtime condition.
func FromContext(c *gin.Context) *session.Session {
	value, ok := c.Get(ContextKey)
	if !ok {
		panic("middleware: session missing from context")
	}
	return value.(*session.Session)
}
