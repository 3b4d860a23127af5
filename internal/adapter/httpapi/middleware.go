package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/duitku/duitku-backend/internal/auth"
	"github.com/duitku/duitku-backend/internal/domain"
	"github.com/duitku/duitku-backend/internal/usecase/session"
)

const sessionContextKey = "currentSession"

// AuthMiddleware validates the bearer token and attaches the caller's live
// session to the request context. The token may also come in as ?token= for
// download links that cannot set headers.
func AuthMiddleware(provider *auth.Provider, sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenStr string

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				tokenStr = parts[1]
			}
		}
		if tokenStr == "" {
			tokenStr = c.Query("token")
		}
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				gin.H{"error": "missing authorization token"})
			return
		}

		identity, err := provider.ParseToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				gin.H{"error": "invalid or expired token"})
			return
		}

		s, ok := sessions.Get(identity)
		if !ok {
			err := fmt.Errorf("%w: no active session, log in again", domain.ErrAuth)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		c.Set(sessionContextKey, s)
		c.Next()
	}
}

// currentSession pulls the session the auth middleware attached
func currentSession(c *gin.Context) (*session.Session, bool) {
	v, ok := c.Get(sessionContextKey)
	if !ok {
		return nil, false
	}
	s, ok := v.(*session.Session)
	return s, ok
}
