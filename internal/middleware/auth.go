package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pookiesms/pookiesms/internal/auth"
)

// ContextKeyUsername is where the middleware stores the signed-in handle.
// Handlers read it back through GetUsername rather than c.Get directly.
const ContextKeyUsername = "username"

// AuthMiddleware guards routes that require a signed-in principal. It asks
// the injected identity provider for the current handle; if there is none,
// the chain is aborted with 401 and the handler never runs.
func AuthMiddleware(provider auth.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, ok := provider.CurrentPrincipal(c.Request)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "not signed in",
			})
			return
		}

		c.Set(ContextKeyUsername, username)
		c.Next()
	}
}

// GetUsername returns the signed-in handle stored by AuthMiddleware, or ""
// if the route was not guarded.
func GetUsername(c *gin.Context) string {
	val, exists := c.Get(ContextKeyUsername)
	if !exists {
		return ""
	}
	username, ok := val.(string)
	if !ok {
		return ""
	}
	return username
}
