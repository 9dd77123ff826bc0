package middleware

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/superfunded-backend/internal/auth"
	"github.com/yungbote/superfunded-backend/internal/http/response"
	"github.com/yungbote/superfunded-backend/internal/platform/logger"
)

type AuthMiddleware struct {
	log      *logger.Logger
	verifier auth.Verifier
}

func NewAuthMiddleware(log *logger.Logger, verifier auth.Verifier) *AuthMiddleware {
	return &AuthMiddleware{log: log.With("middleware", "AuthMiddleware"), verifier: verifier}
}

// RequireAdmin admits only callers whose bearer token carries the admin role.
func (am *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.RespondError(c, http.StatusUnauthorized, "unauthorized")
			return
		}
		p, err := am.verifier.Verify(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, auth.ErrMissingToken) {
				am.log.Debug("admin token rejected", "error", err)
			}
			response.RespondError(c, http.StatusUnauthorized, "unauthorized")
			return
		}
		if !p.IsAdmin() {
			response.RespondError(c, http.StatusForbidden, "forbidden")
			return
		}
		c.Request = c.Request.WithContext(auth.WithPrincipal(c.Request.Context(), p))
		c.Next()
	}
}

// RequirePublicKey checks the publishable client key on chat requests. An empty key disables the check.
func RequirePublicKey(key string) gin.HandlerFunc {
	key = strings.TrimSpace(key)
	return func(c *gin.Context) {
		if key == "" {
			c.Next()
			return
		}
		got := bearerToken(c)
		if got == "" {
			got = strings.TrimSpace(c.GetHeader("apikey"))
		}
		if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
			response.RespondError(c, http.StatusUnauthorized, "unauthorized")
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
