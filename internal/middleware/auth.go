package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yukikurage/project-task-api/internal/constants"
	"github.com/yukikurage/project-task-api/internal/credentials"
	apierrors "github.com/yukikurage/project-task-api/internal/errors"
)

// RequireAuth checks the bearer token in the Authorization header
func RequireAuth(tokens *credentials.TokenManager, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := tokens.Verify(bearerToken(c.GetHeader(constants.AuthorizationHeader)))
		if err != nil {
			log.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("rejected bearer token")
			switch {
			case errors.Is(err, credentials.ErrExpiredToken):
				apierrors.TokenExpired(c)
			case errors.Is(err, credentials.ErrUnauthenticated):
				apierrors.Unauthorized(c, "Missing bearer token")
			default:
				apierrors.Unauthorized(c, "Invalid token")
			}
			return
		}

		// Store user ID in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

// bearerToken extracts the token from an Authorization header value. It
// returns "" when the header is absent or uses another scheme.
func bearerToken(header string) string {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, constants.BearerScheme) {
		return ""
	}
	return strings.TrimSpace(token)
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
