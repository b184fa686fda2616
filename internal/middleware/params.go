package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/project-task-api/internal/errors"
)

const paramKeyPrefix = "param:"

// RequireIDParam parses the named path parameter as a positive integer ID.
// Anything else is answered with 404, as if the route did not match.
func RequireIDParam(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param(name), 10, 64)
		if err != nil || id == 0 {
			apierrors.NotFound(c, "")
			return
		}

		c.Set(paramKeyPrefix+name, id)
		c.Next()
	}
}

// GetIDParam returns the ID parsed by RequireIDParam
func GetIDParam(c *gin.Context, name string) (uint64, bool) {
	v, exists := c.Get(paramKeyPrefix + name)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint64)
	return id, ok
}
