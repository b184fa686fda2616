package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/project-task-api/internal/errors"
	"github.com/yukikurage/project-task-api/internal/middleware"
	"github.com/yukikurage/project-task-api/internal/utils"
	"github.com/yukikurage/project-task-api/internal/validation"
)

// bindShape reads the request body and validates it as T. On failure the
// error response has already been written.
func bindShape[T validation.Shape](c *gin.Context) (T, bool) {
	var zero T

	raw, err := c.GetRawData()
	if err != nil {
		apierrors.BadRequest(c, "Failed to read request body")
		return zero, false
	}

	value, err := validation.Validate[T](raw)
	if err != nil {
		var verr *validation.ValidationError
		if errors.As(err, &verr) {
			apierrors.BadRequestWithDetail(c, "Invalid request body", verr.Fields)
			return zero, false
		}
		_ = c.Error(err)
		apierrors.InternalError(c, "")
		return zero, false
	}

	return value, true
}

// requireUserID returns the authenticated caller or writes a 401.
func requireUserID(c *gin.Context) (uint64, bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return 0, false
	}
	return userID, true
}

// requireIDParam returns the path ID parsed by middleware.RequireIDParam.
func requireIDParam(c *gin.Context, name string) (uint64, bool) {
	id, ok := middleware.GetIDParam(c, name)
	if !ok {
		apierrors.NotFound(c, "")
		return 0, false
	}
	return id, true
}

// pageParams returns nil when the request did not ask for pagination.
func pageParams(c *gin.Context) *utils.PaginationParams {
	params, ok := utils.GetPaginationParams(c)
	if !ok {
		return nil
	}
	return &params
}
