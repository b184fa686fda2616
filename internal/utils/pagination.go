package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-task-api/internal/constants"
)

// PaginationParams holds the pagination parameters
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

// GetPaginationParams extracts pagination parameters from the request.
// The second return value is false when the client asked for no
// pagination, in which case list endpoints return every row.
func GetPaginationParams(c *gin.Context) (PaginationParams, bool) {
	rawPage, hasPage := c.GetQuery("page")
	rawLimit, hasLimit := c.GetQuery("limit")
	if !hasPage && !hasLimit {
		return PaginationParams{}, false
	}

	page, _ := strconv.Atoi(rawPage)
	limit, _ := strconv.Atoi(rawLimit)

	return NewPaginationParams(page, limit), true
}

// NewPaginationParams clamps page and limit into their valid ranges.
func NewPaginationParams(page, limit int) PaginationParams {
	if page < constants.MinPageSize {
		page = constants.MinPageSize
	}
	if limit < constants.MinPageSize || limit > constants.MaxPageSize {
		limit = constants.DefaultPageSize
	}

	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}
