// Package utils provides utility functions to support various operations
// within the application.
package utils

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"stories-v13/internal/schemas"
)

// ParsePaginationParams extracts the 'offset' and 'limit' parameters from the
// request's query parameters. It provides default values and ensures that the
// returned values are non-negative.
func ParsePaginationParams(ctx *gin.Context) (int, int) {
	offset, err := strconv.Atoi(ctx.DefaultQuery(OffsetParamKey, "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	limit, err := strconv.Atoi(ctx.DefaultQuery(LimitParamKey, "10"))
	if err != nil || limit < 0 {
		limit = 10
	}

	return offset, limit
}

// SendPaginatedResponse sends a response wrapping the records in a pagination
// envelope. The records are expected to already be the requested window; the
// total count describes the whole result set.
func SendPaginatedResponse(ctx *gin.Context, records interface{}, offset, limit, totalRecords int) {
	paginatedResponse := schemas.PaginatedResponse{
		Records: records,
		Pagination: schemas.Pagination{
			Offset:  offset,
			Limit:   limit,
			Records: totalRecords,
		},
	}

	WriteAndLogResponse(ctx, paginatedResponse, http.StatusOK)
}
