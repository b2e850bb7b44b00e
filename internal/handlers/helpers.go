package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "inventory/internal/errors"
	"inventory/internal/logger"
	"inventory/internal/pagination"
	"inventory/internal/query"
)

// reserved query parameters that are never treated as field filters.
var listParams = map[string]bool{
	"search":    true,
	"sort":      true,
	"order":     true,
	"page":      true,
	"page_size": true,
	"columns":   true,
	"field":     true,
}

// getUsername extracts the authenticated username from the Gin context.
// Returns ErrUnauthorized if not present.
func getUsername(c *gin.Context) (string, error) {
	v, exists := c.Get("username")
	if !exists {
		return "", apperrors.ErrUnauthorized
	}
	username, ok := v.(string)
	if !ok || username == "" {
		return "", apperrors.ErrUnauthorized
	}
	return username, nil
}

// parsePathID parses a positive int64 path parameter.
// Returns ErrInvalidInput if the parameter is not a valid positive integer.
//
//nolint:unparam // param is intentionally generic for reuse across handlers with different path params
func parsePathID(c *gin.Context, param string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return id, nil
}

// listQuery is the bound form of the reserved list parameters.
type listQuery struct {
	pagination.PageRequest
	Search string `form:"search" binding:"max=200"`
	Sort   string `form:"sort" binding:"max=100"`
	Order  string `form:"order" binding:"omitempty,sort_order"`
}

// parseListSpec reads search, sort, pagination and field filters from the
// query string. Every parameter that is not reserved is a filter; the query
// builder drops keys that are not filterable.
func parseListSpec(c *gin.Context) (query.Spec, error) {
	var params listQuery
	if err := c.ShouldBindQuery(&params); err != nil {
		return query.Spec{}, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}

	spec := query.Spec{
		Search:  params.Search,
		Sort:    params.Sort,
		Order:   params.Order,
		Page:    params.PageRequest,
		Filters: map[string]string{},
	}
	for key, values := range c.Request.URL.Query() {
		if listParams[key] || len(values) == 0 {
			continue
		}
		spec.Filters[key] = strings.Join(values, ",")
	}
	return spec, nil
}

// parseColumns reads a comma separated columns parameter.
func parseColumns(c *gin.Context) []string {
	raw := c.Query("columns")
	if raw == "" {
		return nil
	}
	var out []string
	for _, col := range strings.Split(raw, ",") {
		if col = strings.TrimSpace(col); col != "" {
			out = append(out, col)
		}
	}
	return out
}

// respondWithError writes the error envelope for err. Errors that carry an
// internal cause, and errors that are not AppErrors at all, are logged.
func respondWithError(c *gin.Context, err error) {
	appErr, known := apperrors.Resolve(err)
	switch {
	case !known:
		logger.Get().Errorw("unexpected error",
			"error", err.Error(),
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
		)
	case appErr.Internal != nil:
		logger.Get().Errorw("app error",
			"code", appErr.Code,
			"internal", appErr.Internal.Error(),
			"path", c.Request.URL.Path,
		)
	}
	c.JSON(appErr.StatusCode, apperrors.Envelope{Error: appErr})
}

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details []apperrors.FieldError `json:"details,omitempty"`
}

// ErrorResponse mirrors apperrors.Envelope for the API docs.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}
