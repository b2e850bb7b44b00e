package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "inventory/internal/errors"
	"inventory/internal/services"
)

// ResourceHandler serves the schema-driven record endpoints.
type ResourceHandler struct {
	resourceService services.ResourceServicer
}

// NewResourceHandler creates a new ResourceHandler.
func NewResourceHandler(resourceService services.ResourceServicer) *ResourceHandler {
	return &ResourceHandler{resourceService: resourceService}
}

// BulkDeleteRequest represents the request payload for deleting many records.
type BulkDeleteRequest struct {
	IDs []int64 `json:"ids" binding:"required"`
}

// BulkEditRequest represents the request payload for setting one field on
// many records.
type BulkEditRequest struct {
	IDs   []int64 `json:"ids" binding:"required"`
	Field string  `json:"field" binding:"required,max=100"`
	Value any     `json:"value"`
}

// ListSchemas returns the resource catalogue
// @Summary     List resource schemas
// @Description Field descriptors, permissions and defaults of every resource
// @Tags        resources
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Schemas"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /resources [get]
func (h *ResourceHandler) ListSchemas(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"resources": h.resourceService.Schemas()})
}

// List handles listing records of a resource
// @Summary     List records
// @Description Search, filter, sort and paginate the records of a resource. Any field key is accepted as a filter; comma separate values and use __NULL__ for empty.
// @Tags        resources
// @Produce     json
// @Security    BearerAuth
// @Param       resource  path  string true  "Resource name"
// @Param       search    query string false "Prefix search across searchable fields"
// @Param       sort      query string false "Sort field key"
// @Param       order     query string false "asc or desc"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 500)"
// @Param       columns   query string false "Comma separated visible columns"
// @Success     200 {object} services.ListResult "Records"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Unknown resource"
// @Router      /resources/{resource} [get]
func (h *ResourceHandler) List(c *gin.Context) {
	username, err := getUsername(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	spec, err := parseListSpec(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.resourceService.List(c.Request.Context(), username, c.Param("resource"), spec, parseColumns(c))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Get handles fetching one record
// @Summary     Get a record
// @Tags        resources
// @Produce     json
// @Security    BearerAuth
// @Param       resource path string true "Resource name"
// @Param       id       path int    true "Record ID"
// @Success     200 {object} services.Record "Record"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Record not found"
// @Router      /resources/{resource}/records/{id} [get]
func (h *ResourceHandler) Get(c *gin.Context) {
	if _, err := getUsername(c); err != nil {
		respondWithError(c, err)
		return
	}
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	record, err := h.resourceService.Get(c.Request.Context(), c.Param("resource"), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"record": record})
}

// Create handles creating a record
// @Summary     Create a record
// @Description Body is an object keyed by field key. Relations accept the display value or the id.
// @Tags        resources
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       resource path string                 true "Resource name"
// @Param       request  body map[string]interface{} true "Field values"
// @Success     201 {object} services.Record "Record created"
// @Failure     400 {object} ErrorResponse "Validation failed"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Operation disabled"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /resources/{resource}/records [post]
func (h *ResourceHandler) Create(c *gin.Context) {
	username, err := getUsername(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var input map[string]any
	if err := c.ShouldBindJSON(&input); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	record, err := h.resourceService.Create(c.Request.Context(), username, c.Param("resource"), input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"record": record})
}

// Update handles editing a record
// @Summary     Update a record
// @Description Only the fields present in the body are changed. The response lists each changed field with old and new values.
// @Tags        resources
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       resource path string                 true "Resource name"
// @Param       id       path int                    true "Record ID"
// @Param       request  body map[string]interface{} true "Field values"
// @Success     200 {object} services.UpdateResult "Record updated"
// @Failure     400 {object} ErrorResponse "Validation failed"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Record not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /resources/{resource}/records/{id} [put]
func (h *ResourceHandler) Update(c *gin.Context) {
	username, err := getUsername(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var input map[string]any
	if err := c.ShouldBindJSON(&input); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.resourceService.Update(c.Request.Context(), username, c.Param("resource"), id, input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Delete handles deleting a record and its dependents
// @Summary     Delete a record
// @Tags        resources
// @Produce     json
// @Security    BearerAuth
// @Param       resource path string true "Resource name"
// @Param       id       path int    true "Record ID"
// @Success     200 {object} services.DeleteResult "Record deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Record not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /resources/{resource}/records/{id} [delete]
func (h *ResourceHandler) Delete(c *gin.Context) {
	username, err := getUsername(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.resourceService.Delete(c.Request.Context(), username, c.Param("resource"), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// BulkDelete handles deleting many records
// @Summary     Delete many records
// @Description Ids that no longer exist are counted as missing.
// @Tags        resources
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       resource path string            true "Resource name"
// @Param       request  body BulkDeleteRequest true "Record IDs"
// @Success     200 {object} services.DeleteResult "Deletion counts"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Operation disabled"
// @Router      /resources/{resource}/bulk-delete [post]
func (h *ResourceHandler) BulkDelete(c *gin.Context) {
	username, err := getUsername(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.resourceService.BulkDelete(c.Request.Context(), username, c.Param("resource"), req.IDs)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// BulkEdit handles setting one field on many records
// @Summary     Edit many records
// @Description Records already holding the value are skipped. An invalid value rejects the whole batch.
// @Tags        resources
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       resource path string          true "Resource name"
// @Param       request  body BulkEditRequest true "Field and value"
// @Success     200 {object} services.BulkResult "Edit counts"
// @Failure     400 {object} ErrorResponse "Validation failed"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Operation disabled"
// @Router      /resources/{resource}/bulk-edit [post]
func (h *ResourceHandler) BulkEdit(c *gin.Context) {
	username, err := getUsername(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req BulkEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.resourceService.BulkUpdate(c.Request.Context(), username, c.Param("resource"), services.BulkUpdateRequest{
		IDs:   req.IDs,
		Field: req.Field,
		Value: req.Value,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// FilterOptions lists the selectable values of one field
// @Summary     Filter options
// @Description Distinct values of field among the records matching the other filters. Empty values collapse into a leading __NULL__ option.
// @Tags        resources
// @Produce     json
// @Security    BearerAuth
// @Param       resource path  string true  "Resource name"
// @Param       field    query string true  "Field key"
// @Param       search   query string false "Search term"
// @Success     200 {object} map[string]interface{} "Options"
// @Failure     400 {object} ErrorResponse "Field is not filterable"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /resources/{resource}/filter-options [get]
func (h *ResourceHandler) FilterOptions(c *gin.Context) {
	if _, err := getUsername(c); err != nil {
		respondWithError(c, err)
		return
	}
	field := c.Query("field")
	if field == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "field is required"))
		return
	}

	spec, err := parseListSpec(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	options, err := h.resourceService.FilterOptions(c.Request.Context(), c.Param("resource"), field, spec)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"field": field, "options": options})
}
