package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "inventory/internal/errors"
	"inventory/internal/services"
)

// ViewHandler serves per-user column preferences.
type ViewHandler struct {
	preferenceService services.PreferenceServicer
}

// NewViewHandler creates a new ViewHandler.
func NewViewHandler(preferenceService services.PreferenceServicer) *ViewHandler {
	return &ViewHandler{preferenceService: preferenceService}
}

// SaveViewRequest represents the request payload for saving visible columns.
type SaveViewRequest struct {
	Columns []string `json:"columns" binding:"required,min=1,max=100"`
}

// GetView returns the caller's visible columns
// @Summary     Get visible columns
// @Tags        views
// @Produce     json
// @Security    BearerAuth
// @Param       resource path string true "Resource name"
// @Success     200 {object} services.View "View"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Unknown resource"
// @Router      /resources/{resource}/view [get]
func (h *ViewHandler) GetView(c *gin.Context) {
	username, err := getUsername(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	view, err := h.preferenceService.GetView(c.Request.Context(), username, c.Param("resource"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// SaveView stores the caller's visible columns
// @Summary     Save visible columns
// @Description Unknown column keys are dropped; at least one known column is required.
// @Tags        views
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       resource path string          true "Resource name"
// @Param       request  body SaveViewRequest true "Columns"
// @Success     200 {object} services.View "Saved view"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /resources/{resource}/view [put]
func (h *ViewHandler) SaveView(c *gin.Context) {
	username, err := getUsername(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SaveViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	view, err := h.preferenceService.SaveView(c.Request.Context(), username, c.Param("resource"), req.Columns)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}
