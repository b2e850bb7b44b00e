package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "inventory/internal/errors"
	"inventory/internal/models"
	"inventory/internal/services"
)

// OperationHandler receives power operation events from the control plane.
type OperationHandler struct {
	operationService services.OperationServicer
}

// NewOperationHandler creates a new OperationHandler.
func NewOperationHandler(operationService services.OperationServicer) *OperationHandler {
	return &OperationHandler{operationService: operationService}
}

// RecordOperationRequest represents a reported power operation.
type RecordOperationRequest struct {
	Username string `json:"username" binding:"max=100"`
	VMIP     string `json:"vm_ip" binding:"required,dotted_quad"`
	Action   string `json:"action" binding:"required,power_action"`
	Status   string `json:"status" binding:"omitempty,change_status"`
	Details  string `json:"details" binding:"max=4000"`
}

// RecordOperation appends one operation to the operation log
// @Summary     Record a VM power operation
// @Description Called by the power-control service after it acts on a VM.
// @Tags        operations
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       request body RecordOperationRequest true "Operation"
// @Success     201 {object} models.OperationLog "Operation recorded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Router      /operations [post]
func (h *OperationHandler) RecordOperation(c *gin.Context) {
	var req RecordOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	op, err := h.operationService.Record(c.Request.Context(), services.OperationInput{
		Username: req.Username,
		VMIP:     req.VMIP,
		Action:   models.OperationAction(req.Action),
		Status:   models.ChangeStatus(req.Status),
		Details:  req.Details,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"operation": op})
}
