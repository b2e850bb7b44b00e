package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "inventory/internal/errors"
	"inventory/internal/services"
)

// maxImportSize bounds the uploaded CSV.
const maxImportSize = 10 << 20

// TransferHandler serves CSV import and export.
type TransferHandler struct {
	transferService services.TransferServicer
	now             func() time.Time
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transferService services.TransferServicer) *TransferHandler {
	return &TransferHandler{transferService: transferService, now: time.Now}
}

// Import handles a CSV upload
// @Summary     Import records from CSV
// @Description The header row carries field labels (or keys). All rows are validated first; any bad row rejects the whole file.
// @Tags        transfer
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       resource path     string true "Resource name"
// @Param       file     formData file   true "CSV file"
// @Success     201 {object} services.ImportResult "Records imported"
// @Failure     400 {object} ErrorResponse "Import failed"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Operation disabled"
// @Router      /resources/{resource}/import [post]
func (h *TransferHandler) Import(c *gin.Context) {
	username, err := getUsername(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "No file provided"))
		return
	}
	if !strings.EqualFold(filepath.Ext(header.Filename), ".csv") {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "File must be CSV format"))
		return
	}
	if header.Size > maxImportSize {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "File is too large"))
		return
	}

	file, err := header.Open()
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	defer file.Close()

	result, err := h.transferService.Import(c.Request.Context(), username, c.Param("resource"), header.Filename, file)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// Export handles a CSV download
// @Summary     Export records as CSV
// @Description Accepts the same search, sort, filter and columns parameters as the list endpoint. Every matching record is written.
// @Tags        transfer
// @Produce     text/csv
// @Security    BearerAuth
// @Param       resource path  string true  "Resource name"
// @Param       columns  query string false "Comma separated columns"
// @Success     200 {file} file "CSV file"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Unknown resource"
// @Router      /resources/{resource}/export [get]
func (h *TransferHandler) Export(c *gin.Context) {
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

	name := c.Param("resource")
	var buf bytes.Buffer
	if _, err := h.transferService.Export(c.Request.Context(), username, name, spec, parseColumns(c), &buf); err != nil {
		respondWithError(c, err)
		return
	}

	filename := fmt.Sprintf("%s_%s.csv", name, h.now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
