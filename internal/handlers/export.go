package handlers

import (
	"net/http"

	"github.com/agrolink/farm-exchange/internal/middleware"
	"github.com/agrolink/farm-exchange/internal/services"
	"github.com/gin-gonic/gin"
)

type ExportHandler struct {
	exportService *services.ExportService
}

func NewExportHandler(exportService *services.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// Export godoc
// @Summary Export the caller's transaction history
// @Description Signed JSON dump of the caller's side of the ledger, verifiable via POST /export/verify.
// @Tags export
// @Produce json
// @Security BearerAuth
// @Success 200 {object} services.TransactionExport
// @Failure 404 {object} ErrorResponse
// @Router /export [get]
func (h *ExportHandler) Export(c *gin.Context) {
	export, err := h.exportService.ExportTransactions(middleware.GetProfileID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, export)
}

// Verify godoc
// @Summary Verify an exported transaction history
// @Tags export
// @Accept json
// @Produce json
// @Param request body services.TransactionExport true "Export to verify"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} ErrorResponse
// @Router /export/verify [post]
func (h *ExportHandler) Verify(c *gin.Context) {
	var export services.TransactionExport
	if err := c.ShouldBindJSON(&export); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return
	}

	if err := h.exportService.VerifyExport(&export); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": true})
}
