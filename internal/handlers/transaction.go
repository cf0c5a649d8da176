package handlers

import (
	"net/http"

	"github.com/agrolink/farm-exchange/internal/middleware"
	"github.com/agrolink/farm-exchange/internal/models"
	"github.com/agrolink/farm-exchange/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TransactionHandler struct {
	transactionService *services.TransactionService
}

func NewTransactionHandler(transactionService *services.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

type UpdateStatusRequest struct {
	Status models.TransactionStatus `json:"status" binding:"required"`
}

// Purchase godoc
// @Summary Purchase from a harvest
// @Description Reserve quantity and record a pending transaction in one atomic step. Buyer role required.
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Harvest ID"
// @Param request body PurchaseRequest true "Quantity to purchase"
// @Success 201 {object} models.Transaction
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /harvests/{id}/purchase [post]
func (h *TransactionHandler) Purchase(c *gin.Context) {
	harvestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid harvest ID"})
		return
	}

	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return
	}

	transaction, err := h.transactionService.CreateFromReservation(
		c.Request.Context(), harvestID, middleware.GetProfileID(c), req.Quantity)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, transaction)
}

// List godoc
// @Summary List the caller's transactions
// @Description Farmers see their sales, buyers their purchases, newest first.
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter (pending, completed, cancelled)"
// @Success 200 {array} models.Transaction
// @Router /transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	status := models.TransactionStatus(c.Query("status"))
	if status == "all" {
		status = ""
	}

	transactions, err := h.transactionService.List(c.Request.Context(), middleware.GetProfileID(c), status)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, transactions)
}

// Stats godoc
// @Summary Transaction statistics for the caller
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} services.TransactionStats
// @Router /transactions/stats [get]
func (h *TransactionHandler) Stats(c *gin.Context) {
	stats, err := h.transactionService.Stats(c.Request.Context(), middleware.GetProfileID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Get godoc
// @Summary Get one of the caller's transactions
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 200 {object} models.Transaction
// @Failure 404 {object} ErrorResponse
// @Router /transactions/{id} [get]
func (h *TransactionHandler) Get(c *gin.Context) {
	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid transaction ID"})
		return
	}

	transaction, err := h.transactionService.Get(c.Request.Context(), transactionID, middleware.GetProfileID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, transaction)
}

// UpdateStatus godoc
// @Summary Update a transaction's status
// @Description Seller-only move of a pending transaction to completed or cancelled. Cancelling does not restock the harvest.
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Param request body UpdateStatusRequest true "Target status"
// @Success 200 {object} models.Transaction
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /transactions/{id}/status [put]
func (h *TransactionHandler) UpdateStatus(c *gin.Context) {
	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid transaction ID"})
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return
	}

	transaction, err := h.transactionService.UpdateStatus(
		c.Request.Context(), transactionID, middleware.GetProfileID(c), req.Status)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, transaction)
}
