package handlers

import (
	"errors"
	"net/http"

	"github.com/agrolink/farm-exchange/internal/authz"
	"github.com/agrolink/farm-exchange/internal/services"
	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// writeServiceError maps the service error taxonomy onto HTTP statuses.
// Capability denials keep their stable reason code in the body.
func writeServiceError(c *gin.Context, err error) {
	var denial *authz.Denial
	if errors.As(err, &denial) {
		status := http.StatusForbidden
		if denial.Code == authz.CodeUnauthenticated {
			status = http.StatusUnauthorized
		}
		c.JSON(status, ErrorResponse{Error: denial.Error(), Code: denial.Code})
		return
	}

	switch {
	case errors.Is(err, services.ErrProfileNotFound),
		errors.Is(err, services.ErrHarvestNotFound),
		errors.Is(err, services.ErrTransactionNotFound),
		errors.Is(err, services.ErrMessageNotFound),
		errors.Is(err, services.ErrRecipientNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrInsufficientQuantity),
		errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrInvalidPrice),
		errors.Is(err, services.ErrInvalidRole):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrInvalidState):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrEmailTaken):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrBusy):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
}
