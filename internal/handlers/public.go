package handlers

import (
	"net/http"

	"github.com/agrolink/farm-exchange/internal/services"
	"github.com/gin-gonic/gin"
)

type PublicHandler struct {
	listingService *services.ListingService
}

func NewPublicHandler(listingService *services.ListingService) *PublicHandler {
	return &PublicHandler{listingService: listingService}
}

type MarketStatsResponse struct {
	AvailableListings int `json:"available_listings"`
}

// MarketStats godoc
// @Summary Public marketplace stats
// @Tags public
// @Produce json
// @Success 200 {object} MarketStatsResponse
// @Router /stats [get]
func (h *PublicHandler) MarketStats(c *gin.Context) {
	harvests, err := h.listingService.Browse(c.Request.Context(), "", "")
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MarketStatsResponse{AvailableListings: len(harvests)})
}
