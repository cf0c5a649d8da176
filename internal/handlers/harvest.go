package handlers

import (
	"net/http"
	"time"

	"github.com/agrolink/farm-exchange/internal/middleware"
	"github.com/agrolink/farm-exchange/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type HarvestHandler struct {
	listingService *services.ListingService
}

func NewHarvestHandler(listingService *services.ListingService) *HarvestHandler {
	return &HarvestHandler{listingService: listingService}
}

type ListingRequest struct {
	Title       string          `json:"title" binding:"required"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Unit        string          `json:"unit"`
	Quantity    decimal.Decimal `json:"quantity"`
	ImageURL    string          `json:"image_url"`
	HarvestDate *time.Time      `json:"harvest_date"`
}

type PurchaseRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
}

func (r ListingRequest) toInput() services.ListingInput {
	return services.ListingInput{
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Price:       r.Price,
		Unit:        r.Unit,
		Quantity:    r.Quantity,
		ImageURL:    r.ImageURL,
		HarvestDate: r.HarvestDate,
	}
}

// CreateListing godoc
// @Summary Create a harvest listing
// @Description List a new harvest lot for sale. Farmer role required.
// @Tags harvests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ListingRequest true "Listing fields"
// @Success 201 {object} models.Harvest
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /harvests [post]
func (h *HarvestHandler) CreateListing(c *gin.Context) {
	var req ListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return
	}

	harvest, err := h.listingService.CreateListing(c.Request.Context(), middleware.GetProfileID(c), req.toInput())
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, harvest)
}

// UpdateListing godoc
// @Summary Update a harvest listing
// @Description Edit listing fields. Quantity and status are owned by the purchase path and cannot be edited here.
// @Tags harvests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Harvest ID"
// @Param request body ListingRequest true "Listing fields"
// @Success 200 {object} models.Harvest
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /harvests/{id} [put]
func (h *HarvestHandler) UpdateListing(c *gin.Context) {
	harvestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid harvest ID"})
		return
	}

	var req ListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return
	}

	harvest, err := h.listingService.UpdateListing(c.Request.Context(), harvestID, middleware.GetProfileID(c), req.toInput())
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, harvest)
}

// DeleteListing godoc
// @Summary Delete a harvest listing
// @Description Remove a listing. Existing transactions keep their snapshot data.
// @Tags harvests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Harvest ID"
// @Success 204
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /harvests/{id} [delete]
func (h *HarvestHandler) DeleteListing(c *gin.Context) {
	harvestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid harvest ID"})
		return
	}

	if err := h.listingService.DeleteListing(c.Request.Context(), harvestID, middleware.GetProfileID(c)); err != nil {
		writeServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Browse godoc
// @Summary Browse available harvests
// @Description Available listings with stock left, optionally filtered by search term and category.
// @Tags harvests
// @Produce json
// @Security BearerAuth
// @Param search query string false "Search term"
// @Param category query string false "Category"
// @Success 200 {array} models.Harvest
// @Router /harvests [get]
func (h *HarvestHandler) Browse(c *gin.Context) {
	harvests, err := h.listingService.Browse(c.Request.Context(), c.Query("search"), c.Query("category"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, harvests)
}

// ListMine godoc
// @Summary List the caller's harvests
// @Tags harvests
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Harvest
// @Router /harvests/mine [get]
func (h *HarvestHandler) ListMine(c *gin.Context) {
	harvests, err := h.listingService.ListByOwner(c.Request.Context(), middleware.GetProfileID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, harvests)
}

// GetListing godoc
// @Summary Get a harvest listing
// @Tags harvests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Harvest ID"
// @Success 200 {object} models.Harvest
// @Failure 404 {object} ErrorResponse
// @Router /harvests/{id} [get]
func (h *HarvestHandler) GetListing(c *gin.Context) {
	harvestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid harvest ID"})
		return
	}

	harvest, err := h.listingService.GetListing(c.Request.Context(), harvestID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, harvest)
}
