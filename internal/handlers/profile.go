package handlers

import (
	"net/http"
	"time"

	"github.com/agrolink/farm-exchange/internal/middleware"
	"github.com/agrolink/farm-exchange/internal/models"
	"github.com/agrolink/farm-exchange/internal/services"
	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileService *services.ProfileService
	tokenService   *services.TokenService
}

func NewProfileHandler(profileService *services.ProfileService, tokenService *services.TokenService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		tokenService:   tokenService,
	}
}

type CreateProfileRequest struct {
	FullName  string      `json:"full_name" binding:"required"`
	Email     string      `json:"email" binding:"required,email"`
	Role      models.Role `json:"role" binding:"required"`
	Location  string      `json:"location"`
	Phone     string      `json:"phone"`
	Bio       string      `json:"bio"`
	AvatarURL string      `json:"avatar_url"`
}

type UpdateContactRequest struct {
	Location  string `json:"location"`
	Phone     string `json:"phone"`
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatar_url"`
}

type CreateProfileResponse struct {
	Profile *models.Profile `json:"profile"`
	Token   string          `json:"token"`
}

// Create godoc
// @Summary Create a profile
// @Description Register a marketplace profile and issue its first API token. The role is immutable afterwards.
// @Tags profiles
// @Accept json
// @Produce json
// @Param request body CreateProfileRequest true "Profile fields"
// @Success 201 {object} CreateProfileResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /profiles [post]
func (h *ProfileHandler) Create(c *gin.Context) {
	var req CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return
	}

	profile, err := h.profileService.CreateProfile(c.Request.Context(), services.ProfileInput{
		FullName:  req.FullName,
		Email:     req.Email,
		Role:      req.Role,
		Location:  req.Location,
		Phone:     req.Phone,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	token, err := h.tokenService.GenerateToken(profile.ID, 7*24*time.Hour)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, CreateProfileResponse{Profile: profile, Token: token})
}

// Me godoc
// @Summary Get the caller's profile
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Profile
// @Failure 404 {object} ErrorResponse
// @Router /profiles/me [get]
func (h *ProfileHandler) Me(c *gin.Context) {
	profile, err := h.profileService.GetProfile(c.Request.Context(), middleware.GetProfileID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateContact godoc
// @Summary Update the caller's contact fields
// @Tags profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateContactRequest true "Contact fields"
// @Success 200 {object} models.Profile
// @Failure 404 {object} ErrorResponse
// @Router /profiles/me [put]
func (h *ProfileHandler) UpdateContact(c *gin.Context) {
	var req UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return
	}

	profile, err := h.profileService.UpdateContact(
		c.Request.Context(), middleware.GetProfileID(c), req.Location, req.Phone, req.Bio, req.AvatarURL)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// ListByRole godoc
// @Summary List profiles by role
// @Description Directory of farmers or buyers, used to address messages.
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Param role query string true "farmer or buyer"
// @Success 200 {array} models.Profile
// @Failure 400 {object} ErrorResponse
// @Router /profiles [get]
func (h *ProfileHandler) ListByRole(c *gin.Context) {
	profiles, err := h.profileService.ListByRole(c.Request.Context(), models.Role(c.Query("role")))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profiles)
}
