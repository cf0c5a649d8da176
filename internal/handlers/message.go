package handlers

import (
	"net/http"

	"github.com/agrolink/farm-exchange/internal/middleware"
	"github.com/agrolink/farm-exchange/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MessageHandler struct {
	messageService *services.MessageService
}

func NewMessageHandler(messageService *services.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

type SendMessageRequest struct {
	RecipientID uuid.UUID  `json:"recipient_id" binding:"required"`
	Subject     string     `json:"subject" binding:"required"`
	Body        string     `json:"body" binding:"required"`
	HarvestID   *uuid.UUID `json:"harvest_id"`
}

type ReplyRequest struct {
	Body string `json:"body" binding:"required"`
}

type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}

// Send godoc
// @Summary Send a message
// @Description Send a message to another profile, optionally tied to a harvest.
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SendMessageRequest true "Message"
// @Success 201 {object} models.Message
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /messages [post]
func (h *MessageHandler) Send(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return
	}

	message, err := h.messageService.Send(
		c.Request.Context(), middleware.GetProfileID(c), req.RecipientID, req.Subject, req.Body, req.HarvestID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, message)
}

// Reply godoc
// @Summary Reply to a message
// @Description Reply goes to the other party of the original message. The subject keeps a single "Re: " prefix.
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Original message ID"
// @Param request body ReplyRequest true "Reply body"
// @Success 201 {object} models.Message
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /messages/{id}/reply [post]
func (h *MessageHandler) Reply(c *gin.Context) {
	messageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid message ID"})
		return
	}

	var req ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return
	}

	message, err := h.messageService.Reply(c.Request.Context(), messageID, middleware.GetProfileID(c), req.Body)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, message)
}

// MarkRead godoc
// @Summary Mark a message as read
// @Description Recipient-only, idempotent.
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param id path string true "Message ID"
// @Success 200 {object} models.Message
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /messages/{id}/read [post]
func (h *MessageHandler) MarkRead(c *gin.Context) {
	messageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid message ID"})
		return
	}

	message, err := h.messageService.MarkRead(c.Request.Context(), messageID, middleware.GetProfileID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, message)
}

// Get godoc
// @Summary Get a message
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param id path string true "Message ID"
// @Success 200 {object} models.Message
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /messages/{id} [get]
func (h *MessageHandler) Get(c *gin.Context) {
	messageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid message ID"})
		return
	}

	message, err := h.messageService.Get(c.Request.Context(), messageID, middleware.GetProfileID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, message)
}

// Inbox godoc
// @Summary List the caller's messages
// @Description Sent and received messages, newest first.
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Message
// @Router /messages [get]
func (h *MessageHandler) Inbox(c *gin.Context) {
	messages, err := h.messageService.Inbox(c.Request.Context(), middleware.GetProfileID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, messages)
}

// UnreadCount godoc
// @Summary Count unread messages
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UnreadCountResponse
// @Router /messages/unread-count [get]
func (h *MessageHandler) UnreadCount(c *gin.Context) {
	count, err := h.messageService.UnreadCount(c.Request.Context(), middleware.GetProfileID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, UnreadCountResponse{Unread: count})
}
