package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/farellandr/fastfriends/internal/helpers"
	"github.com/farellandr/fastfriends/internal/services"
)

type MessageRequest struct {
	ReceiverID uuid.UUID `json:"receiver_id" binding:"required"`
	Body       string    `json:"body" binding:"required"`
	Draft      bool      `json:"draft"`
}

type MessageHandler struct {
	messages *services.MessageService
}

func NewMessageHandler(messages *services.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

func (h *MessageHandler) Send(c *gin.Context) {
	userID, ok := helpers.CurrentUserID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	message, err := h.messages.Send(c.Request.Context(), userID, req.ReceiverID, req.Body, req.Draft)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, message)
}

func (h *MessageHandler) Thread(c *gin.Context) {
	userID, ok := helpers.CurrentUserID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Not authenticated.")
		return
	}
	otherID, err := helpers.UUIDParam(c, "userId")
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	messages, err := h.messages.Thread(userID, otherID)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

func (h *MessageHandler) Inbox(c *gin.Context) {
	userID, ok := helpers.CurrentUserID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	messages, err := h.messages.Inbox(userID)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

func (h *MessageHandler) Delete(c *gin.Context) {
	userID, ok := helpers.CurrentUserID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Not authenticated.")
		return
	}
	messageID, err := helpers.UUIDParam(c, "id")
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.messages.Delete(messageID, userID); err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Message deleted."})
}
