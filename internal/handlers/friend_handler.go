package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/farellandr/fastfriends/internal/helpers"
	"github.com/farellandr/fastfriends/internal/services"
)

type ContactsRequest struct {
	Emails []string `json:"emails" binding:"required"`
}

type CloseRequest struct {
	Close bool `json:"close"`
}

type FriendHandler struct {
	friends *services.FriendService
}

func NewFriendHandler(friends *services.FriendService) *FriendHandler {
	return &FriendHandler{friends: friends}
}

func (h *FriendHandler) List(c *gin.Context) {
	userID, ok := helpers.CurrentUserID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	var excludeEvent *uuid.UUID
	if raw := c.Query("exclude_event"); raw != "" {
		eventID, err := uuid.Parse(raw)
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid event id.")
			return
		}
		excludeEvent = &eventID
	}

	friends, err := h.friends.List(userID, c.Query("order"), excludeEvent)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, friends)
}

func (h *FriendHandler) MarkClose(c *gin.Context) {
	userID, ok := helpers.CurrentUserID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Not authenticated.")
		return
	}
	edgeID, err := helpers.UUIDParam(c, "id")
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req CloseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	edge, err := h.friends.MarkClose(edgeID, userID, req.Close)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, edge)
}

// Mutual lists close friends the caller shares with another user.
func (h *FriendHandler) Mutual(c *gin.Context) {
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

	mutual, err := h.friends.Mutual(userID, otherID)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_ids": mutual})
}

func (h *FriendHandler) FindContacts(c *gin.Context) {
	userID, ok := helpers.CurrentUserID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	var req ContactsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	matches, err := h.friends.FindContacts(userID, req.Emails)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, matches)
}

func (h *FriendHandler) ImportContacts(c *gin.Context) {
	userID, ok := helpers.CurrentUserID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	var req ContactsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	created, err := h.friends.ImportContacts(userID, req.Emails)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"imported": created})
}
