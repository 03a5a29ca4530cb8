package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/farellandr/fastfriends/internal/helpers"
	"github.com/farellandr/fastfriends/internal/services"
)

type InviteRequest struct {
	UserIDs []uuid.UUID `json:"user_ids" binding:"required"`
}

type RespondRequest struct {
	Accept bool `json:"accept"`
}

type CheckInRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type MemberHandler struct {
	membership *services.MembershipService
}

func NewMemberHandler(membership *services.MembershipService) *MemberHandler {
	return &MemberHandler{membership: membership}
}

func (h *MemberHandler) Join(c *gin.Context) {
	userID, ok := helpers.CurrentUserID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Not authenticated.")
		return
	}
	eventID, err := helpers.UUIDParam(c, "id")
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	member, err := h.membership.Join(c.Request.Context(), eventID, userID)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, member)
}

func (h *MemberHandler) Leave(c *gin.Context) {
	userID, ok := helpers.CurrentUserID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Not authenticated.")
		return
	}
	eventID, err := helpers.UUIDParam(c, "id")
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.membership.Leave(c.Request.Context(), eventID, userID); err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Left the event."})
}

func (h *MemberHandler) Invite(c *gin.Context) {
	userID, ok := helpers.CurrentUserID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Not authenticated.")
		return
	}
	eventID, err := helpers.UUIDParam(c, "id")
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	sent, err := h.membership.Invite(c.Request.Context(), eventID, userID, req.UserIDs)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invited": sent})
}

// RespondInvite is the invitee answering their own invitation.
func (h *MemberHandler) RespondInvite(c *gin.Context) {
	userID, ok := helpers.CurrentUserID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Not authenticated.")
		return
	}
	memberID, err := helpers.UUIDParam(c, "memberId")
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	member, err := h.membership.RespondToInvite(c.Request.Context(), memberID, userID, req.Accept)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

// Approve is the owner answering a join request. Rejection removes the row.
func (h *MemberHandler) Approve(c *gin.Context) {
	userID, ok := helpers.CurrentUserID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Not authenticated.")
		return
	}
	memberID, err := helpers.UUIDParam(c, "memberId")
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	member, err := h.membership.Approve(c.Request.Context(), memberID, userID, req.Accept)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}
	if member == nil {
		c.JSON(http.StatusOK, gin.H{"message": "Request rejected."})
		return
	}
	c.JSON(http.StatusOK, member)
}

func (h *MemberHandler) CheckIn(c *gin.Context) {
	userID, ok := helpers.CurrentUserID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Not authenticated.")
		return
	}
	eventID, err := helpers.UUIDParam(c, "id")
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	member, err := h.membership.CheckIn(c.Request.Context(), eventID, userID, req.Latitude, req.Longitude)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

func (h *MemberHandler) List(c *gin.Context) {
	userID, ok := helpers.CurrentUserID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Not authenticated.")
		return
	}
	eventID, err := helpers.UUIDParam(c, "id")
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	members, err := h.membership.Members(eventID, userID, c.Query("status"))
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, members)
}
