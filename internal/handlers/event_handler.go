package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/farellandr/fastfriends/internal/helpers"
	"github.com/farellandr/fastfriends/internal/services"
)

type EventRequest struct {
	Name         string     `json:"name" binding:"required"`
	Description  string     `json:"description"`
	StartDate    time.Time  `json:"start_date" binding:"required"`
	EndDate      *time.Time `json:"end_date"`
	Latitude     float64    `json:"latitude"`
	Longitude    float64    `json:"longitude"`
	LocationName string     `json:"location_name"`
	Locality     string     `json:"locality"`
	AdminArea    string     `json:"admin_area"`
	PostalCode   string     `json:"postal_code"`
	CurrencyCode string     `json:"currency_code"`
	Amount       float64    `json:"amount"`
	JoinPolicy   string     `json:"join_policy" binding:"required"`
	Language     string     `json:"language"`
	MaxMembers   int        `json:"max_members" binding:"required"`
}

type CommentRequest struct {
	Message string `json:"message" binding:"required"`
}

type EventHandler struct {
	events     *services.EventService
	membership *services.MembershipService
}

func NewEventHandler(events *services.EventService, membership *services.MembershipService) *EventHandler {
	return &EventHandler{events: events, membership: membership}
}

func (h *EventHandler) Create(c *gin.Context) {
	userID, ok := helpers.CurrentUserID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	event, err := h.events.Create(c.Request.Context(), userID, eventInput(req))
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

func (h *EventHandler) Get(c *gin.Context) {
	userID, _ := helpers.CurrentUserID(c)
	eventID, err := helpers.UUIDParam(c, "id")
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	event, err := h.events.Get(eventID, userID)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) Update(c *gin.Context) {
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

	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	event, err := h.events.Update(c.Request.Context(), eventID, userID, eventInput(req))
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// Cancel soft-cancels or, for events that never got off the ground, deletes.
func (h *EventHandler) Cancel(c *gin.Context) {
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

	deleted, err := h.membership.Cancel(c.Request.Context(), eventID, userID)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

func (h *EventHandler) ListComments(c *gin.Context) {
	eventID, err := helpers.UUIDParam(c, "id")
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	comments, err := h.events.Comments(eventID)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

func (h *EventHandler) CreateComment(c *gin.Context) {
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

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	comment, err := h.events.Comment(c.Request.Context(), eventID, userID, req.Message)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func eventInput(req EventRequest) services.EventInput {
	return services.EventInput{
		Name:         req.Name,
		Description:  req.Description,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		LocationName: req.LocationName,
		Locality:     req.Locality,
		AdminArea:    req.AdminArea,
		PostalCode:   req.PostalCode,
		CurrencyCode: req.CurrencyCode,
		Amount:       req.Amount,
		JoinPolicy:   req.JoinPolicy,
		Language:     req.Language,
		MaxMembers:   req.MaxMembers,
	}
}
