package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/farellandr/fastfriends/internal/geo"
	"github.com/farellandr/fastfriends/internal/helpers"
	"github.com/farellandr/fastfriends/internal/services"
)

// FeedHandler serves the category feeds and the personal history.
type FeedHandler struct {
	discovery *services.DiscoveryService
}

func NewFeedHandler(discovery *services.DiscoveryService) *FeedHandler {
	return &FeedHandler{discovery: discovery}
}

func (h *FeedHandler) Events(c *gin.Context) {
	userID, ok := helpers.CurrentUserID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	position, err := positionQuery(c)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	// No category means the full available pool.
	category := strings.ToUpper(c.Query("category"))
	events, err := h.discovery.Events(userID, category, position)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *FeedHandler) Plans(c *gin.Context) {
	userID, ok := helpers.CurrentUserID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	position, err := positionQuery(c)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	category := strings.ToUpper(c.DefaultQuery("category", services.CategoryNewest))
	plans, err := h.discovery.Plans(userID, category, position)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

func (h *FeedHandler) History(c *gin.Context) {
	userID, ok := helpers.CurrentUserID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	entries, err := h.discovery.History(userID)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// positionQuery reads optional lat/lon query parameters; both must be
// present to form a position.
func positionQuery(c *gin.Context) (*geo.Point, error) {
	lat, hasLat, err := helpers.FloatQuery(c, "lat")
	if err != nil {
		return nil, err
	}
	lon, hasLon, err := helpers.FloatQuery(c, "lon")
	if err != nil {
		return nil, err
	}
	if !hasLat || !hasLon {
		return nil, nil
	}
	point, err := geo.NewPoint(lat, lon)
	if err != nil {
		return nil, err
	}
	return &point, nil
}
