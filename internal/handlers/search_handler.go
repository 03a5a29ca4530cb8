package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/farellandr/fastfriends/internal/geo"
	"github.com/farellandr/fastfriends/internal/helpers"
	"github.com/farellandr/fastfriends/internal/models"
	"github.com/farellandr/fastfriends/internal/repository"
	"github.com/farellandr/fastfriends/internal/services"
)

type SearchHandler struct {
	search *services.SearchService
}

func NewSearchHandler(search *services.SearchService) *SearchHandler {
	return &SearchHandler{search: search}
}

// Search queries one document kind with optional date, price and size
// filters. Dates are RFC 3339.
func (h *SearchHandler) Search(c *gin.Context) {
	kind := c.DefaultQuery("kind", models.SearchKindEvent)
	switch kind {
	case models.SearchKindEvent, models.SearchKindPlan, models.SearchKindProfile:
	default:
		helpers.RespondWithError(c, http.StatusBadRequest, "Unknown kind.")
		return
	}

	query := repository.SearchQuery{
		Kind:     kind,
		Text:     c.Query("q"),
		Currency: c.Query("currency"),
	}

	var err error
	if query.Position, query.RadiusMeters, err = distanceQuery(c); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	if query.StartDate, err = timeQuery(c, "start_date"); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	if query.EndDate, err = timeQuery(c, "end_date"); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	if query.MinPriceUSD, err = floatPtrQuery(c, "min_price"); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	if query.MaxPriceUSD, err = floatPtrQuery(c, "max_price"); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	if query.MinSize, err = intPtrQuery(c, "min_size"); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	if query.MaxSize, err = intPtrQuery(c, "max_size"); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	results, err := h.search.Query(query)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// distanceQuery reads lat, lon and distance (with distance_units "mi" by
// default, "km" accepted). All three must be present to form a circle.
func distanceQuery(c *gin.Context) (*geo.Point, float64, error) {
	lat, hasLat, err := helpers.FloatQuery(c, "lat")
	if err != nil {
		return nil, 0, err
	}
	lon, hasLon, err := helpers.FloatQuery(c, "lon")
	if err != nil {
		return nil, 0, err
	}
	distance, hasDistance, err := helpers.FloatQuery(c, "distance")
	if err != nil {
		return nil, 0, err
	}
	if !hasLat || !hasLon || !hasDistance {
		return nil, 0, nil
	}

	point, err := geo.NewPoint(lat, lon)
	if err != nil {
		return nil, 0, err
	}
	var radius float64
	switch c.DefaultQuery("distance_units", "mi") {
	case "mi":
		radius = geo.MilesToMeters(distance)
	case "km":
		radius = distance * 1000
	default:
		return nil, 0, errors.New("distance_units must be mi or km")
	}
	return &point, radius, nil
}

func timeQuery(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func floatPtrQuery(c *gin.Context, name string) (*float64, error) {
	value, present, err := helpers.FloatQuery(c, name)
	if err != nil || !present {
		return nil, err
	}
	return &value, nil
}

func intPtrQuery(c *gin.Context, name string) (*int, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &value, nil
}
