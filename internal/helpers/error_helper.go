package helpers

import (
	"errors"
	"net/http"

	"github.com/farellandr/fastfriends/internal/models"
	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func RespondWithError(c *gin.Context, statusCode int, customMessage string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: customMessage,
	})
}

// RespondWithDomainError maps a domain error onto its HTTP status. Unknown
// errors become a 500 without leaking internals.
func RespondWithDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		RespondWithError(c, http.StatusNotFound, "Not found.")
	case errors.Is(err, models.ErrForbidden):
		RespondWithError(c, http.StatusForbidden, "You are not allowed to do that.")
	case errors.Is(err, models.ErrInvalidInput), errors.Is(err, models.ErrInvalidCoordinate):
		RespondWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrAlreadyMember):
		RespondWithError(c, http.StatusConflict, "Already a member of this event.")
	case errors.Is(err, models.ErrNotMember):
		RespondWithError(c, http.StatusConflict, "Not a member of this event.")
	case errors.Is(err, models.ErrMemberIsOwner):
		RespondWithError(c, http.StatusConflict, "The event owner cannot do that.")
	case errors.Is(err, models.ErrAlreadyCheckedIn):
		RespondWithError(c, http.StatusConflict, "Already checked in.")
	case errors.Is(err, models.ErrEventFull):
		RespondWithError(c, http.StatusConflict, "Event is full.")
	case errors.Is(err, models.ErrTooEarly):
		RespondWithError(c, http.StatusConflict, "Check-in has not opened yet.")
	case errors.Is(err, models.ErrTooLate):
		RespondWithError(c, http.StatusConflict, "Check-in is closed.")
	case errors.Is(err, models.ErrTooFar):
		RespondWithError(c, http.StatusConflict, "Too far from the event location.")
	case errors.Is(err, models.ErrTooLateToCancel):
		RespondWithError(c, http.StatusConflict, "The event can no longer be canceled.")
	case errors.Is(err, models.ErrNoConversionRate):
		RespondWithError(c, http.StatusBadGateway, "Currency conversion is unavailable.")
	default:
		RespondWithError(c, http.StatusInternalServerError, "Something went wrong.")
	}
}
