package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kickoff-academy/field-booking-backend/account"
	bk "github.com/kickoff-academy/field-booking-backend/booking"
	"github.com/kickoff-academy/field-booking-backend/field"
)

// writeError maps service errors to a status code. Client errors carry the
// service message, anything unexpected gets fallback.
func writeError(c *gin.Context, err error, fallback string) {
	c.Error(err)

	var (
		validation *bk.ValidationError
		state      *bk.StateError
		conflict   *bk.ConflictError
	)

	switch {
	case errors.As(err, &conflict), errors.As(err, &state), errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, bk.ErrInvalidBookingState):
		c.JSON(http.StatusBadRequest, gin.H{"error": "booking was changed by another request"})
	case errors.Is(err, bk.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
	case errors.Is(err, field.ErrFieldNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "field not found"})
	case errors.Is(err, account.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	case errors.Is(err, bk.ErrNotAllowed):
		c.JSON(http.StatusForbidden, gin.H{"error": "not allowed to perform this operation"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

func parseInstant(c *gin.Context, name string) (time.Time, bool) {
	value := c.Query(name)

	if value == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " is required"})
		return time.Time{}, false
	}

	t, err := time.Parse(time.RFC3339, value)

	if err != nil {
		c.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to parse " + name})
		return time.Time{}, false
	}

	return t, true
}

// parseDateRange reads the optional start_date and end_date query parameters.
func parseDateRange(c *gin.Context, loc *time.Location) (bk.DateRange, bool) {
	var r bk.DateRange

	for name, target := range map[string]**time.Time{"start_date": &r.From, "end_date": &r.To} {
		value := c.Query(name)
		if value == "" {
			continue
		}

		d, err := time.ParseInLocation(time.DateOnly, value, loc)

		if err != nil {
			c.Error(err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to parse " + name})
			return bk.DateRange{}, false
		}

		*target = &d
	}

	return r, true
}
