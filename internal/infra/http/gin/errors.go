package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	domainaudit "frontdesk/internal/domain/audit"
	domainbooking "frontdesk/internal/domain/booking"
	domainhotel "frontdesk/internal/domain/hotel"
	domainpricing "frontdesk/internal/domain/pricing"
	domainrange "frontdesk/internal/domain/shared/daterange"
	domainshift "frontdesk/internal/domain/shift"
)

// respondError maps domain errors onto HTTP statuses. Conflicts cover both
// the single-active-audit rule and out-of-order step calls.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainaudit.ErrAuditNotFound),
		errors.Is(err, domainhotel.ErrHotelNotFound),
		errors.Is(err, domainbooking.ErrBookingNotFound),
		errors.Is(err, domainshift.ErrShiftNotFound),
		errors.Is(err, domainpricing.ErrRoomTypeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domainaudit.ErrAuditActive),
		errors.Is(err, domainaudit.ErrStepOrder),
		errors.Is(err, domainaudit.ErrFinalized),
		errors.Is(err, domainshift.ErrShiftClosed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domainrange.ErrInvalidRange),
		errors.Is(err, domainpricing.ErrNegativeAdults),
		errors.Is(err, domainbooking.ErrInvalidGuests),
		errors.Is(err, domainbooking.ErrUnavailable):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
