package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"frontdesk/internal/app/commands"
	"frontdesk/internal/app/dto"
	BookingApp "frontdesk/internal/app/handlers/booking"
	domainpricing "frontdesk/internal/domain/pricing"
)

type BookingHandler struct {
	Commands commands.Bus
}

func (h BookingHandler) Create(c *gin.Context) {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	checkIn, checkOut, err := parseStayDates(req.CheckIn, req.CheckOut)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := BookingApp.RequestBookingCommand{
		CommandID:       generateCommandID(),
		HotelID:         req.HotelID,
		RoomTypeID:      req.RoomTypeID,
		MealPlanID:      req.MealPlanID,
		MarketID:        req.MarketID,
		GuestName:       req.GuestName,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Occupancy:       domainpricing.Occupancy{Adults: req.Adults, ChildAges: req.ChildAges},
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[BookingApp.RequestBookingCommand, *BookingApp.RequestBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func generateCommandID() string {
	return uuid.NewString()
}

var _ BookingHTTP = BookingHandler{}
