package ginserver

import (
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"frontdesk/internal/app/dto"
	PricingApp "frontdesk/internal/app/handlers/pricing"
	"frontdesk/internal/app/queries"
	domainpricing "frontdesk/internal/domain/pricing"
)

type PricingHandler struct {
	Queries queries.Bus
}

func (h PricingHandler) Quote(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	var req dto.QuoteStayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	checkIn, checkOut, err := parseStayDates(req.CheckIn, req.CheckOut)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	q := PricingApp.QuoteStayQuery{
		HotelID:    req.HotelID,
		RoomTypeID: req.RoomTypeID,
		MealPlanID: req.MealPlanID,
		MarketID:   req.MarketID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Occupancy:  domainpricing.Occupancy{Adults: req.Adults, ChildAges: req.ChildAges},
	}
	result, err := queries.Ask[PricingApp.QuoteStayQuery, *domainpricing.StayResult](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

const stayDateLayout = "2006-01-02"

func parseStayDates(in, out string) (time.Time, time.Time, error) {
	checkIn, err := time.Parse(stayDateLayout, in)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	checkOut, err := time.Parse(stayDateLayout, out)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return checkIn, checkOut, nil
}

var _ PricingHTTP = PricingHandler{}
