package dto

// QuoteStayRequest is the JSON body of the quote endpoint. Dates use
// yyyy-mm-dd; money is decimal numbers.
type QuoteStayRequest struct {
	HotelID    string `json:"hotel_id"`
	RoomTypeID string `json:"room_type_id"`
	MealPlanID string `json:"meal_plan_id"`
	MarketID   string `json:"market_id"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
	Adults     int    `json:"adults"`
	ChildAges  []int  `json:"child_ages"`
}

type CreateBookingRequest struct {
	QuoteStayRequest
	GuestName string `json:"guest_name"`
}
