package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// NoShowCandidate is a confirmed booking with an unfulfilled arrival on the
// audit date, awaiting an operator disposition.
type NoShowCandidate struct {
	BookingID  string    `json:"booking_id"`
	GuestName  string    `json:"guest_name"`
	RoomTypeID string    `json:"room_type_id"`
	CheckIn    time.Time `json:"check_in"`
	CheckOut   time.Time `json:"check_out"`
	Nights     int       `json:"nights"`
	QuotedB2C  string    `json:"quoted_b2c"`
}

// NoShowAction is one operator decision for a candidate booking.
type NoShowAction struct {
	BookingID    string          `json:"booking_id"`
	Action       string          `json:"action"` // no_show | cancelled | waived
	ChargeAmount decimal.Decimal `json:"charge_amount"`
	ChargeType   string          `json:"charge_type"`
}

// ShiftSummary is the reconciliation view of one open or suspended shift.
type ShiftSummary struct {
	ShiftID      string          `json:"shift_id"`
	CashierID    string          `json:"cashier_id"`
	Status       string          `json:"status"`
	OpenedAt     time.Time       `json:"opened_at"`
	Transactions int             `json:"transactions"`
	ExpectedCash decimal.Decimal `json:"expected_cash"`
	CardTotal    decimal.Decimal `json:"card_total"`
	BankTotal    decimal.Decimal `json:"bank_total"`
}

// ShiftClosure is the operator's counted drawer for one shift.
type ShiftClosure struct {
	ShiftID    string          `json:"shift_id"`
	ActualCash decimal.Decimal `json:"actual_cash"`
}
