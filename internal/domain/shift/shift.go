package shift

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrShiftNotFound = errors.New("shift: not found")
	ErrShiftClosed   = errors.New("shift: shift is closed")
	ErrInvalidState  = errors.New("shift: invalid state transition")
)

type Status string

const (
	StatusOpen      Status = "open"
	StatusSuspended Status = "suspended"
	StatusClosed    Status = "closed"
)

// Balances breaks a shift's takings down by tender.
type Balances struct {
	Cash decimal.Decimal `json:"cash"`
	Card decimal.Decimal `json:"card"`
	Bank decimal.Decimal `json:"bank"`
}

// Shift is one cashier session from open to close. Every posted transaction
// moves the running balance; closing is terminal and later postings are
// rejected.
type Shift struct {
	ID        string
	HotelID   string
	CashierID string
	Status    Status

	OpeningBalance Balances
	CurrentBalance Balances
	Transactions   int

	// Set on close.
	ActualCash  decimal.Decimal
	Discrepancy decimal.Decimal
	ClosedBy    string

	OpenedAt  time.Time
	ClosedAt  time.Time
	UpdatedAt time.Time
	Version   int64
}

// Open starts a cashier session with a float.
func Open(id, hotelID, cashierID string, openingCash decimal.Decimal, now time.Time) *Shift {
	return &Shift{
		ID:             id,
		HotelID:        hotelID,
		CashierID:      cashierID,
		Status:         StatusOpen,
		OpeningBalance: Balances{Cash: openingCash},
		CurrentBalance: Balances{Cash: openingCash},
		OpenedAt:       now.UTC(),
		UpdatedAt:      now.UTC(),
	}
}

// Post records a tender movement on an open or suspended shift.
func (s *Shift) Post(cash, card, bank decimal.Decimal, now time.Time) error {
	if s.Status == StatusClosed {
		return ErrShiftClosed
	}
	s.CurrentBalance.Cash = s.CurrentBalance.Cash.Add(cash)
	s.CurrentBalance.Card = s.CurrentBalance.Card.Add(card)
	s.CurrentBalance.Bank = s.CurrentBalance.Bank.Add(bank)
	s.Transactions++
	s.UpdatedAt = now.UTC()
	return nil
}

// Suspend parks the shift without closing it; it stays eligible for
// reconciliation.
func (s *Shift) Suspend(now time.Time) error {
	if s.Status != StatusOpen {
		return ErrInvalidState
	}
	s.Status = StatusSuspended
	s.UpdatedAt = now.UTC()
	return nil
}

// ExpectedCash is the system-tracked cash the drawer should hold.
func (s *Shift) ExpectedCash() decimal.Decimal {
	return s.CurrentBalance.Cash
}

// Close reconciles the drawer against the operator's count and seals the
// shift. The discrepancy is stored, never blocks closure: investigating it is
// a downstream human process.
func (s *Shift) Close(actualCash decimal.Decimal, closedBy string, now time.Time) error {
	if s.Status == StatusClosed {
		return ErrShiftClosed
	}
	s.ActualCash = actualCash
	s.Discrepancy = actualCash.Sub(s.ExpectedCash())
	s.Status = StatusClosed
	s.ClosedBy = closedBy
	s.ClosedAt = now.UTC()
	s.UpdatedAt = s.ClosedAt
	return nil
}

// Repository reads and writes cashier shifts.
type Repository interface {
	ByID(ctx context.Context, id string) (*Shift, error)
	// OpenByHotel returns the open and suspended shifts awaiting
	// reconciliation.
	OpenByHotel(ctx context.Context, hotelID string) ([]*Shift, error)
	Save(ctx context.Context, s *Shift) error
}
