package hotel

import (
	"context"
	"errors"
	"time"
)

var ErrHotelNotFound = errors.New("hotel: not found")

// Hotel carries the per-property operational state the audit advances. The
// business date is the hotel's operational day, distinct from the wall-clock
// date once the audit runs past midnight.
type Hotel struct {
	ID           string
	Name         string
	BusinessDate time.Time
	UpdatedAt    time.Time
}

// AdvanceBusinessDate rolls the operational day forward by one.
func (h *Hotel) AdvanceBusinessDate(now time.Time) (from, to time.Time) {
	from = h.BusinessDate
	to = h.BusinessDate.AddDate(0, 0, 1)
	h.BusinessDate = to
	h.UpdatedAt = now.UTC()
	return from, to
}

type Repository interface {
	ByID(ctx context.Context, id string) (*Hotel, error)
	Save(ctx context.Context, h *Hotel) error
}
