package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	domainbooking "frontdesk/internal/domain/booking"
	"frontdesk/internal/domain/shared/daterange"
)

// BookingRepository is an in-memory booking store.
type BookingRepository struct {
	mu    sync.RWMutex
	items map[domainbooking.BookingID]*domainbooking.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{items: make(map[domainbooking.BookingID]*domainbooking.Booking)}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.items[id]
	if !ok {
		return nil, domainbooking.ErrBookingNotFound
	}
	copied := *b
	copied.ClearEvents()
	return &copied, nil
}

func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *b
	copied.ClearEvents()
	copied.Version = b.Version + 1
	r.items[b.ID] = &copied
	b.Version = copied.Version
	return nil
}

func (r *BookingRepository) ArrivalsOn(ctx context.Context, hotelID string, date time.Time, state domainbooking.BookingState) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	day := daterange.Day(date)
	var out []*domainbooking.Booking
	for _, b := range r.items {
		if b.HotelID != hotelID || b.State != state {
			continue
		}
		if !b.Range.CheckIn.Equal(day) {
			continue
		}
		copied := *b
		copied.ClearEvents()
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

var _ domainbooking.Repository = (*BookingRepository)(nil)
