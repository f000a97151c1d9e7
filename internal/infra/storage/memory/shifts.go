package memory

import (
	"context"
	"sort"
	"sync"

	domainshift "frontdesk/internal/domain/shift"
)

// ShiftRepository is an in-memory cash-register shift store.
type ShiftRepository struct {
	mu    sync.RWMutex
	items map[string]*domainshift.Shift
}

func NewShiftRepository() *ShiftRepository {
	return &ShiftRepository{items: make(map[string]*domainshift.Shift)}
}

func (r *ShiftRepository) ByID(ctx context.Context, id string) (*domainshift.Shift, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.items[id]
	if !ok {
		return nil, domainshift.ErrShiftNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *ShiftRepository) OpenByHotel(ctx context.Context, hotelID string) ([]*domainshift.Shift, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domainshift.Shift
	for _, s := range r.items {
		if s.HotelID != hotelID || s.Status == domainshift.StatusClosed {
			continue
		}
		copied := *s
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *ShiftRepository) Save(ctx context.Context, s *domainshift.Shift) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *s
	copied.Version = s.Version + 1
	r.items[s.ID] = &copied
	s.Version = copied.Version
	return nil
}

var _ domainshift.Repository = (*ShiftRepository)(nil)
