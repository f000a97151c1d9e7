package memory

import (
	"context"
	"sync"
	"time"

	domainhotel "frontdesk/internal/domain/hotel"
	domainpricing "frontdesk/internal/domain/pricing"
	domainroom "frontdesk/internal/domain/room"
	"frontdesk/internal/domain/shared/daterange"
)

// RateRepository is an in-memory rate grid keyed by the full lookup tuple.
type RateRepository struct {
	mu    sync.RWMutex
	items map[string]*domainpricing.Rate
}

func NewRateRepository() *RateRepository {
	return &RateRepository{items: make(map[string]*domainpricing.Rate)}
}

func rateKey(hotelID, roomTypeID, mealPlanID, marketID string, date time.Time) string {
	return hotelID + "|" + roomTypeID + "|" + mealPlanID + "|" + marketID + "|" + daterange.Day(date).Format("2006-01-02")
}

// Put stores a rate under its own addressing tuple.
func (r *RateRepository) Put(rate *domainpricing.Rate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[rateKey(rate.HotelID, rate.RoomTypeID, rate.MealPlanID, rate.MarketID, rate.Date)] = rate
}

func (r *RateRepository) RateFor(ctx context.Context, key domainpricing.RateKey) (*domainpricing.Rate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rate, ok := r.items[rateKey(key.HotelID, key.RoomTypeID, key.MealPlanID, key.MarketID, key.Date)]
	if !ok {
		return nil, domainpricing.ErrRateNotFound
	}
	return rate, nil
}

var _ domainpricing.RateStore = (*RateRepository)(nil)

// RoomTypeRepository stores room-type capacity configuration.
type RoomTypeRepository struct {
	mu    sync.RWMutex
	items map[string]*domainpricing.RoomType
}

func NewRoomTypeRepository() *RoomTypeRepository {
	return &RoomTypeRepository{items: make(map[string]*domainpricing.RoomType)}
}

func (r *RoomTypeRepository) Put(rt *domainpricing.RoomType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[rt.HotelID+"|"+rt.ID] = rt
}

func (r *RoomTypeRepository) RoomType(ctx context.Context, hotelID, roomTypeID string) (*domainpricing.RoomType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rt, ok := r.items[hotelID+"|"+roomTypeID]
	if !ok {
		return nil, domainpricing.ErrRoomTypeNotFound
	}
	return rt, nil
}

var _ domainpricing.RoomTypeStore = (*RoomTypeRepository)(nil)

// CampaignRepository stores promotional campaigns per hotel.
type CampaignRepository struct {
	mu    sync.RWMutex
	items map[string][]domainpricing.Campaign
}

func NewCampaignRepository() *CampaignRepository {
	return &CampaignRepository{items: make(map[string][]domainpricing.Campaign)}
}

func (r *CampaignRepository) Put(hotelID string, c domainpricing.Campaign) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[hotelID] = append(r.items[hotelID], c)
}

func (r *CampaignRepository) ActiveCampaigns(ctx context.Context, hotelID string) ([]domainpricing.Campaign, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domainpricing.Campaign(nil), r.items[hotelID]...), nil
}

var _ domainpricing.CampaignStore = (*CampaignRepository)(nil)

// HotelRepository stores per-property operational state.
type HotelRepository struct {
	mu    sync.RWMutex
	items map[string]*domainhotel.Hotel
}

func NewHotelRepository() *HotelRepository {
	return &HotelRepository{items: make(map[string]*domainhotel.Hotel)}
}

func (r *HotelRepository) ByID(ctx context.Context, id string) (*domainhotel.Hotel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.items[id]
	if !ok {
		return nil, domainhotel.ErrHotelNotFound
	}
	copied := *h
	return &copied, nil
}

func (r *HotelRepository) Save(ctx context.Context, h *domainhotel.Hotel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *h
	r.items[h.ID] = &copied
	return nil
}

var _ domainhotel.Repository = (*HotelRepository)(nil)

// RoomRepository stores physical-room state.
type RoomRepository struct {
	mu    sync.RWMutex
	items map[string]*domainroom.Room
}

func NewRoomRepository() *RoomRepository {
	return &RoomRepository{items: make(map[string]*domainroom.Room)}
}

func (r *RoomRepository) ByHotel(ctx context.Context, hotelID string) ([]*domainroom.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domainroom.Room
	for _, room := range r.items {
		if room.HotelID == hotelID {
			copied := *room
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *RoomRepository) Save(ctx context.Context, room *domainroom.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *room
	r.items[room.ID] = &copied
	return nil
}

var _ domainroom.Repository = (*RoomRepository)(nil)
