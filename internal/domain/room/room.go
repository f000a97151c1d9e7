package room

import (
	"context"
	"errors"
	"time"
)

var ErrRoomNotFound = errors.New("room: not found")

type Status string

const (
	StatusVacant     Status = "vacant"
	StatusOccupied   Status = "occupied"
	StatusOutOfOrder Status = "out_of_order"
)

type Housekeeping string

const (
	HousekeepingClean Housekeeping = "clean"
	HousekeepingDirty Housekeeping = "dirty"
)

// Room is the physical-room state the night audit rolls forward.
type Room struct {
	ID           string
	HotelID      string
	Number       string
	RoomTypeID   string
	Status       Status
	Housekeeping Housekeeping

	NightsOccupied int
	DueOut         time.Time
	UpdatedAt      time.Time
}

// RollForward advances an occupied room one operational night: the stayover
// count grows and housekeeping is marked dirty. Returns whether the room is
// due out on the new business date.
func (r *Room) RollForward(businessDate time.Time, now time.Time) (dueOut bool) {
	if r.Status != StatusOccupied {
		return false
	}
	r.NightsOccupied++
	r.Housekeeping = HousekeepingDirty
	r.UpdatedAt = now.UTC()
	return !r.DueOut.IsZero() && !r.DueOut.After(businessDate)
}

type Repository interface {
	ByHotel(ctx context.Context, hotelID string) ([]*Room, error)
	Save(ctx context.Context, r *Room) error
}
