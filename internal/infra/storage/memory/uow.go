package memory

import (
	"context"
	"errors"

	"frontdesk/internal/app/uow"
	domainaudit "frontdesk/internal/domain/audit"
	domainbooking "frontdesk/internal/domain/booking"
	domainhotel "frontdesk/internal/domain/hotel"
	domainpricing "frontdesk/internal/domain/pricing"
	domainroom "frontdesk/internal/domain/room"
	domainshift "frontdesk/internal/domain/shift"
)

// Factory wires in-memory repositories into a unit-of-work boundary.
type Factory struct {
	RatesRepo     domainpricing.RateStore
	RoomTypesRepo domainpricing.RoomTypeStore
	CampaignsRepo domainpricing.CampaignStore
	BookingsRepo  domainbooking.Repository
	ShiftsRepo    domainshift.Repository
	AuditsRepo    domainaudit.Repository
	RoomsRepo     domainroom.Repository
	HotelsRepo    domainhotel.Repository
}

// ErrFactoryMisconfigured indicates missing repositories.
var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// Begin starts a lightweight transaction boundary. No isolation is provided
// but the abstraction matches the application ports.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.RatesRepo == nil || f.RoomTypesRepo == nil || f.BookingsRepo == nil || f.AuditsRepo == nil {
		return nil, ErrFactoryMisconfigured
	}
	return &Unit{factory: f}, nil
}

// Unit is a lightweight uow.UnitOfWork backed by in-memory stores.
type Unit struct {
	factory Factory
}

func (u *Unit) Rates() domainpricing.RateStore          { return u.factory.RatesRepo }
func (u *Unit) RoomTypes() domainpricing.RoomTypeStore  { return u.factory.RoomTypesRepo }
func (u *Unit) Campaigns() domainpricing.CampaignStore  { return u.factory.CampaignsRepo }
func (u *Unit) Bookings() domainbooking.Repository      { return u.factory.BookingsRepo }
func (u *Unit) Shifts() domainshift.Repository          { return u.factory.ShiftsRepo }
func (u *Unit) Audits() domainaudit.Repository          { return u.factory.AuditsRepo }
func (u *Unit) Rooms() domainroom.Repository            { return u.factory.RoomsRepo }
func (u *Unit) Hotels() domainhotel.Repository          { return u.factory.HotelsRepo }

func (u *Unit) Commit(ctx context.Context) error   { return nil }
func (u *Unit) Rollback(ctx context.Context) error { return nil }
