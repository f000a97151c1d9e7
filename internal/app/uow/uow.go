package uow

import (
	"context"

	domainaudit "frontdesk/internal/domain/audit"
	domainbooking "frontdesk/internal/domain/booking"
	domainhotel "frontdesk/internal/domain/hotel"
	domainpricing "frontdesk/internal/domain/pricing"
	domainroom "frontdesk/internal/domain/room"
	domainshift "frontdesk/internal/domain/shift"
)

// UnitOfWork coordinates repositories inside a transaction boundary.
type UnitOfWork interface {
	Rates() domainpricing.RateStore
	RoomTypes() domainpricing.RoomTypeStore
	Campaigns() domainpricing.CampaignStore
	Bookings() domainbooking.Repository
	Shifts() domainshift.Repository
	Audits() domainaudit.Repository
	Rooms() domainroom.Repository
	Hotels() domainhotel.Repository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UoWFactory starts unit of work instances.
type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
}
