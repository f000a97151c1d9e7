package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"frontdesk/internal/app/uow"
	domainaudit "frontdesk/internal/domain/audit"
	domainbooking "frontdesk/internal/domain/booking"
	domainhotel "frontdesk/internal/domain/hotel"
	domainpricing "frontdesk/internal/domain/pricing"
	domainroom "frontdesk/internal/domain/room"
	domainshift "frontdesk/internal/domain/shift"
)

// Factory wires Mongo transactions into the generic UnitOfWork interface.
type Factory struct {
	DB *mongo.Database

	RatesRepo     domainpricing.RateStore
	RoomTypesRepo domainpricing.RoomTypeStore
	CampaignsRepo domainpricing.CampaignStore
	BookingsRepo  domainbooking.Repository
	ShiftsRepo    domainshift.Repository
	AuditsRepo    domainaudit.Repository
	RoomsRepo     domainroom.Repository
	HotelsRepo    domainhotel.Repository
}

var ErrUnitOfWorkNotConfigured = errors.New("mongo: unit of work factory missing database")

// Begin starts a MongoDB session/transaction.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.DB == nil {
		return nil, ErrUnitOfWorkNotConfigured
	}
	session, err := f.DB.Client().StartSession()
	if err != nil {
		return nil, err
	}
	txnOpts := options.Transaction().SetReadConcern(f.DB.ReadConcern()).SetWriteConcern(f.DB.WriteConcern())
	if err := session.StartTransaction(txnOpts); err != nil {
		session.EndSession(ctx)
		return nil, err
	}
	return &Unit{factory: f, session: session}, nil
}

type Unit struct {
	factory Factory
	session mongo.Session
}

func (u *Unit) Rates() domainpricing.RateStore         { return u.factory.RatesRepo }
func (u *Unit) RoomTypes() domainpricing.RoomTypeStore { return u.factory.RoomTypesRepo }
func (u *Unit) Campaigns() domainpricing.CampaignStore { return u.factory.CampaignsRepo }
func (u *Unit) Bookings() domainbooking.Repository     { return u.factory.BookingsRepo }
func (u *Unit) Shifts() domainshift.Repository         { return u.factory.ShiftsRepo }
func (u *Unit) Audits() domainaudit.Repository         { return u.factory.AuditsRepo }
func (u *Unit) Rooms() domainroom.Repository           { return u.factory.RoomsRepo }
func (u *Unit) Hotels() domainhotel.Repository         { return u.factory.HotelsRepo }

func (u *Unit) Commit(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.CommitTransaction(ctx)
}

func (u *Unit) Rollback(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.AbortTransaction(ctx)
}

// InjectContext ensures the Mongo session is available in context for
// downstream repositories.
func (u *Unit) InjectContext(ctx context.Context) context.Context {
	return mongo.NewSessionContext(ctx, u.session)
}
