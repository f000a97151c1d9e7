package mongo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "frontdesk/internal/domain/booking"
	domainpricing "frontdesk/internal/domain/pricing"
	domainrange "frontdesk/internal/domain/shared/daterange"
)

var ErrConcurrentUpdate = errors.New("mongo: concurrent update detected")

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection("agg_booking")}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbooking.ErrBookingNotFound
		}
		return nil, err
	}
	return doc.toAggregate()
}

func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	doc, err := newBookingDocument(b)
	if err != nil {
		return err
	}
	filter := bson.M{"_id": doc.ID, "version": b.Version}
	doc.Version = b.Version + 1
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	b.Version = doc.Version
	return nil
}

func (r *BookingRepository) ArrivalsOn(ctx context.Context, hotelID string, date time.Time, state domainbooking.BookingState) ([]*domainbooking.Booking, error) {
	day := domainrange.Day(date)
	filter := bson.M{
		"hotel_id":       hotelID,
		"range.check_in": day.UnixMilli(),
		"state":          string(state),
	}
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*domainbooking.Booking
	for cursor.Next(ctx) {
		var doc bookingDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		b, err := doc.toAggregate()
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, cursor.Err()
}

type bookingDocument struct {
	ID         string        `bson:"_id"`
	HotelID    string        `bson:"hotel_id"`
	RoomTypeID string        `bson:"room_type_id"`
	MealPlanID string        `bson:"meal_plan_id"`
	MarketID   string        `bson:"market_id"`
	GuestName  string        `bson:"guest_name"`
	Range      rangeDocument `bson:"range"`
	Adults     int           `bson:"adults"`
	ChildAges  []int         `bson:"child_ages"`
	// The quote snapshot is immutable history, never queried by field.
	Price            string `bson:"price"`
	State            string `bson:"state"`
	NoShowCharge     string `bson:"no_show_charge"`
	NoShowChargeType string `bson:"no_show_charge_type"`
	CreatedAt        int64  `bson:"created_at"`
	UpdatedAt        int64  `bson:"updated_at"`
	Version          int64  `bson:"version"`
}

func newBookingDocument(b *domainbooking.Booking) (bookingDocument, error) {
	price, err := json.Marshal(b.Price)
	if err != nil {
		return bookingDocument{}, err
	}
	return bookingDocument{
		ID:               string(b.ID),
		HotelID:          b.HotelID,
		RoomTypeID:       b.RoomTypeID,
		MealPlanID:       b.MealPlanID,
		MarketID:         b.MarketID,
		GuestName:        b.GuestName,
		Range:            rangeDocument{CheckIn: b.Range.CheckIn.UnixMilli(), CheckOut: b.Range.CheckOut.UnixMilli()},
		Adults:           b.Occupancy.Adults,
		ChildAges:        b.Occupancy.ChildAges,
		Price:            string(price),
		State:            string(b.State),
		NoShowCharge:     decString(b.NoShowCharge),
		NoShowChargeType: b.NoShowChargeType,
		CreatedAt:        b.CreatedAt.UnixMilli(),
		UpdatedAt:        b.UpdatedAt.UnixMilli(),
		Version:          b.Version,
	}, nil
}

func (d bookingDocument) toAggregate() (*domainbooking.Booking, error) {
	var price domainpricing.StayResult
	if d.Price != "" {
		if err := json.Unmarshal([]byte(d.Price), &price); err != nil {
			return nil, err
		}
	}
	agg := &domainbooking.Booking{
		ID:         domainbooking.BookingID(d.ID),
		HotelID:    d.HotelID,
		RoomTypeID: d.RoomTypeID,
		MealPlanID: d.MealPlanID,
		MarketID:   d.MarketID,
		GuestName:  d.GuestName,
		Range:      domainrange.DateRange{CheckIn: timestampToTime(d.Range.CheckIn), CheckOut: timestampToTime(d.Range.CheckOut)},
		Occupancy:  domainpricing.Occupancy{Adults: d.Adults, ChildAges: d.ChildAges},
		Price:      price,
		State:      domainbooking.BookingState(d.State),

		NoShowCharge:     decParse(d.NoShowCharge),
		NoShowChargeType: d.NoShowChargeType,

		CreatedAt: timestampToTime(d.CreatedAt),
		UpdatedAt: timestampToTime(d.UpdatedAt),
		Version:   d.Version,
	}
	return agg, nil
}

type rangeDocument struct {
	CheckIn  int64 `bson:"check_in"`
	CheckOut int64 `bson:"check_out"`
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
