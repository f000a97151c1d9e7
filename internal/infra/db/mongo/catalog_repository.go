package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainhotel "frontdesk/internal/domain/hotel"
	domainpricing "frontdesk/internal/domain/pricing"
	domainroom "frontdesk/internal/domain/room"
)

func replaceUpsert() *options.ReplaceOptions {
	return options.Replace().SetUpsert(true)
}

// RoomTypeRepository reads room-type capacity configuration.
type RoomTypeRepository struct {
	col *mongo.Collection
}

func NewRoomTypeRepository(db *mongo.Database) *RoomTypeRepository {
	return &RoomTypeRepository{col: db.Collection("cfg_room_types")}
}

type roomTypeDocument struct {
	ID           string `bson:"_id"`
	HotelID      string `bson:"hotel_id"`
	Name         string `bson:"name"`
	MinAdults    int    `bson:"min_adults"`
	MaxOccupancy int    `bson:"max_occupancy"`
}

func (r *RoomTypeRepository) RoomType(ctx context.Context, hotelID, roomTypeID string) (*domainpricing.RoomType, error) {
	var doc roomTypeDocument
	filter := bson.M{"_id": roomTypeID, "hotel_id": hotelID}
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainpricing.ErrRoomTypeNotFound
		}
		return nil, err
	}
	return &domainpricing.RoomType{
		ID:           doc.ID,
		HotelID:      doc.HotelID,
		Name:         doc.Name,
		MinAdults:    doc.MinAdults,
		MaxOccupancy: doc.MaxOccupancy,
	}, nil
}

func (r *RoomTypeRepository) Put(ctx context.Context, rt *domainpricing.RoomType) error {
	doc := roomTypeDocument{
		ID:           rt.ID,
		HotelID:      rt.HotelID,
		Name:         rt.Name,
		MinAdults:    rt.MinAdults,
		MaxOccupancy: rt.MaxOccupancy,
	}
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, replaceUpsert())
	return err
}

// CampaignRepository reads the promotional campaigns for a hotel.
type CampaignRepository struct {
	col *mongo.Collection
}

func NewCampaignRepository(db *mongo.Database) *CampaignRepository {
	return &CampaignRepository{col: db.Collection("cfg_campaigns")}
}

type campaignDocument struct {
	ID         string `bson:"_id"`
	HotelID    string `bson:"hotel_id"`
	Name       string `bson:"name"`
	Kind       string `bson:"kind"`
	Value      string `bson:"value"`
	Priority   int    `bson:"priority"`
	Combinable bool   `bson:"combinable"`

	ValidFrom      int64    `bson:"valid_from"`
	ValidTo        int64    `bson:"valid_to"`
	MinNights      int      `bson:"min_nights"`
	MinAdvanceDays int      `bson:"min_advance_days"`
	Markets        []string `bson:"markets,omitempty"`
}

func (r *CampaignRepository) ActiveCampaigns(ctx context.Context, hotelID string) ([]domainpricing.Campaign, error) {
	opts := options.Find().SetSort(bson.D{{Key: "priority", Value: 1}})
	cursor, err := r.col.Find(ctx, bson.M{"hotel_id": hotelID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []domainpricing.Campaign
	for cursor.Next(ctx) {
		var doc campaignDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		c := domainpricing.Campaign{
			ID:             doc.ID,
			Name:           doc.Name,
			Kind:           domainpricing.CampaignKind(doc.Kind),
			Value:          decParse(doc.Value),
			Priority:       doc.Priority,
			Combinable:     doc.Combinable,
			MinNights:      doc.MinNights,
			MinAdvanceDays: doc.MinAdvanceDays,
			Markets:        doc.Markets,
		}
		if doc.ValidFrom != 0 {
			c.ValidFrom = timestampToTime(doc.ValidFrom)
		}
		if doc.ValidTo != 0 {
			c.ValidTo = timestampToTime(doc.ValidTo)
		}
		out = append(out, c)
	}
	return out, cursor.Err()
}

func (r *CampaignRepository) Put(ctx context.Context, hotelID string, c domainpricing.Campaign) error {
	doc := campaignDocument{
		ID:             c.ID,
		HotelID:        hotelID,
		Name:           c.Name,
		Kind:           string(c.Kind),
		Value:          decString(c.Value),
		Priority:       c.Priority,
		Combinable:     c.Combinable,
		MinNights:      c.MinNights,
		MinAdvanceDays: c.MinAdvanceDays,
		Markets:        c.Markets,
	}
	if !c.ValidFrom.IsZero() {
		doc.ValidFrom = c.ValidFrom.UnixMilli()
	}
	if !c.ValidTo.IsZero() {
		doc.ValidTo = c.ValidTo.UnixMilli()
	}
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, replaceUpsert())
	return err
}

// HotelRepository persists the per-property operational state.
type HotelRepository struct {
	col *mongo.Collection
}

func NewHotelRepository(db *mongo.Database) *HotelRepository {
	return &HotelRepository{col: db.Collection("agg_hotel")}
}

type hotelDocument struct {
	ID           string `bson:"_id"`
	Name         string `bson:"name"`
	BusinessDate int64  `bson:"business_date"`
	UpdatedAt    int64  `bson:"updated_at"`
}

func (r *HotelRepository) ByID(ctx context.Context, id string) (*domainhotel.Hotel, error) {
	var doc hotelDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainhotel.ErrHotelNotFound
		}
		return nil, err
	}
	return &domainhotel.Hotel{
		ID:           doc.ID,
		Name:         doc.Name,
		BusinessDate: timestampToTime(doc.BusinessDate),
		UpdatedAt:    timestampToTime(doc.UpdatedAt),
	}, nil
}

func (r *HotelRepository) Save(ctx context.Context, h *domainhotel.Hotel) error {
	doc := hotelDocument{
		ID:           h.ID,
		Name:         h.Name,
		BusinessDate: h.BusinessDate.UnixMilli(),
		UpdatedAt:    h.UpdatedAt.UnixMilli(),
	}
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, replaceUpsert())
	return err
}

// RoomRepository persists physical-room state.
type RoomRepository struct {
	col *mongo.Collection
}

func NewRoomRepository(db *mongo.Database) *RoomRepository {
	return &RoomRepository{col: db.Collection("agg_room")}
}

type roomDocument struct {
	ID           string `bson:"_id"`
	HotelID      string `bson:"hotel_id"`
	Number       string `bson:"number"`
	RoomTypeID   string `bson:"room_type_id"`
	Status       string `bson:"status"`
	Housekeeping string `bson:"housekeeping"`

	NightsOccupied int   `bson:"nights_occupied"`
	DueOut         int64 `bson:"due_out"`
	UpdatedAt      int64 `bson:"updated_at"`
}

func (r *RoomRepository) ByHotel(ctx context.Context, hotelID string) ([]*domainroom.Room, error) {
	opts := options.Find().SetSort(bson.D{{Key: "number", Value: 1}})
	cursor, err := r.col.Find(ctx, bson.M{"hotel_id": hotelID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*domainroom.Room
	for cursor.Next(ctx) {
		var doc roomDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		room := &domainroom.Room{
			ID:             doc.ID,
			HotelID:        doc.HotelID,
			Number:         doc.Number,
			RoomTypeID:     doc.RoomTypeID,
			Status:         domainroom.Status(doc.Status),
			Housekeeping:   domainroom.Housekeeping(doc.Housekeeping),
			NightsOccupied: doc.NightsOccupied,
			UpdatedAt:      timestampToTime(doc.UpdatedAt),
		}
		if doc.DueOut != 0 {
			room.DueOut = timestampToTime(doc.DueOut)
		}
		out = append(out, room)
	}
	return out, cursor.Err()
}

func (r *RoomRepository) Save(ctx context.Context, room *domainroom.Room) error {
	doc := roomDocument{
		ID:             room.ID,
		HotelID:        room.HotelID,
		Number:         room.Number,
		RoomTypeID:     room.RoomTypeID,
		Status:         string(room.Status),
		Housekeeping:   string(room.Housekeeping),
		NightsOccupied: room.NightsOccupied,
		UpdatedAt:      room.UpdatedAt.UnixMilli(),
	}
	if !room.DueOut.IsZero() {
		doc.DueOut = room.DueOut.UnixMilli()
	}
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, replaceUpsert())
	return err
}

var (
	_ domainpricing.RoomTypeStore = (*RoomTypeRepository)(nil)
	_ domainpricing.CampaignStore = (*CampaignRepository)(nil)
	_ domainhotel.Repository      = (*HotelRepository)(nil)
	_ domainroom.Repository       = (*RoomRepository)(nil)
)
