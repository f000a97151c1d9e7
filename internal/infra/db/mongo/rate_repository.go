package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	domainpricing "frontdesk/internal/domain/pricing"
	domainrange "frontdesk/internal/domain/shared/daterange"
)

// RateRepository reads contracted rates keyed by the full
// (hotel, room type, meal plan, market, date) tuple. Rates are reference
// data loaded by channel-manager sync, so the read path is a point lookup.
type RateRepository struct {
	col *mongo.Collection
}

func NewRateRepository(db *mongo.Database) *RateRepository {
	return &RateRepository{col: db.Collection("cfg_rates")}
}

func rateDocID(key domainpricing.RateKey) string {
	return fmt.Sprintf("%s|%s|%s|%s|%s",
		key.HotelID, key.RoomTypeID, key.MealPlanID, key.MarketID,
		domainrange.Day(key.Date).Format("2006-01-02"))
}

func (r *RateRepository) RateFor(ctx context.Context, key domainpricing.RateKey) (*domainpricing.Rate, error) {
	var doc rateDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": rateDocID(key)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainpricing.ErrRateNotFound
		}
		return nil, err
	}
	return doc.toRate(), nil
}

// Put stores a rate; used by sync jobs and seeding.
func (r *RateRepository) Put(ctx context.Context, rate *domainpricing.Rate) error {
	doc := newRateDocument(rate)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, replaceUpsert())
	return err
}

type childRuleDocument struct {
	Kind  string `bson:"kind"`
	Value string `bson:"value"`
}

type childBandDocument struct {
	MinAge int               `bson:"min_age"`
	MaxAge int               `bson:"max_age"`
	Rule   childRuleDocument `bson:"rule"`
}

type tierPricesDocument struct {
	Base             string              `bson:"base"`
	ExtraAdult       string              `bson:"extra_adult"`
	SingleSupplement string              `bson:"single_supplement"`
	ChildBands       []childBandDocument `bson:"child_bands,omitempty"`
}

type restrictionsDocument struct {
	StopSale          bool `bson:"stop_sale"`
	SingleStop        bool `bson:"single_stop"`
	ClosedToArrival   bool `bson:"closed_to_arrival"`
	ClosedToDeparture bool `bson:"closed_to_departure"`
	MinStay           int  `bson:"min_stay"`
}

type rateDocument struct {
	ID            string `bson:"_id"`
	HotelID       string `bson:"hotel_id"`
	RoomTypeID    string `bson:"room_type_id"`
	MealPlanID    string `bson:"meal_plan_id"`
	MarketID      string `bson:"market_id"`
	Date          int64  `bson:"date"`
	Mode          string `bson:"mode"`
	BaseOccupancy int    `bson:"base_occupancy"`

	HotelCost tierPricesDocument `bson:"hotel_cost"`
	B2C       tierPricesDocument `bson:"b2c"`
	B2B       tierPricesDocument `bson:"b2b"`

	Restrictions restrictionsDocument `bson:"restrictions"`
}

func newTierPricesDocument(tp domainpricing.TierPrices) tierPricesDocument {
	doc := tierPricesDocument{
		Base:             decString(tp.Base),
		ExtraAdult:       decString(tp.ExtraAdult),
		SingleSupplement: decString(tp.SingleSupplement),
	}
	for _, band := range tp.ChildBands {
		doc.ChildBands = append(doc.ChildBands, childBandDocument{
			MinAge: band.MinAge,
			MaxAge: band.MaxAge,
			Rule:   childRuleDocument{Kind: string(band.Rule.Kind), Value: decString(band.Rule.Value)},
		})
	}
	return doc
}

func (d tierPricesDocument) toTierPrices() domainpricing.TierPrices {
	tp := domainpricing.TierPrices{
		Base:             decParse(d.Base),
		ExtraAdult:       decParse(d.ExtraAdult),
		SingleSupplement: decParse(d.SingleSupplement),
	}
	for _, band := range d.ChildBands {
		tp.ChildBands = append(tp.ChildBands, domainpricing.ChildBand{
			MinAge: band.MinAge,
			MaxAge: band.MaxAge,
			Rule: domainpricing.ChildRule{
				Kind:  domainpricing.ChildRuleKind(band.Rule.Kind),
				Value: decParse(band.Rule.Value),
			},
		})
	}
	return tp
}

func newRateDocument(rate *domainpricing.Rate) rateDocument {
	return rateDocument{
		ID: rateDocID(domainpricing.RateKey{
			HotelID:    rate.HotelID,
			RoomTypeID: rate.RoomTypeID,
			MealPlanID: rate.MealPlanID,
			MarketID:   rate.MarketID,
			Date:       rate.Date,
		}),
		HotelID:       rate.HotelID,
		RoomTypeID:    rate.RoomTypeID,
		MealPlanID:    rate.MealPlanID,
		MarketID:      rate.MarketID,
		Date:          domainrange.Day(rate.Date).UnixMilli(),
		Mode:          string(rate.Mode),
		BaseOccupancy: rate.BaseOccupancy,
		HotelCost:     newTierPricesDocument(rate.HotelCost),
		B2C:           newTierPricesDocument(rate.B2C),
		B2B:           newTierPricesDocument(rate.B2B),
		Restrictions: restrictionsDocument{
			StopSale:          rate.Restrictions.StopSale,
			SingleStop:        rate.Restrictions.SingleStop,
			ClosedToArrival:   rate.Restrictions.ClosedToArrival,
			ClosedToDeparture: rate.Restrictions.ClosedToDeparture,
			MinStay:           rate.Restrictions.MinStay,
		},
	}
}

func (d rateDocument) toRate() *domainpricing.Rate {
	return &domainpricing.Rate{
		HotelID:       d.HotelID,
		RoomTypeID:    d.RoomTypeID,
		MealPlanID:    d.MealPlanID,
		MarketID:      d.MarketID,
		Date:          timestampToTime(d.Date),
		Mode:          domainpricing.PricingMode(d.Mode),
		BaseOccupancy: d.BaseOccupancy,
		HotelCost:     d.HotelCost.toTierPrices(),
		B2C:           d.B2C.toTierPrices(),
		B2B:           d.B2B.toTierPrices(),
		Restrictions: domainpricing.Restrictions{
			StopSale:          d.Restrictions.StopSale,
			SingleStop:        d.Restrictions.SingleStop,
			ClosedToArrival:   d.Restrictions.ClosedToArrival,
			ClosedToDeparture: d.Restrictions.ClosedToDeparture,
			MinStay:           d.Restrictions.MinStay,
		},
	}
}

var _ domainpricing.RateStore = (*RateRepository)(nil)
