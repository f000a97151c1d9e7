package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainshift "frontdesk/internal/domain/shift"
)

type ShiftRepository struct {
	col *mongo.Collection
}

func NewShiftRepository(db *mongo.Database) *ShiftRepository {
	return &ShiftRepository{col: db.Collection("agg_cashier_shift")}
}

func (r *ShiftRepository) ByID(ctx context.Context, id string) (*domainshift.Shift, error) {
	var doc shiftDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainshift.ErrShiftNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *ShiftRepository) OpenByHotel(ctx context.Context, hotelID string) ([]*domainshift.Shift, error) {
	filter := bson.M{
		"hotel_id": hotelID,
		"status":   bson.M{"$ne": string(domainshift.StatusClosed)},
	}
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*domainshift.Shift
	for cursor.Next(ctx) {
		var doc shiftDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

func (r *ShiftRepository) Save(ctx context.Context, s *domainshift.Shift) error {
	doc := newShiftDocument(s)
	filter := bson.M{"_id": doc.ID, "version": s.Version}
	doc.Version = s.Version + 1
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": doc}, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	s.Version = doc.Version
	return nil
}

type balancesDocument struct {
	Cash string `bson:"cash"`
	Card string `bson:"card"`
	Bank string `bson:"bank"`
}

type shiftDocument struct {
	ID        string `bson:"_id"`
	HotelID   string `bson:"hotel_id"`
	CashierID string `bson:"cashier_id"`
	Status    string `bson:"status"`

	OpeningBalance balancesDocument `bson:"opening_balance"`
	CurrentBalance balancesDocument `bson:"current_balance"`
	Transactions   int              `bson:"transactions"`

	ActualCash  string `bson:"actual_cash"`
	Discrepancy string `bson:"discrepancy"`
	ClosedBy    string `bson:"closed_by"`

	OpenedAt  int64 `bson:"opened_at"`
	ClosedAt  int64 `bson:"closed_at"`
	UpdatedAt int64 `bson:"updated_at"`
	Version   int64 `bson:"version"`
}

func newShiftDocument(s *domainshift.Shift) shiftDocument {
	doc := shiftDocument{
		ID:        s.ID,
		HotelID:   s.HotelID,
		CashierID: s.CashierID,
		Status:    string(s.Status),
		OpeningBalance: balancesDocument{
			Cash: decString(s.OpeningBalance.Cash),
			Card: decString(s.OpeningBalance.Card),
			Bank: decString(s.OpeningBalance.Bank),
		},
		CurrentBalance: balancesDocument{
			Cash: decString(s.CurrentBalance.Cash),
			Card: decString(s.CurrentBalance.Card),
			Bank: decString(s.CurrentBalance.Bank),
		},
		Transactions: s.Transactions,
		ActualCash:   decString(s.ActualCash),
		Discrepancy:  decString(s.Discrepancy),
		ClosedBy:     s.ClosedBy,
		OpenedAt:     s.OpenedAt.UnixMilli(),
		UpdatedAt:    s.UpdatedAt.UnixMilli(),
		Version:      s.Version,
	}
	if !s.ClosedAt.IsZero() {
		doc.ClosedAt = s.ClosedAt.UnixMilli()
	}
	return doc
}

func (d shiftDocument) toAggregate() *domainshift.Shift {
	s := &domainshift.Shift{
		ID:        d.ID,
		HotelID:   d.HotelID,
		CashierID: d.CashierID,
		Status:    domainshift.Status(d.Status),
		OpeningBalance: domainshift.Balances{
			Cash: decParse(d.OpeningBalance.Cash),
			Card: decParse(d.OpeningBalance.Card),
			Bank: decParse(d.OpeningBalance.Bank),
		},
		CurrentBalance: domainshift.Balances{
			Cash: decParse(d.CurrentBalance.Cash),
			Card: decParse(d.CurrentBalance.Card),
			Bank: decParse(d.CurrentBalance.Bank),
		},
		Transactions: d.Transactions,
		ActualCash:   decParse(d.ActualCash),
		Discrepancy:  decParse(d.Discrepancy),
		ClosedBy:     d.ClosedBy,
		OpenedAt:     timestampToTime(d.OpenedAt),
		UpdatedAt:    timestampToTime(d.UpdatedAt),
		Version:      d.Version,
	}
	if d.ClosedAt != 0 {
		s.ClosedAt = timestampToTime(d.ClosedAt)
	}
	return s
}

var _ domainshift.Repository = (*ShiftRepository)(nil)
