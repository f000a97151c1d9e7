package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainaudit "frontdesk/internal/domain/audit"
)

// AuditRepository persists night audits. A partial unique index on
// (hotel_id) filtered to status != finalized backs the single-active
// invariant; Create relies on it and maps the duplicate-key error.
type AuditRepository struct {
	col *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection("agg_night_audit")}
}

// EnsureIndexes creates the partial unique index that serializes audits per
// hotel. Call once at startup.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "hotel_id", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"status": string(domainaudit.StatusActive)}),
	})
	return err
}

func (r *AuditRepository) ActiveByHotel(ctx context.Context, hotelID string) (*domainaudit.NightAudit, error) {
	filter := bson.M{"hotel_id": hotelID, "status": string(domainaudit.StatusActive)}
	var doc auditDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainaudit.ErrAuditNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *AuditRepository) Create(ctx context.Context, a *domainaudit.NightAudit) error {
	if _, err := r.col.InsertOne(ctx, newAuditDocument(a)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domainaudit.ErrAuditActive
		}
		return err
	}
	return nil
}

// Save advances the audit with a filter on the prior version. Two racing
// completions of the same step cannot both match, so the loser surfaces as
// ErrStepOrder.
func (r *AuditRepository) Save(ctx context.Context, a *domainaudit.NightAudit) error {
	doc := newAuditDocument(a)
	filter := bson.M{"_id": doc.ID, "version": a.Version}
	doc.Version = a.Version + 1
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": doc})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domainaudit.ErrStepOrder
	}
	a.Version = doc.Version
	return nil
}

type auditDocument struct {
	ID           string `bson:"_id"`
	HotelID      string `bson:"hotel_id"`
	BusinessDate int64  `bson:"business_date"`
	Step         string `bson:"step"`
	Status       string `bson:"status"`

	NoShows      noShowStepDocument       `bson:"no_shows"`
	RoomRollover roomRolloverStepDocument `bson:"room_rollover"`
	Cashier      cashierStepDocument      `bson:"cashier"`
	DateRollover dateRolloverStepDocument `bson:"date_rollover"`

	StartedBy   string `bson:"started_by"`
	StartedAt   int64  `bson:"started_at"`
	FinalizedAt int64  `bson:"finalized_at"`
	UpdatedAt   int64  `bson:"updated_at"`
	Version     int64  `bson:"version"`
}

type stepCompletionDocument struct {
	Completed   bool   `bson:"completed"`
	CompletedAt int64  `bson:"completed_at"`
	CompletedBy string `bson:"completed_by"`
}

type noShowRecordDocument struct {
	BookingID    string `bson:"booking_id"`
	Action       string `bson:"action"`
	ChargeAmount string `bson:"charge_amount"`
	ChargeType   string `bson:"charge_type"`
	Succeeded    bool   `bson:"succeeded"`
	Error        string `bson:"error,omitempty"`
}

type noShowStepDocument struct {
	stepCompletionDocument `bson:",inline"`
	Records                []noShowRecordDocument `bson:"records"`
	Processed              int                    `bson:"processed"`
	Failed                 int                    `bson:"failed"`
	TotalCharges           string                 `bson:"total_charges"`
}

type roomRolloverStepDocument struct {
	stepCompletionDocument `bson:",inline"`
	RoomsRolled            int `bson:"rooms_rolled"`
	Stayovers              int `bson:"stayovers"`
	DueOut                 int `bson:"due_out"`
}

type shiftClosureDocument struct {
	ShiftID      string `bson:"shift_id"`
	CashierID    string `bson:"cashier_id"`
	ExpectedCash string `bson:"expected_cash"`
	ActualCash   string `bson:"actual_cash"`
	Discrepancy  string `bson:"discrepancy"`
	Succeeded    bool   `bson:"succeeded"`
	Error        string `bson:"error,omitempty"`
}

type cashierStepDocument struct {
	stepCompletionDocument `bson:",inline"`
	Closures               []shiftClosureDocument `bson:"closures"`
	TotalCash              string                 `bson:"total_cash"`
	TotalCard              string                 `bson:"total_card"`
	TotalBank              string                 `bson:"total_bank"`
	TotalDiscrepancy       string                 `bson:"total_discrepancy"`
}

type dateRolloverStepDocument struct {
	stepCompletionDocument `bson:",inline"`
	FromDate               int64 `bson:"from_date"`
	ToDate                 int64 `bson:"to_date"`
}

func newAuditDocument(a *domainaudit.NightAudit) auditDocument {
	doc := auditDocument{
		ID:           a.ID,
		HotelID:      a.HotelID,
		BusinessDate: a.BusinessDate.UnixMilli(),
		Step:         string(a.Step),
		Status:       string(a.Status),
		StartedBy:    a.StartedBy,
		StartedAt:    a.StartedAt.UnixMilli(),
		UpdatedAt:    a.UpdatedAt.UnixMilli(),
		Version:      a.Version,
	}
	if !a.FinalizedAt.IsZero() {
		doc.FinalizedAt = a.FinalizedAt.UnixMilli()
	}

	doc.NoShows = noShowStepDocument{
		stepCompletionDocument: newCompletionDocument(a.NoShows.StepCompletion),
		Processed:              a.NoShows.Processed,
		Failed:                 a.NoShows.Failed,
		TotalCharges:           decString(a.NoShows.TotalCharges),
	}
	for _, rec := range a.NoShows.Records {
		doc.NoShows.Records = append(doc.NoShows.Records, noShowRecordDocument{
			BookingID:    rec.BookingID,
			Action:       rec.Action,
			ChargeAmount: decString(rec.ChargeAmount),
			ChargeType:   rec.ChargeType,
			Succeeded:    rec.Succeeded,
			Error:        rec.Error,
		})
	}

	doc.RoomRollover = roomRolloverStepDocument{
		stepCompletionDocument: newCompletionDocument(a.RoomRollover.StepCompletion),
		RoomsRolled:            a.RoomRollover.RoomsRolled,
		Stayovers:              a.RoomRollover.Stayovers,
		DueOut:                 a.RoomRollover.DueOut,
	}

	doc.Cashier = cashierStepDocument{
		stepCompletionDocument: newCompletionDocument(a.Cashier.StepCompletion),
		TotalCash:              decString(a.Cashier.TotalCash),
		TotalCard:              decString(a.Cashier.TotalCard),
		TotalBank:              decString(a.Cashier.TotalBank),
		TotalDiscrepancy:       decString(a.Cashier.TotalDiscrepancy),
	}
	for _, c := range a.Cashier.Closures {
		doc.Cashier.Closures = append(doc.Cashier.Closures, shiftClosureDocument{
			ShiftID:      c.ShiftID,
			CashierID:    c.CashierID,
			ExpectedCash: decString(c.ExpectedCash),
			ActualCash:   decString(c.ActualCash),
			Discrepancy:  decString(c.Discrepancy),
			Succeeded:    c.Succeeded,
			Error:        c.Error,
		})
	}

	doc.DateRollover = dateRolloverStepDocument{
		stepCompletionDocument: newCompletionDocument(a.DateRollover.StepCompletion),
	}
	if !a.DateRollover.FromDate.IsZero() {
		doc.DateRollover.FromDate = a.DateRollover.FromDate.UnixMilli()
		doc.DateRollover.ToDate = a.DateRollover.ToDate.UnixMilli()
	}
	return doc
}

func (d auditDocument) toAggregate() *domainaudit.NightAudit {
	a := &domainaudit.NightAudit{
		ID:           d.ID,
		HotelID:      d.HotelID,
		BusinessDate: timestampToTime(d.BusinessDate),
		Step:         domainaudit.Step(d.Step),
		Status:       domainaudit.Status(d.Status),
		StartedBy:    d.StartedBy,
		StartedAt:    timestampToTime(d.StartedAt),
		UpdatedAt:    timestampToTime(d.UpdatedAt),
		Version:      d.Version,
	}
	if d.FinalizedAt != 0 {
		a.FinalizedAt = timestampToTime(d.FinalizedAt)
	}

	a.NoShows = domainaudit.NoShowStep{
		StepCompletion: d.NoShows.toCompletion(),
		Processed:      d.NoShows.Processed,
		Failed:         d.NoShows.Failed,
		TotalCharges:   decParse(d.NoShows.TotalCharges),
	}
	for _, rec := range d.NoShows.Records {
		a.NoShows.Records = append(a.NoShows.Records, domainaudit.NoShowRecord{
			BookingID:    rec.BookingID,
			Action:       rec.Action,
			ChargeAmount: decParse(rec.ChargeAmount),
			ChargeType:   rec.ChargeType,
			Succeeded:    rec.Succeeded,
			Error:        rec.Error,
		})
	}

	a.RoomRollover = domainaudit.RoomRolloverStep{
		StepCompletion: d.RoomRollover.toCompletion(),
		RoomsRolled:    d.RoomRollover.RoomsRolled,
		Stayovers:      d.RoomRollover.Stayovers,
		DueOut:         d.RoomRollover.DueOut,
	}

	a.Cashier = domainaudit.CashierStep{
		StepCompletion:   d.Cashier.toCompletion(),
		TotalCash:        decParse(d.Cashier.TotalCash),
		TotalCard:        decParse(d.Cashier.TotalCard),
		TotalBank:        decParse(d.Cashier.TotalBank),
		TotalDiscrepancy: decParse(d.Cashier.TotalDiscrepancy),
	}
	for _, c := range d.Cashier.Closures {
		a.Cashier.Closures = append(a.Cashier.Closures, domainaudit.ShiftClosure{
			ShiftID:      c.ShiftID,
			CashierID:    c.CashierID,
			ExpectedCash: decParse(c.ExpectedCash),
			ActualCash:   decParse(c.ActualCash),
			Discrepancy:  decParse(c.Discrepancy),
			Succeeded:    c.Succeeded,
			Error:        c.Error,
		})
	}

	a.DateRollover = domainaudit.DateRolloverStep{
		StepCompletion: d.DateRollover.toCompletion(),
	}
	if d.DateRollover.FromDate != 0 {
		a.DateRollover.FromDate = timestampToTime(d.DateRollover.FromDate)
		a.DateRollover.ToDate = timestampToTime(d.DateRollover.ToDate)
	}
	return a
}

func newCompletionDocument(c domainaudit.StepCompletion) stepCompletionDocument {
	doc := stepCompletionDocument{Completed: c.Completed, CompletedBy: c.CompletedBy}
	if !c.CompletedAt.IsZero() {
		doc.CompletedAt = c.CompletedAt.UnixMilli()
	}
	return doc
}

func (d stepCompletionDocument) toCompletion() domainaudit.StepCompletion {
	c := domainaudit.StepCompletion{Completed: d.Completed, CompletedBy: d.CompletedBy}
	if d.CompletedAt != 0 {
		c.CompletedAt = timestampToTime(d.CompletedAt)
	}
	return c
}

var _ domainaudit.Repository = (*AuditRepository)(nil)
