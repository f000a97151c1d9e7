package outbox

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	appoutbox "frontdesk/internal/app/outbox"
)

const (
	statusPending = "pending"
	statusSent    = "sent"
)

// EventDocument is one persisted outbox entry.
type EventDocument struct {
	ID         string            `bson:"_id"`
	Name       string            `bson:"name"`
	Aggregate  string            `bson:"aggregate"`
	Payload    []byte            `bson:"payload"`
	Headers    map[string]string `bson:"headers,omitempty"`
	OccurredAt time.Time         `bson:"occurred_at"`

	Status    string    `bson:"status"`
	Attempts  int       `bson:"attempts"`
	NextRetry time.Time `bson:"next_retry"`
	ClaimedBy string    `bson:"claimed_by,omitempty"`
	LastError string    `bson:"last_error,omitempty"`
	SentAt    time.Time `bson:"sent_at,omitempty"`
}

// Store is the durable queue the worker drains.
type Store struct {
	col *mongo.Collection
}

func NewStore(db *mongo.Database) *Store {
	return &Store{col: db.Collection("outbox_events")}
}

func (s *Store) Append(ctx context.Context, rec appoutbox.EventRecord) error {
	doc := EventDocument{
		ID:         rec.ID,
		Name:       rec.Name,
		Aggregate:  rec.Aggregate,
		Payload:    rec.Payload,
		Headers:    rec.Headers,
		OccurredAt: rec.OccurredAt,
		Status:     statusPending,
		NextRetry:  time.Now(),
	}
	_, err := s.col.InsertOne(ctx, doc)
	return err
}

// Claim atomically takes ownership of one due pending entry. Returns nil when
// the queue is drained.
func (s *Store) Claim(ctx context.Context, workerID string) (*EventDocument, error) {
	filter := bson.M{
		"status":     statusPending,
		"next_retry": bson.M{"$lte": time.Now()},
	}
	update := bson.M{"$set": bson.M{"claimed_by": workerID}, "$inc": bson.M{"attempts": 1}}
	opts := options.FindOneAndUpdate().
		SetSort(bson.D{{Key: "occurred_at", Value: 1}}).
		SetReturnDocument(options.After)

	var doc EventDocument
	if err := s.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

func (s *Store) MarkSent(ctx context.Context, id string) error {
	update := bson.M{"$set": bson.M{"status": statusSent, "sent_at": time.Now()}}
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

func (s *Store) MarkFailed(ctx context.Context, id string, nextRetry time.Time, reason string) error {
	update := bson.M{"$set": bson.M{
		"status":     statusPending,
		"next_retry": nextRetry,
		"last_error": reason,
		"claimed_by": "",
	}}
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

// DurableOutbox buffers records during a command and appends them to the
// store on flush, inside the ambient transaction when one is active.
type DurableOutbox struct {
	store *Store

	mu      sync.Mutex
	pending []appoutbox.EventRecord
}

func NewDurableOutbox(store *Store) *DurableOutbox {
	return &DurableOutbox{store: store}
}

func (o *DurableOutbox) Add(ctx context.Context, record appoutbox.EventRecord) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pending = append(o.pending, record)
	return nil
}

func (o *DurableOutbox) Flush(ctx context.Context) error {
	o.mu.Lock()
	batch := o.pending
	o.pending = nil
	o.mu.Unlock()
	for _, rec := range batch {
		if err := o.store.Append(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

var _ appoutbox.Outbox = (*DurableOutbox)(nil)
