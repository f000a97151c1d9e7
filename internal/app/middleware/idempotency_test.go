package middleware

import (
	"context"
	"errors"
	"testing"

	"frontdesk/internal/app/commands"
)

type mapStore struct {
	items map[string]IdempotencyRecord
	gets  int
	saves int
}

func newMapStore() *mapStore {
	return &mapStore{items: make(map[string]IdempotencyRecord)}
}

func (s *mapStore) Get(_ context.Context, key string) (IdempotencyRecord, bool, error) {
	s.gets++
	rec, ok := s.items[key]
	return rec, ok, nil
}

func (s *mapStore) Save(_ context.Context, rec IdempotencyRecord) error {
	s.saves++
	s.items[rec.Key] = rec
	return nil
}

type createCommand struct {
	Name string
	Idem string
}

func (createCommand) Key() string              { return "test.create" }
func (c createCommand) IdempotencyKey() string { return c.Idem }
func (createCommand) ResultPrototype() any     { return &createResult{} }

type createResult struct {
	ID string `json:"id"`
}

// countingBus records dispatches and returns a canned result.
type countingBus struct {
	calls  int
	result any
	err    error
}

func (b *countingBus) Dispatch(context.Context, commands.Command) (any, error) {
	b.calls++
	return b.result, b.err
}

func TestIdempotencyReplaysTheFirstResult(t *testing.T) {
	store := newMapStore()
	inner := &countingBus{result: &createResult{ID: "booking-1"}}
	bus := ChainCommands(inner, Idempotency(store, nil))
	cmd := createCommand{Name: "first", Idem: "req-1"}

	first, err := bus.Dispatch(context.Background(), cmd)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	second, err := bus.Dispatch(context.Background(), cmd)
	if err != nil {
		t.Fatalf("replay Dispatch: %v", err)
	}

	if inner.calls != 1 {
		t.Errorf("handler ran %d times, want once", inner.calls)
	}
	got, ok := second.(*createResult)
	if !ok {
		t.Fatalf("replayed result is %T", second)
	}
	if got.ID != first.(*createResult).ID {
		t.Errorf("replayed ID = %s, want %s", got.ID, first.(*createResult).ID)
	}
}

func TestIdempotencyReplaysFailures(t *testing.T) {
	store := newMapStore()
	inner := &countingBus{err: errors.New("stay is not available")}
	bus := ChainCommands(inner, Idempotency(store, nil))
	cmd := createCommand{Idem: "req-1"}

	if _, err := bus.Dispatch(context.Background(), cmd); err == nil {
		t.Fatal("want the handler error")
	}
	_, err := bus.Dispatch(context.Background(), cmd)
	if err == nil || err.Error() != "stay is not available" {
		t.Fatalf("replayed error = %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("handler ran %d times, want once", inner.calls)
	}
}

func TestIdempotencyPassesThroughWithoutAKey(t *testing.T) {
	store := newMapStore()
	inner := &countingBus{result: &createResult{ID: "x"}}
	bus := ChainCommands(inner, Idempotency(store, nil))
	cmd := createCommand{Idem: ""}

	for i := 0; i < 2; i++ {
		if _, err := bus.Dispatch(context.Background(), cmd); err != nil {
			t.Fatalf("Dispatch: %v", err)
		}
	}
	if inner.calls != 2 {
		t.Errorf("handler ran %d times, want every dispatch", inner.calls)
	}
	if store.saves != 0 {
		t.Errorf("saved %d records for a keyless command", store.saves)
	}
}

type plainCommand struct{}

func (plainCommand) Key() string { return "test.plain" }

func TestIdempotencyIgnoresNonIdempotentCommands(t *testing.T) {
	store := newMapStore()
	inner := &countingBus{result: "ok"}
	bus := ChainCommands(inner, Idempotency(store, nil))

	for i := 0; i < 2; i++ {
		if _, err := bus.Dispatch(context.Background(), plainCommand{}); err != nil {
			t.Fatalf("Dispatch: %v", err)
		}
	}
	if inner.calls != 2 || store.gets != 0 {
		t.Errorf("calls/gets = %d/%d, want 2/0", inner.calls, store.gets)
	}
}

func TestIdempotencyDistinctKeysDoNotCollide(t *testing.T) {
	store := newMapStore()
	inner := &countingBus{result: &createResult{ID: "x"}}
	bus := ChainCommands(inner, Idempotency(store, nil))

	if _, err := bus.Dispatch(context.Background(), createCommand{Idem: "req-1"}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if _, err := bus.Dispatch(context.Background(), createCommand{Idem: "req-2"}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if inner.calls != 2 {
		t.Errorf("handler ran %d times, want once per key", inner.calls)
	}
}
