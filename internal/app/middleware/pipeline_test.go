package middleware

import (
	"context"
	"errors"
	"testing"

	"frontdesk/internal/app/commands"
	"frontdesk/internal/app/outbox"
	"frontdesk/internal/app/uow"
)

func tracingMiddleware(name string, trace *[]string) CommandMiddleware {
	return func(next commands.Bus) commands.Bus {
		nextFn := wrapCommand(next)
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			*trace = append(*trace, name)
			return nextFn(ctx, cmd)
		})
	}
}

func TestChainCommandsAppliesOutermostFirst(t *testing.T) {
	var trace []string
	inner := &countingBus{result: "ok"}
	bus := ChainCommands(inner,
		tracingMiddleware("outer", &trace),
		tracingMiddleware("inner", &trace),
	)

	if _, err := bus.Dispatch(context.Background(), plainCommand{}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if len(trace) != 2 || trace[0] != "outer" || trace[1] != "inner" {
		t.Errorf("trace = %v, want [outer inner]", trace)
	}
}

type recordingOutbox struct {
	flushes int
	err     error
}

func (o *recordingOutbox) Add(context.Context, outbox.EventRecord) error { return nil }
func (o *recordingOutbox) Flush(context.Context) error {
	o.flushes++
	return o.err
}

func TestOutboxFlushRunsAfterSuccess(t *testing.T) {
	box := &recordingOutbox{}
	bus := ChainCommands(&countingBus{result: "ok"}, OutboxFlush(box))

	if _, err := bus.Dispatch(context.Background(), plainCommand{}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if box.flushes != 1 {
		t.Errorf("flushes = %d, want 1", box.flushes)
	}
}

func TestOutboxFlushSkippedOnHandlerError(t *testing.T) {
	box := &recordingOutbox{}
	bus := ChainCommands(&countingBus{err: errors.New("rejected")}, OutboxFlush(box))

	if _, err := bus.Dispatch(context.Background(), plainCommand{}); err == nil {
		t.Fatal("want the handler error")
	}
	if box.flushes != 0 {
		t.Errorf("flushes = %d, want none on failure", box.flushes)
	}
}

type fakeUnit struct {
	commits   int
	rollbacks int
	commitErr error

	uow.UnitOfWork
}

func (u *fakeUnit) Commit(context.Context) error {
	u.commits++
	return u.commitErr
}

func (u *fakeUnit) Rollback(context.Context) error {
	u.rollbacks++
	return nil
}

type fakeFactory struct {
	unit *fakeUnit
	err  error
}

func (f *fakeFactory) Begin(context.Context, uow.TxOptions) (uow.UnitOfWork, error) {
	return f.unit, f.err
}

// unitCheckingBus asserts the unit of work reached the handler's context.
type unitCheckingBus struct {
	sawUnit bool
	err     error
}

func (b *unitCheckingBus) Dispatch(ctx context.Context, _ commands.Command) (any, error) {
	_, b.sawUnit = uow.FromContext(ctx)
	return nil, b.err
}

func TestTransactionCommitsOnSuccess(t *testing.T) {
	unit := &fakeUnit{}
	inner := &unitCheckingBus{}
	bus := ChainCommands(inner, Transaction(&fakeFactory{unit: unit}, nil))

	if _, err := bus.Dispatch(context.Background(), plainCommand{}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if !inner.sawUnit {
		t.Error("handler context carried no unit of work")
	}
	if unit.commits != 1 || unit.rollbacks != 0 {
		t.Errorf("commits/rollbacks = %d/%d, want 1/0", unit.commits, unit.rollbacks)
	}
}

func TestTransactionRollsBackOnHandlerError(t *testing.T) {
	unit := &fakeUnit{}
	inner := &unitCheckingBus{err: errors.New("rejected")}
	bus := ChainCommands(inner, Transaction(&fakeFactory{unit: unit}, nil))

	if _, err := bus.Dispatch(context.Background(), plainCommand{}); err == nil {
		t.Fatal("want the handler error")
	}
	if unit.commits != 0 || unit.rollbacks != 1 {
		t.Errorf("commits/rollbacks = %d/%d, want 0/1", unit.commits, unit.rollbacks)
	}
}

func TestTransactionRollsBackOnCommitFailure(t *testing.T) {
	unit := &fakeUnit{commitErr: errors.New("write conflict")}
	bus := ChainCommands(&unitCheckingBus{}, Transaction(&fakeFactory{unit: unit}, nil))

	if _, err := bus.Dispatch(context.Background(), plainCommand{}); err == nil {
		t.Fatal("want the commit error")
	}
	if unit.rollbacks != 1 {
		t.Errorf("rollbacks = %d, want 1", unit.rollbacks)
	}
}

func TestTransactionPropagatesBeginFailure(t *testing.T) {
	boom := errors.New("no connection")
	bus := ChainCommands(&unitCheckingBus{}, Transaction(&fakeFactory{err: boom}, nil))

	if _, err := bus.Dispatch(context.Background(), plainCommand{}); !errors.Is(err, boom) {
		t.Errorf("err = %v, want the begin failure", err)
	}
}
