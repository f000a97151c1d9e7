package middleware

import (
	"context"

	"frontdesk/internal/app/commands"
	"frontdesk/internal/app/uow"
)

// TxOptionsFunc lets deployments tune transaction options per command kind.
type TxOptionsFunc func(cmd commands.Command) uow.TxOptions

// Transaction opens a unit of work around every command, commits it when the
// handler succeeds and rolls it back otherwise. The unit rides along in the
// context so handlers never deal with transaction lifecycle themselves.
func Transaction(factory uow.UoWFactory, txOpts TxOptionsFunc) CommandMiddleware {
	if factory == nil {
		panic("middleware: uow factory required")
	}
	return func(next commands.Bus) commands.Bus {
		nextFn := wrapCommand(next)
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			var opts uow.TxOptions
			if txOpts != nil {
				opts = txOpts(cmd)
			}
			unit, err := factory.Begin(ctx, opts)
			if err != nil {
				return nil, err
			}
			return runInUnit(ctx, unit, cmd, nextFn)
		})
	}
}

func runInUnit(ctx context.Context, unit uow.UnitOfWork, cmd commands.Command, nextFn func(context.Context, commands.Command) (any, error)) (res any, err error) {
	// Session-backed units need their session bound into the context before
	// repository calls happen.
	if injector, ok := unit.(interface {
		InjectContext(context.Context) context.Context
	}); ok {
		ctx = injector.InjectContext(ctx)
	}
	ctx = uow.ContextWithUnitOfWork(ctx, unit)

	committed := false
	defer func() {
		if !committed {
			_ = unit.Rollback(ctx)
		}
	}()

	res, err = nextFn(ctx, cmd)
	if err != nil {
		return nil, err
	}
	if err := unit.Commit(ctx); err != nil {
		return nil, err
	}
	committed = true
	return res, nil
}
