package uow

import "context"

type unitKey struct{}

// ContextWithUnitOfWork returns a child context carrying the transactional
// unit so bus middleware can hand it to handlers without widening command
// signatures.
func ContextWithUnitOfWork(ctx context.Context, unit UnitOfWork) context.Context {
	return context.WithValue(ctx, unitKey{}, unit)
}

// FromContext reports the unit of work installed by the transaction
// middleware, if any.
func FromContext(ctx context.Context) (UnitOfWork, bool) {
	unit, ok := ctx.Value(unitKey{}).(UnitOfWork)
	return unit, ok
}
