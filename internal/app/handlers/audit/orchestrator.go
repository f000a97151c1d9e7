// Package audit hosts the night-audit step handlers. The steps form a strict
// per-hotel sequence driven by the NightAudit aggregate; every handler loads
// the single active audit, performs its work, and persists the advance as one
// guarded write.
package audit

import (
	"context"
	"errors"
	"time"

	"frontdesk/internal/app/outbox"
	"frontdesk/internal/app/policies"
	"frontdesk/internal/app/uow"
	domainaudit "frontdesk/internal/domain/audit"
)

var ErrUnitOfWorkRequired = errors.New("audit: unit of work required")

// now is indirected for tests.
var now = func() time.Time { return time.Now().UTC() }

// Steps carries the dependencies shared by every audit step handler.
type Steps struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Progress   policies.ProgressEmitter
}

// begin resolves the unit of work from context or starts a managed one.
// finish commits a managed unit on success and rolls it back otherwise; for a
// context-provided unit it is a no-op in both directions.
func (s Steps) begin(ctx context.Context) (unit uow.UnitOfWork, runCtx context.Context, finish func(error) error, err error) {
	if existing, ok := uow.FromContext(ctx); ok {
		return existing, ctx, func(opErr error) error { return opErr }, nil
	}
	if s.UoWFactory == nil {
		return nil, ctx, nil, ErrUnitOfWorkRequired
	}
	unit, err = s.UoWFactory.Begin(ctx, uow.TxOptions{})
	if err != nil {
		return nil, ctx, nil, err
	}
	runCtx = uow.ContextWithUnitOfWork(ctx, unit)
	finish = func(opErr error) error {
		if opErr != nil {
			_ = unit.Rollback(runCtx)
			return opErr
		}
		return unit.Commit(runCtx)
	}
	return unit, runCtx, finish, nil
}

// drain moves the audit's pending domain events into the outbox.
func (s Steps) drain(ctx context.Context, a *domainaudit.NightAudit) error {
	pending := a.PendingEvents()
	a.ClearEvents()
	return outbox.RecordDomainEvents(ctx, s.Outbox, s.Encoder, pending)
}

// emit publishes a progress event; delivery problems are not step failures.
func (s Steps) emit(ctx context.Context, auditID, event string, payload any) {
	if s.Progress == nil {
		return
	}
	_ = s.Progress.Emit(ctx, auditID, event, payload)
}

// saveStep persists a step advance and announces its completion. A failed
// save leaves the aggregate's stored step untouched so the operator can
// safely retry.
func (s Steps) saveStep(ctx context.Context, unit uow.UnitOfWork, a *domainaudit.NightAudit, step domainaudit.Step, payload any) error {
	if err := unit.Audits().Save(ctx, a); err != nil {
		s.emit(ctx, a.ID, policies.ProgressStepFail, map[string]any{"step": step, "error": err.Error()})
		return err
	}
	if err := s.drain(ctx, a); err != nil {
		return err
	}
	s.emit(ctx, a.ID, policies.ProgressStepComplete, map[string]any{"step": step, "detail": payload})
	return nil
}
