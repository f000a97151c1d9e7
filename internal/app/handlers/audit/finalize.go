package audit

import (
	"context"

	"frontdesk/internal/app/commands"
	"frontdesk/internal/app/policies"
	"frontdesk/internal/app/queries"
	domainaudit "frontdesk/internal/domain/audit"
)

const (
	finalizeAuditKey   = "audit.finalize"
	getCurrentAuditKey = "audit.get_current"
)

type FinalizeAuditCommand struct {
	HotelID string
	By      string
}

func (c FinalizeAuditCommand) Key() string { return finalizeAuditKey }

type FinalizeAuditHandler struct {
	Steps
}

// Handle seals the audit. Afterwards a new audit for the next operational
// date can be started.
func (h *FinalizeAuditHandler) Handle(ctx context.Context, cmd FinalizeAuditCommand) (*domainaudit.NightAudit, error) {
	unit, ctx, finish, err := h.begin(ctx)
	if err != nil {
		return nil, err
	}
	result, err := func() (*domainaudit.NightAudit, error) {
		a, err := unit.Audits().ActiveByHotel(ctx, cmd.HotelID)
		if err != nil {
			return nil, err
		}
		if err := a.Finalize(cmd.By, now()); err != nil {
			return nil, err
		}
		if err := unit.Audits().Save(ctx, a); err != nil {
			h.emit(ctx, a.ID, policies.ProgressFail, map[string]any{"error": err.Error()})
			return nil, err
		}
		if err := h.drain(ctx, a); err != nil {
			return nil, err
		}
		h.emit(ctx, a.ID, policies.ProgressComplete, map[string]any{
			"hotelId":      a.HotelID,
			"businessDate": a.BusinessDate,
		})
		return a, nil
	}()
	if ferr := finish(err); ferr != nil {
		return nil, ferr
	}
	return result, nil
}

type GetCurrentAuditQuery struct {
	HotelID string
}

func (q GetCurrentAuditQuery) Key() string { return getCurrentAuditKey }

type GetCurrentAuditHandler struct {
	Steps
}

// Handle returns the single active audit, the canonical source of truth for
// the hotel's current step.
func (h *GetCurrentAuditHandler) Handle(ctx context.Context, q GetCurrentAuditQuery) (*domainaudit.NightAudit, error) {
	unit, ctx, finish, err := h.begin(ctx)
	if err != nil {
		return nil, err
	}
	result, err := func() (*domainaudit.NightAudit, error) {
		return unit.Audits().ActiveByHotel(ctx, q.HotelID)
	}()
	if ferr := finish(err); ferr != nil {
		return nil, ferr
	}
	return result, nil
}

var _ commands.Handler[FinalizeAuditCommand, *domainaudit.NightAudit] = (*FinalizeAuditHandler)(nil)
var _ queries.Handler[GetCurrentAuditQuery, *domainaudit.NightAudit] = (*GetCurrentAuditHandler)(nil)
