package audit

import (
	"context"

	"frontdesk/internal/app/commands"
	"frontdesk/internal/app/policies"
	domainaudit "frontdesk/internal/domain/audit"
)

const rolloverDateKey = "audit.rollover_date"

type RolloverDateCommand struct {
	HotelID string
	By      string
}

func (c RolloverDateCommand) Key() string { return rolloverDateKey }

type RolloverDateHandler struct {
	Steps
}

// Handle advances the hotel's operational day by one and records the
// transition on the audit.
func (h *RolloverDateHandler) Handle(ctx context.Context, cmd RolloverDateCommand) (*domainaudit.NightAudit, error) {
	unit, ctx, finish, err := h.begin(ctx)
	if err != nil {
		return nil, err
	}
	result, err := func() (*domainaudit.NightAudit, error) {
		a, err := unit.Audits().ActiveByHotel(ctx, cmd.HotelID)
		if err != nil {
			return nil, err
		}
		if a.Step != domainaudit.StepDateRollover {
			return nil, domainaudit.ErrStepOrder
		}
		h.emit(ctx, a.ID, policies.ProgressStepStart, map[string]any{"step": a.Step})

		hotel, err := unit.Hotels().ByID(ctx, cmd.HotelID)
		if err != nil {
			return nil, err
		}
		from, to := hotel.AdvanceBusinessDate(now())
		if err := unit.Hotels().Save(ctx, hotel); err != nil {
			return nil, err
		}

		if err := a.CompleteDateRollover(from, to, cmd.By, now()); err != nil {
			return nil, err
		}
		if err := h.saveStep(ctx, unit, a, domainaudit.StepDateRollover, a.DateRollover); err != nil {
			return nil, err
		}
		return a, nil
	}()
	if ferr := finish(err); ferr != nil {
		return nil, ferr
	}
	return result, nil
}

var _ commands.Handler[RolloverDateCommand, *domainaudit.NightAudit] = (*RolloverDateHandler)(nil)
