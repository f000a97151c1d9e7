package audit

import (
	"context"

	"github.com/google/uuid"

	"frontdesk/internal/app/commands"
	"frontdesk/internal/app/policies"
	domainaudit "frontdesk/internal/domain/audit"
)

const startAuditKey = "audit.start"

type StartAuditCommand struct {
	HotelID   string
	StartedBy string
}

func (c StartAuditCommand) Key() string { return startAuditKey }

type StartAuditHandler struct {
	Steps
}

// Handle opens the night audit for the hotel's current business date. The
// repository enforces the single-active-audit invariant: a second start while
// one is running fails with ErrAuditActive.
func (h *StartAuditHandler) Handle(ctx context.Context, cmd StartAuditCommand) (*domainaudit.NightAudit, error) {
	unit, ctx, finish, err := h.begin(ctx)
	if err != nil {
		return nil, err
	}

	result, err := func() (*domainaudit.NightAudit, error) {
		hotel, err := unit.Hotels().ByID(ctx, cmd.HotelID)
		if err != nil {
			return nil, err
		}
		a := domainaudit.Start(uuid.NewString(), cmd.HotelID, cmd.StartedBy, hotel.BusinessDate, now())
		if err := unit.Audits().Create(ctx, a); err != nil {
			return nil, err
		}
		if err := h.drain(ctx, a); err != nil {
			return nil, err
		}
		h.emit(ctx, a.ID, policies.ProgressInit, map[string]any{
			"hotelId":      a.HotelID,
			"businessDate": a.BusinessDate,
			"step":         a.Step,
		})
		return a, nil
	}()
	if ferr := finish(err); ferr != nil {
		return nil, ferr
	}
	return result, nil
}

var _ commands.Handler[StartAuditCommand, *domainaudit.NightAudit] = (*StartAuditHandler)(nil)
