package audit

import (
	"context"

	"frontdesk/internal/app/commands"
	"frontdesk/internal/app/policies"
	domainaudit "frontdesk/internal/domain/audit"
	domainroom "frontdesk/internal/domain/room"
)

const rolloverRoomsKey = "audit.rollover_rooms"

type RolloverRoomsCommand struct {
	HotelID string
	By      string
}

func (c RolloverRoomsCommand) Key() string { return rolloverRoomsKey }

type RolloverRoomsHandler struct {
	Steps
}

// Handle rolls every occupied room one operational night forward and records
// the stayover and due-out counters on the audit.
func (h *RolloverRoomsHandler) Handle(ctx context.Context, cmd RolloverRoomsCommand) (*domainaudit.NightAudit, error) {
	unit, ctx, finish, err := h.begin(ctx)
	if err != nil {
		return nil, err
	}
	result, err := func() (*domainaudit.NightAudit, error) {
		a, err := unit.Audits().ActiveByHotel(ctx, cmd.HotelID)
		if err != nil {
			return nil, err
		}
		if a.Step != domainaudit.StepRoomRollover {
			return nil, domainaudit.ErrStepOrder
		}
		h.emit(ctx, a.ID, policies.ProgressStepStart, map[string]any{"step": a.Step})

		rooms, err := unit.Rooms().ByHotel(ctx, cmd.HotelID)
		if err != nil {
			return nil, err
		}
		var rolled, stayovers, dueOut int
		for _, r := range rooms {
			if r.Status != domainroom.StatusOccupied {
				continue
			}
			if r.RollForward(a.BusinessDate, now()) {
				dueOut++
			} else {
				stayovers++
			}
			rolled++
			if err := unit.Rooms().Save(ctx, r); err != nil {
				return nil, err
			}
		}

		if err := a.CompleteRoomRollover(rolled, stayovers, dueOut, cmd.By, now()); err != nil {
			return nil, err
		}
		if err := h.saveStep(ctx, unit, a, domainaudit.StepRoomRollover, a.RoomRollover); err != nil {
			return nil, err
		}
		return a, nil
	}()
	if ferr := finish(err); ferr != nil {
		return nil, ferr
	}
	return result, nil
}

var _ commands.Handler[RolloverRoomsCommand, *domainaudit.NightAudit] = (*RolloverRoomsHandler)(nil)
