package audit

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"frontdesk/internal/app/commands"
	"frontdesk/internal/app/dto"
	"frontdesk/internal/app/outbox"
	"frontdesk/internal/app/policies"
	"frontdesk/internal/app/queries"
	"frontdesk/internal/app/uow"
	domainaudit "frontdesk/internal/domain/audit"
	domainbooking "frontdesk/internal/domain/booking"
)

const (
	getNoShowsKey     = "audit.get_no_shows"
	processNoShowsKey = "audit.process_no_shows"
)

// No-show dispositions an operator can choose per booking.
const (
	ActionNoShow    = "no_show"
	ActionCancelled = "cancelled"
	ActionWaived    = "waived"
)

type GetNoShowsQuery struct {
	HotelID string
}

func (q GetNoShowsQuery) Key() string { return getNoShowsKey }

type GetNoShowsHandler struct {
	Steps
}

// Handle lists confirmed bookings arriving on the audit's business date that
// never checked in.
func (h *GetNoShowsHandler) Handle(ctx context.Context, q GetNoShowsQuery) ([]dto.NoShowCandidate, error) {
	unit, ctx, finish, err := h.begin(ctx)
	if err != nil {
		return nil, err
	}
	result, err := func() ([]dto.NoShowCandidate, error) {
		a, err := unit.Audits().ActiveByHotel(ctx, q.HotelID)
		if err != nil {
			return nil, err
		}
		arrivals, err := unit.Bookings().ArrivalsOn(ctx, q.HotelID, a.BusinessDate, domainbooking.StateConfirmed)
		if err != nil {
			return nil, err
		}
		candidates := make([]dto.NoShowCandidate, 0, len(arrivals))
		for _, b := range arrivals {
			candidates = append(candidates, dto.NoShowCandidate{
				BookingID:  string(b.ID),
				GuestName:  b.GuestName,
				RoomTypeID: b.RoomTypeID,
				CheckIn:    b.Range.CheckIn,
				CheckOut:   b.Range.CheckOut,
				Nights:     b.Range.Nights(),
				QuotedB2C:  b.Price.Total.B2C.StringFixed(2),
			})
		}
		return candidates, nil
	}()
	if ferr := finish(err); ferr != nil {
		return nil, ferr
	}
	return result, nil
}

type ProcessNoShowsCommand struct {
	HotelID string
	Actions []dto.NoShowAction
	By      string
}

func (c ProcessNoShowsCommand) Key() string { return processNoShowsKey }

type ProcessNoShowsHandler struct {
	Steps
}

// Handle applies the operator's dispositions booking by booking. One
// booking's failure never blocks the rest: every outcome lands in the step's
// records and the step completes with per-item counters. Only a failure to
// persist the audit itself leaves the step pointer unchanged for retry.
func (h *ProcessNoShowsHandler) Handle(ctx context.Context, cmd ProcessNoShowsCommand) (*domainaudit.NightAudit, error) {
	unit, ctx, finish, err := h.begin(ctx)
	if err != nil {
		return nil, err
	}
	result, err := func() (*domainaudit.NightAudit, error) {
		a, err := unit.Audits().ActiveByHotel(ctx, cmd.HotelID)
		if err != nil {
			return nil, err
		}
		if a.Step != domainaudit.StepNoShows {
			return nil, domainaudit.ErrStepOrder
		}
		h.emit(ctx, a.ID, policies.ProgressStepStart, map[string]any{"step": a.Step, "items": len(cmd.Actions)})

		records := make([]domainaudit.NoShowRecord, 0, len(cmd.Actions))
		for i, action := range cmd.Actions {
			record := h.applyAction(ctx, unit, action)
			records = append(records, record)
			h.emit(ctx, a.ID, policies.ProgressStepUpdate, map[string]any{
				"step":      a.Step,
				"processed": i + 1,
				"total":     len(cmd.Actions),
			})
		}

		if err := a.CompleteNoShows(records, cmd.By, now()); err != nil {
			return nil, err
		}
		if err := h.saveStep(ctx, unit, a, domainaudit.StepNoShows, a.NoShows); err != nil {
			return nil, err
		}
		return a, nil
	}()
	if ferr := finish(err); ferr != nil {
		return nil, ferr
	}
	return result, nil
}

func (h *ProcessNoShowsHandler) applyAction(ctx context.Context, unit uow.UnitOfWork, action dto.NoShowAction) domainaudit.NoShowRecord {
	record := domainaudit.NoShowRecord{
		BookingID:    action.BookingID,
		Action:       action.Action,
		ChargeAmount: action.ChargeAmount,
		ChargeType:   action.ChargeType,
	}
	if err := h.disposeBooking(ctx, unit, action); err != nil {
		record.Error = err.Error()
		return record
	}
	record.Succeeded = true
	if action.Action != ActionNoShow {
		// Only the no_show disposition carries a charge.
		record.ChargeAmount = decimal.Zero
	}
	return record
}

func (h *ProcessNoShowsHandler) disposeBooking(ctx context.Context, unit uow.UnitOfWork, action dto.NoShowAction) error {
	b, err := unit.Bookings().ByID(ctx, domainbooking.BookingID(action.BookingID))
	if err != nil {
		return err
	}
	switch action.Action {
	case ActionNoShow:
		err = b.MarkNoShow(action.ChargeAmount, action.ChargeType, now())
	case ActionCancelled:
		err = b.Cancel("no-show cancellation", now())
	case ActionWaived:
		err = b.MarkNoShow(decimal.Zero, "waived", now())
	default:
		return fmt.Errorf("audit: unknown no-show action %q", action.Action)
	}
	if err != nil {
		return err
	}
	if err := unit.Bookings().Save(ctx, b); err != nil {
		return err
	}
	pending := b.PendingEvents()
	b.ClearEvents()
	return outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, pending)
}

var _ queries.Handler[GetNoShowsQuery, []dto.NoShowCandidate] = (*GetNoShowsHandler)(nil)
var _ commands.Handler[ProcessNoShowsCommand, *domainaudit.NightAudit] = (*ProcessNoShowsHandler)(nil)
