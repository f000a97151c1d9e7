package audit

import (
	"context"

	"github.com/shopspring/decimal"

	"frontdesk/internal/app/commands"
	"frontdesk/internal/app/dto"
	"frontdesk/internal/app/policies"
	"frontdesk/internal/app/queries"
	"frontdesk/internal/app/uow"
	domainaudit "frontdesk/internal/domain/audit"
	domainshift "frontdesk/internal/domain/shift"
)

const (
	getCashierDataKey = "audit.get_cashier_data"
	closeShiftsKey    = "audit.close_shifts"
)

type GetCashierDataQuery struct {
	HotelID string
}

func (q GetCashierDataQuery) Key() string { return getCashierDataKey }

type GetCashierDataHandler struct {
	Steps
}

// Handle lists the open and suspended shifts awaiting reconciliation with
// their system-tracked expected balances.
func (h *GetCashierDataHandler) Handle(ctx context.Context, q GetCashierDataQuery) ([]dto.ShiftSummary, error) {
	unit, ctx, finish, err := h.begin(ctx)
	if err != nil {
		return nil, err
	}
	result, err := func() ([]dto.ShiftSummary, error) {
		shifts, err := unit.Shifts().OpenByHotel(ctx, q.HotelID)
		if err != nil {
			return nil, err
		}
		summaries := make([]dto.ShiftSummary, 0, len(shifts))
		for _, s := range shifts {
			summaries = append(summaries, dto.ShiftSummary{
				ShiftID:      s.ID,
				CashierID:    s.CashierID,
				Status:       string(s.Status),
				OpenedAt:     s.OpenedAt,
				Transactions: s.Transactions,
				ExpectedCash: s.ExpectedCash(),
				CardTotal:    s.CurrentBalance.Card,
				BankTotal:    s.CurrentBalance.Bank,
			})
		}
		return summaries, nil
	}()
	if ferr := finish(err); ferr != nil {
		return nil, ferr
	}
	return result, nil
}

type CloseShiftsCommand struct {
	HotelID  string
	Closures []dto.ShiftClosure
	By       string
}

func (c CloseShiftsCommand) Key() string { return closeShiftsKey }

type CloseShiftsHandler struct {
	Steps
}

// Handle closes every open or suspended shift against the operator's counted
// drawer. Discrepancies are recorded, never block closure; a shift that fails
// to close is recorded as failed and the step still completes.
func (h *CloseShiftsHandler) Handle(ctx context.Context, cmd CloseShiftsCommand) (*domainaudit.NightAudit, error) {
	unit, ctx, finish, err := h.begin(ctx)
	if err != nil {
		return nil, err
	}
	result, err := func() (*domainaudit.NightAudit, error) {
		a, err := unit.Audits().ActiveByHotel(ctx, cmd.HotelID)
		if err != nil {
			return nil, err
		}
		if a.Step != domainaudit.StepCashier {
			return nil, domainaudit.ErrStepOrder
		}
		h.emit(ctx, a.ID, policies.ProgressStepStart, map[string]any{"step": a.Step, "items": len(cmd.Closures)})

		counted := make(map[string]decimal.Decimal, len(cmd.Closures))
		for _, c := range cmd.Closures {
			counted[c.ShiftID] = c.ActualCash
		}

		shifts, err := unit.Shifts().OpenByHotel(ctx, cmd.HotelID)
		if err != nil {
			return nil, err
		}

		var closures []domainaudit.ShiftClosure
		var totalCash, totalCard, totalBank decimal.Decimal
		for i, s := range shifts {
			closure := h.closeOne(ctx, unit, s, counted, cmd.By)
			closures = append(closures, closure)
			if closure.Succeeded {
				totalCash = totalCash.Add(closure.ActualCash)
				totalCard = totalCard.Add(s.CurrentBalance.Card)
				totalBank = totalBank.Add(s.CurrentBalance.Bank)
			}
			h.emit(ctx, a.ID, policies.ProgressStepUpdate, map[string]any{
				"step":      a.Step,
				"processed": i + 1,
				"total":     len(shifts),
			})
		}

		if err := a.CompleteCashier(closures, totalCash, totalCard, totalBank, cmd.By, now()); err != nil {
			return nil, err
		}
		if err := h.saveStep(ctx, unit, a, domainaudit.StepCashier, a.Cashier); err != nil {
			return nil, err
		}
		return a, nil
	}()
	if ferr := finish(err); ferr != nil {
		return nil, ferr
	}
	return result, nil
}

func (h *CloseShiftsHandler) closeOne(ctx context.Context, unit uow.UnitOfWork, s *domainshift.Shift, counted map[string]decimal.Decimal, by string) domainaudit.ShiftClosure {
	closure := domainaudit.ShiftClosure{
		ShiftID:      s.ID,
		CashierID:    s.CashierID,
		ExpectedCash: s.ExpectedCash(),
	}
	actual, ok := counted[s.ID]
	if !ok {
		// Without a counted amount the drawer closes at its expected value:
		// an unreviewed shift must not keep the audit open.
		actual = s.ExpectedCash()
	}
	closure.ActualCash = actual
	if err := s.Close(actual, by, now()); err != nil {
		closure.Error = err.Error()
		return closure
	}
	if err := unit.Shifts().Save(ctx, s); err != nil {
		closure.Error = err.Error()
		return closure
	}
	closure.Discrepancy = s.Discrepancy
	closure.Succeeded = true
	return closure
}

var _ queries.Handler[GetCashierDataQuery, []dto.ShiftSummary] = (*GetCashierDataHandler)(nil)
var _ commands.Handler[CloseShiftsCommand, *domainaudit.NightAudit] = (*CloseShiftsHandler)(nil)
