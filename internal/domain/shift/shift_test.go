package shift

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

var shiftNow = time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func openShift() *Shift {
	return Open("shift-1", "hotel-1", "cashier-1", dec("100"), shiftNow)
}

func TestOpenSeedsTheFloat(t *testing.T) {
	s := openShift()
	if s.Status != StatusOpen {
		t.Errorf("status = %s, want open", s.Status)
	}
	if !s.OpeningBalance.Cash.Equal(dec("100")) || !s.CurrentBalance.Cash.Equal(dec("100")) {
		t.Errorf("balances = %+v / %+v, want the float on both", s.OpeningBalance, s.CurrentBalance)
	}
	if !s.ExpectedCash().Equal(dec("100")) {
		t.Errorf("expected cash = %s, want 100", s.ExpectedCash())
	}
}

func TestPostAccumulatesPerTender(t *testing.T) {
	s := openShift()
	if err := s.Post(dec("50"), dec("120"), dec("0"), shiftNow); err != nil {
		t.Fatalf("Post: %v", err)
	}
	if err := s.Post(dec("-20"), dec("30"), dec("500"), shiftNow); err != nil {
		t.Fatalf("Post: %v", err)
	}

	if !s.CurrentBalance.Cash.Equal(dec("130")) {
		t.Errorf("cash = %s, want 130", s.CurrentBalance.Cash)
	}
	if !s.CurrentBalance.Card.Equal(dec("150")) {
		t.Errorf("card = %s, want 150", s.CurrentBalance.Card)
	}
	if !s.CurrentBalance.Bank.Equal(dec("500")) {
		t.Errorf("bank = %s, want 500", s.CurrentBalance.Bank)
	}
	if s.Transactions != 2 {
		t.Errorf("transactions = %d, want 2", s.Transactions)
	}
}

func TestCloseComputesDiscrepancy(t *testing.T) {
	cases := []struct {
		name   string
		actual string
		want   string
	}{
		{"drawer short", "140", "-10"},
		{"drawer over", "155", "5"},
		{"balanced", "150", "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := openShift()
			if err := s.Post(dec("50"), dec("0"), dec("0"), shiftNow); err != nil {
				t.Fatalf("Post: %v", err)
			}
			if err := s.Close(dec(tc.actual), "auditor-1", shiftNow); err != nil {
				t.Fatalf("Close: %v", err)
			}
			if s.Status != StatusClosed {
				t.Errorf("status = %s, want closed", s.Status)
			}
			if !s.Discrepancy.Equal(dec(tc.want)) {
				t.Errorf("discrepancy = %s, want %s", s.Discrepancy, tc.want)
			}
			if s.ClosedBy != "auditor-1" {
				t.Errorf("closed by %q", s.ClosedBy)
			}
		})
	}
}

func TestClosedShiftRejectsFurtherActivity(t *testing.T) {
	s := openShift()
	if err := s.Close(dec("100"), "auditor-1", shiftNow); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.Post(dec("10"), dec("0"), dec("0"), shiftNow); !errors.Is(err, ErrShiftClosed) {
		t.Errorf("Post after close = %v, want ErrShiftClosed", err)
	}
	if err := s.Close(dec("100"), "auditor-1", shiftNow); !errors.Is(err, ErrShiftClosed) {
		t.Errorf("second Close = %v, want ErrShiftClosed", err)
	}
}

func TestSuspendedShiftStillCloses(t *testing.T) {
	s := openShift()
	if err := s.Suspend(shiftNow); err != nil {
		t.Fatalf("Suspend: %v", err)
	}
	if s.Status != StatusSuspended {
		t.Errorf("status = %s, want suspended", s.Status)
	}
	// A parked shift still takes postings and remains reconcilable.
	if err := s.Post(dec("25"), dec("0"), dec("0"), shiftNow); err != nil {
		t.Fatalf("Post on suspended shift: %v", err)
	}
	if err := s.Close(dec("125"), "auditor-1", shiftNow); err != nil {
		t.Fatalf("Close on suspended shift: %v", err)
	}
	if !s.Discrepancy.IsZero() {
		t.Errorf("discrepancy = %s, want 0", s.Discrepancy)
	}
}

func TestSuspendRequiresOpenShift(t *testing.T) {
	s := openShift()
	if err := s.Suspend(shiftNow); err != nil {
		t.Fatalf("Suspend: %v", err)
	}
	if err := s.Suspend(shiftNow); !errors.Is(err, ErrInvalidState) {
		t.Errorf("double Suspend = %v, want ErrInvalidState", err)
	}
}
