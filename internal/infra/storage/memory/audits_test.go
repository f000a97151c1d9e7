package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	domainaudit "frontdesk/internal/domain/audit"
)

func newAudit(id, hotelID string) *domainaudit.NightAudit {
	businessDate := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	return domainaudit.Start(id, hotelID, "operator-1", businessDate, time.Date(2026, time.March, 11, 2, 0, 0, 0, time.UTC))
}

func TestAuditRepositorySingleActivePerHotel(t *testing.T) {
	ctx := context.Background()
	repo := NewAuditRepository()

	if err := repo.Create(ctx, newAudit("audit-1", "hotel-1")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, newAudit("audit-2", "hotel-1")); !errors.Is(err, domainaudit.ErrAuditActive) {
		t.Errorf("second Create = %v, want ErrAuditActive", err)
	}
	// Another hotel is unaffected.
	if err := repo.Create(ctx, newAudit("audit-3", "hotel-2")); err != nil {
		t.Errorf("Create for another hotel: %v", err)
	}
}

func TestAuditRepositoryCreateAfterFinalize(t *testing.T) {
	ctx := context.Background()
	repo := NewAuditRepository()

	first := newAudit("audit-1", "hotel-1")
	first.Status = domainaudit.StatusFinalized
	first.Step = domainaudit.StepFinalized
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, newAudit("audit-2", "hotel-1")); err != nil {
		t.Errorf("Create after finalize = %v, want success", err)
	}
}

func TestAuditRepositoryActiveByHotel(t *testing.T) {
	ctx := context.Background()
	repo := NewAuditRepository()

	if _, err := repo.ActiveByHotel(ctx, "hotel-1"); !errors.Is(err, domainaudit.ErrAuditNotFound) {
		t.Errorf("ActiveByHotel on empty repo = %v, want ErrAuditNotFound", err)
	}

	if err := repo.Create(ctx, newAudit("audit-1", "hotel-1")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := repo.ActiveByHotel(ctx, "hotel-1")
	if err != nil {
		t.Fatalf("ActiveByHotel: %v", err)
	}
	if got.ID != "audit-1" {
		t.Errorf("ID = %s, want audit-1", got.ID)
	}
	if len(got.PendingEvents()) != 0 {
		t.Error("loaded aggregate carries pending events")
	}
}

func TestAuditRepositorySaveVersionGuard(t *testing.T) {
	ctx := context.Background()
	repo := NewAuditRepository()
	if err := repo.Create(ctx, newAudit("audit-1", "hotel-1")); err != nil {
		t.Fatalf("Create: %v", err)
	}

	first, err := repo.ActiveByHotel(ctx, "hotel-1")
	if err != nil {
		t.Fatalf("ActiveByHotel: %v", err)
	}
	second, err := repo.ActiveByHotel(ctx, "hotel-1")
	if err != nil {
		t.Fatalf("ActiveByHotel: %v", err)
	}

	if err := first.CompleteNoShows(nil, "op", time.Now()); err != nil {
		t.Fatalf("CompleteNoShows: %v", err)
	}
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// The second loader raced and lost: its version is stale.
	if err := second.CompleteNoShows(nil, "op", time.Now()); err != nil {
		t.Fatalf("CompleteNoShows on stale copy: %v", err)
	}
	if err := repo.Save(ctx, second); !errors.Is(err, domainaudit.ErrStepOrder) {
		t.Errorf("stale Save = %v, want ErrStepOrder", err)
	}

	// The winner's version advanced and its state stuck.
	reloaded, err := repo.ActiveByHotel(ctx, "hotel-1")
	if err != nil {
		t.Fatalf("ActiveByHotel: %v", err)
	}
	if reloaded.Step != domainaudit.StepRoomRollover {
		t.Errorf("step = %s, want %s", reloaded.Step, domainaudit.StepRoomRollover)
	}
	if reloaded.Version != first.Version {
		t.Errorf("version = %d, want %d", reloaded.Version, first.Version)
	}
}

func TestAuditRepositorySaveUnknownAudit(t *testing.T) {
	repo := NewAuditRepository()
	if err := repo.Save(context.Background(), newAudit("ghost", "hotel-1")); !errors.Is(err, domainaudit.ErrAuditNotFound) {
		t.Errorf("Save = %v, want ErrAuditNotFound", err)
	}
}
