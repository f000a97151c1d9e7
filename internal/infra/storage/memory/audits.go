package memory

import (
	"context"
	"sync"

	domainaudit "frontdesk/internal/domain/audit"
)

// AuditRepository enforces the night-audit invariants in memory: one active
// audit per hotel and version-guarded step advances.
type AuditRepository struct {
	mu    sync.Mutex
	items map[string]*domainaudit.NightAudit
}

func NewAuditRepository() *AuditRepository {
	return &AuditRepository{items: make(map[string]*domainaudit.NightAudit)}
}

func (r *AuditRepository) ActiveByHotel(ctx context.Context, hotelID string) (*domainaudit.NightAudit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.items {
		if a.HotelID == hotelID && a.Status != domainaudit.StatusFinalized {
			copied := *a
			copied.ClearEvents()
			return &copied, nil
		}
	}
	return nil, domainaudit.ErrAuditNotFound
}

func (r *AuditRepository) Create(ctx context.Context, a *domainaudit.NightAudit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.HotelID == a.HotelID && existing.Status != domainaudit.StatusFinalized {
			return domainaudit.ErrAuditActive
		}
	}
	copied := *a
	copied.ClearEvents()
	r.items[a.ID] = &copied
	return nil
}

// Save applies an optimistic version check so two racing step completions
// cannot both advance from the same step.
func (r *AuditRepository) Save(ctx context.Context, a *domainaudit.NightAudit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.items[a.ID]
	if !ok {
		return domainaudit.ErrAuditNotFound
	}
	if existing.Version != a.Version {
		return domainaudit.ErrStepOrder
	}
	copied := *a
	copied.ClearEvents()
	copied.Version = a.Version + 1
	r.items[a.ID] = &copied
	a.Version = copied.Version
	return nil
}

var _ domainaudit.Repository = (*AuditRepository)(nil)
