package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"healthbridge/internal/grants/models"
	"healthbridge/internal/sentinel"
	id "healthbridge/pkg/domain"
)

// Error Contract:
// - Find* return sentinel.ErrNotFound when nothing matches
// - Update* return sentinel.ErrConflict when the stored status no longer equals expected
// - Reads return copies; callers may mutate them freely

// InMemoryStore keeps grants in memory for dev mode and tests.
type InMemoryStore struct {
	mu        sync.RWMutex
	standard  map[id.GrantID]*models.StandardGrant
	emergency map[id.EmergencyGrantID]*models.EmergencyGrant
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		standard:  make(map[id.GrantID]*models.StandardGrant),
		emergency: make(map[id.EmergencyGrantID]*models.EmergencyGrant),
	}
}

func (s *InMemoryStore) CreateStandard(_ context.Context, g *models.StandardGrant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.standard[g.ID]; ok {
		return sentinel.ErrConflict
	}
	s.standard[g.ID] = copyStandard(g)
	return nil
}

func (s *InMemoryStore) FindStandardByID(_ context.Context, grantID id.GrantID) (*models.StandardGrant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.standard[grantID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return copyStandard(g), nil
}

func (s *InMemoryStore) UpdateStandard(_ context.Context, g *models.StandardGrant, expected models.StandardStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.standard[g.ID]
	if !ok || current.Status != expected {
		return sentinel.ErrConflict
	}
	current.Status = g.Status
	current.ApprovedAt = copyTime(g.ApprovedAt)
	current.RevokedAt = copyTime(g.RevokedAt)
	return nil
}

func (s *InMemoryStore) ListStandardByPatient(_ context.Context, patientID id.PatientID) ([]*models.StandardGrant, error) {
	return s.filterStandard(func(g *models.StandardGrant) bool { return g.PatientID == patientID }), nil
}

func (s *InMemoryStore) ListStandardByDoctor(_ context.Context, doctorID id.DoctorID) ([]*models.StandardGrant, error) {
	return s.filterStandard(func(g *models.StandardGrant) bool { return g.DoctorID == doctorID }), nil
}

func (s *InMemoryStore) ListActiveStandardByHospital(_ context.Context, hospitalID id.HospitalID, now time.Time) ([]*models.StandardGrant, error) {
	return s.filterStandard(func(g *models.StandardGrant) bool {
		return g.HospitalID == hospitalID && g.IsLive(now)
	}), nil
}

// FindActiveStandard returns the live APPROVED grant for the pair with the latest expiry.
func (s *InMemoryStore) FindActiveStandard(_ context.Context, doctorID id.DoctorID, patientID id.PatientID, now time.Time) (*models.StandardGrant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var best *models.StandardGrant
	for _, g := range s.standard {
		if g.DoctorID != doctorID || g.PatientID != patientID || !g.IsLive(now) {
			continue
		}
		if best == nil || g.ExpiresAt.After(best.ExpiresAt) {
			best = g
		}
	}
	if best == nil {
		return nil, sentinel.ErrNotFound
	}
	return copyStandard(best), nil
}

// ExpireStandard flips APPROVED grants whose expiry has passed to EXPIRED.
func (s *InMemoryStore) ExpireStandard(_ context.Context, now time.Time) (int64, error) {
	return s.expireStandardFrom(models.StandardApproved, now), nil
}

// ExpirePendingStandard flips stale PENDING requests to EXPIRED.
func (s *InMemoryStore) ExpirePendingStandard(_ context.Context, now time.Time) (int64, error) {
	return s.expireStandardFrom(models.StandardPending, now), nil
}

func (s *InMemoryStore) expireStandardFrom(from models.StandardStatus, now time.Time) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, g := range s.standard {
		if g.Status == from && g.Expired(now) {
			g.Status = models.StandardExpired
			n++
		}
	}
	return n
}

func (s *InMemoryStore) CreateEmergency(_ context.Context, g *models.EmergencyGrant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.emergency[g.ID]; ok {
		return sentinel.ErrConflict
	}
	s.emergency[g.ID] = copyEmergency(g)
	return nil
}

func (s *InMemoryStore) FindEmergencyByID(_ context.Context, grantID id.EmergencyGrantID) (*models.EmergencyGrant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.emergency[grantID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return copyEmergency(g), nil
}

func (s *InMemoryStore) UpdateEmergency(_ context.Context, g *models.EmergencyGrant, expected models.EmergencyStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.emergency[g.ID]
	if !ok || current.Status != expected {
		return sentinel.ErrConflict
	}
	current.Status = g.Status
	current.RevokedAt = copyTime(g.RevokedAt)
	return nil
}

func (s *InMemoryStore) ListEmergencyByPatient(_ context.Context, patientID id.PatientID) ([]*models.EmergencyGrant, error) {
	return s.filterEmergency(func(g *models.EmergencyGrant) bool { return g.PatientID == patientID }), nil
}

func (s *InMemoryStore) ListEmergencyByDoctor(_ context.Context, doctorID id.DoctorID) ([]*models.EmergencyGrant, error) {
	return s.filterEmergency(func(g *models.EmergencyGrant) bool { return g.DoctorID == doctorID }), nil
}

func (s *InMemoryStore) ListActiveEmergencyByHospital(_ context.Context, hospitalID id.HospitalID, now time.Time) ([]*models.EmergencyGrant, error) {
	return s.filterEmergency(func(g *models.EmergencyGrant) bool {
		return g.HospitalID == hospitalID && g.IsLive(now)
	}), nil
}

func (s *InMemoryStore) FindActiveEmergency(_ context.Context, doctorID id.DoctorID, patientID id.PatientID, now time.Time) (*models.EmergencyGrant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var best *models.EmergencyGrant
	for _, g := range s.emergency {
		if g.DoctorID != doctorID || g.PatientID != patientID || !g.IsLive(now) {
			continue
		}
		if best == nil || g.ExpiresAt.After(best.ExpiresAt) {
			best = g
		}
	}
	if best == nil {
		return nil, sentinel.ErrNotFound
	}
	return copyEmergency(best), nil
}

func (s *InMemoryStore) ExpireEmergency(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, g := range s.emergency {
		if g.Status == models.EmergencyActive && g.Expired(now) {
			g.Status = models.EmergencyExpired
			n++
		}
	}
	return n, nil
}

func (s *InMemoryStore) filterStandard(keep func(*models.StandardGrant) bool) []*models.StandardGrant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.StandardGrant
	for _, g := range s.standard {
		if keep(g) {
			out = append(out, copyStandard(g))
		}
	}
	slices.SortFunc(out, func(a, b *models.StandardGrant) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out
}

func (s *InMemoryStore) filterEmergency(keep func(*models.EmergencyGrant) bool) []*models.EmergencyGrant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.EmergencyGrant
	for _, g := range s.emergency {
		if keep(g) {
			out = append(out, copyEmergency(g))
		}
	}
	slices.SortFunc(out, func(a, b *models.EmergencyGrant) int { return b.StartedAt.Compare(a.StartedAt) })
	return out
}

func copyStandard(g *models.StandardGrant) *models.StandardGrant {
	cp := *g
	cp.ApprovedAt = copyTime(g.ApprovedAt)
	cp.RevokedAt = copyTime(g.RevokedAt)
	return &cp
}

func copyEmergency(g *models.EmergencyGrant) *models.EmergencyGrant {
	cp := *g
	cp.RevokedAt = copyTime(g.RevokedAt)
	return &cp
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
