package store

import (
	"context"
	"sync"

	"healthbridge/internal/identity/models"
	"healthbridge/internal/sentinel"
	id "healthbridge/pkg/domain"
)

// InMemory holds directory records for dev mode and tests.
type InMemory struct {
	mu          sync.RWMutex
	patients    map[id.PatientID]*models.Patient
	byHealthUID map[string]id.PatientID
	doctors     map[id.DoctorID]*models.Doctor
	hospitals   map[id.HospitalID]*models.Hospital
}

func NewInMemory() *InMemory {
	return &InMemory{
		patients:    make(map[id.PatientID]*models.Patient),
		byHealthUID: make(map[string]id.PatientID),
		doctors:     make(map[id.DoctorID]*models.Doctor),
		hospitals:   make(map[id.HospitalID]*models.Hospital),
	}
}

// SavePatient inserts or replaces p. A health UID already owned by a
// different patient yields sentinel.ErrConflict.
func (s *InMemory) SavePatient(_ context.Context, p *models.Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if owner, ok := s.byHealthUID[p.HealthUID]; ok && owner != p.ID {
		return sentinel.ErrConflict
	}
	cp := *p
	s.patients[p.ID] = &cp
	s.byHealthUID[p.HealthUID] = p.ID
	return nil
}

func (s *InMemory) SaveDoctor(_ context.Context, d *models.Doctor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *d
	s.doctors[d.ID] = &cp
	return nil
}

func (s *InMemory) SaveHospital(_ context.Context, h *models.Hospital) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *h
	s.hospitals[h.ID] = &cp
	return nil
}

func (s *InMemory) FindPatientByHealthUID(_ context.Context, healthUID string) (*models.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pid, ok := s.byHealthUID[healthUID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *s.patients[pid]
	return &cp, nil
}

func (s *InMemory) FindPatientByID(_ context.Context, patientID id.PatientID) (*models.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.patients[patientID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *InMemory) FindDoctorByID(_ context.Context, doctorID id.DoctorID) (*models.Doctor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.doctors[doctorID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (s *InMemory) FindHospitalByID(_ context.Context, hospitalID id.HospitalID) (*models.Hospital, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.hospitals[hospitalID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *h
	return &cp, nil
}
