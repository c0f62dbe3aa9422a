package care

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Directory/Records implementation. It backs
// tests and standalone deployments where the host application syncs
// domain data in at startup instead of exposing live storage.
type MemoryStore struct {
	mu          sync.RWMutex
	patients    map[string]*Patient // keyed by normalized phone
	staff       map[string]*Staff
	medications map[string][]Medication // keyed by patient/staff id
	procedures  map[string][]Procedure
	bookings    map[string]*TokenBooking
	shifts      map[string][]Shift // keyed by staffID + "/" + facilityID
	resources   map[string][]Resource
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		patients:    make(map[string]*Patient),
		staff:       make(map[string]*Staff),
		medications: make(map[string][]Medication),
		procedures:  make(map[string][]Procedure),
		bookings:    make(map[string]*TokenBooking),
		shifts:      make(map[string][]Shift),
		resources:   make(map[string][]Resource),
	}
}

func (s *MemoryStore) AddPatient(p Patient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patients[NormalizePhone(p.Phone)] = &p
}

func (s *MemoryStore) AddStaff(st Staff) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staff[NormalizePhone(st.Phone)] = &st
}

func (s *MemoryStore) SetMedications(patientID string, meds []Medication) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.medications[patientID] = meds
}

func (s *MemoryStore) SetProcedures(patientID string, procs []Procedure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.procedures[patientID] = procs
}

func (s *MemoryStore) SetTokenBooking(patientID string, tb TokenBooking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings[patientID] = &tb
}

func (s *MemoryStore) SetShifts(staffID, facilityID string, shifts []Shift) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shifts[staffID+"/"+facilityID] = shifts
}

func (s *MemoryStore) SetResources(facilityID string, resources []Resource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resources[facilityID] = resources
}

func (s *MemoryStore) PatientByPhone(_ context.Context, phone string) (*Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.patients[NormalizePhone(phone)]; ok {
		return p, nil
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) StaffByPhone(_ context.Context, phone string) (*Staff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if st, ok := s.staff[NormalizePhone(phone)]; ok {
		return st, nil
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) ActiveMedications(_ context.Context, patientID string) ([]Medication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.medications[patientID], nil
}

func (s *MemoryStore) Procedures(_ context.Context, patientID string) ([]Procedure, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.procedures[patientID], nil
}

func (s *MemoryStore) TokenBooking(_ context.Context, patientID string) (*TokenBooking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if tb, ok := s.bookings[patientID]; ok {
		return tb, nil
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) StaffSchedule(_ context.Context, staffID, facilityID string) ([]Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.shifts[staffID+"/"+facilityID], nil
}

func (s *MemoryStore) ResourceStatus(_ context.Context, facilityID string) ([]Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resources[facilityID], nil
}
