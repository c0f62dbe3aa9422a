// Package care declares the interfaces this gateway expects from the host
// application's domain storage. Patients, staff and their clinical records
// live outside this core; handlers consume them read-only through these
// contracts.
package care

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a phone number or id matches no record.
var ErrNotFound = errors.New("care: not found")

// Patient is the subset of the patient record the handlers render.
type Patient struct {
	ID         string
	Name       string
	Phone      string
	Age        string
	Gender     string
	BloodGroup string
	LastVisit  time.Time
}

// Staff is a facility staff member reachable over the channel.
type Staff struct {
	ID         string
	Name       string
	Phone      string
	FacilityID string
}

// Medication is one active medication request.
type Medication struct {
	Name      string
	Dosage    string
	Frequency string
}

// Procedure is a scheduled or completed procedure.
type Procedure struct {
	Name string
	Date time.Time
}

// TokenBooking is an outpatient token booking.
type TokenBooking struct {
	BookedOn time.Time
	Status   string
	Reason   string
	SlotDate string
	SlotTime string
}

// Shift is one staff schedule entry.
type Shift struct {
	Date     string
	Time     string
	Location string
}

// Resource is one inventory line at a facility.
type Resource struct {
	Name     string
	Quantity int
	Unit     string
}

// Directory resolves channel addresses to domain identities.
type Directory interface {
	PatientByPhone(ctx context.Context, phone string) (*Patient, error)
	StaffByPhone(ctx context.Context, phone string) (*Staff, error)
}

// Records serves the clinical and operational data the handlers render.
type Records interface {
	ActiveMedications(ctx context.Context, patientID string) ([]Medication, error)
	Procedures(ctx context.Context, patientID string) ([]Procedure, error)
	TokenBooking(ctx context.Context, patientID string) (*TokenBooking, error)
	StaffSchedule(ctx context.Context, staffID, facilityID string) ([]Shift, error)
	ResourceStatus(ctx context.Context, facilityID string) ([]Resource, error)
}
