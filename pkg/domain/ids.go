// Package domain provides type-safe identifiers to prevent mixing up IDs at compile time.
package domain

import (
	"github.com/google/uuid"

	dErrors "healthbridge/pkg/domain-errors"
)

// Distinct ID types - compiler prevents passing DoctorID where PatientID is expected.
type (
	PatientID        uuid.UUID
	DoctorID         uuid.UUID
	HospitalID       uuid.UUID
	GrantID          uuid.UUID
	EmergencyGrantID uuid.UUID
	AuditEntryID     uuid.UUID
)

// Parse functions - use at trust boundaries (handlers, token claims).

func ParsePatientID(s string) (PatientID, error) {
	id, err := parseUUID(s, "patient ID")
	return PatientID(id), err
}

func ParseDoctorID(s string) (DoctorID, error) {
	id, err := parseUUID(s, "doctor ID")
	return DoctorID(id), err
}

func ParseHospitalID(s string) (HospitalID, error) {
	id, err := parseUUID(s, "hospital ID")
	return HospitalID(id), err
}

func ParseGrantID(s string) (GrantID, error) {
	id, err := parseUUID(s, "grant ID")
	return GrantID(id), err
}

func ParseEmergencyGrantID(s string) (EmergencyGrantID, error) {
	id, err := parseUUID(s, "emergency grant ID")
	return EmergencyGrantID(id), err
}

// Constructors for freshly generated identifiers.

func NewGrantID() GrantID                   { return GrantID(uuid.New()) }
func NewEmergencyGrantID() EmergencyGrantID { return EmergencyGrantID(uuid.New()) }
func NewAuditEntryID() AuditEntryID         { return AuditEntryID(uuid.New()) }

// String methods - for logging and debugging.

func (id PatientID) String() string        { return uuid.UUID(id).String() }
func (id DoctorID) String() string         { return uuid.UUID(id).String() }
func (id HospitalID) String() string       { return uuid.UUID(id).String() }
func (id GrantID) String() string          { return uuid.UUID(id).String() }
func (id EmergencyGrantID) String() string { return uuid.UUID(id).String() }
func (id AuditEntryID) String() string     { return uuid.UUID(id).String() }

// IsNil checks - used for service-layer validation.

func (id PatientID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
func (id DoctorID) IsNil() bool         { return uuid.UUID(id) == uuid.Nil }
func (id HospitalID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id GrantID) IsNil() bool          { return uuid.UUID(id) == uuid.Nil }
func (id EmergencyGrantID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id AuditEntryID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }

// parseUUID is the shared validation logic.
// Nil UUIDs parse successfully; store lookups then report them as not found.
func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be empty")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label+" format")
	}
	return id, nil
}

// Text marshaling keeps IDs as canonical UUID strings in JSON.

func (id PatientID) MarshalText() ([]byte, error)        { return uuid.UUID(id).MarshalText() }
func (id DoctorID) MarshalText() ([]byte, error)         { return uuid.UUID(id).MarshalText() }
func (id HospitalID) MarshalText() ([]byte, error)       { return uuid.UUID(id).MarshalText() }
func (id GrantID) MarshalText() ([]byte, error)          { return uuid.UUID(id).MarshalText() }
func (id EmergencyGrantID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id AuditEntryID) MarshalText() ([]byte, error)     { return uuid.UUID(id).MarshalText() }

func (id *PatientID) UnmarshalText(b []byte) error        { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *DoctorID) UnmarshalText(b []byte) error         { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *HospitalID) UnmarshalText(b []byte) error       { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *GrantID) UnmarshalText(b []byte) error          { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *EmergencyGrantID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *AuditEntryID) UnmarshalText(b []byte) error     { return (*uuid.UUID)(id).UnmarshalText(b) }
