package domain

import dErrors "healthbridge/pkg/domain-errors"

// Role names the kind of authenticated caller.
type Role string

const (
	RolePatient  Role = "PATIENT"
	RoleDoctor   Role = "DOCTOR"
	RoleHospital Role = "HOSPITAL"
)

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RolePatient, RoleDoctor, RoleHospital:
		return true
	}
	return false
}

// Actor is the authenticated caller of an engine operation. The concrete
// variants are PatientActor, DoctorActor and HospitalActor; operations
// type-switch on the variant they accept and reject the rest.
type Actor interface {
	Role() Role
	// Ref is the caller's identifier as written to audit entries.
	Ref() string
	isActor()
}

// PatientActor is a patient acting on their own grants.
type PatientActor struct {
	ID PatientID
}

// DoctorActor is a doctor, carrying the hospital they are affiliated with.
type DoctorActor struct {
	ID         DoctorID
	HospitalID HospitalID
}

// HospitalActor is a hospital administrator account.
type HospitalActor struct {
	ID HospitalID
}

func (PatientActor) Role() Role  { return RolePatient }
func (DoctorActor) Role() Role   { return RoleDoctor }
func (HospitalActor) Role() Role { return RoleHospital }

func (a PatientActor) Ref() string  { return a.ID.String() }
func (a DoctorActor) Ref() string   { return a.ID.String() }
func (a HospitalActor) Ref() string { return a.ID.String() }

func (PatientActor) isActor()  {}
func (DoctorActor) isActor()   {}
func (HospitalActor) isActor() {}

// NewActor builds the variant matching role from raw token claims.
// hospitalRef is required for doctors and ignored otherwise.
func NewActor(role Role, subject, hospitalRef string) (Actor, error) {
	switch role {
	case RolePatient:
		id, err := ParsePatientID(subject)
		if err != nil {
			return nil, err
		}
		return PatientActor{ID: id}, nil
	case RoleDoctor:
		id, err := ParseDoctorID(subject)
		if err != nil {
			return nil, err
		}
		hospitalID, err := ParseHospitalID(hospitalRef)
		if err != nil {
			return nil, err
		}
		return DoctorActor{ID: id, HospitalID: hospitalID}, nil
	case RoleHospital:
		id, err := ParseHospitalID(subject)
		if err != nil {
			return nil, err
		}
		return HospitalActor{ID: id}, nil
	default:
		return nil, dErrors.New(dErrors.CodeInvalidInput, "unknown role: "+string(role))
	}
}
