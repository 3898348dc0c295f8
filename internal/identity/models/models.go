package models

import (
	"regexp"
	"strings"

	id "healthbridge/pkg/domain"
	dErrors "healthbridge/pkg/domain-errors"
)

var (
	healthUIDPattern   = regexp.MustCompile(`^HB-[A-Z0-9]{8}$`)
	doctorUIDPattern   = regexp.MustCompile(`^DOC-[A-Z0-9]{7}$`)
	hospitalUIDPattern = regexp.MustCompile(`^HSP-[A-Z0-9]{4,12}$`)
)

// Patient is the owner of medical records and grantor of standard grants.
type Patient struct {
	ID        id.PatientID `json:"id"`
	HealthUID string       `json:"health_uid"`
	Name      string       `json:"name"`
}

// Doctor is affiliated with exactly one hospital for life.
type Doctor struct {
	ID         id.DoctorID   `json:"id"`
	DoctorUID  string        `json:"doctor_uid"`
	Name       string        `json:"name"`
	HospitalID id.HospitalID `json:"hospital_id"`
}

type Hospital struct {
	ID          id.HospitalID `json:"id"`
	HospitalUID string        `json:"hospital_uid"`
	Name        string        `json:"name"`
}

// NormalizeHealthUID upper-cases and trims a user-supplied health identifier.
func NormalizeHealthUID(uid string) string {
	return strings.ToUpper(strings.TrimSpace(uid))
}

// ValidHealthUID reports whether uid has the HB-XXXXXXXX shape.
func ValidHealthUID(uid string) bool {
	return healthUIDPattern.MatchString(uid)
}

func (p *Patient) Validate() error {
	if p.ID.IsNil() {
		return dErrors.New(dErrors.CodeInvariantViolation, "patient ID required")
	}
	if !ValidHealthUID(p.HealthUID) {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "invalid health UID %q", p.HealthUID)
	}
	return nil
}

func (d *Doctor) Validate() error {
	if d.ID.IsNil() || d.HospitalID.IsNil() {
		return dErrors.New(dErrors.CodeInvariantViolation, "doctor ID and hospital ID required")
	}
	if !doctorUIDPattern.MatchString(d.DoctorUID) {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "invalid doctor UID %q", d.DoctorUID)
	}
	return nil
}

func (h *Hospital) Validate() error {
	if h.ID.IsNil() {
		return dErrors.New(dErrors.CodeInvariantViolation, "hospital ID required")
	}
	if !hospitalUIDPattern.MatchString(h.HospitalUID) {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "invalid hospital UID %q", h.HospitalUID)
	}
	return nil
}
