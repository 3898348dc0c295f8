package models

import (
	"time"

	id "healthbridge/pkg/domain"
	dErrors "healthbridge/pkg/domain-errors"
)

const (
	// MaxStandardDuration bounds the lifetime of a consent-based grant.
	MaxStandardDuration = 24 * time.Hour
	// EmergencyDuration is the fixed lifetime of an emergency override.
	EmergencyDuration = 24 * time.Hour
)

// StandardGrant is a patient-approved, time-boxed permission for one doctor.
//
// The expiry clock starts when the doctor raises the request, not when the
// patient approves it. HospitalID is the doctor's hospital at creation.
type StandardGrant struct {
	ID         id.GrantID
	DoctorID   id.DoctorID
	PatientID  id.PatientID
	HospitalID id.HospitalID
	Status     StandardStatus
	CreatedAt  time.Time
	ApprovedAt *time.Time
	ExpiresAt  time.Time
	RevokedAt  *time.Time
}

// NewStandardGrant creates a PENDING grant with domain invariant checks.
func NewStandardGrant(grantID id.GrantID, doctorID id.DoctorID, hospitalID id.HospitalID, patientID id.PatientID, createdAt time.Time, duration time.Duration) (*StandardGrant, error) {
	if grantID.IsNil() || doctorID.IsNil() || patientID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "grant, doctor and patient IDs required")
	}
	if createdAt.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "creation time required")
	}
	if duration <= 0 || duration > MaxStandardDuration {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "duration must be greater than 0 and at most 24 hours")
	}
	return &StandardGrant{
		ID:         grantID,
		DoctorID:   doctorID,
		PatientID:  patientID,
		HospitalID: hospitalID,
		Status:     StandardPending,
		CreatedAt:  createdAt,
		ExpiresAt:  createdAt.Add(duration),
	}, nil
}

// Expired reports whether the grant's lifetime has ended at now.
func (g StandardGrant) Expired(now time.Time) bool {
	return !g.ExpiresAt.After(now)
}

// IsLive reports whether the grant currently authorizes access.
func (g StandardGrant) IsLive(now time.Time) bool {
	return g.Status == StandardApproved && !g.Expired(now)
}

// CanRespond reports whether the patient may still approve or reject.
func (g StandardGrant) CanRespond(now time.Time) bool {
	return g.Status == StandardPending && !g.Expired(now)
}

func (g StandardGrant) CanRevoke(now time.Time) bool {
	return (g.Status == StandardPending || g.Status == StandardApproved) && !g.Expired(now)
}

// EffectiveStatus is the stored status reconciled with wall-clock expiry.
// Terminal states are reported as stored.
func (g StandardGrant) EffectiveStatus(now time.Time) StandardStatus {
	if g.Status.IsTerminal() {
		return g.Status
	}
	if g.Expired(now) {
		return StandardExpired
	}
	return g.Status
}

// Approve moves a PENDING grant to APPROVED. Callers check CanRespond first.
func (g *StandardGrant) Approve(now time.Time) {
	g.Status = StandardApproved
	at := now
	g.ApprovedAt = &at
}

// Revoke moves the grant to REVOKED. Rejection of a PENDING request uses it too.
func (g *StandardGrant) Revoke(now time.Time) {
	g.Status = StandardRevoked
	at := now
	g.RevokedAt = &at
}

// EmergencyGrant is a doctor-initiated override scoped to the doctor's hospital.
type EmergencyGrant struct {
	ID         id.EmergencyGrantID
	DoctorID   id.DoctorID
	PatientID  id.PatientID
	HospitalID id.HospitalID
	Reason     string
	Status     EmergencyStatus
	StartedAt  time.Time
	ExpiresAt  time.Time
	RevokedAt  *time.Time
}

// NewEmergencyGrant creates an ACTIVE grant lasting duration from startedAt.
func NewEmergencyGrant(grantID id.EmergencyGrantID, doctorID id.DoctorID, hospitalID id.HospitalID, patientID id.PatientID, reason string, startedAt time.Time, duration time.Duration) (*EmergencyGrant, error) {
	if grantID.IsNil() || doctorID.IsNil() || patientID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "grant, doctor and patient IDs required")
	}
	if hospitalID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "hospital ID required")
	}
	if reason == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "reason is required")
	}
	if duration <= 0 {
		duration = EmergencyDuration
	}
	return &EmergencyGrant{
		ID:         grantID,
		DoctorID:   doctorID,
		PatientID:  patientID,
		HospitalID: hospitalID,
		Reason:     reason,
		Status:     EmergencyActive,
		StartedAt:  startedAt,
		ExpiresAt:  startedAt.Add(duration),
	}, nil
}

func (g EmergencyGrant) Expired(now time.Time) bool {
	return !g.ExpiresAt.After(now)
}

func (g EmergencyGrant) IsLive(now time.Time) bool {
	return g.Status == EmergencyActive && !g.Expired(now)
}

// CanRevoke is equivalent to IsLive: only a running override can be ended.
func (g EmergencyGrant) CanRevoke(now time.Time) bool {
	return g.IsLive(now)
}

func (g EmergencyGrant) EffectiveStatus(now time.Time) EmergencyStatus {
	if g.Status == EmergencyActive && g.Expired(now) {
		return EmergencyExpired
	}
	return g.Status
}

func (g *EmergencyGrant) Revoke(now time.Time) {
	g.Status = EmergencyRevoked
	at := now
	g.RevokedAt = &at
}

// Authorization is the outcome of a live access decision for a (doctor, patient) pair.
type Authorization struct {
	Allowed   bool
	Via       Via
	GrantID   string
	ExpiresAt *time.Time
}

// Denied is the zero-value authorization.
func Denied() Authorization {
	return Authorization{Via: ViaNone}
}

// SweepResult reports how many rows one expiry sweep moved to EXPIRED.
type SweepResult struct {
	ExpiredStandard  int64
	ExpiredEmergency int64
	// ExpiredPending is non-zero only when stale PENDING expiry is enabled.
	ExpiredPending int64
}

// Total is the number of rows written by the sweep.
func (r SweepResult) Total() int64 {
	return r.ExpiredStandard + r.ExpiredEmergency + r.ExpiredPending
}

// GrantList groups both grant kinds for listings. Doctors and Patients are
// filled only for the hospital view, and only for IDs the directory knows.
type GrantList struct {
	Standard  []*StandardGrant
	Emergency []*EmergencyGrant
	Doctors   map[id.DoctorID]DoctorSummary
	Patients  map[id.PatientID]PatientSummary
}

type DoctorSummary struct {
	DoctorUID string
	Name      string
}

type PatientSummary struct {
	HealthUID string
}
