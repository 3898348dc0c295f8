package testutil

import (
	"time"

	"github.com/google/uuid"

	grantmodels "healthbridge/internal/grants/models"
	identitymodels "healthbridge/internal/identity/models"
	id "healthbridge/pkg/domain"
)

// TestIDs provides fixed identifiers for deterministic test data.
var TestIDs = struct {
	Hospital1 id.HospitalID
	Hospital2 id.HospitalID
	Doctor1   id.DoctorID
	Doctor2   id.DoctorID
	Patient1  id.PatientID
	Patient2  id.PatientID
}{
	Hospital1: id.HospitalID(uuid.MustParse("aaaa0000-0000-0000-0000-000000000001")),
	Hospital2: id.HospitalID(uuid.MustParse("aaaa0000-0000-0000-0000-000000000002")),
	Doctor1:   id.DoctorID(uuid.MustParse("dddd0000-0000-0000-0000-000000000001")),
	Doctor2:   id.DoctorID(uuid.MustParse("dddd0000-0000-0000-0000-000000000002")),
	Patient1:  id.PatientID(uuid.MustParse("11111111-1111-1111-1111-111111111111")),
	Patient2:  id.PatientID(uuid.MustParse("22222222-2222-2222-2222-222222222222")),
}

// Fixed health UIDs matching TestIDs.Patient1 and TestIDs.Patient2.
const (
	HealthUID1 = "HB-TEST0001"
	HealthUID2 = "HB-TEST0002"
)

// Patients returns the two fixed test patients.
func Patients() []*identitymodels.Patient {
	return []*identitymodels.Patient{
		{ID: TestIDs.Patient1, HealthUID: HealthUID1, Name: "Test Patient One"},
		{ID: TestIDs.Patient2, HealthUID: HealthUID2, Name: "Test Patient Two"},
	}
}

// Doctors returns the two fixed test doctors, one per test hospital.
func Doctors() []*identitymodels.Doctor {
	return []*identitymodels.Doctor{
		{ID: TestIDs.Doctor1, DoctorUID: "DOC-0000001", Name: "Dr. Test One", HospitalID: TestIDs.Hospital1},
		{ID: TestIDs.Doctor2, DoctorUID: "DOC-0000002", Name: "Dr. Test Two", HospitalID: TestIDs.Hospital2},
	}
}

// StandardGrantBuilder provides a fluent interface for building standard grants.
type StandardGrantBuilder struct {
	grant *grantmodels.StandardGrant
}

// NewStandardGrantBuilder defaults to a PENDING one-hour grant from Doctor1 to Patient1.
func NewStandardGrantBuilder(createdAt time.Time) *StandardGrantBuilder {
	return &StandardGrantBuilder{grant: &grantmodels.StandardGrant{
		ID:         id.NewGrantID(),
		DoctorID:   TestIDs.Doctor1,
		PatientID:  TestIDs.Patient1,
		HospitalID: TestIDs.Hospital1,
		Status:     grantmodels.StandardPending,
		CreatedAt:  createdAt,
		ExpiresAt:  createdAt.Add(time.Hour),
	}}
}

func (b *StandardGrantBuilder) WithDoctor(doctorID id.DoctorID, hospitalID id.HospitalID) *StandardGrantBuilder {
	b.grant.DoctorID = doctorID
	b.grant.HospitalID = hospitalID
	return b
}

func (b *StandardGrantBuilder) WithPatient(patientID id.PatientID) *StandardGrantBuilder {
	b.grant.PatientID = patientID
	return b
}

func (b *StandardGrantBuilder) ExpiresAt(t time.Time) *StandardGrantBuilder {
	b.grant.ExpiresAt = t
	return b
}

// Approved marks the grant APPROVED at its creation time.
func (b *StandardGrantBuilder) Approved() *StandardGrantBuilder {
	b.grant.Approve(b.grant.CreatedAt)
	return b
}

func (b *StandardGrantBuilder) Revoked() *StandardGrantBuilder {
	b.grant.Revoke(b.grant.CreatedAt)
	return b
}

func (b *StandardGrantBuilder) Build() *grantmodels.StandardGrant {
	g := *b.grant
	return &g
}

// EmergencyGrantBuilder provides a fluent interface for building emergency grants.
type EmergencyGrantBuilder struct {
	grant *grantmodels.EmergencyGrant
}

// NewEmergencyGrantBuilder defaults to an ACTIVE 24h grant from Doctor1 to Patient1.
func NewEmergencyGrantBuilder(startedAt time.Time) *EmergencyGrantBuilder {
	return &EmergencyGrantBuilder{grant: &grantmodels.EmergencyGrant{
		ID:         id.NewEmergencyGrantID(),
		DoctorID:   TestIDs.Doctor1,
		PatientID:  TestIDs.Patient1,
		HospitalID: TestIDs.Hospital1,
		Reason:     "unconscious, ER",
		Status:     grantmodels.EmergencyActive,
		StartedAt:  startedAt,
		ExpiresAt:  startedAt.Add(grantmodels.EmergencyDuration),
	}}
}

func (b *EmergencyGrantBuilder) WithDoctor(doctorID id.DoctorID, hospitalID id.HospitalID) *EmergencyGrantBuilder {
	b.grant.DoctorID = doctorID
	b.grant.HospitalID = hospitalID
	return b
}

func (b *EmergencyGrantBuilder) WithPatient(patientID id.PatientID) *EmergencyGrantBuilder {
	b.grant.PatientID = patientID
	return b
}

func (b *EmergencyGrantBuilder) ExpiresAt(t time.Time) *EmergencyGrantBuilder {
	b.grant.ExpiresAt = t
	return b
}

func (b *EmergencyGrantBuilder) Revoked() *EmergencyGrantBuilder {
	b.grant.Revoke(b.grant.StartedAt)
	return b
}

func (b *EmergencyGrantBuilder) Build() *grantmodels.EmergencyGrant {
	g := *b.grant
	return &g
}
