package handler

import (
	"time"

	"healthbridge/internal/audit"
	"healthbridge/internal/grants/models"
	id "healthbridge/pkg/domain"
)

// StandardGrantResponse reports a standard grant. EffectiveStatus reconciles
// the stored status with the request time, so a stale PENDING request shows
// as EXPIRED before any sweep has touched it.
type StandardGrantResponse struct {
	ID              string          `json:"id"`
	Type            string          `json:"type"`
	DoctorID        string          `json:"doctor_id"`
	PatientID       string          `json:"patient_id"`
	HospitalID      string          `json:"hospital_id"`
	Status          string          `json:"status"`
	EffectiveStatus string          `json:"effective_status"`
	CreatedAt       time.Time       `json:"created_at"`
	ApprovedAt      *time.Time      `json:"approved_at,omitempty"`
	ExpiresAt       time.Time       `json:"expires_at"`
	RevokedAt       *time.Time      `json:"revoked_at,omitempty"`
	Doctor          *DoctorSummary  `json:"doctor,omitempty"`
	Patient         *PatientSummary `json:"patient,omitempty"`
}

type EmergencyGrantResponse struct {
	ID              string          `json:"id"`
	Type            string          `json:"type"`
	DoctorID        string          `json:"doctor_id"`
	PatientID       string          `json:"patient_id"`
	HospitalID      string          `json:"hospital_id"`
	Reason          string          `json:"reason"`
	Status          string          `json:"status"`
	EffectiveStatus string          `json:"effective_status"`
	StartedAt       time.Time       `json:"started_at"`
	ExpiresAt       time.Time       `json:"expires_at"`
	RevokedAt       *time.Time      `json:"revoked_at,omitempty"`
	Doctor          *DoctorSummary  `json:"doctor,omitempty"`
	Patient         *PatientSummary `json:"patient,omitempty"`
}

// Grant types as shown to hospitals.
const (
	typeConsent   = "CONSENT"
	typeEmergency = "EMERGENCY"
)

// DoctorSummary and PatientSummary appear only in the hospital view.
type DoctorSummary struct {
	DoctorUID string `json:"doctor_uid"`
	Name      string `json:"name"`
}

type PatientSummary struct {
	HealthUID string `json:"health_uid"`
}

type GrantListResponse struct {
	Standard  []StandardGrantResponse  `json:"standard"`
	Emergency []EmergencyGrantResponse `json:"emergency"`
}

type AuthorizationResponse struct {
	Allowed   bool       `json:"allowed"`
	Via       string     `json:"via,omitempty"`
	GrantID   string     `json:"grant_id,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

type AuditListResponse struct {
	Entries []audit.Entry `json:"entries"`
}

func toStandardResponse(g *models.StandardGrant, now time.Time) StandardGrantResponse {
	return StandardGrantResponse{
		ID:              g.ID.String(),
		Type:            typeConsent,
		DoctorID:        g.DoctorID.String(),
		PatientID:       g.PatientID.String(),
		HospitalID:      g.HospitalID.String(),
		Status:          string(g.Status),
		EffectiveStatus: string(g.EffectiveStatus(now)),
		CreatedAt:       g.CreatedAt,
		ApprovedAt:      g.ApprovedAt,
		ExpiresAt:       g.ExpiresAt,
		RevokedAt:       g.RevokedAt,
	}
}

func toEmergencyResponse(g *models.EmergencyGrant, now time.Time) EmergencyGrantResponse {
	return EmergencyGrantResponse{
		ID:              g.ID.String(),
		Type:            typeEmergency,
		DoctorID:        g.DoctorID.String(),
		PatientID:       g.PatientID.String(),
		HospitalID:      g.HospitalID.String(),
		Reason:          g.Reason,
		Status:          string(g.Status),
		EffectiveStatus: string(g.EffectiveStatus(now)),
		StartedAt:       g.StartedAt,
		ExpiresAt:       g.ExpiresAt,
		RevokedAt:       g.RevokedAt,
	}
}

func toListResponse(list *models.GrantList, now time.Time) GrantListResponse {
	resp := GrantListResponse{
		Standard:  make([]StandardGrantResponse, 0, len(list.Standard)),
		Emergency: make([]EmergencyGrantResponse, 0, len(list.Emergency)),
	}
	for _, g := range list.Standard {
		r := toStandardResponse(g, now)
		r.Doctor, r.Patient = parties(list, g.DoctorID, g.PatientID)
		resp.Standard = append(resp.Standard, r)
	}
	for _, g := range list.Emergency {
		r := toEmergencyResponse(g, now)
		r.Doctor, r.Patient = parties(list, g.DoctorID, g.PatientID)
		resp.Emergency = append(resp.Emergency, r)
	}
	return resp
}

func parties(list *models.GrantList, doctorID id.DoctorID, patientID id.PatientID) (*DoctorSummary, *PatientSummary) {
	var (
		doctor  *DoctorSummary
		patient *PatientSummary
	)
	if d, ok := list.Doctors[doctorID]; ok {
		doctor = &DoctorSummary{DoctorUID: d.DoctorUID, Name: d.Name}
	}
	if p, ok := list.Patients[patientID]; ok {
		patient = &PatientSummary{HealthUID: p.HealthUID}
	}
	return doctor, patient
}

func toAuthorizationResponse(a models.Authorization) AuthorizationResponse {
	return AuthorizationResponse{
		Allowed:   a.Allowed,
		Via:       string(a.Via),
		GrantID:   a.GrantID,
		ExpiresAt: a.ExpiresAt,
	}
}
