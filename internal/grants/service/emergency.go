package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"healthbridge/internal/audit"
	"healthbridge/internal/grants/models"
	"healthbridge/internal/platform/tracer"
	"healthbridge/internal/sentinel"
	id "healthbridge/pkg/domain"
	dErrors "healthbridge/pkg/domain-errors"
	"healthbridge/pkg/platform/validation"
	"healthbridge/pkg/requestcontext"
)

// StartEmergencyGrant opens an un-consented override scoped to the doctor's hospital.
// No patient action is needed for it to take effect.
func (s *Service) StartEmergencyGrant(ctx context.Context, actor id.Actor, patientUID, reason string) (_ *models.EmergencyGrant, err error) {
	ctx, done := s.observe(ctx, "start_emergency", tracer.String("patient_uid_hash", tracer.HashHealthUID(patientUID)))
	defer func() { done(err) }()

	doctor, err := asDoctor(actor)
	if err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "reason is required")
	}
	if utf8.RuneCountInString(reason) > validation.MaxReasonLength {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput,
			"reason must be at most %d characters", validation.MaxReasonLength)
	}
	patient, err := s.resolvePatient(ctx, patientUID)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	grant, err := models.NewEmergencyGrant(id.NewEmergencyGrantID(), doctor.ID, doctor.HospitalID, patient.ID, reason, now, s.emergencyDuration)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateEmergency(ctx, grant); err != nil {
		return nil, saveError(err, "failed to save emergency grant")
	}

	s.metrics.IncTransition(string(models.KindEmergency), string(grant.Status))
	s.emit(ctx, doctor, audit.ActionEmergencyAccessStart, patient.ID.String())
	s.logger.WarnContext(ctx, "emergency access started",
		"grant_id", grant.ID,
		"doctor_id", doctor.ID,
		"hospital_id", doctor.HospitalID,
		"expires_at", grant.ExpiresAt,
	)
	return grant, nil
}

// RevokeEmergencyGrant lets the owning patient end a running override early.
func (s *Service) RevokeEmergencyGrant(ctx context.Context, actor id.Actor, grantID id.EmergencyGrantID) (_ *models.EmergencyGrant, err error) {
	ctx, done := s.observe(ctx, "revoke_emergency", tracer.String("grant_id", grantID.String()))
	defer func() { done(err) }()

	patient, err := asPatient(actor)
	if err != nil {
		return nil, err
	}
	grant, err := s.store.FindEmergencyByID(ctx, grantID)
	if err != nil {
		return nil, storeErr(err, "emergency grant", "load")
	}
	if grant.PatientID != patient.ID {
		return nil, dErrors.New(dErrors.CodeNotAuthorized, "emergency grant belongs to another patient")
	}

	now := requestcontext.Now(ctx)
	if !grant.CanRevoke(now) {
		return nil, dErrors.New(dErrors.CodeInvalidState,
			fmt.Sprintf("only active emergency grants can be revoked (status %s)", grant.EffectiveStatus(now)))
	}

	grant.Revoke(now)
	if err := s.store.UpdateEmergency(ctx, grant, models.EmergencyActive); err != nil {
		if !errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update emergency grant")
		}
		s.metrics.IncConflict(string(models.KindEmergency))
		current, findErr := s.store.FindEmergencyByID(ctx, grantID)
		if findErr != nil {
			return nil, dErrors.Wrap(findErr, dErrors.CodeInternal, "failed to reload emergency grant after conflict")
		}
		return nil, dErrors.New(dErrors.CodeInvalidState,
			fmt.Sprintf("emergency grant changed concurrently and is now %s", current.Status))
	}

	s.metrics.IncTransition(string(models.KindEmergency), string(grant.Status))
	s.emit(ctx, patient, audit.ActionRevokeEmergencyAccess, patient.ID.String())
	return grant, nil
}
