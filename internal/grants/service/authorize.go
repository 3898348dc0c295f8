package service

import (
	"context"
	"errors"

	"healthbridge/internal/audit"
	"healthbridge/internal/grants/models"
	identitymodels "healthbridge/internal/identity/models"
	"healthbridge/internal/platform/tracer"
	"healthbridge/internal/sentinel"
	id "healthbridge/pkg/domain"
	dErrors "healthbridge/pkg/domain-errors"
	"healthbridge/pkg/requestcontext"
)

// Authorize decides whether the doctor may read the patient's records right now.
// It compares expiry against the request clock and never trusts stored status
// alone, so a grant is denied the instant it expires regardless of sweeps.
// STANDARD is reported when both kinds are live. Authorize has no side effects.
func (s *Service) Authorize(ctx context.Context, actor id.Actor, patientUID string) (_ models.Authorization, err error) {
	ctx, done := s.observe(ctx, "authorize", tracer.String("patient_uid_hash", tracer.HashHealthUID(patientUID)))
	defer func() { done(err) }()

	decision, _, err := s.authorize(ctx, actor, patientUID)
	return decision, err
}

// ConsumeAuthorization is the "view patient" path: it authorizes and, when
// allowed, records VIEW_PATIENT. A denial is returned as NotAuthorized.
func (s *Service) ConsumeAuthorization(ctx context.Context, actor id.Actor, patientUID string) (_ models.Authorization, err error) {
	ctx, done := s.observe(ctx, "consume", tracer.String("patient_uid_hash", tracer.HashHealthUID(patientUID)))
	defer func() { done(err) }()

	decision, patient, err := s.authorize(ctx, actor, patientUID)
	if err != nil {
		return decision, err
	}
	if !decision.Allowed {
		return decision, dErrors.New(dErrors.CodeNotAuthorized, "no active grant for this patient")
	}
	s.emit(ctx, actor, audit.ActionViewPatient, patient.ID.String())
	return decision, nil
}

func (s *Service) authorize(ctx context.Context, actor id.Actor, patientUID string) (models.Authorization, *identitymodels.Patient, error) {
	doctor, err := asDoctor(actor)
	if err != nil {
		return models.Denied(), nil, err
	}
	patient, err := s.resolvePatient(ctx, patientUID)
	if err != nil {
		return models.Denied(), nil, err
	}
	decision, err := s.decide(ctx, doctor.ID, patient.ID)
	if err != nil {
		return models.Denied(), nil, err
	}
	s.metrics.IncDecision(decision.Allowed, string(decision.Via))
	return decision, patient, nil
}

func (s *Service) decide(ctx context.Context, doctorID id.DoctorID, patientID id.PatientID) (models.Authorization, error) {
	now := requestcontext.Now(ctx)

	standard, err := s.store.FindActiveStandard(ctx, doctorID, patientID, now)
	switch {
	case err == nil:
		// Stores filter on expiry too; re-check in case an implementation only filters status.
		if standard.IsLive(now) {
			expires := standard.ExpiresAt
			return models.Authorization{Allowed: true, Via: models.ViaStandard, GrantID: standard.ID.String(), ExpiresAt: &expires}, nil
		}
	case !errors.Is(err, sentinel.ErrNotFound):
		return models.Denied(), dErrors.Wrap(err, dErrors.CodeInternal, "failed to check standard grants")
	}

	emergency, err := s.store.FindActiveEmergency(ctx, doctorID, patientID, now)
	switch {
	case err == nil:
		if emergency.IsLive(now) {
			expires := emergency.ExpiresAt
			return models.Authorization{Allowed: true, Via: models.ViaEmergency, GrantID: emergency.ID.String(), ExpiresAt: &expires}, nil
		}
	case !errors.Is(err, sentinel.ErrNotFound):
		return models.Denied(), dErrors.Wrap(err, dErrors.CodeInternal, "failed to check emergency grants")
	}

	return models.Denied(), nil
}
