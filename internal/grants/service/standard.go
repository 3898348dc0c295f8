package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"healthbridge/internal/audit"
	"healthbridge/internal/grants/models"
	"healthbridge/internal/platform/tracer"
	"healthbridge/internal/sentinel"
	id "healthbridge/pkg/domain"
	dErrors "healthbridge/pkg/domain-errors"
	"healthbridge/pkg/requestcontext"
)

// saveError maps a failed grant insert. Inserts naming a party missing from
// the directory are refused as not authorized.
func saveError(err error, msg string) error {
	if errors.Is(err, sentinel.ErrUnknownReference) {
		return dErrors.Wrap(err, dErrors.CodeNotAuthorized, "doctor is not registered with the hospital directory")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}

// CreateStandardGrant raises a PENDING request from a doctor to a patient.
// The grant expires durationHours after creation whether or not it is approved.
func (s *Service) CreateStandardGrant(ctx context.Context, actor id.Actor, patientUID string, durationHours float64) (_ *models.StandardGrant, err error) {
	ctx, done := s.observe(ctx, "create_standard", tracer.String("patient_uid_hash", tracer.HashHealthUID(patientUID)))
	defer func() { done(err) }()

	doctor, err := asDoctor(actor)
	if err != nil {
		return nil, err
	}
	if durationHours <= 0 || durationHours > models.MaxStandardDuration.Hours() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "duration_hours must be greater than 0 and at most 24")
	}
	patient, err := s.resolvePatient(ctx, patientUID)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	duration := time.Duration(durationHours * float64(time.Hour))
	grant, err := models.NewStandardGrant(id.NewGrantID(), doctor.ID, doctor.HospitalID, patient.ID, now, duration)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateStandard(ctx, grant); err != nil {
		return nil, saveError(err, "failed to save standard grant")
	}

	s.metrics.IncTransition(string(models.KindStandard), string(grant.Status))
	s.emit(ctx, doctor, audit.ActionRequestAccess, patient.ID.String())
	s.logger.InfoContext(ctx, "standard grant requested",
		"grant_id", grant.ID,
		"doctor_id", doctor.ID,
		"expires_at", grant.ExpiresAt,
	)
	return grant, nil
}

// RespondToGrant applies the owning patient's decision to a PENDING request.
// A request whose expiry has passed can no longer be approved or rejected.
func (s *Service) RespondToGrant(ctx context.Context, actor id.Actor, grantID id.GrantID, decision models.Decision) (_ *models.StandardGrant, err error) {
	ctx, done := s.observe(ctx, "respond", tracer.String("grant_id", grantID.String()), tracer.String("decision", string(decision)))
	defer func() { done(err) }()

	patient, err := asPatient(actor)
	if err != nil {
		return nil, err
	}
	if decision != models.DecisionApprove && decision != models.DecisionReject {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "decision must be APPROVE or REJECT")
	}

	grant, err := s.loadOwnedStandard(ctx, patient, grantID)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	if !grant.CanRespond(now) {
		return nil, invalidStandardState(grant, now, "only pending requests can be answered")
	}

	action := audit.ActionApproveAccess
	if decision == models.DecisionApprove {
		grant.Approve(now)
	} else {
		grant.Revoke(now)
		action = audit.ActionRejectAccess
	}

	if err := s.commitStandard(ctx, grant, models.StandardPending); err != nil {
		return nil, err
	}
	s.emit(ctx, patient, action, patient.ID.String())
	return grant, nil
}

// RevokeStandardGrant ends a PENDING or APPROVED grant immediately.
func (s *Service) RevokeStandardGrant(ctx context.Context, actor id.Actor, grantID id.GrantID) (_ *models.StandardGrant, err error) {
	ctx, done := s.observe(ctx, "revoke_standard", tracer.String("grant_id", grantID.String()))
	defer func() { done(err) }()

	patient, err := asPatient(actor)
	if err != nil {
		return nil, err
	}
	grant, err := s.loadOwnedStandard(ctx, patient, grantID)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	if !grant.CanRevoke(now) {
		return nil, invalidStandardState(grant, now, "grant is already revoked or expired")
	}

	expected := grant.Status
	grant.Revoke(now)
	if err := s.commitStandard(ctx, grant, expected); err != nil {
		return nil, err
	}
	s.emit(ctx, patient, audit.ActionRevokeAccess, patient.ID.String())
	return grant, nil
}

func (s *Service) loadOwnedStandard(ctx context.Context, patient id.PatientActor, grantID id.GrantID) (*models.StandardGrant, error) {
	grant, err := s.store.FindStandardByID(ctx, grantID)
	if err != nil {
		return nil, storeErr(err, "grant", "load")
	}
	if grant.PatientID != patient.ID {
		return nil, dErrors.New(dErrors.CodeNotAuthorized, "grant belongs to another patient")
	}
	return grant, nil
}

// commitStandard writes a transition conditioned on expected. When another
// writer got there first the grant is re-read and reported as InvalidState.
func (s *Service) commitStandard(ctx context.Context, grant *models.StandardGrant, expected models.StandardStatus) error {
	err := s.store.UpdateStandard(ctx, grant, expected)
	if err == nil {
		s.metrics.IncTransition(string(models.KindStandard), string(grant.Status))
		return nil
	}
	if !errors.Is(err, sentinel.ErrConflict) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update grant")
	}

	s.metrics.IncConflict(string(models.KindStandard))
	current, findErr := s.store.FindStandardByID(ctx, grant.ID)
	if findErr != nil {
		return dErrors.Wrap(findErr, dErrors.CodeInternal, "failed to reload grant after conflict")
	}
	return dErrors.New(dErrors.CodeInvalidState,
		fmt.Sprintf("grant changed concurrently and is now %s", current.Status))
}

func invalidStandardState(g *models.StandardGrant, now time.Time, msg string) error {
	return dErrors.New(dErrors.CodeInvalidState,
		fmt.Sprintf("%s (status %s)", msg, g.EffectiveStatus(now)))
}
