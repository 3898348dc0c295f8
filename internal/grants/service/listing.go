package service

import (
	"context"
	"errors"

	"healthbridge/internal/audit"
	"healthbridge/internal/grants/models"
	"healthbridge/internal/sentinel"
	id "healthbridge/pkg/domain"
	dErrors "healthbridge/pkg/domain-errors"
	"healthbridge/pkg/requestcontext"
)

// ListPatientGrants returns every grant of both kinds held over the calling patient.
func (s *Service) ListPatientGrants(ctx context.Context, actor id.Actor) (_ *models.GrantList, err error) {
	ctx, done := s.observe(ctx, "list_patient")
	defer func() { done(err) }()

	patient, err := asPatient(actor)
	if err != nil {
		return nil, err
	}
	standard, err := s.store.ListStandardByPatient(ctx, patient.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list standard grants")
	}
	emergency, err := s.store.ListEmergencyByPatient(ctx, patient.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list emergency grants")
	}
	return &models.GrantList{Standard: standard, Emergency: emergency}, nil
}

// ListDoctorGrants returns every grant the calling doctor has raised.
func (s *Service) ListDoctorGrants(ctx context.Context, actor id.Actor) (_ *models.GrantList, err error) {
	ctx, done := s.observe(ctx, "list_doctor")
	defer func() { done(err) }()

	doctor, err := asDoctor(actor)
	if err != nil {
		return nil, err
	}
	standard, err := s.store.ListStandardByDoctor(ctx, doctor.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list standard grants")
	}
	emergency, err := s.store.ListEmergencyByDoctor(ctx, doctor.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list emergency grants")
	}
	return &models.GrantList{Standard: standard, Emergency: emergency}, nil
}

// ListHospitalActiveGrants returns APPROVED standard and ACTIVE emergency
// grants of the hospital's doctors that have not yet expired.
func (s *Service) ListHospitalActiveGrants(ctx context.Context, actor id.Actor) (_ *models.GrantList, err error) {
	ctx, done := s.observe(ctx, "list_hospital")
	defer func() { done(err) }()

	hospital, err := asHospital(actor)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	standard, err := s.store.ListActiveStandardByHospital(ctx, hospital.ID, now)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list standard grants")
	}
	emergency, err := s.store.ListActiveEmergencyByHospital(ctx, hospital.ID, now)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list emergency grants")
	}
	list := &models.GrantList{Standard: standard, Emergency: emergency}
	if err := s.describeParties(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// describeParties attaches doctor and patient directory details to list.
// IDs the roster does not know are left out rather than failing the view.
func (s *Service) describeParties(ctx context.Context, list *models.GrantList) error {
	if s.roster == nil {
		return nil
	}
	list.Doctors = make(map[id.DoctorID]models.DoctorSummary)
	list.Patients = make(map[id.PatientID]models.PatientSummary)
	seenDoctors := make(map[id.DoctorID]bool)
	seenPatients := make(map[id.PatientID]bool)

	describe := func(doctorID id.DoctorID, patientID id.PatientID) error {
		if !seenDoctors[doctorID] {
			seenDoctors[doctorID] = true
			d, err := s.roster.FindDoctorByID(ctx, doctorID)
			switch {
			case err == nil:
				list.Doctors[doctorID] = models.DoctorSummary{DoctorUID: d.DoctorUID, Name: d.Name}
			case errors.Is(err, sentinel.ErrNotFound):
				s.logger.WarnContext(ctx, "grant doctor missing from directory", "doctor_id", doctorID)
			default:
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load doctor")
			}
		}
		if !seenPatients[patientID] {
			seenPatients[patientID] = true
			p, err := s.roster.FindPatientByID(ctx, patientID)
			switch {
			case err == nil:
				list.Patients[patientID] = models.PatientSummary{HealthUID: p.HealthUID}
			case errors.Is(err, sentinel.ErrNotFound):
				s.logger.WarnContext(ctx, "grant patient missing from directory", "patient_id", patientID)
			default:
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load patient")
			}
		}
		return nil
	}

	for _, g := range list.Standard {
		if err := describe(g.DoctorID, g.PatientID); err != nil {
			return err
		}
	}
	for _, g := range list.Emergency {
		if err := describe(g.DoctorID, g.PatientID); err != nil {
			return err
		}
	}
	return nil
}

// ListPatientAudit returns audit entries targeting the calling patient, newest first.
func (s *Service) ListPatientAudit(ctx context.Context, actor id.Actor) (_ []audit.Entry, err error) {
	ctx, done := s.observe(ctx, "list_patient_audit")
	defer func() { done(err) }()

	patient, err := asPatient(actor)
	if err != nil {
		return nil, err
	}
	entries, err := s.auditor.ListByTarget(ctx, patient.ID.String())
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list audit entries")
	}
	return entries, nil
}
