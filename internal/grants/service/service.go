package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store PatientDirectory Roster AuditLog

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"healthbridge/internal/audit"
	"healthbridge/internal/grants/metrics"
	"healthbridge/internal/grants/models"
	identitymodels "healthbridge/internal/identity/models"
	"healthbridge/internal/platform/tracer"
	"healthbridge/internal/sentinel"
	id "healthbridge/pkg/domain"
	dErrors "healthbridge/pkg/domain-errors"
)

// Store is the persistence port for both grant kinds.
//
// Error Contract:
//   - Create* return sentinel.ErrUnknownReference when the doctor, patient or
//     hospital is not in the directory
//   - Find* return sentinel.ErrNotFound when nothing matches
//   - Update* return sentinel.ErrConflict when the row left the expected status
//   - Other failures are wrapped infrastructure errors
type Store interface {
	CreateStandard(ctx context.Context, g *models.StandardGrant) error
	FindStandardByID(ctx context.Context, grantID id.GrantID) (*models.StandardGrant, error)
	UpdateStandard(ctx context.Context, g *models.StandardGrant, expected models.StandardStatus) error
	ListStandardByPatient(ctx context.Context, patientID id.PatientID) ([]*models.StandardGrant, error)
	ListStandardByDoctor(ctx context.Context, doctorID id.DoctorID) ([]*models.StandardGrant, error)
	ListActiveStandardByHospital(ctx context.Context, hospitalID id.HospitalID, now time.Time) ([]*models.StandardGrant, error)
	FindActiveStandard(ctx context.Context, doctorID id.DoctorID, patientID id.PatientID, now time.Time) (*models.StandardGrant, error)
	ExpireStandard(ctx context.Context, now time.Time) (int64, error)
	ExpirePendingStandard(ctx context.Context, now time.Time) (int64, error)

	CreateEmergency(ctx context.Context, g *models.EmergencyGrant) error
	FindEmergencyByID(ctx context.Context, grantID id.EmergencyGrantID) (*models.EmergencyGrant, error)
	UpdateEmergency(ctx context.Context, g *models.EmergencyGrant, expected models.EmergencyStatus) error
	ListEmergencyByPatient(ctx context.Context, patientID id.PatientID) ([]*models.EmergencyGrant, error)
	ListEmergencyByDoctor(ctx context.Context, doctorID id.DoctorID) ([]*models.EmergencyGrant, error)
	ListActiveEmergencyByHospital(ctx context.Context, hospitalID id.HospitalID, now time.Time) ([]*models.EmergencyGrant, error)
	FindActiveEmergency(ctx context.Context, doctorID id.DoctorID, patientID id.PatientID, now time.Time) (*models.EmergencyGrant, error)
	ExpireEmergency(ctx context.Context, now time.Time) (int64, error)
}

// PatientDirectory resolves external health UIDs. Returns sentinel.ErrNotFound
// for unknown patients and sentinel.ErrUnavailable when the directory is down.
type PatientDirectory interface {
	FindPatientByHealthUID(ctx context.Context, healthUID string) (*identitymodels.Patient, error)
}

// Roster reads directory records by internal ID for the hospital view.
// Returns sentinel.ErrNotFound for unknown IDs.
type Roster interface {
	FindDoctorByID(ctx context.Context, doctorID id.DoctorID) (*identitymodels.Doctor, error)
	FindPatientByID(ctx context.Context, patientID id.PatientID) (*identitymodels.Patient, error)
}

// AuditLog records and reads audit entries.
type AuditLog interface {
	Emit(ctx context.Context, entry audit.Entry) error
	ListByTarget(ctx context.Context, targetID string) ([]audit.Entry, error)
}

// Service is the grant lifecycle engine and authorization check.
type Service struct {
	store             Store
	directory         PatientDirectory
	auditor           AuditLog
	roster            Roster
	logger            *slog.Logger
	metrics           *metrics.Metrics
	tracer            tracer.Tracer
	emergencyDuration time.Duration
	expirePending     bool
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithRoster adds doctor names and patient health UIDs to hospital listings.
func WithRoster(r Roster) Option {
	return func(s *Service) {
		s.roster = r
	}
}

// WithEmergencyDuration overrides the 24h emergency override lifetime.
func WithEmergencyDuration(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.emergencyDuration = d
		}
	}
}

// WithExpirePending makes ExpireDue also move stale PENDING requests to EXPIRED.
func WithExpirePending(enabled bool) Option {
	return func(s *Service) {
		s.expirePending = enabled
	}
}

func New(store Store, directory PatientDirectory, auditor AuditLog, opts ...Option) *Service {
	svc := &Service{
		store:             store,
		directory:         directory,
		auditor:           auditor,
		logger:            slog.Default(),
		tracer:            tracer.NewNoop(),
		emergencyDuration: models.EmergencyDuration,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// observe starts a span for operation and returns a finisher that ends it
// and records latency.
func (s *Service) observe(ctx context.Context, operation string, attrs ...tracer.Attribute) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "grants."+operation, attrs...)
	return ctx, func(err error) {
		span.End(err)
		s.metrics.ObserveLatency(operation, time.Since(start).Seconds())
	}
}

// resolvePatient maps a health UID to the directory record.
func (s *Service) resolvePatient(ctx context.Context, healthUID string) (*identitymodels.Patient, error) {
	uid := identitymodels.NormalizeHealthUID(healthUID)
	if uid == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "patient identifier is required")
	}
	p, err := s.directory.FindPatientByHealthUID(ctx, uid)
	switch {
	case err == nil:
		return p, nil
	case errors.Is(err, sentinel.ErrNotFound):
		return nil, dErrors.New(dErrors.CodeNotFound, "patient not found")
	case errors.Is(err, sentinel.ErrUnavailable):
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "patient directory unavailable")
	default:
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve patient")
	}
}

// emit records an audit entry. Failures are logged and never fail the caller's mutation.
func (s *Service) emit(ctx context.Context, actor id.Actor, action audit.Action, target string) {
	if err := s.auditor.Emit(ctx, audit.NewEntry(actor, action, target)); err != nil {
		s.logger.ErrorContext(ctx, "failed to record audit entry",
			"action", action,
			"actor_role", actor.Role(),
			"error", err,
		)
	}
}

func storeErr(err error, kind, op string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, kind+" not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to "+op+" "+kind)
}

func asDoctor(actor id.Actor) (id.DoctorActor, error) {
	doctor, ok := actor.(id.DoctorActor)
	if !ok {
		return id.DoctorActor{}, dErrors.New(dErrors.CodeNotAuthorized, "only doctors may perform this operation")
	}
	return doctor, nil
}

func asPatient(actor id.Actor) (id.PatientActor, error) {
	patient, ok := actor.(id.PatientActor)
	if !ok {
		return id.PatientActor{}, dErrors.New(dErrors.CodeNotAuthorized, "only patients may perform this operation")
	}
	return patient, nil
}

func asHospital(actor id.Actor) (id.HospitalActor, error) {
	hospital, ok := actor.(id.HospitalActor)
	if !ok {
		return id.HospitalActor{}, dErrors.New(dErrors.CodeNotAuthorized, "only hospitals may perform this operation")
	}
	return hospital, nil
}
