package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"healthbridge/internal/audit"
	"healthbridge/internal/grants/models"
	id "healthbridge/pkg/domain"
	dErrors "healthbridge/pkg/domain-errors"
	"healthbridge/pkg/platform/httputil"
	"healthbridge/pkg/platform/middleware/auth"
	"healthbridge/pkg/requestcontext"
)

// Service is the grant engine as seen by the transport layer.
type Service interface {
	CreateStandardGrant(ctx context.Context, actor id.Actor, patientUID string, durationHours float64) (*models.StandardGrant, error)
	RespondToGrant(ctx context.Context, actor id.Actor, grantID id.GrantID, decision models.Decision) (*models.StandardGrant, error)
	RevokeStandardGrant(ctx context.Context, actor id.Actor, grantID id.GrantID) (*models.StandardGrant, error)
	StartEmergencyGrant(ctx context.Context, actor id.Actor, patientUID, reason string) (*models.EmergencyGrant, error)
	RevokeEmergencyGrant(ctx context.Context, actor id.Actor, grantID id.EmergencyGrantID) (*models.EmergencyGrant, error)
	Authorize(ctx context.Context, actor id.Actor, patientUID string) (models.Authorization, error)
	ConsumeAuthorization(ctx context.Context, actor id.Actor, patientUID string) (models.Authorization, error)
	ListPatientGrants(ctx context.Context, actor id.Actor) (*models.GrantList, error)
	ListDoctorGrants(ctx context.Context, actor id.Actor) (*models.GrantList, error)
	ListHospitalActiveGrants(ctx context.Context, actor id.Actor) (*models.GrantList, error)
	ListPatientAudit(ctx context.Context, actor id.Actor) ([]audit.Entry, error)
}

// Handler serves the access grant endpoints. Routes must be mounted behind
// auth.RequireAuth; role checks happen both here and in the service.
type Handler struct {
	logger  *slog.Logger
	service Service
}

func New(service Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service}
}

// Register mounts the grant routes on r.
func (h *Handler) Register(r chi.Router) {
	doctor := auth.RequireRole(h.logger, id.RoleDoctor)
	patient := auth.RequireRole(h.logger, id.RolePatient)
	hospital := auth.RequireRole(h.logger, id.RoleHospital)

	r.With(doctor).Post("/access/requests", h.handleCreateStandard)
	r.With(patient).Get("/access/requests", h.handleListPatientGrants)
	r.With(patient).Post("/access/requests/{id}/respond", h.handleRespond)
	r.With(patient).Post("/access/requests/{id}/revoke", h.handleRevokeStandard)
	r.With(doctor).Post("/access/emergency", h.handleStartEmergency)
	r.With(patient).Post("/access/emergency/{id}/revoke", h.handleRevokeEmergency)
	r.With(doctor).Get("/access/check/{patientUID}", h.handleCheck)
	r.With(doctor).Get("/access/patient/{patientUID}", h.handleConsume)
	r.With(doctor).Get("/doctor/accesses", h.handleListDoctorGrants)
	r.With(hospital).Get("/hospital/active-access", h.handleListHospitalGrants)
	r.With(patient).Get("/audit/me", h.handleListPatientAudit)
}

func (h *Handler) handleCreateStandard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, ok := h.requireActor(w, ctx)
	if !ok {
		return
	}

	req, ok := httputil.Decode[CreateStandardRequest](w, r, h.logger)
	if !ok {
		return
	}

	grant, err := h.service.CreateStandardGrant(ctx, actor, req.PatientUID, req.DurationHours)
	if err != nil {
		h.fail(w, ctx, "failed to create standard grant", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toStandardResponse(grant, requestcontext.Now(ctx)))
}

func (h *Handler) handleRespond(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, ok := h.requireActor(w, ctx)
	if !ok {
		return
	}
	grantID, err := id.ParseGrantID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.Decode[RespondRequest](w, r, h.logger)
	if !ok {
		return
	}
	decision, err := req.ToDecision()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	grant, err := h.service.RespondToGrant(ctx, actor, grantID, decision)
	if err != nil {
		h.fail(w, ctx, "failed to respond to grant", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toStandardResponse(grant, requestcontext.Now(ctx)))
}

func (h *Handler) handleRevokeStandard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, ok := h.requireActor(w, ctx)
	if !ok {
		return
	}
	grantID, err := id.ParseGrantID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	grant, err := h.service.RevokeStandardGrant(ctx, actor, grantID)
	if err != nil {
		h.fail(w, ctx, "failed to revoke standard grant", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toStandardResponse(grant, requestcontext.Now(ctx)))
}

func (h *Handler) handleStartEmergency(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, ok := h.requireActor(w, ctx)
	if !ok {
		return
	}

	req, ok := httputil.Decode[StartEmergencyRequest](w, r, h.logger)
	if !ok {
		return
	}

	grant, err := h.service.StartEmergencyGrant(ctx, actor, req.PatientUID, req.Reason)
	if err != nil {
		h.fail(w, ctx, "failed to start emergency grant", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toEmergencyResponse(grant, requestcontext.Now(ctx)))
}

func (h *Handler) handleRevokeEmergency(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, ok := h.requireActor(w, ctx)
	if !ok {
		return
	}
	grantID, err := id.ParseEmergencyGrantID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	grant, err := h.service.RevokeEmergencyGrant(ctx, actor, grantID)
	if err != nil {
		h.fail(w, ctx, "failed to revoke emergency grant", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toEmergencyResponse(grant, requestcontext.Now(ctx)))
}

// handleCheck answers allow/deny without recording a view; a denial is a 200.
func (h *Handler) handleCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, ok := h.requireActor(w, ctx)
	if !ok {
		return
	}

	decision, err := h.service.Authorize(ctx, actor, chi.URLParam(r, "patientUID"))
	if err != nil {
		h.fail(w, ctx, "failed to check authorization", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toAuthorizationResponse(decision))
}

// handleConsume is the "view patient" gate. Record contents are served by
// the record store once this returns 200.
func (h *Handler) handleConsume(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, ok := h.requireActor(w, ctx)
	if !ok {
		return
	}

	decision, err := h.service.ConsumeAuthorization(ctx, actor, chi.URLParam(r, "patientUID"))
	if err != nil {
		h.fail(w, ctx, "patient view denied", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toAuthorizationResponse(decision))
}

func (h *Handler) handleListPatientGrants(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "failed to list patient grants", h.service.ListPatientGrants)
}

func (h *Handler) handleListDoctorGrants(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "failed to list doctor grants", h.service.ListDoctorGrants)
}

func (h *Handler) handleListHospitalGrants(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "failed to list hospital grants", h.service.ListHospitalActiveGrants)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, failMsg string, fn func(context.Context, id.Actor) (*models.GrantList, error)) {
	ctx := r.Context()
	actor, ok := h.requireActor(w, ctx)
	if !ok {
		return
	}
	list, err := fn(ctx, actor)
	if err != nil {
		h.fail(w, ctx, failMsg, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toListResponse(list, requestcontext.Now(ctx)))
}

func (h *Handler) handleListPatientAudit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, ok := h.requireActor(w, ctx)
	if !ok {
		return
	}
	entries, err := h.service.ListPatientAudit(ctx, actor)
	if err != nil {
		h.fail(w, ctx, "failed to list audit entries", err)
		return
	}
	if entries == nil {
		entries = []audit.Entry{}
	}
	httputil.WriteJSON(w, http.StatusOK, AuditListResponse{Entries: entries})
}

func (h *Handler) requireActor(w http.ResponseWriter, ctx context.Context) (id.Actor, bool) {
	actor, ok := requestcontext.Actor(ctx)
	if !ok {
		h.logger.ErrorContext(ctx, "actor missing from context despite auth middleware",
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return nil, false
	}
	return actor, true
}

// fail logs at warn for expected rejections and at error for infrastructure
// failures, then writes the mapped response.
func (h *Handler) fail(w http.ResponseWriter, ctx context.Context, msg string, err error) {
	level := slog.LevelWarn
	switch dErrors.CodeOf(err) {
	case dErrors.CodeInternal, dErrors.CodeUnavailable:
		level = slog.LevelError
	}
	h.logger.Log(ctx, level, msg,
		"error", err,
		"request_id", requestcontext.RequestID(ctx),
	)
	httputil.WriteError(w, err)
}
