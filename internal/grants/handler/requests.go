package handler

import (
	"strings"

	"healthbridge/internal/grants/models"
	identitymodels "healthbridge/internal/identity/models"
	dErrors "healthbridge/pkg/domain-errors"
	"healthbridge/pkg/platform/validation"
)

// CreateStandardRequest is a doctor's request for consent-based access.
type CreateStandardRequest struct {
	PatientUID    string  `json:"patient_uid" validate:"required,health_uid"`
	DurationHours float64 `json:"duration_hours" validate:"gt=0,lte=24"`
}

func (r *CreateStandardRequest) Normalize() {
	if r == nil {
		return
	}
	r.PatientUID = identitymodels.NormalizeHealthUID(r.PatientUID)
}

func (r *CreateStandardRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	return validation.Validate(r)
}

// StartEmergencyRequest opens an override without patient consent.
type StartEmergencyRequest struct {
	PatientUID string `json:"patient_uid" validate:"required,health_uid"`
	Reason     string `json:"reason" validate:"notblank"`
}

func (r *StartEmergencyRequest) Normalize() {
	if r == nil {
		return
	}
	r.PatientUID = identitymodels.NormalizeHealthUID(r.PatientUID)
	r.Reason = strings.TrimSpace(r.Reason)
}

func (r *StartEmergencyRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if err := validation.Validate(r); err != nil {
		return err
	}
	return validation.CheckStringLength("reason", r.Reason, validation.MaxReasonLength)
}

// RespondRequest carries the patient's decision on a pending request.
type RespondRequest struct {
	Decision string `json:"decision" validate:"required"`
}

func (r *RespondRequest) Normalize() {
	if r == nil {
		return
	}
	r.Decision = strings.ToUpper(strings.TrimSpace(r.Decision))
}

func (r *RespondRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if err := validation.Validate(r); err != nil {
		return err
	}
	_, err := models.ParseDecision(r.Decision)
	return err
}

// ToDecision converts a validated request into the domain decision.
func (r *RespondRequest) ToDecision() (models.Decision, error) {
	return models.ParseDecision(r.Decision)
}
