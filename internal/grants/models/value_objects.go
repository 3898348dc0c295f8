package models

import (
	"strings"

	dErrors "healthbridge/pkg/domain-errors"
)

type StandardStatus string

const (
	StandardPending  StandardStatus = "PENDING"
	StandardApproved StandardStatus = "APPROVED"
	StandardRevoked  StandardStatus = "REVOKED"
	StandardExpired  StandardStatus = "EXPIRED"
)

func (s StandardStatus) IsValid() bool {
	switch s {
	case StandardPending, StandardApproved, StandardRevoked, StandardExpired:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s StandardStatus) IsTerminal() bool {
	return s == StandardRevoked || s == StandardExpired
}

type EmergencyStatus string

const (
	EmergencyActive  EmergencyStatus = "ACTIVE"
	EmergencyRevoked EmergencyStatus = "REVOKED"
	EmergencyExpired EmergencyStatus = "EXPIRED"
)

func (s EmergencyStatus) IsValid() bool {
	switch s {
	case EmergencyActive, EmergencyRevoked, EmergencyExpired:
		return true
	}
	return false
}

// Decision is a patient's answer to a pending request.
type Decision string

const (
	DecisionApprove Decision = "APPROVE"
	DecisionReject  Decision = "REJECT"
)

// ParseDecision accepts either case.
func ParseDecision(raw string) (Decision, error) {
	d := Decision(strings.ToUpper(strings.TrimSpace(raw)))
	switch d {
	case DecisionApprove, DecisionReject:
		return d, nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "decision must be APPROVE or REJECT")
}

// Via names the grant kind that allowed an access.
type Via string

const (
	ViaNone      Via = ""
	ViaStandard  Via = "STANDARD"
	ViaEmergency Via = "EMERGENCY"
)

// Kind distinguishes the two grant tables in listings and metrics.
type Kind string

const (
	KindStandard  Kind = "standard"
	KindEmergency Kind = "emergency"
)
