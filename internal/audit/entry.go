package audit

import (
	"time"

	id "healthbridge/pkg/domain"
)

// Action is the enumerated verb of an audit entry.
type Action string

const (
	ActionRequestAccess         Action = "REQUEST_ACCESS"
	ActionApproveAccess         Action = "APPROVE_ACCESS"
	ActionRejectAccess          Action = "REJECT_ACCESS"
	ActionRevokeAccess          Action = "REVOKE_ACCESS"
	ActionEmergencyAccessStart  Action = "EMERGENCY_ACCESS_START"
	ActionRevokeEmergencyAccess Action = "REVOKE_EMERGENCY_ACCESS"
	ActionViewPatient           Action = "VIEW_PATIENT"
)

// Entry is one immutable record of an actor's action against a target.
// Request metadata is filled by the Publisher from the emitting context.
type Entry struct {
	ID        id.AuditEntryID `json:"id"`
	ActorRole id.Role         `json:"actor_role"`
	ActorID   string          `json:"actor_id"`
	Action    Action          `json:"action"`
	TargetID  string          `json:"target_id,omitempty"`
	Timestamp time.Time       `json:"timestamp"`

	RequestID string `json:"request_id,omitempty"`
	ClientIP  string `json:"client_ip,omitempty"`
	Device    string `json:"device,omitempty"`
}

// NewEntry builds an entry for actor performing action on target.
func NewEntry(actor id.Actor, action Action, target string) Entry {
	return Entry{
		ActorRole: actor.Role(),
		ActorID:   actor.Ref(),
		Action:    action,
		TargetID:  target,
	}
}
