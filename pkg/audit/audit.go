package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Outcome is the result of an authorization decision.
type Outcome string

const (
	OutcomeAllow Outcome = "allow"
	OutcomeDeny  Outcome = "deny"
)

// Decision reasons recorded alongside deny outcomes. These are for the
// audit trail and operator logs only; denial responses never carry them.
const (
	ReasonUnauthenticated  = "unauthenticated"
	ReasonTenantUnresolved = "tenant_unresolved"
	ReasonResolutionError  = "resolution_error"
	ReasonPermissionDenied = "permission_denied"
)

// Event is a single authorization-decision record emitted to an
// append-only sink.
type Event struct {
	ID          uuid.UUID `json:"id" bson:"_id"`
	PrincipalID uuid.UUID `json:"principal_id" bson:"principal_id"`
	TenantID    uuid.UUID `json:"tenant_id,omitempty" bson:"tenant_id,omitempty"`
	Permission  string    `json:"permission" bson:"permission"`
	Outcome     Outcome   `json:"outcome" bson:"outcome"`
	Reason      string    `json:"reason,omitempty" bson:"reason,omitempty"`
	State       string    `json:"state,omitempty" bson:"state,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

// Sink receives decision events. Implementations append; nothing in this
// module ever updates or deletes an event.
type Sink interface {
	// Write appends one event. Callers on the request path must treat
	// errors as advisory only - an audit failure never fails the request.
	Write(ctx context.Context, event Event) error

	// Close flushes buffered events and releases resources.
	Close(ctx context.Context) error
}

// NewEvent stamps an event with an ID and timestamp.
func NewEvent(principalID, tenantID uuid.UUID, permission string, outcome Outcome, reason string) Event {
	return Event{
		ID:          uuid.New(),
		PrincipalID: principalID,
		TenantID:    tenantID,
		Permission:  permission,
		Outcome:     outcome,
		Reason:      reason,
		CreatedAt:   time.Now().UTC(),
	}
}
