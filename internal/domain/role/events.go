package role

import "github.com/lewlewstore/backend/internal/domain/shared"

// Aggregate type constant
const AggregateTypeMember = "Member"

// Event type constants
const (
	EventTypeMemberReconciled = "MemberReconciled"
)

// FailedOperation is the serializable form of a failed OpResult
type FailedOperation struct {
	Op     Operation `json:"op"`
	RoleID string    `json:"role_id"`
	Error  string    `json:"error"`
}

// MemberReconciledEvent is published after every reconciliation.
// Delta is empty when the held roles already matched the tier.
type MemberReconciledEvent struct {
	shared.BaseDomainEvent
	CustomerID string            `json:"customer_id"`
	Scope      string            `json:"scope"`
	TierID     string            `json:"tier_id,omitempty"`
	Delta      Delta             `json:"delta"`
	Failures   []FailedOperation `json:"failures,omitempty"`
}

// NewMemberReconciledEvent creates a new MemberReconciledEvent
func NewMemberReconciledEvent(customerID, scope, tierID string, delta Delta, results []OpResult) *MemberReconciledEvent {
	var failures []FailedOperation
	for _, r := range Failures(results) {
		failures = append(failures, FailedOperation{Op: r.Op, RoleID: r.RoleID, Error: r.Err.Error()})
	}
	return &MemberReconciledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMemberReconciled, AggregateTypeMember, customerID),
		CustomerID:      customerID,
		Scope:           scope,
		TierID:          tierID,
		Delta:           delta,
		Failures:        failures,
	}
}
