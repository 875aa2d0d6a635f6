package role

import (
	"context"
	"fmt"

	"github.com/lewlewstore/backend/internal/domain/shared"
)

// Operation is a single role mutation kind
type Operation string

const (
	OpGrant  Operation = "grant"
	OpRevoke Operation = "revoke"
)

// Audit-log reasons attached to role mutations
const (
	ReasonGrant  = "Purchase threshold met"
	ReasonRevoke = "Below purchase threshold"
)

// Reason returns the audit-log reason for the operation
func (o Operation) Reason() string {
	if o == OpGrant {
		return ReasonGrant
	}
	return ReasonRevoke
}

// OpResult is the outcome of one role operation
type OpResult struct {
	Op     Operation
	RoleID string
	Err    error
}

// Failed returns true if the operation did not succeed
func (r OpResult) Failed() bool {
	return r.Err != nil
}

// RoleStore is the external system holding customers' roles within a scope
type RoleStore interface {
	// CurrentRoles returns the roles the customer currently holds in the scope
	CurrentRoles(ctx context.Context, customerID, scope string) ([]string, error)

	// ApplyRoleDelta applies every operation of the delta independently and
	// reports one result per operation. A failed operation never blocks the others.
	ApplyRoleDelta(ctx context.Context, customerID, scope string, delta Delta) []OpResult
}

// RoleMutator performs single role mutations against an external system
type RoleMutator interface {
	AddRole(ctx context.Context, customerID, scope, roleID, reason string) error
	RemoveRole(ctx context.Context, customerID, scope, roleID, reason string) error
}

// ApplyDelta runs every grant then every revoke through the mutator, collecting
// per-operation results. Failures are wrapped as ROLE_STORE_FAILURE and not retried.
func ApplyDelta(ctx context.Context, m RoleMutator, customerID, scope string, delta Delta) []OpResult {
	results := make([]OpResult, 0, delta.Size())
	for _, roleID := range delta.Grant {
		err := m.AddRole(ctx, customerID, scope, roleID, OpGrant.Reason())
		results = append(results, newOpResult(OpGrant, roleID, err))
	}
	for _, roleID := range delta.Revoke {
		err := m.RemoveRole(ctx, customerID, scope, roleID, OpRevoke.Reason())
		results = append(results, newOpResult(OpRevoke, roleID, err))
	}
	return results
}

// Failures returns only the failed results
func Failures(results []OpResult) []OpResult {
	var failed []OpResult
	for _, r := range results {
		if r.Failed() {
			failed = append(failed, r)
		}
	}
	return failed
}

func newOpResult(op Operation, roleID string, err error) OpResult {
	if err != nil {
		err = shared.WrapDomainError(shared.CodeRoleStoreFailure, fmt.Sprintf("failed to %s role %s", op, roleID), err)
	}
	return OpResult{Op: op, RoleID: roleID, Err: err}
}
