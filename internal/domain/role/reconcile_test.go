package role

import (
	"context"
	"errors"
	"testing"

	"github.com/lewlewstore/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var tierRoles = []string{"Bronze", "Silver", "Gold"}

func TestReconcile(t *testing.T) {
	tests := []struct {
		name     string
		current  []string
		resolved string
		grant    []string
		revoke   []string
	}{
		{
			name:     "grants resolved tier to new member",
			current:  []string{},
			resolved: "Silver",
			grant:    []string{"Silver"},
			revoke:   []string{},
		},
		{
			name:     "upgrade revokes previous tier",
			current:  []string{"Bronze"},
			resolved: "Silver",
			grant:    []string{"Silver"},
			revoke:   []string{"Bronze"},
		},
		{
			name:     "inconsistent state revokes extra tier only",
			current:  []string{"Silver", "Gold"},
			resolved: "Silver",
			grant:    []string{},
			revoke:   []string{"Gold"},
		},
		{
			name:     "no resolved tier revokes every tier role",
			current:  []string{"Gold", "Bronze", "Moderator"},
			resolved: "",
			grant:    []string{},
			revoke:   []string{"Bronze", "Gold"},
		},
		{
			name:     "unrelated roles untouched",
			current:  []string{"Moderator", "Silver", "Booster"},
			resolved: "Silver",
			grant:    []string{},
			revoke:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			delta := Reconcile(tt.current, tierRoles, tt.resolved)

			assert.Equal(t, tt.grant, delta.Grant)
			assert.Equal(t, tt.revoke, delta.Revoke)
		})
	}
}

func TestReconcile_NeverGrantsAndRevokesSameRole(t *testing.T) {
	states := [][]string{{}, {"Bronze"}, {"Silver", "Gold"}, {"Bronze", "Silver", "Gold", "Other"}}
	for _, current := range states {
		for _, resolved := range append([]string{""}, tierRoles...) {
			delta := Reconcile(current, tierRoles, resolved)
			for _, g := range delta.Grant {
				assert.NotContains(t, delta.Revoke, g)
			}
		}
	}
}

func TestReconcile_Idempotent(t *testing.T) {
	current := []string{"Bronze", "Gold", "Moderator"}
	delta := Reconcile(current, tierRoles, "Silver")

	after := applyToSet(current, delta)
	second := Reconcile(after, tierRoles, "Silver")

	assert.True(t, second.IsEmpty())
	assert.ElementsMatch(t, []string{"Silver", "Moderator"}, after)
}

func applyToSet(current []string, delta Delta) []string {
	set := toSet(current)
	for _, r := range delta.Grant {
		set[r] = struct{}{}
	}
	for _, r := range delta.Revoke {
		delete(set, r)
	}
	result := make([]string, 0, len(set))
	for r := range set {
		result = append(result, r)
	}
	return result
}

// MockRoleMutator is a mock implementation of RoleMutator
type MockRoleMutator struct {
	mock.Mock
}

func (m *MockRoleMutator) AddRole(ctx context.Context, customerID, scope, roleID, reason string) error {
	args := m.Called(ctx, customerID, scope, roleID, reason)
	return args.Error(0)
}

func (m *MockRoleMutator) RemoveRole(ctx context.Context, customerID, scope, roleID, reason string) error {
	args := m.Called(ctx, customerID, scope, roleID, reason)
	return args.Error(0)
}

func TestApplyDelta(t *testing.T) {
	ctx := context.Background()

	t.Run("applies grants and revokes with reasons", func(t *testing.T) {
		m := new(MockRoleMutator)
		m.On("AddRole", ctx, "111", "g1", "Silver", ReasonGrant).Return(nil).Once()
		m.On("RemoveRole", ctx, "111", "g1", "Bronze", ReasonRevoke).Return(nil).Once()

		results := ApplyDelta(ctx, m, "111", "g1", Delta{Grant: []string{"Silver"}, Revoke: []string{"Bronze"}})

		require.Len(t, results, 2)
		assert.Empty(t, Failures(results))
		m.AssertExpectations(t)
	})

	t.Run("failure does not block other operations", func(t *testing.T) {
		m := new(MockRoleMutator)
		m.On("AddRole", ctx, "111", "g1", "Gold", ReasonGrant).Return(errors.New("missing permissions")).Once()
		m.On("RemoveRole", ctx, "111", "g1", "Bronze", ReasonRevoke).Return(nil).Once()
		m.On("RemoveRole", ctx, "111", "g1", "Silver", ReasonRevoke).Return(nil).Once()

		results := ApplyDelta(ctx, m, "111", "g1", Delta{Grant: []string{"Gold"}, Revoke: []string{"Bronze", "Silver"}})

		require.Len(t, results, 3)
		failures := Failures(results)
		require.Len(t, failures, 1)
		assert.Equal(t, OpGrant, failures[0].Op)
		assert.Equal(t, "Gold", failures[0].RoleID)
		assert.True(t, errors.Is(failures[0].Err, shared.ErrRoleStoreFailure))
		assert.Contains(t, failures[0].Err.Error(), "missing permissions")
		m.AssertExpectations(t)
	})

	t.Run("empty delta performs no calls", func(t *testing.T) {
		m := new(MockRoleMutator)

		results := ApplyDelta(ctx, m, "111", "g1", Delta{})

		assert.Empty(t, results)
		m.AssertNotCalled(t, "AddRole", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestNewMemberReconciledEvent(t *testing.T) {
	results := []OpResult{
		{Op: OpGrant, RoleID: "Silver"},
		{Op: OpRevoke, RoleID: "Gold", Err: errors.New("forbidden")},
	}
	event := NewMemberReconciledEvent("111", "g1", "Silver", Delta{Grant: []string{"Silver"}, Revoke: []string{"Gold"}}, results)

	assert.Equal(t, EventTypeMemberReconciled, event.EventType())
	assert.Equal(t, "111", event.AggregateID())
	require.Len(t, event.Failures, 1)
	assert.Equal(t, FailedOperation{Op: OpRevoke, RoleID: "Gold", Error: "forbidden"}, event.Failures[0])
}
