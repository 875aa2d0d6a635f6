package handler

import (
	"context"

	"github.com/lewlewstore/backend/internal/application/membership"
	"github.com/lewlewstore/backend/internal/application/notification"
	"github.com/stretchr/testify/mock"
)

// MockMembershipService is a mock implementation of MembershipService
type MockMembershipService struct {
	mock.Mock
}

func (m *MockMembershipService) RecordPurchase(ctx context.Context, scope, recordedBy string, req membership.RecordPurchaseRequest) (*membership.RecordPurchaseResponse, error) {
	args := m.Called(ctx, scope, recordedBy, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.RecordPurchaseResponse), args.Error(1)
}

func (m *MockMembershipService) SetThreshold(ctx context.Context, tierID string, req membership.SetThresholdRequest) (*membership.SetThresholdResponse, error) {
	args := m.Called(ctx, tierID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.SetThresholdResponse), args.Error(1)
}

func (m *MockMembershipService) ListTiers(ctx context.Context) []membership.TierResponse {
	args := m.Called(ctx)
	return args.Get(0).([]membership.TierResponse)
}

func (m *MockMembershipService) Status(ctx context.Context, customerID string) (*membership.StatusResponse, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.StatusResponse), args.Error(1)
}

func (m *MockMembershipService) Ranking(ctx context.Context, limit *int) (*membership.RankingResponse, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.RankingResponse), args.Error(1)
}

func (m *MockMembershipService) Reconcile(ctx context.Context, scope, customerID string) (*membership.ReconcileResponse, error) {
	args := m.Called(ctx, scope, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.ReconcileResponse), args.Error(1)
}

// MockLogChannelService is a mock implementation of LogChannelService
type MockLogChannelService struct {
	mock.Mock
}

func (m *MockLogChannelService) SetLogChannel(ctx context.Context, guildID string, req notification.SetLogChannelRequest) (*notification.LogChannelResponse, error) {
	args := m.Called(ctx, guildID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.LogChannelResponse), args.Error(1)
}

func (m *MockLogChannelService) GetLogChannel(ctx context.Context, guildID string) (*notification.LogChannelResponse, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.LogChannelResponse), args.Error(1)
}
