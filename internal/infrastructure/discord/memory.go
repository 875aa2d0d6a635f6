package discord

import (
	"context"
	"sort"
	"sync"

	"github.com/lewlewstore/backend/internal/domain/notification"
	"github.com/lewlewstore/backend/internal/domain/role"
	"go.uber.org/zap"
)

// MemoryRoleStore keeps role assignments in process. It backs development mode
// when no bot token is configured.
type MemoryRoleStore struct {
	mu     sync.RWMutex
	roles  map[string]map[string]map[string]struct{} // scope -> customer -> roles
	logger *zap.Logger
}

// NewMemoryRoleStore creates an empty MemoryRoleStore
func NewMemoryRoleStore(logger *zap.Logger) *MemoryRoleStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemoryRoleStore{
		roles:  make(map[string]map[string]map[string]struct{}),
		logger: logger,
	}
}

// CurrentRoles returns the customer's roles sorted by id
func (s *MemoryRoleStore) CurrentRoles(_ context.Context, customerID, scope string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	held := s.roles[scope][customerID]
	result := make([]string, 0, len(held))
	for id := range held {
		result = append(result, id)
	}
	sort.Strings(result)
	return result, nil
}

// AddRole grants a role
func (s *MemoryRoleStore) AddRole(_ context.Context, customerID, scope, roleID, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	members, ok := s.roles[scope]
	if !ok {
		members = make(map[string]map[string]struct{})
		s.roles[scope] = members
	}
	held, ok := members[customerID]
	if !ok {
		held = make(map[string]struct{})
		members[customerID] = held
	}
	held[roleID] = struct{}{}

	s.logger.Debug("Role granted",
		zap.String("scope", scope),
		zap.String("customer_id", customerID),
		zap.String("role_id", roleID),
		zap.String("reason", reason),
	)
	return nil
}

// RemoveRole revokes a role; revoking a role not held is a no-op
func (s *MemoryRoleStore) RemoveRole(_ context.Context, customerID, scope, roleID, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.roles[scope][customerID], roleID)

	s.logger.Debug("Role revoked",
		zap.String("scope", scope),
		zap.String("customer_id", customerID),
		zap.String("role_id", roleID),
		zap.String("reason", reason),
	)
	return nil
}

// ApplyRoleDelta applies each grant and revoke independently
func (s *MemoryRoleStore) ApplyRoleDelta(ctx context.Context, customerID, scope string, delta role.Delta) []role.OpResult {
	return role.ApplyDelta(ctx, s, customerID, scope, delta)
}

// Message is a message captured by LogMessenger
type Message struct {
	ChannelID string
	Content   string
}

// LogMessenger writes messages to the log instead of a chat channel
type LogMessenger struct {
	mu       sync.Mutex
	messages []Message
	logger   *zap.Logger
}

// NewLogMessenger creates a LogMessenger
func NewLogMessenger(logger *zap.Logger) *LogMessenger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogMessenger{logger: logger}
}

// SendMessage records and logs the message
func (m *LogMessenger) SendMessage(_ context.Context, channelID, content string) error {
	m.mu.Lock()
	m.messages = append(m.messages, Message{ChannelID: channelID, Content: content})
	m.mu.Unlock()

	m.logger.Info("Channel message", zap.String("channel_id", channelID), zap.String("content", content))
	return nil
}

// Messages returns a copy of every message sent so far
func (m *LogMessenger) Messages() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message(nil), m.messages...)
}

var (
	_ role.RoleStore         = (*MemoryRoleStore)(nil)
	_ notification.Messenger = (*LogMessenger)(nil)
)
