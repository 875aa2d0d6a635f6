package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandlerRegistry(t *testing.T) {
	t.Run("specific types", func(t *testing.T) {
		registry := NewHandlerRegistry()
		handler := newTestHandler()

		registry.Register(handler, "PurchaseRecorded", "MemberReconciled")

		assert.Len(t, registry.GetHandlers("PurchaseRecorded"), 1)
		assert.Len(t, registry.GetHandlers("MemberReconciled"), 1)
		assert.Empty(t, registry.GetHandlers("TierThresholdSet"))
		assert.Equal(t, 1, registry.Count())
	})

	t.Run("wildcard handlers come after specific handlers", func(t *testing.T) {
		registry := NewHandlerRegistry()
		specific := newTestHandler()
		wildcard := newTestHandler()

		registry.Register(wildcard)
		registry.Register(specific, "PurchaseRecorded")

		handlers := registry.GetHandlers("PurchaseRecorded")
		assert.Len(t, handlers, 2)
		assert.Same(t, specific, handlers[0])
		assert.Same(t, wildcard, handlers[1])
	})

	t.Run("unregister removes handler everywhere", func(t *testing.T) {
		registry := NewHandlerRegistry()
		handler := newTestHandler()
		registry.Register(handler, "PurchaseRecorded")
		registry.Register(handler)

		registry.Unregister(handler)

		assert.Empty(t, registry.GetHandlers("PurchaseRecorded"))
		assert.Equal(t, 0, registry.Count())
	})
}
