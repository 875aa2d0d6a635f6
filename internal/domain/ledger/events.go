package ledger

import "github.com/lewlewstore/backend/internal/domain/shared"

// Aggregate type constant
const AggregateTypeCustomerLedger = "CustomerLedger"

// Event type constants
const (
	EventTypePurchaseRecorded = "PurchaseRecorded"
)

// PurchaseRecordedEvent is published after a purchase has been durably appended
type PurchaseRecordedEvent struct {
	shared.BaseDomainEvent
	CustomerID  string `json:"customer_id"`
	Quantity    int64  `json:"quantity"`
	ProductName string `json:"product_name"`
	Price       int64  `json:"price"`
	Total       int64  `json:"total"`
	// Scope is the guild the purchase was recorded in; it selects role and log channel targets
	Scope string `json:"scope"`
	// TierID is the tier resolved from the new total, empty when none qualifies
	TierID   string `json:"tier_id,omitempty"`
	RecordBy string `json:"recorded_by,omitempty"`
}

// NewPurchaseRecordedEvent creates a new PurchaseRecordedEvent
func NewPurchaseRecordedEvent(scope string, receipt Receipt, tierID, recordedBy string) *PurchaseRecordedEvent {
	return &PurchaseRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseRecorded, AggregateTypeCustomerLedger, receipt.CustomerID),
		CustomerID:      receipt.CustomerID,
		Quantity:        receipt.Record.Quantity,
		ProductName:     receipt.Record.ProductName,
		Price:           receipt.Record.Price,
		Total:           receipt.Total,
		Scope:           scope,
		TierID:          tierID,
		RecordBy:        recordedBy,
	}
}
