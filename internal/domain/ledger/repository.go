package ledger

import "context"

// PurchaseRepository defines the persistence contract of the ledger table
type PurchaseRepository interface {
	// Append durably stores a record at the end of the customer's ledger.
	// It must either fully succeed or leave the ledger untouched.
	Append(ctx context.Context, customerID string, record PurchaseRecord) error

	// FindByCustomer returns the customer's records in append order.
	// An unknown customer yields an empty slice, not an error.
	FindByCustomer(ctx context.Context, customerID string) ([]PurchaseRecord, error)

	// FindAll returns every customer's ledger ordered by first purchase
	FindAll(ctx context.Context) ([]CustomerPurchases, error)
}

// TotalCache holds derived per-customer totals.
// It is never the source of truth: entries are overwritten or dropped on every record.
type TotalCache interface {
	// Get returns the cached total and whether it was present
	Get(ctx context.Context, customerID string) (int64, bool, error)
	// Set stores a freshly derived total
	Set(ctx context.Context, customerID string, total int64) error
	// Invalidate drops the cached total
	Invalidate(ctx context.Context, customerID string) error
}
