package ledger

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/lewlewstore/backend/internal/domain/shared"
)

// PurchaseRecord is a single sale recorded against a customer.
// PurchaseRecord is immutable; the ledger only ever appends new records.
type PurchaseRecord struct {
	Quantity    int64
	ProductName string
	Price       int64
	RecordedAt  time.Time
}

// Column widths of the purchases table
const (
	MaxCustomerIDLength  = 32
	MaxProductNameLength = 200
)

// NewPurchaseRecord validates the inputs and creates a PurchaseRecord.
// Invalid inputs are rejected, never clamped.
func NewPurchaseRecord(quantity int64, productName string, price int64) (PurchaseRecord, error) {
	if quantity <= 0 {
		return PurchaseRecord{}, shared.NewDomainError(shared.CodeInvalidRecord, "quantity must be positive")
	}
	if strings.TrimSpace(productName) == "" {
		return PurchaseRecord{}, shared.NewDomainError(shared.CodeInvalidRecord, "product name cannot be empty")
	}
	if utf8.RuneCountInString(productName) > MaxProductNameLength {
		return PurchaseRecord{}, shared.NewDomainError(shared.CodeInvalidRecord,
			fmt.Sprintf("product name cannot exceed %d characters", MaxProductNameLength))
	}
	if price < 0 {
		return PurchaseRecord{}, shared.NewDomainError(shared.CodeInvalidRecord, "price cannot be negative")
	}

	return PurchaseRecord{
		Quantity:    quantity,
		ProductName: productName,
		Price:       price,
		RecordedAt:  time.Now(),
	}, nil
}

// CustomerPurchases is the ledger of a single customer in append order
type CustomerPurchases struct {
	CustomerID string
	Purchases  []PurchaseRecord
}

// Total returns the sum of price over all purchases
func (c CustomerPurchases) Total() int64 {
	return SumPrices(c.Purchases)
}

// CustomerTotal is a derived (customer, total) pair
type CustomerTotal struct {
	CustomerID string
	Total      int64
}

// SumPrices is the single derivation rule for totals
func SumPrices(records []PurchaseRecord) int64 {
	var total int64
	for _, r := range records {
		total += r.Price
	}
	return total
}

// ValidateCustomerID rejects empty customer identifiers
func ValidateCustomerID(customerID string) error {
	if strings.TrimSpace(customerID) == "" {
		return shared.NewDomainError(shared.CodeInvalidRecord, "customer id cannot be empty")
	}
	if utf8.RuneCountInString(customerID) > MaxCustomerIDLength {
		return shared.NewDomainError(shared.CodeInvalidRecord,
			fmt.Sprintf("customer id cannot exceed %d characters", MaxCustomerIDLength))
	}
	return nil
}
