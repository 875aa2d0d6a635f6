package models

import (
	"time"

	"github.com/lewlewstore/backend/internal/domain/ledger"
)

// PurchaseModel is one ledger row. The auto-increment ID defines append order.
type PurchaseModel struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	CustomerID  string    `gorm:"type:varchar(32);not null;index:idx_purchases_customer"`
	Quantity    int64     `gorm:"not null"`
	ProductName string    `gorm:"type:varchar(200);not null"`
	Price       int64     `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseModel) TableName() string {
	return "purchases"
}

// ToDomain converts the row to a domain PurchaseRecord
func (m *PurchaseModel) ToDomain() ledger.PurchaseRecord {
	return ledger.PurchaseRecord{
		Quantity:    m.Quantity,
		ProductName: m.ProductName,
		Price:       m.Price,
		RecordedAt:  m.CreatedAt,
	}
}

// PurchaseModelFromDomain builds a row for the customer's record
func PurchaseModelFromDomain(customerID string, r ledger.PurchaseRecord) *PurchaseModel {
	created := r.RecordedAt
	if created.IsZero() {
		created = time.Now()
	}
	return &PurchaseModel{
		CustomerID:  customerID,
		Quantity:    r.Quantity,
		ProductName: r.ProductName,
		Price:       r.Price,
		CreatedAt:   created,
	}
}
