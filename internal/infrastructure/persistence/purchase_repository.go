package persistence

import (
	"context"

	"github.com/lewlewstore/backend/internal/domain/ledger"
	"github.com/lewlewstore/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPurchaseRepository implements ledger.PurchaseRepository using GORM
type GormPurchaseRepository struct {
	db *gorm.DB
}

// NewGormPurchaseRepository creates a new GormPurchaseRepository
func NewGormPurchaseRepository(db *gorm.DB) *GormPurchaseRepository {
	return &GormPurchaseRepository{db: db}
}

// Append inserts a single ledger row
func (r *GormPurchaseRepository) Append(ctx context.Context, customerID string, record ledger.PurchaseRecord) error {
	return r.db.WithContext(ctx).Create(models.PurchaseModelFromDomain(customerID, record)).Error
}

// FindByCustomer returns the customer's records in append order
func (r *GormPurchaseRepository) FindByCustomer(ctx context.Context, customerID string) ([]ledger.PurchaseRecord, error) {
	var rows []models.PurchaseModel
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	records := make([]ledger.PurchaseRecord, len(rows))
	for i := range rows {
		records[i] = rows[i].ToDomain()
	}
	return records, nil
}

// FindAll returns every customer's ledger, customers ordered by their first purchase
func (r *GormPurchaseRepository) FindAll(ctx context.Context) ([]ledger.CustomerPurchases, error) {
	var rows []models.PurchaseModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	index := make(map[string]int)
	result := make([]ledger.CustomerPurchases, 0)
	for i := range rows {
		pos, ok := index[rows[i].CustomerID]
		if !ok {
			pos = len(result)
			index[rows[i].CustomerID] = pos
			result = append(result, ledger.CustomerPurchases{CustomerID: rows[i].CustomerID})
		}
		result[pos].Purchases = append(result[pos].Purchases, rows[i].ToDomain())
	}
	return result, nil
}

// Ensure GormPurchaseRepository implements ledger.PurchaseRepository
var _ ledger.PurchaseRepository = (*GormPurchaseRepository)(nil)
