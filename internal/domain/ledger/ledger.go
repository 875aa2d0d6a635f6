package ledger

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/lewlewstore/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Receipt is the outcome of a successful Record call
type Receipt struct {
	CustomerID string
	Record     PurchaseRecord
	Total      int64
}

// Ledger is the purchase ledger store.
// Writes are serialized by a single mutex; reads share the read lock so they never
// observe a half-applied Record.
type Ledger struct {
	repo   PurchaseRepository
	cache  TotalCache
	logger *zap.Logger

	mu sync.RWMutex
	// cacheBroken is set once the cache could neither be updated nor invalidated.
	// From then on totals are always recomputed.
	cacheBroken atomic.Bool
}

// Option configures a Ledger
type Option func(*Ledger)

// WithTotalCache enables the running-total cache
func WithTotalCache(cache TotalCache) Option {
	return func(l *Ledger) {
		l.cache = cache
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
	}
}

// NewLedger creates a new Ledger backed by the given repository
func NewLedger(repo PurchaseRepository, opts ...Option) *Ledger {
	l := &Ledger{
		repo:   repo,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Record validates and appends a purchase. The record is persisted before Record returns.
func (l *Ledger) Record(ctx context.Context, customerID string, quantity int64, productName string, price int64) (Receipt, error) {
	if err := ValidateCustomerID(customerID); err != nil {
		return Receipt{}, err
	}
	record, err := NewPurchaseRecord(quantity, productName, price)
	if err != nil {
		return Receipt{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	prior, err := l.repo.FindByCustomer(ctx, customerID)
	if err != nil {
		return Receipt{}, persistenceError("failed to load customer ledger", err)
	}
	if err := l.repo.Append(ctx, customerID, record); err != nil {
		return Receipt{}, persistenceError("failed to append purchase", err)
	}
	total := SumPrices(prior) + record.Price
	l.refresh(ctx, customerID, total)

	return Receipt{CustomerID: customerID, Record: record, Total: total}, nil
}

// PurchasesOf returns the customer's records in append order
func (l *Ledger) PurchasesOf(ctx context.Context, customerID string) ([]PurchaseRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	records, err := l.repo.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, persistenceError("failed to load customer ledger", err)
	}
	if records == nil {
		records = []PurchaseRecord{}
	}
	return records, nil
}

// TotalOf returns the sum of prices over the customer's records (0 when unknown)
func (l *Ledger) TotalOf(ctx context.Context, customerID string) (int64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.cacheUsable() {
		total, ok, err := l.cache.Get(ctx, customerID)
		if err != nil {
			l.logger.Warn("total cache read failed, recomputing",
				zap.String("customer_id", customerID),
				zap.Error(err),
			)
		} else if ok {
			return total, nil
		}
	}

	records, err := l.repo.FindByCustomer(ctx, customerID)
	if err != nil {
		return 0, persistenceError("failed to load customer ledger", err)
	}
	total := SumPrices(records)

	if l.cacheUsable() {
		if err := l.cache.Set(ctx, customerID, total); err != nil {
			l.logger.Warn("total cache fill failed",
				zap.String("customer_id", customerID),
				zap.Error(err),
			)
		}
	}
	return total, nil
}

// AllTotals returns every customer's total ordered by first purchase
func (l *Ledger) AllTotals(ctx context.Context) ([]CustomerTotal, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	all, err := l.repo.FindAll(ctx)
	if err != nil {
		return nil, persistenceError("failed to load ledger", err)
	}

	totals := make([]CustomerTotal, 0, len(all))
	for _, c := range all {
		totals = append(totals, CustomerTotal{CustomerID: c.CustomerID, Total: c.Total()})
	}
	return totals, nil
}

// TotalsByCustomer returns AllTotals as a map
func (l *Ledger) TotalsByCustomer(ctx context.Context) (map[string]int64, error) {
	totals, err := l.AllTotals(ctx)
	if err != nil {
		return nil, err
	}
	result := make(map[string]int64, len(totals))
	for _, t := range totals {
		result[t.CustomerID] = t.Total
	}
	return result, nil
}

func (l *Ledger) cacheUsable() bool {
	return l.cache != nil && !l.cacheBroken.Load()
}

// refresh writes the new total through to the cache, falling back to invalidation
func (l *Ledger) refresh(ctx context.Context, customerID string, total int64) {
	if !l.cacheUsable() {
		return
	}
	if err := l.cache.Set(ctx, customerID, total); err != nil {
		l.logger.Warn("total cache update failed, invalidating",
			zap.String("customer_id", customerID),
			zap.Error(err),
		)
		l.invalidate(ctx, customerID)
	}
}

func (l *Ledger) invalidate(ctx context.Context, customerID string) {
	if !l.cacheUsable() {
		return
	}
	if err := l.cache.Invalidate(ctx, customerID); err != nil {
		l.cacheBroken.Store(true)
		l.logger.Error("total cache could not be invalidated, disabling cache",
			zap.String("customer_id", customerID),
			zap.Error(err),
		)
	}
}

func persistenceError(message string, err error) error {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	return shared.WrapDomainError(shared.CodePersistenceFailure, message, err)
}
