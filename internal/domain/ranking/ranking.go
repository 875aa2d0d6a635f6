package ranking

import (
	"context"
	"sort"

	"github.com/lewlewstore/backend/internal/domain/ledger"
	"github.com/lewlewstore/backend/internal/domain/shared"
	"github.com/lewlewstore/backend/internal/domain/tier"
)

// TotalsSource provides customer totals in discovery order
type TotalsSource interface {
	AllTotals(ctx context.Context) ([]ledger.CustomerTotal, error)
}

// TierResolver resolves a total for display
type TierResolver interface {
	ResolveDescending(total int64) (tier.Tier, bool)
}

// Entry is one leaderboard row
type Entry struct {
	Rank       int
	CustomerID string
	Total      int64
	TierID     string
	HasTier    bool
}

// Engine builds the spend leaderboard
type Engine struct {
	totals TotalsSource
	tiers  TierResolver
}

// NewEngine creates a new ranking Engine
func NewEngine(totals TotalsSource, tiers TierResolver) *Engine {
	return &Engine{totals: totals, tiers: tiers}
}

// TopN returns the n highest-spending customers.
// Equal totals keep discovery order (first purchase first), so TopN(k) is always a prefix
// of TopN(k+1).
func (e *Engine) TopN(ctx context.Context, n int) ([]Entry, error) {
	if n < 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "limit cannot be negative")
	}
	if n == 0 {
		return []Entry{}, nil
	}

	totals, err := e.totals.AllTotals(ctx)
	if err != nil {
		return nil, err
	}

	sorted := Rank(totals)
	if len(sorted) > n {
		sorted = sorted[:n]
	}

	entries := make([]Entry, 0, len(sorted))
	for i, ct := range sorted {
		entry := Entry{Rank: i + 1, CustomerID: ct.CustomerID, Total: ct.Total}
		if t, ok := e.tiers.ResolveDescending(ct.Total); ok {
			entry.TierID = t.ID
			entry.HasTier = true
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Rank sorts totals descending, stable over the input order
func Rank(totals []ledger.CustomerTotal) []ledger.CustomerTotal {
	sorted := append([]ledger.CustomerTotal(nil), totals...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Total > sorted[j].Total
	})
	return sorted
}
