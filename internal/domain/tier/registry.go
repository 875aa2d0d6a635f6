package tier

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/lewlewstore/backend/internal/domain/shared"
)

// Change describes the effect of a SetThreshold call
type Change struct {
	Tier     Tier
	Created  bool
	Previous int64
}

// Registry is the threshold registry.
// It keeps an in-memory snapshot in registration order, loaded once from the repository
// and updated only after the repository write succeeded.
type Registry struct {
	repo TierRepository

	mu    sync.RWMutex
	tiers []Tier
	index map[string]int
}

// NewRegistry loads all tiers from the repository
func NewRegistry(ctx context.Context, repo TierRepository) (*Registry, error) {
	tiers, err := repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tiers: %w", err)
	}

	r := &Registry{
		repo:  repo,
		tiers: make([]Tier, 0, len(tiers)),
		index: make(map[string]int, len(tiers)),
	}
	for _, t := range tiers {
		if i, ok := r.index[t.ID]; ok {
			r.tiers[i] = t
			continue
		}
		r.index[t.ID] = len(r.tiers)
		r.tiers = append(r.tiers, t)
	}
	return r, nil
}

// SetThreshold creates or updates a tier
func (r *Registry) SetThreshold(ctx context.Context, tierID string, threshold int64) (Change, error) {
	t, err := NewTier(tierID, threshold)
	if err != nil {
		return Change{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.repo.Upsert(ctx, t); err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			return Change{}, err
		}
		return Change{}, shared.WrapDomainError(shared.CodePersistenceFailure, "failed to save tier", err)
	}

	if i, ok := r.index[t.ID]; ok {
		previous := r.tiers[i].Threshold
		r.tiers[i] = t
		return Change{Tier: t, Previous: previous}, nil
	}
	r.index[t.ID] = len(r.tiers)
	r.tiers = append(r.tiers, t)
	return Change{Tier: t, Created: true}, nil
}

// AllTiers returns a copy of the tiers in registration order
func (r *Registry) AllTiers() []Tier {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Tier(nil), r.tiers...)
}

// Thresholds returns the registry as a tier ID to threshold map
func (r *Registry) Thresholds() map[string]int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make(map[string]int64, len(r.tiers))
	for _, t := range r.tiers {
		result[t.ID] = t.Threshold
	}
	return result
}

// TierIDs returns every tier-bound role ID
func (r *Registry) TierIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, len(r.tiers))
	for i, t := range r.tiers {
		ids[i] = t.ID
	}
	return ids
}

// Resolve returns the tier for a total using the ascending scan
func (r *Registry) Resolve(total int64) (Tier, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Resolve(r.tiers, total)
}

// ResolveDescending returns the tier for a total using the descending scan
func (r *Registry) ResolveDescending(total int64) (Tier, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return ResolveDescending(r.tiers, total)
}

// DefaultTier returns the first threshold-0 tier in registration order
func (r *Registry) DefaultTier() (Tier, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.tiers {
		if t.IsDefault() {
			return t, true
		}
	}
	return Tier{}, false
}

// Resolve scans tiers in ascending threshold order (registration order among equal
// thresholds) and returns the last tier whose threshold is <= total.
// Among tiers sharing the maximal qualifying threshold, the last registered wins.
func Resolve(tiers []Tier, total int64) (Tier, bool) {
	var (
		resolved Tier
		found    bool
	)
	for _, t := range sortedAscending(tiers) {
		if t.Qualifies(total) {
			resolved = t
			found = true
		}
	}
	return resolved, found
}

// ResolveDescending scans tiers in descending threshold order (registration order among
// equal thresholds) and returns the first tier whose threshold is <= total.
// Among tiers sharing the maximal qualifying threshold, the first registered wins.
func ResolveDescending(tiers []Tier, total int64) (Tier, bool) {
	sorted := append([]Tier(nil), tiers...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Threshold > sorted[j].Threshold
	})
	for _, t := range sorted {
		if t.Qualifies(total) {
			return t, true
		}
	}
	return Tier{}, false
}

func sortedAscending(tiers []Tier) []Tier {
	sorted := append([]Tier(nil), tiers...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Threshold < sorted[j].Threshold
	})
	return sorted
}
