package tier

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/lewlewstore/backend/internal/domain/shared"
)

// MaxIDLength is the width of the tier_id column
const MaxIDLength = 32

// Tier is a spend bracket bound 1:1 to an external role.
// The tier ID is the role ID it grants.
type Tier struct {
	ID        string
	Threshold int64
}

// NewTier validates and creates a Tier
func NewTier(id string, threshold int64) (Tier, error) {
	if strings.TrimSpace(id) == "" {
		return Tier{}, shared.NewDomainError(shared.CodeInvalidThreshold, "tier id cannot be empty")
	}
	if utf8.RuneCountInString(id) > MaxIDLength {
		return Tier{}, shared.NewDomainError(shared.CodeInvalidThreshold,
			fmt.Sprintf("tier id cannot exceed %d characters", MaxIDLength))
	}
	if threshold < 0 {
		return Tier{}, shared.NewDomainError(shared.CodeInvalidThreshold, "threshold cannot be negative")
	}
	return Tier{ID: id, Threshold: threshold}, nil
}

// IsDefault returns true for a base tier every customer qualifies for
func (t Tier) IsDefault() bool {
	return t.Threshold == 0
}

// Qualifies returns true if the total meets the tier's threshold
func (t Tier) Qualifies(total int64) bool {
	return t.Threshold <= total
}
