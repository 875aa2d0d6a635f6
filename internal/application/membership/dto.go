package membership

import (
	"fmt"
	"time"

	"github.com/lewlewstore/backend/internal/domain/ledger"
	"github.com/lewlewstore/backend/internal/domain/ranking"
	"github.com/lewlewstore/backend/internal/domain/role"
	"github.com/lewlewstore/backend/internal/domain/shared"
	"github.com/lewlewstore/backend/internal/domain/tier"
)

// =============================================================================
// Requests
// =============================================================================

// RecordPurchaseRequest represents a request to record a sale against a customer
type RecordPurchaseRequest struct {
	CustomerID string `json:"customer_id" binding:"required,max=32"`
	Quantity   int64  `json:"quantity" binding:"required,gt=0"`
	Product    string `json:"product" binding:"required,min=1,max=200"`
	Price      *int64 `json:"price" binding:"required,gte=0"`
}

// SetThresholdRequest represents a request to create or update a tier
type SetThresholdRequest struct {
	Threshold *int64 `json:"threshold" binding:"required,gte=0"`
}

// RankingQuery represents the leaderboard query string
type RankingQuery struct {
	Limit *int `form:"limit" binding:"omitempty,min=0"`
}

// =============================================================================
// Responses
// =============================================================================

// PurchaseResponse represents a single purchase record
type PurchaseResponse struct {
	Quantity       int64     `json:"quantity"`
	Product        string    `json:"product"`
	Price          int64     `json:"price"`
	PriceFormatted string    `json:"price_formatted"`
	RecordedAt     time.Time `json:"recorded_at"`
}

// RecordPurchaseResponse is returned after a purchase was recorded
type RecordPurchaseResponse struct {
	CustomerID     string           `json:"customer_id"`
	Purchase       PurchaseResponse `json:"purchase"`
	Total          int64            `json:"total"`
	TotalFormatted string           `json:"total_formatted"`
	TierID         string           `json:"tier_id,omitempty"`
	Message        string           `json:"message"`
}

// TierResponse represents a tier in API responses
type TierResponse struct {
	TierID             string `json:"tier_id"`
	Threshold          int64  `json:"threshold"`
	ThresholdFormatted string `json:"threshold_formatted"`
	IsDefault          bool   `json:"is_default"`
}

// SetThresholdResponse is returned after a tier was saved
type SetThresholdResponse struct {
	Tier     TierResponse `json:"tier"`
	Created  bool         `json:"created"`
	Previous *int64       `json:"previous,omitempty"`
	Message  string       `json:"message"`
}

// StatusResponse is a customer's purchase history and tier
type StatusResponse struct {
	CustomerID     string             `json:"customer_id"`
	Purchases      []PurchaseResponse `json:"purchases"`
	Total          int64              `json:"total"`
	TotalFormatted string             `json:"total_formatted"`
	TierID         string             `json:"tier_id,omitempty"`
	HasPurchases   bool               `json:"has_purchases"`
}

// RankingEntryResponse is one leaderboard row
type RankingEntryResponse struct {
	Rank           int    `json:"rank"`
	CustomerID     string `json:"customer_id"`
	Total          int64  `json:"total"`
	TotalFormatted string `json:"total_formatted"`
	TierID         string `json:"tier_id,omitempty"`
}

// RankingResponse is the leaderboard
type RankingResponse struct {
	Entries []RankingEntryResponse `json:"entries"`
	Limit   int                    `json:"limit"`
}

// ReconcileResponse is the outcome of a synchronous reconciliation
type ReconcileResponse struct {
	CustomerID string            `json:"customer_id"`
	Total      int64             `json:"total"`
	TierID     string            `json:"tier_id,omitempty"`
	Granted    []string          `json:"granted"`
	Revoked    []string          `json:"revoked"`
	Failures   []FailureResponse `json:"failures"`
}

// FailureResponse describes a failed role operation
type FailureResponse struct {
	Op     string `json:"op"`
	RoleID string `json:"role_id"`
	Error  string `json:"error"`
}

// =============================================================================
// Mapping
// =============================================================================

// ToPurchaseResponse converts a domain PurchaseRecord to PurchaseResponse
func ToPurchaseResponse(r ledger.PurchaseRecord) PurchaseResponse {
	return PurchaseResponse{
		Quantity:       r.Quantity,
		Product:        r.ProductName,
		Price:          r.Price,
		PriceFormatted: shared.FormatMoneyWithCurrency(r.Price),
		RecordedAt:     r.RecordedAt,
	}
}

// ToTierResponse converts a domain Tier to TierResponse
func ToTierResponse(t tier.Tier) TierResponse {
	return TierResponse{
		TierID:             t.ID,
		Threshold:          t.Threshold,
		ThresholdFormatted: shared.FormatMoneyWithCurrency(t.Threshold),
		IsDefault:          t.IsDefault(),
	}
}

// ToRankingEntryResponse converts a ranking Entry to RankingEntryResponse
func ToRankingEntryResponse(e ranking.Entry) RankingEntryResponse {
	return RankingEntryResponse{
		Rank:           e.Rank,
		CustomerID:     e.CustomerID,
		Total:          e.Total,
		TotalFormatted: shared.FormatMoneyWithCurrency(e.Total),
		TierID:         e.TierID,
	}
}

func toFailureResponses(results []role.OpResult) []FailureResponse {
	failures := make([]FailureResponse, 0)
	for _, r := range role.Failures(results) {
		failures = append(failures, FailureResponse{Op: string(r.Op), RoleID: r.RoleID, Error: r.Err.Error()})
	}
	return failures
}

func recordedMessage(customerID string, r ledger.PurchaseRecord) string {
	return fmt.Sprintf("Recorded: <@%s> bought **%d×%s** for **%s**",
		customerID, r.Quantity, r.ProductName, shared.FormatMoneyWithCurrency(r.Price))
}

func thresholdMessage(t tier.Tier) string {
	return fmt.Sprintf("Tier <@&%s> set with threshold **%s**", t.ID, shared.FormatMoneyWithCurrency(t.Threshold))
}
