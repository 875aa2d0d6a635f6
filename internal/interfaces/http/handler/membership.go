package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/lewlewstore/backend/internal/application/membership"
	"github.com/lewlewstore/backend/internal/interfaces/http/middleware"
)

// MembershipService is the application surface used by MembershipHandler
type MembershipService interface {
	RecordPurchase(ctx context.Context, scope, recordedBy string, req membership.RecordPurchaseRequest) (*membership.RecordPurchaseResponse, error)
	SetThreshold(ctx context.Context, tierID string, req membership.SetThresholdRequest) (*membership.SetThresholdResponse, error)
	ListTiers(ctx context.Context) []membership.TierResponse
	Status(ctx context.Context, customerID string) (*membership.StatusResponse, error)
	Ranking(ctx context.Context, limit *int) (*membership.RankingResponse, error)
	Reconcile(ctx context.Context, scope, customerID string) (*membership.ReconcileResponse, error)
}

// Ensure *membership.Service implements MembershipService
var _ MembershipService = (*membership.Service)(nil)

// MembershipHandler handles purchase, tier, status and ranking endpoints
type MembershipHandler struct {
	BaseHandler
	service MembershipService
}

// NewMembershipHandler creates a new MembershipHandler
func NewMembershipHandler(service MembershipService) *MembershipHandler {
	return &MembershipHandler{service: service}
}

// RecordPurchase godoc
// @ID           recordPurchase
// @Summary      Record a purchase
// @Description  Appends a purchase to the customer's ledger and schedules role synchronization
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Param        guildId path string true "Guild ID"
// @Param        request body membership.RecordPurchaseRequest true "Purchase"
// @Success      201 {object} APIResponse[membership.RecordPurchaseResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Router       /guilds/{guildId}/purchases [post]
func (h *MembershipHandler) RecordPurchase(c *gin.Context) {
	var req membership.RecordPurchaseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.service.RecordPurchase(c.Request.Context(), guildID(c), middleware.GetJWTUserID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// SetThreshold godoc
// @ID           setTierThreshold
// @Summary      Create or update a tier
// @Tags         tiers
// @Accept       json
// @Produce      json
// @Param        guildId path string true "Guild ID"
// @Param        tierId path string true "Role ID bound to the tier"
// @Param        request body membership.SetThresholdRequest true "Threshold"
// @Success      200 {object} APIResponse[membership.SetThresholdResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /guilds/{guildId}/tiers/{tierId} [put]
func (h *MembershipHandler) SetThreshold(c *gin.Context) {
	var req membership.SetThresholdRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.service.SetThreshold(c.Request.Context(), c.Param("tierId"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListTiers godoc
// @ID           listTiers
// @Summary      List tiers in registration order
// @Tags         tiers
// @Produce      json
// @Param        guildId path string true "Guild ID"
// @Success      200 {object} APIResponse[[]membership.TierResponse]
// @Router       /guilds/{guildId}/tiers [get]
func (h *MembershipHandler) ListTiers(c *gin.Context) {
	h.Success(c, h.service.ListTiers(c.Request.Context()))
}

// Status godoc
// @ID           getCustomerStatus
// @Summary      Show a customer's purchases, total and tier
// @Tags         customers
// @Produce      json
// @Param        guildId path string true "Guild ID"
// @Param        customerId path string true "Customer ID"
// @Success      200 {object} APIResponse[membership.StatusResponse]
// @Router       /guilds/{guildId}/customers/{customerId}/status [get]
func (h *MembershipHandler) Status(c *gin.Context) {
	resp, err := h.service.Status(c.Request.Context(), c.Param("customerId"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Ranking godoc
// @ID           getRanking
// @Summary      Top spenders leaderboard
// @Tags         ranking
// @Produce      json
// @Param        guildId path string true "Guild ID"
// @Param        limit query int false "Number of entries" default(20)
// @Success      200 {object} APIResponse[membership.RankingResponse]
// @Router       /guilds/{guildId}/ranking [get]
func (h *MembershipHandler) Ranking(c *gin.Context) {
	var query membership.RankingQuery
	if !h.BindQuery(c, &query) {
		return
	}

	resp, err := h.service.Ranking(c.Request.Context(), query.Limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Reconcile godoc
// @ID           reconcileCustomer
// @Summary      Re-run role synchronization for a customer
// @Tags         customers
// @Produce      json
// @Param        guildId path string true "Guild ID"
// @Param        customerId path string true "Customer ID"
// @Success      200 {object} APIResponse[membership.ReconcileResponse]
// @Failure      502 {object} ErrorResponse
// @Router       /guilds/{guildId}/customers/{customerId}/reconcile [post]
func (h *MembershipHandler) Reconcile(c *gin.Context) {
	resp, err := h.service.Reconcile(c.Request.Context(), guildID(c), c.Param("customerId"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
