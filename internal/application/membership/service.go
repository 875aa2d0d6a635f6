package membership

import (
	"context"
	"errors"
	"sync"

	"github.com/lewlewstore/backend/internal/domain/ledger"
	"github.com/lewlewstore/backend/internal/domain/ranking"
	"github.com/lewlewstore/backend/internal/domain/role"
	"github.com/lewlewstore/backend/internal/domain/shared"
	"github.com/lewlewstore/backend/internal/domain/tier"
	"github.com/lewlewstore/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	defaultRankingLimit = 20
	maxRankingLimit     = 100
)

// Service orchestrates the purchase ledger, the threshold registry and role synchronization
type Service struct {
	ledger    *ledger.Ledger
	registry  *tier.Registry
	ranking   *ranking.Engine
	roles     role.RoleStore
	publisher shared.EventPublisher
	logger    *zap.Logger

	defaultLimit int
	maxLimit     int

	pending sync.WaitGroup
	locks   sync.Map // customer id -> *sync.Mutex
}

// Option configures a Service
type Option func(*Service)

// WithEventPublisher sets the publisher for domain events
func WithEventPublisher(publisher shared.EventPublisher) Option {
	return func(s *Service) {
		s.publisher = publisher
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithRankingLimits sets the default and maximum leaderboard size
func WithRankingLimits(defaultLimit, maxLimit int) Option {
	return func(s *Service) {
		if defaultLimit > 0 {
			s.defaultLimit = defaultLimit
		}
		if maxLimit > 0 {
			s.maxLimit = maxLimit
		}
	}
}

// NewService creates a new membership Service
func NewService(l *ledger.Ledger, registry *tier.Registry, roles role.RoleStore, opts ...Option) *Service {
	s := &Service{
		ledger:       l,
		registry:     registry,
		ranking:      ranking.NewEngine(l, registry),
		roles:        roles,
		logger:       zap.NewNop(),
		defaultLimit: defaultRankingLimit,
		maxLimit:     maxRankingLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RecordPurchase appends a purchase and schedules role reconciliation for the customer.
// The response is returned once the record is durable; role changes are applied in the
// background and their failures never undo the record.
func (s *Service) RecordPurchase(ctx context.Context, scope, recordedBy string, req RecordPurchaseRequest) (*RecordPurchaseResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "membership", "record_purchase",
		telemetry.WithAttribute(telemetry.SpanAttrCustomerID, req.CustomerID),
		telemetry.WithAttribute(telemetry.SpanAttrScope, scope),
	)
	defer span.End()

	var price int64
	if req.Price != nil {
		price = *req.Price
	}

	receipt, err := s.ledger.Record(ctx, req.CustomerID, req.Quantity, req.Product, price)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	resolved, ok := s.registry.Resolve(receipt.Total)
	tierID := ""
	if ok {
		tierID = resolved.ID
	}

	s.logger.Info("Purchase recorded",
		zap.String("customer_id", receipt.CustomerID),
		zap.String("scope", scope),
		zap.String("product", receipt.Record.ProductName),
		zap.Int64("price", receipt.Record.Price),
		zap.Int64("total", receipt.Total),
		zap.String("tier_id", tierID),
	)
	telemetry.SetAttributes(span,
		telemetry.SpanAttrPrice, receipt.Record.Price,
		telemetry.SpanAttrTotal, receipt.Total,
		telemetry.SpanAttrTierID, tierID,
	)

	s.afterRecord(ctx, scope, receipt.CustomerID,
		ledger.NewPurchaseRecordedEvent(scope, receipt, tierID, recordedBy))

	return &RecordPurchaseResponse{
		CustomerID:     receipt.CustomerID,
		Purchase:       ToPurchaseResponse(receipt.Record),
		Total:          receipt.Total,
		TotalFormatted: shared.FormatMoneyWithCurrency(receipt.Total),
		TierID:         tierID,
		Message:        recordedMessage(receipt.CustomerID, receipt.Record),
	}, nil
}

// SetThreshold creates or updates a tier
func (s *Service) SetThreshold(ctx context.Context, tierID string, req SetThresholdRequest) (*SetThresholdResponse, error) {
	if req.Threshold == nil {
		return nil, shared.NewDomainError(shared.CodeInvalidThreshold, "threshold is required")
	}

	change, err := s.registry.SetThreshold(ctx, tierID, *req.Threshold)
	if err != nil {
		return nil, err
	}

	var previous *int64
	if !change.Created {
		p := change.Previous
		previous = &p
	}

	s.logger.Info("Tier threshold set",
		zap.String("tier_id", change.Tier.ID),
		zap.Int64("threshold", change.Tier.Threshold),
		zap.Bool("created", change.Created),
	)
	s.publish(ctx, tier.NewTierThresholdSetEvent(change.Tier, previous))

	return &SetThresholdResponse{
		Tier:     ToTierResponse(change.Tier),
		Created:  change.Created,
		Previous: previous,
		Message:  thresholdMessage(change.Tier),
	}, nil
}

// ListTiers returns every tier in registration order
func (s *Service) ListTiers(_ context.Context) []TierResponse {
	tiers := s.registry.AllTiers()
	responses := make([]TierResponse, len(tiers))
	for i, t := range tiers {
		responses[i] = ToTierResponse(t)
	}
	return responses
}

// Status returns the customer's purchases, total and tier.
// A customer without purchases is shown the default tier.
func (s *Service) Status(ctx context.Context, customerID string) (*StatusResponse, error) {
	if err := ledger.ValidateCustomerID(customerID); err != nil {
		return nil, invalidCustomerID(err)
	}

	records, err := s.ledger.PurchasesOf(ctx, customerID)
	if err != nil {
		return nil, err
	}

	response := &StatusResponse{
		CustomerID:   customerID,
		Purchases:    make([]PurchaseResponse, len(records)),
		HasPurchases: len(records) > 0,
	}
	for i, r := range records {
		response.Purchases[i] = ToPurchaseResponse(r)
	}
	response.Total = ledger.SumPrices(records)
	response.TotalFormatted = shared.FormatMoneyWithCurrency(response.Total)

	var (
		resolved tier.Tier
		ok       bool
	)
	if response.HasPurchases {
		resolved, ok = s.registry.Resolve(response.Total)
	} else {
		resolved, ok = s.registry.DefaultTier()
	}
	if ok {
		response.TierID = resolved.ID
	}
	return response, nil
}

// Ranking returns the top spenders. A nil limit uses the configured default;
// limits above the maximum are clamped.
func (s *Service) Ranking(ctx context.Context, limit *int) (*RankingResponse, error) {
	n := s.defaultLimit
	if limit != nil {
		n = *limit
	}
	if n > s.maxLimit {
		n = s.maxLimit
	}

	entries, err := s.ranking.TopN(ctx, n)
	if err != nil {
		return nil, err
	}

	response := &RankingResponse{
		Entries: make([]RankingEntryResponse, len(entries)),
		Limit:   n,
	}
	for i, e := range entries {
		response.Entries[i] = ToRankingEntryResponse(e)
	}
	return response, nil
}

// Reconcile re-runs role synchronization for a customer and waits for the result
func (s *Service) Reconcile(ctx context.Context, scope, customerID string) (*ReconcileResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "membership", "reconcile",
		telemetry.WithAttribute(telemetry.SpanAttrCustomerID, customerID),
		telemetry.WithAttribute(telemetry.SpanAttrScope, scope),
	)
	defer span.End()

	if err := ledger.ValidateCustomerID(customerID); err != nil {
		return nil, invalidCustomerID(err)
	}

	total, tierID, result, err := s.syncCustomer(ctx, scope, customerID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	return &ReconcileResponse{
		CustomerID: customerID,
		Total:      total,
		TierID:     tierID,
		Granted:    result.delta.Grant,
		Revoked:    result.delta.Revoke,
		Failures:   toFailureResponses(result.results),
	}, nil
}

// Wait blocks until every background reconciliation has finished
func (s *Service) Wait() {
	s.pending.Wait()
}

// afterRecord hands event publication and reconciliation off to a tracked goroutine.
// The request context is detached so the work outlives the request.
func (s *Service) afterRecord(ctx context.Context, scope, customerID string, recorded shared.DomainEvent) {
	bg := context.WithoutCancel(ctx)
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		s.publish(bg, recorded)

		spanCtx, span := telemetry.StartServiceSpan(bg, "membership", "background_reconcile",
			telemetry.WithAttribute(telemetry.SpanAttrCustomerID, customerID),
			telemetry.WithAttribute(telemetry.SpanAttrScope, scope),
		)
		defer span.End()

		if _, _, _, err := s.syncCustomer(spanCtx, scope, customerID); err != nil {
			telemetry.RecordError(span, err)
			s.logger.Warn("Role reconciliation skipped",
				zap.String("customer_id", customerID),
				zap.String("scope", scope),
				zap.Error(err),
			)
		}
	}()
}

// syncCustomer resolves the customer's tier from the current total and reconciles roles.
// Calls for the same customer are serialized so the last one always sees the latest total.
func (s *Service) syncCustomer(ctx context.Context, scope, customerID string) (int64, string, reconcileResult, error) {
	mu := s.customerLock(customerID)
	mu.Lock()
	defer mu.Unlock()

	total, err := s.ledger.TotalOf(ctx, customerID)
	if err != nil {
		return 0, "", reconcileResult{}, err
	}
	tierID := ""
	if resolved, ok := s.registry.Resolve(total); ok {
		tierID = resolved.ID
	}

	delta, results, err := s.reconcile(ctx, scope, customerID, tierID)
	return total, tierID, reconcileResult{delta: delta, results: results}, err
}

func (s *Service) customerLock(customerID string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(customerID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

type reconcileResult struct {
	delta   role.Delta
	results []role.OpResult
}

func (s *Service) reconcile(ctx context.Context, scope, customerID, tierID string) (role.Delta, []role.OpResult, error) {
	current, err := s.roles.CurrentRoles(ctx, customerID, scope)
	if err != nil {
		return role.Delta{}, nil, shared.WrapDomainError(shared.CodeRoleStoreFailure, "failed to read current roles", err)
	}

	delta := role.Reconcile(current, s.registry.TierIDs(), tierID)

	span := trace.SpanFromContext(ctx)
	telemetry.SetAttributes(span,
		telemetry.SpanAttrTierID, tierID,
		telemetry.SpanAttrGranted, delta.Grant,
		telemetry.SpanAttrRevoked, delta.Revoke,
	)

	var results []role.OpResult
	if !delta.IsEmpty() {
		results = s.roles.ApplyRoleDelta(ctx, customerID, scope, delta)
	}
	for _, r := range role.Failures(results) {
		telemetry.AddEvent(span, "role_operation_failed",
			"role_id", r.RoleID,
			"op", string(r.Op),
			"error", r.Err.Error(),
		)
		s.logger.Warn("Role operation failed",
			zap.String("customer_id", customerID),
			zap.String("scope", scope),
			zap.String("role_id", r.RoleID),
			zap.String("op", string(r.Op)),
			zap.Error(r.Err),
		)
	}

	s.publish(ctx, role.NewMemberReconciledEvent(customerID, scope, tierID, delta, results))
	return delta, results, nil
}

func invalidCustomerID(err error) error {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return shared.NewDomainError(shared.CodeInvalidInput, domainErr.Message)
	}
	return shared.WrapDomainError(shared.CodeInvalidInput, "invalid customer id", err)
}

func (s *Service) publish(ctx context.Context, events ...shared.DomainEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish domain events", zap.Error(err))
	}
}
