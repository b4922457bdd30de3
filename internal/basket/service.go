package basket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/joao-fontenele/basketflow/internal/domain"
)

var tracer = otel.Tracer("basket/service")

// Timeouts bound each call to a dependency. Zero means no per-call bound
// beyond the caller's context.
type Timeouts struct {
	Store    time.Duration
	Discount time.Duration
	Publish  time.Duration
}

// Service composes the basket store, the discount lookup and the checkout
// publisher. It keeps no state between calls; every cart it receives or
// returns is a private copy.
type Service struct {
	store      CartStore
	discounts  DiscountClient
	publisher  EventPublisher
	logger     *slog.Logger
	metrics    *serviceMetrics
	timeouts   Timeouts
	maxLookups int
	newID      func() string
	now        func() time.Time
}

type Option func(*Service)

func WithTimeouts(t Timeouts) Option {
	return func(s *Service) { s.timeouts = t }
}

// WithMaxLookups caps concurrent discount lookups within one Update.
func WithMaxLookups(n int) Option {
	return func(s *Service) { s.maxLookups = n }
}

func WithIDGenerator(fn func() string) Option {
	return func(s *Service) { s.newID = fn }
}

func WithClock(fn func() time.Time) Option {
	return func(s *Service) { s.now = fn }
}

func NewService(store CartStore, discounts DiscountClient, publisher EventPublisher, logger *slog.Logger, opts ...Option) (*Service, error) {
	metrics, err := newServiceMetrics(otel.Meter("basket/service"))
	if err != nil {
		return nil, fmt.Errorf("create basket metrics: %w", err)
	}

	s := &Service{
		store:      store,
		discounts:  discounts,
		publisher:  publisher,
		logger:     logger,
		metrics:    metrics,
		maxLookups: 8,
		newID:      func() string { return uuid.New().String() },
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// GetOrCreate returns the stored basket, or a fresh empty one when the user
// has none. It never writes.
func (s *Service) GetOrCreate(ctx context.Context, userName string) (cart *domain.ShoppingCart, err error) {
	ctx, span := s.startSpan(ctx, "basket.get", userName)
	defer func() { s.finish(ctx, span, "get", err) }()

	if strings.TrimSpace(userName) == "" {
		return nil, fmt.Errorf("%w: user name is required", ErrValidation)
	}

	cart, err = s.getCart(ctx, userName)
	if err != nil {
		return nil, fmt.Errorf("get basket %s: %w", userName, err)
	}
	if cart == nil {
		return domain.NewShoppingCart(userName), nil
	}
	return cart, nil
}

// Update validates cart, refreshes every line's discount and stores the
// result. If any lookup fails nothing is stored.
func (s *Service) Update(ctx context.Context, cart *domain.ShoppingCart) (updated *domain.ShoppingCart, err error) {
	userName := ""
	if cart != nil {
		userName = cart.UserName
	}
	ctx, span := s.startSpan(ctx, "basket.update", userName)
	defer func() { s.finish(ctx, span, "update", err) }()

	if err := validate(cart); err != nil {
		return nil, err
	}

	working, err := mergeItems(cart)
	if err != nil {
		return nil, err
	}
	if err := s.enrich(ctx, working); err != nil {
		return nil, fmt.Errorf("update basket %s: %w", userName, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("update basket %s: %w", userName, err)
	}

	storeCtx, cancel := withTimeout(ctx, s.timeouts.Store)
	defer cancel()

	updated, err = s.store.Put(storeCtx, working)
	if err != nil {
		return nil, fmt.Errorf("update basket %s: %w", userName, dependencyError(ctx, storeCtx, err, ErrStoreUnavailable))
	}
	return updated, nil
}

// Checkout publishes the basket as a CheckoutEvent and then removes it. When
// the publish fails the basket is left as it was. Once the publish succeeded
// the removal runs to completion even if ctx is cancelled.
func (s *Service) Checkout(ctx context.Context, userName string) (event *domain.CheckoutEvent, err error) {
	ctx, span := s.startSpan(ctx, "basket.checkout", userName)
	defer func() { s.finish(ctx, span, "checkout", err) }()

	if strings.TrimSpace(userName) == "" {
		return nil, fmt.Errorf("%w: user name is required", ErrValidation)
	}

	cart, err := s.getCart(ctx, userName)
	if err != nil {
		return nil, fmt.Errorf("checkout %s: %w", userName, err)
	}
	if cart.IsEmpty() {
		return nil, fmt.Errorf("checkout %s: %w", userName, ErrEmptyBasket)
	}

	checkout := domain.NewCheckoutEvent(s.newID(), cart, s.now())
	span.SetAttributes(attribute.String("basket.correlation_id", checkout.CorrelationID))

	publishCtx, cancelPublish := withTimeout(ctx, s.timeouts.Publish)
	err = s.publisher.Publish(publishCtx, checkout)
	cancelPublish()
	if err != nil {
		s.logger.Error("failed to publish checkout event", "error", err, "user_name", userName, "correlation_id", checkout.CorrelationID)
		return nil, fmt.Errorf("%w: %w", ErrCheckoutPublishFailed, err)
	}

	deleteCtx, cancelDelete := withTimeout(context.WithoutCancel(ctx), s.timeouts.Store)
	defer cancelDelete()

	if _, err := s.store.Delete(deleteCtx, userName); err != nil {
		s.logger.Error("checkout published but basket not cleared", "error", err, "user_name", userName, "correlation_id", checkout.CorrelationID)
		return &checkout, fmt.Errorf("%w: correlation id %s: %w", ErrCheckoutIncomplete, checkout.CorrelationID, err)
	}

	s.logger.Info("basket checked out", "user_name", userName, "correlation_id", checkout.CorrelationID, "total", checkout.TotalPrice.String())
	return &checkout, nil
}

// Delete removes the basket. Deleting a missing basket succeeds.
func (s *Service) Delete(ctx context.Context, userName string) (err error) {
	ctx, span := s.startSpan(ctx, "basket.delete", userName)
	defer func() { s.finish(ctx, span, "delete", err) }()

	if strings.TrimSpace(userName) == "" {
		return fmt.Errorf("%w: user name is required", ErrValidation)
	}

	storeCtx, cancel := withTimeout(ctx, s.timeouts.Store)
	defer cancel()

	if _, err := s.store.Delete(storeCtx, userName); err != nil {
		return fmt.Errorf("delete basket %s: %w", userName, dependencyError(ctx, storeCtx, err, ErrStoreUnavailable))
	}
	return nil
}

func (s *Service) getCart(ctx context.Context, userName string) (*domain.ShoppingCart, error) {
	storeCtx, cancel := withTimeout(ctx, s.timeouts.Store)
	defer cancel()

	cart, err := s.store.Get(storeCtx, userName)
	if err != nil {
		return nil, dependencyError(ctx, storeCtx, err, ErrStoreUnavailable)
	}
	return cart, nil
}

// enrich fans out one lookup per distinct product name and waits for all of
// them. Discounts are applied only when every lookup resolved.
func (s *Service) enrich(ctx context.Context, cart *domain.ShoppingCart) error {
	names := distinctNames(cart.Items)
	amounts := make([]decimal.Decimal, len(names))

	g, gctx := errgroup.WithContext(ctx)
	if s.maxLookups > 0 {
		g.SetLimit(s.maxLookups)
	}
	for i, name := range names {
		g.Go(func() error {
			amount, err := s.lookupDiscount(gctx, name)
			if err != nil {
				return err
			}
			amounts[i] = amount
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %w", ErrEnrichmentFailed, err)
	}

	byName := make(map[string]decimal.Decimal, len(names))
	for i, name := range names {
		byName[name] = amounts[i]
	}
	for i := range cart.Items {
		cart.Items[i].DiscountAmount = byName[cart.Items[i].ProductName]
	}
	return nil
}

func (s *Service) lookupDiscount(ctx context.Context, productName string) (decimal.Decimal, error) {
	callCtx, cancel := withTimeout(ctx, s.timeouts.Discount)
	defer cancel()

	coupon, err := s.discounts.Lookup(callCtx, productName)
	switch {
	case errors.Is(err, domain.ErrCouponNotFound):
		s.metrics.recordLookup(ctx, "miss")
		return decimal.Zero, nil
	case err != nil:
		if ctx.Err() != nil {
			return decimal.Zero, ctx.Err()
		}
		s.metrics.recordLookup(ctx, "error")
		return decimal.Zero, dependencyError(ctx, callCtx, err, ErrDependencyUnavailable)
	}

	if coupon == nil {
		s.metrics.recordLookup(ctx, "miss")
		return decimal.Zero, nil
	}
	s.metrics.recordLookup(ctx, "hit")
	if coupon.Amount.IsNegative() {
		return decimal.Zero, nil
	}
	return coupon.Amount, nil
}

func (s *Service) startSpan(ctx context.Context, name, userName string) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attribute.String("basket.user_name", userName)))
}

func (s *Service) finish(ctx context.Context, span trace.Span, operation string, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
	s.metrics.recordOperation(ctx, operation, err)
}

func validate(cart *domain.ShoppingCart) error {
	if cart == nil {
		return fmt.Errorf("%w: basket is required", ErrValidation)
	}
	if strings.TrimSpace(cart.UserName) == "" {
		return fmt.Errorf("%w: user name is required", ErrValidation)
	}
	for i, item := range cart.Items {
		if item.ProductID == "" {
			return fmt.Errorf("%w: item %d has no product id", ErrValidation, i)
		}
		if item.Quantity < 1 {
			return fmt.Errorf("%w: item %s has quantity %d", ErrValidation, item.ProductID, item.Quantity)
		}
		if item.Price.IsNegative() {
			return fmt.Errorf("%w: item %s has negative price", ErrValidation, item.ProductID)
		}
	}
	return nil
}

// mergeItems copies cart, collapsing lines with the same product id into the
// first one by summing quantities. A sum that does not fit in an int is a
// validation error.
func mergeItems(cart *domain.ShoppingCart) (*domain.ShoppingCart, error) {
	merged := &domain.ShoppingCart{
		UserName: cart.UserName,
		Items:    make([]domain.CartItem, 0, len(cart.Items)),
	}
	index := make(map[string]int, len(cart.Items))
	for _, item := range cart.Items {
		if i, ok := index[item.ProductID]; ok {
			if merged.Items[i].Quantity > math.MaxInt-item.Quantity {
				return nil, fmt.Errorf("%w: item %s has too large a quantity", ErrValidation, item.ProductID)
			}
			merged.Items[i].Quantity += item.Quantity
			continue
		}
		index[item.ProductID] = len(merged.Items)
		merged.Items = append(merged.Items, item)
	}
	return merged, nil
}

// distinctNames skips empty names: a line without a product name cannot have
// a coupon.
func distinctNames(items []domain.CartItem) []string {
	seen := make(map[string]struct{}, len(items))
	names := make([]string, 0, len(items))
	for _, item := range items {
		if item.ProductName == "" {
			continue
		}
		if _, ok := seen[item.ProductName]; ok {
			continue
		}
		seen[item.ProductName] = struct{}{}
		names = append(names, item.ProductName)
	}
	return names
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// dependencyError classifies err from a call made with callCtx, derived from
// parent. A cancelled parent is reported as such; a call that ran out of its
// own time is reported as kind.
func dependencyError(parent, callCtx context.Context, err, kind error) error {
	switch {
	case parent.Err() != nil:
		return fmt.Errorf("request cancelled: %w", parent.Err())
	case errors.Is(err, kind):
		return err
	case callCtx.Err() != nil:
		return fmt.Errorf("%w: %w", kind, err)
	default:
		return err
	}
}
