package basket

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/joao-fontenele/basketflow/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type memStore struct {
	mu        sync.Mutex
	carts     map[string]*domain.ShoppingCart
	getErr    error
	putErr    error
	deleteErr error
	puts      int
	deletes   int
}

func newMemStore() *memStore {
	return &memStore{carts: make(map[string]*domain.ShoppingCart)}
}

func (s *memStore) Get(ctx context.Context, userName string) (*domain.ShoppingCart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.carts[userName].Clone(), nil
}

func (s *memStore) Put(ctx context.Context, cart *domain.ShoppingCart) (*domain.ShoppingCart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.putErr != nil {
		return nil, s.putErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.puts++
	s.carts[cart.UserName] = cart.Clone()
	return cart.Clone(), nil
}

func (s *memStore) Delete(ctx context.Context, userName string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return false, s.deleteErr
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.deletes++
	_, ok := s.carts[userName]
	delete(s.carts, userName)
	return ok, nil
}

func (s *memStore) seed(cart *domain.ShoppingCart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[cart.UserName] = cart.Clone()
}

type lookupFunc func(ctx context.Context, productName string) (*domain.Coupon, error)

type fakeDiscounts struct {
	mu      sync.Mutex
	coupons map[string]*domain.Coupon
	errs    map[string]error
	lookup  lookupFunc
	calls   []string
}

func newFakeDiscounts() *fakeDiscounts {
	return &fakeDiscounts{
		coupons: make(map[string]*domain.Coupon),
		errs:    make(map[string]error),
	}
}

func (d *fakeDiscounts) Lookup(ctx context.Context, productName string) (*domain.Coupon, error) {
	d.mu.Lock()
	d.calls = append(d.calls, productName)
	lookup := d.lookup
	coupon, hasCoupon := d.coupons[productName]
	err := d.errs[productName]
	d.mu.Unlock()

	if lookup != nil {
		return lookup(ctx, productName)
	}
	if err != nil {
		return nil, err
	}
	if !hasCoupon {
		return nil, domain.ErrCouponNotFound
	}
	c := *coupon
	return &c, nil
}

func (d *fakeDiscounts) callCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.calls)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []domain.CheckoutEvent
	err    error
}

func (p *fakePublisher) Publish(ctx context.Context, event domain.CheckoutEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) published() []domain.CheckoutEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.CheckoutEvent, len(p.events))
	copy(out, p.events)
	return out
}

var errBoom = errors.New("boom")
