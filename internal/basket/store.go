package basket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/joao-fontenele/basketflow/internal/domain"
)

// CartStore persists one basket per user. Get returns (nil, nil) when the user
// has no basket. Put overwrites unconditionally: concurrent writers for the
// same user race and the last one to complete wins.
type CartStore interface {
	Get(ctx context.Context, userName string) (*domain.ShoppingCart, error)
	Put(ctx context.Context, cart *domain.ShoppingCart) (*domain.ShoppingCart, error)
	Delete(ctx context.Context, userName string) (bool, error)
}

type RedisCartStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisCartStore stores baskets as JSON strings. A zero ttl keeps them
// until deleted.
func NewRedisCartStore(client redis.UniversalClient, ttl time.Duration) *RedisCartStore {
	return &RedisCartStore{
		client: client,
		ttl:    ttl,
	}
}

func cartKey(userName string) string {
	return "basket:" + userName
}

func (s *RedisCartStore) Get(ctx context.Context, userName string) (*domain.ShoppingCart, error) {
	data, err := s.client.Get(ctx, cartKey(userName)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %w", ErrStoreUnavailable, userName, err)
	}

	var cart domain.ShoppingCart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("decode basket %s: %w", userName, err)
	}
	if cart.Items == nil {
		cart.Items = []domain.CartItem{}
	}
	return &cart, nil
}

func (s *RedisCartStore) Put(ctx context.Context, cart *domain.ShoppingCart) (*domain.ShoppingCart, error) {
	data, err := json.Marshal(cart)
	if err != nil {
		return nil, fmt.Errorf("encode basket %s: %w", cart.UserName, err)
	}

	if err := s.client.Set(ctx, cartKey(cart.UserName), data, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("%w: put %s: %w", ErrStoreUnavailable, cart.UserName, err)
	}

	return cart.Clone(), nil
}

func (s *RedisCartStore) Delete(ctx context.Context, userName string) (bool, error) {
	n, err := s.client.Del(ctx, cartKey(userName)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: delete %s: %w", ErrStoreUnavailable, userName, err)
	}
	return n > 0, nil
}
