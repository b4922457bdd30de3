package basket

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/joao-fontenele/basketflow/internal/domain"
)

// Round trips against a live Redis, null items included, are in
// test/integration_test.go (TestRedisCartStore).

func TestCartKey(t *testing.T) {
	if got := cartKey("alice"); got != "basket:alice" {
		t.Errorf("expected basket:alice, got %s", got)
	}
}

func TestRedisCartStore_Unavailable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer func() { _ = client.Close() }()

	store := NewRedisCartStore(client, 0)
	ctx := context.Background()

	if _, err := store.Get(ctx, "alice"); !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("Get: expected ErrStoreUnavailable, got %v", err)
	}
	if _, err := store.Put(ctx, domain.NewShoppingCart("alice")); !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("Put: expected ErrStoreUnavailable, got %v", err)
	}
	if _, err := store.Delete(ctx, "alice"); !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("Delete: expected ErrStoreUnavailable, got %v", err)
	}
}
