package idempotency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/bouquet-backend/pkg/redis"
)

// Guard marks delivered events as processed for one consumer so Pub/Sub
// redeliveries are skipped. Keys look like bq:idempotency:evt:<consumer>:<event_id>.
type Guard struct {
	store    redis.IdempotencyStore
	consumer string
	ttl      time.Duration
}

func NewGuard(store redis.IdempotencyStore, consumer string, ttl time.Duration) (*Guard, error) {
	if store == nil {
		return nil, errors.New("idempotency store is required")
	}
	if consumer == "" {
		return nil, errors.New("consumer name is required")
	}
	if ttl < 0 {
		return nil, errors.New("ttl must be non-negative")
	}
	return &Guard{store: store, consumer: consumer, ttl: ttl}, nil
}

// Claim reports whether the caller owns the event. A false result means
// another delivery already claimed it.
func (g *Guard) Claim(ctx context.Context, eventID string) (bool, error) {
	key, err := g.key(eventID)
	if err != nil {
		return false, err
	}
	return g.store.SetNX(ctx, key, "1", g.ttl)
}

// Release drops a claim so a failed handler can be retried on redelivery.
func (g *Guard) Release(ctx context.Context, eventID string) error {
	key, err := g.key(eventID)
	if err != nil {
		return err
	}
	return g.store.Del(ctx, key)
}

func (g *Guard) key(eventID string) (string, error) {
	if eventID == "" {
		return "", errors.New("event id is required")
	}
	return g.store.IdempotencyKey(fmt.Sprintf("evt:%s", g.consumer), eventID), nil
}
