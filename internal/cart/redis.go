package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const CartTTL = 30 * 24 * time.Hour // 30 days

// Key is both the storage key and the pub/sub channel of a cart.
func Key(owner string) string { return "cart:" + owner }

type RedisPersister struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisPersister(rdb *redis.Client) *RedisPersister {
	return &RedisPersister{rdb: rdb, ttl: CartTTL}
}

func (r *RedisPersister) Load(ctx context.Context, owner string) (Snapshot, error) {
	data, err := r.rdb.Get(ctx, Key(owner)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Decode(owner, nil)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("redis get %s: %w", Key(owner), err)
	}
	return Decode(owner, data)
}

func (r *RedisPersister) Save(ctx context.Context, s Snapshot) error {
	key := Key(s.Owner)
	pipe := r.rdb.Pipeline()
	if s.Empty() {
		pipe.Del(ctx, key)
	} else {
		data, err := Encode(s)
		if err != nil {
			return err
		}
		pipe.Set(ctx, key, data, r.ttl)
	}
	pipe.Publish(ctx, key, string(EventUpdated))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis save %s: %w", key, err)
	}
	return nil
}

func (r *RedisPersister) Clear(ctx context.Context, owner string) error {
	key := Key(owner)
	pipe := r.rdb.Pipeline()
	pipe.Del(ctx, key)
	pipe.Publish(ctx, key, string(EventCleared))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis clear %s: %w", key, err)
	}
	return nil
}

// Watch subscribes to the cart channel. The returned channel closes when ctx ends or stop is called.
func (r *RedisPersister) Watch(ctx context.Context, owner string) (<-chan Event, func() error, error) {
	pubsub := r.rdb.Subscribe(ctx, Key(owner))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, fmt.Errorf("subscribe %s: %w", Key(owner), err)
	}

	out := make(chan Event, 8)
	msgs := pubsub.Channel()
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				switch ev := Event(msg.Payload); ev {
				case EventUpdated, EventCleared:
					select {
					case out <- ev:
					default:
					}
				}
			}
		}
	}()
	return out, pubsub.Close, nil
}
