package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/BruksfildServices01/care-scheduler/internal/timerange"
)

const (
	slotPrefix = "slots:"
	genPrefix  = "slots:gen:"
	dayLayout  = "2006-01-02"
)

// RedisSlotCache stores computed free slots per provider and calendar day.
// Every day has a generation counter; Invalidate bumps it, and slots are
// stored under the generation read before they were computed. A write that
// races with an invalidation lands on a key no reader looks at anymore.
type RedisSlotCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSlotCache(client *redis.Client, ttl time.Duration) *RedisSlotCache {
	return &RedisSlotCache{client: client, ttl: ttl}
}

func GenKey(providerID uint, day time.Time) string {
	return fmt.Sprintf("%s%d:%s", genPrefix, providerID, day.Format(dayLayout))
}

func SlotKey(providerID uint, day time.Time, gen int64) string {
	return fmt.Sprintf("%s%d:%s:g%d", slotPrefix, providerID, day.Format(dayLayout), gen)
}

func (c *RedisSlotCache) generation(ctx context.Context, providerID uint, day time.Time) (int64, error) {
	gen, err := c.client.Get(ctx, GenKey(providerID, day)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return gen, err
}

func (c *RedisSlotCache) Get(ctx context.Context, providerID uint, day time.Time) ([]timerange.Range, int64, bool, error) {
	gen, err := c.generation(ctx, providerID, day)
	if err != nil {
		return nil, 0, false, err
	}

	data, err := c.client.Get(ctx, SlotKey(providerID, day, gen)).Bytes()
	if err == redis.Nil {
		return nil, gen, false, nil
	}
	if err != nil {
		return nil, gen, false, err
	}

	var slots []timerange.Range
	if err := json.Unmarshal(data, &slots); err != nil {
		return nil, gen, false, err
	}
	if slots == nil {
		slots = []timerange.Range{}
	}
	return slots, gen, true, nil
}

func (c *RedisSlotCache) Set(ctx context.Context, providerID uint, day time.Time, gen int64, slots []timerange.Range) error {
	b, err := json.Marshal(slots)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, SlotKey(providerID, day, gen), b, c.ttl).Err()
}

// Invalidate bumps the generation of each day. Counters outlive the slot
// entries so an expired counter never resurrects a stale generation.
func (c *RedisSlotCache) Invalidate(ctx context.Context, providerID uint, days []time.Time) error {
	if len(days) == 0 {
		return nil
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, d := range days {
			k := GenKey(providerID, d)
			pipe.Incr(ctx, k)
			pipe.Expire(ctx, k, 2*c.ttl)
		}
		return nil
	})
	return err
}

// NopSlotCache never hits.
type NopSlotCache struct{}

func (NopSlotCache) Get(context.Context, uint, time.Time) ([]timerange.Range, int64, bool, error) {
	return nil, 0, false, nil
}

func (NopSlotCache) Set(context.Context, uint, time.Time, int64, []timerange.Range) error { return nil }

func (NopSlotCache) Invalidate(context.Context, uint, []time.Time) error { return nil }
