package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"finvision/internal/finance"
)

const transactionCacheTTL = 60 * time.Second

// transactionCache keeps each user's full transaction list in Redis.
// A nil *transactionCache is valid and caches nothing.
type transactionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// newTransactionCache connects to Redis at redisURL, accepting either a
// redis:// URL or a bare host:port.
func newTransactionCache(ctx context.Context, redisURL string) (*transactionCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		opt, err = redis.ParseURL(fmt.Sprintf("redis://%s", redisURL))
	}
	if err != nil {
		// Fallback to simple connection
		opt = &redis.Options{
			Addr: redisURL,
		}
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &transactionCache{client: client, ttl: transactionCacheTTL}, nil
}

func transactionsKey(userID string) string {
	return "transactions:" + userID
}

// Get returns the cached list and whether it was present.
func (c *transactionCache) Get(ctx context.Context, userID string) ([]finance.Transaction, bool) {
	if c == nil {
		return nil, false
	}
	cached, err := c.client.Get(ctx, transactionsKey(userID)).Bytes()
	if err != nil {
		return nil, false
	}
	var transactions []finance.Transaction
	if err := json.Unmarshal(cached, &transactions); err != nil {
		return nil, false
	}
	return transactions, true
}

func (c *transactionCache) Set(ctx context.Context, userID string, transactions []finance.Transaction) error {
	if c == nil {
		return nil
	}
	data, err := json.Marshal(transactions)
	if err != nil {
		return fmt.Errorf("encode transactions: %w", err)
	}
	return c.client.SetEx(ctx, transactionsKey(userID), data, c.ttl).Err()
}

func (c *transactionCache) Invalidate(ctx context.Context, userID string) error {
	if c == nil {
		return nil
	}
	err := c.client.Del(ctx, transactionsKey(userID)).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}

func (c *transactionCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
