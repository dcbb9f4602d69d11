// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/poiesic/chatvault/store"
)

// Client implements store.Client against a Redis server.
type Client struct {
	rdb *redis.Client
}

var _ store.Client = (*Client)(nil)

// NewClient creates a Redis-backed store client. The config is
// validated before use.
//
// Returns store.Client interface (not *Client) to enforce abstraction
// and keep consumers swappable between backends.
func NewClient(config *Config) (store.Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:        config.Addr,
		Password:    config.Password,
		DB:          config.DB,
		MaxRetries:  config.MaxRetries,
		DialTimeout: config.DialTimeout,
	})

	return &Client{rdb: rdb}, nil
}

// Ping verifies connectivity to the server.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// HGetAll returns all fields of the hash at key.
func (c *Client) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	return c.rdb.HGetAll(ctx, key).Result()
}

// HGet returns a single hash field. Missing keys and fields yield an
// empty string, matching the store.Client contract.
func (c *Client) HGet(ctx context.Context, key, field string) (string, error) {
	val, err := c.rdb.HGet(ctx, key, field).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return val, err
}

// HSet writes a single hash field.
func (c *Client) HSet(ctx context.Context, key, field, value string) error {
	return c.rdb.HSet(ctx, key, field, value).Err()
}

// HMSet writes multiple hash fields in one command.
func (c *Client) HMSet(ctx context.Context, key string, fields map[string]string) error {
	return c.rdb.HMSet(ctx, key, flatten(fields)...).Err()
}

// Exists reports whether key is present.
func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.rdb.Exists(ctx, key).Result()
	return n > 0, err
}

// Del removes key.
func (c *Client) Del(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, key).Err()
}

// ZAdd adds member to the sorted set at key.
func (c *Client) ZAdd(ctx context.Context, key string, score float64, member string) error {
	return c.rdb.ZAdd(ctx, key, redis.Z{Score: score, Member: member}).Err()
}

// ZRange returns members between the start and stop ranks, inclusive.
func (c *Client) ZRange(ctx context.Context, key string, start, stop int64, rev bool) ([]string, error) {
	if rev {
		return c.rdb.ZRevRange(ctx, key, start, stop).Result()
	}
	return c.rdb.ZRange(ctx, key, start, stop).Result()
}

// ZRem removes member from the sorted set at key.
func (c *Client) ZRem(ctx context.Context, key, member string) error {
	return c.rdb.ZRem(ctx, key, member).Err()
}

// Pipeline returns a batch backed by a Redis pipeline.
func (c *Client) Pipeline() store.Pipeline {
	return &pipeline{p: c.rdb.Pipeline()}
}

// Close closes the underlying connection pool.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// pipeline adapts redis.Pipeliner to store.Pipeline.
type pipeline struct {
	p redis.Pipeliner
}

var _ store.Pipeline = (*pipeline)(nil)

func (p *pipeline) Del(key string) store.Pipeline {
	p.p.Del(context.Background(), key)
	return p
}

func (p *pipeline) ZRem(key, member string) store.Pipeline {
	p.p.ZRem(context.Background(), key, member)
	return p
}

func (p *pipeline) HMSet(key string, fields map[string]string) store.Pipeline {
	p.p.HMSet(context.Background(), key, flatten(fields)...)
	return p
}

func (p *pipeline) ZAdd(key string, score float64, member string) store.Pipeline {
	p.p.ZAdd(context.Background(), key, redis.Z{Score: score, Member: member})
	return p
}

func (p *pipeline) Exec(ctx context.Context) error {
	_, err := p.p.Exec(ctx)
	return err
}

// flatten converts a field map to the alternating field/value argument
// form the Redis hash commands expect.
func flatten(fields map[string]string) []interface{} {
	args := make([]interface{}, 0, len(fields)*2)
	for field, value := range fields {
		args = append(args, field, value)
	}
	return args
}
