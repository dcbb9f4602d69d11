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
	"errors"
	"time"
)

// Config holds connection settings for the Redis store backend.
type Config struct {
	// Addr is the host:port of the Redis server.
	// Example: "localhost:6379"
	Addr string

	// Password is the AUTH password. Empty for unauthenticated servers.
	Password string

	// DB is the logical database index.
	DB int

	// MaxRetries is the number of retries the client performs on a
	// failed command before surfacing the error. Retrying is delegated
	// entirely to the client; the chat repository does not retry.
	// Default: 3
	MaxRetries int

	// DialTimeout bounds connection establishment.
	// Default: 5s
	DialTimeout time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithAddr sets the server address.
func WithAddr(addr string) ConfigOption {
	return func(c *Config) {
		c.Addr = addr
	}
}

// WithPassword sets the AUTH password.
func WithPassword(password string) ConfigOption {
	return func(c *Config) {
		c.Password = password
	}
}

// WithDB sets the logical database index.
func WithDB(db int) ConfigOption {
	return func(c *Config) {
		c.DB = db
	}
}

// WithMaxRetries sets the per-command retry budget.
func WithMaxRetries(n int) ConfigOption {
	return func(c *Config) {
		c.MaxRetries = n
	}
}

// WithDialTimeout sets the connection establishment timeout.
func WithDialTimeout(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.DialTimeout = d
	}
}

// DefaultConfig returns a Config with sensible defaults for a local
// Redis server.
func DefaultConfig() *Config {
	return &Config{
		Addr:        "localhost:6379",
		MaxRetries:  3,
		DialTimeout: 5 * time.Second,
	}
}

// NewConfig creates a Config with the default values and applies the
// provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Validate checks that the configuration is valid and complete.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("redis config: Addr is required")
	}
	if c.MaxRetries < 0 {
		return errors.New("redis config: MaxRetries must be >= 0")
	}
	return nil
}
