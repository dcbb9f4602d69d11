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


// Package store defines the key-value store abstraction used by the
// chat repository.
//
// The Client interface exposes the small subset of hash-map and
// sorted-set operations the repository needs, plus a Pipeline batch
// primitive. Two backends implement it:
//
//   - store/redis: production backend against a remote Redis server
//   - store/badger: embedded BadgerDB backend for local deployments
//     and tests (supports an in-memory mode)
//
// # Constructor Return Type Pattern
//
// Public backend constructors return the store.Client interface to
// enforce abstraction and keep consumers swappable between backends:
//
//	client, err := redis.NewClient(cfg)   // returns store.Client
//	client, err := badger.Open(path)      // returns store.Client
//
// # Consistency
//
// Single-key operations are atomic. Pipelines are a network-efficiency
// batch, not a transaction: on failure a prefix of the batch may have
// been applied. The badger backend happens to execute pipelines in one
// transaction, but callers must not rely on that — the contract is the
// weaker redis one.
//
// # Thread Safety
//
// All implementations must be safe for concurrent use.
package store
