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


// Package badger implements store.Client on an embedded BadgerDB.
//
// This backend exists for single-host deployments and tests (it
// supports an in-memory mode via NewMemoryClient); the redis backend
// is the production one.
//
// # Layout
//
// Each hash field is a separate BadgerDB key (h:<key>:<field>), so
// hash reads and deletes are prefix scans. Sorted-set entries embed an
// order-preserving big-endian score in the key (z:<key>:<score><member>),
// which makes range queries plain lexicographic iteration; a companion
// key (zm:<key>:<member>) tracks each member's current score so re-adds
// can replace the old entry.
package badger
