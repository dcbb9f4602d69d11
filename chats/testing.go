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


package chats

import (
	"github.com/poiesic/chatvault/identity"
	"github.com/poiesic/chatvault/store"
	"github.com/poiesic/chatvault/store/badger"
)

// NewMemoryRepository creates an in-memory repository for testing.
// Returns repo, the backing store client, and error.
// Caller must close both repo and client when done.
func NewMemoryRepository(resolver identity.Resolver, opts ...Option) (*Repository, store.Client, error) {
	client, err := badger.NewMemoryClient()
	if err != nil {
		return nil, nil, err
	}

	repo, err := NewRepository(client, resolver, opts...)
	if err != nil {
		client.Close()
		return nil, nil, err
	}

	return repo, client, nil
}
