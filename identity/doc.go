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


// Package identity models the actor on whose behalf chat operations
// execute.
//
// Identity is a tagged variant rather than a magic string: a caller is
// Authenticated with a user id, Anonymous (a valid but distinct owner
// used for unauthenticated sessions), or unresolved (the zero value,
// meaning no session exists). The repository re-resolves identity on
// every operation through the Resolver interface; nothing is cached.
//
// Token issuance and verification are out of scope — the production
// Resolver is a thin adapter over the host's session layer.
package identity
