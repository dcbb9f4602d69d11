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


// Package redis implements store.Client against a Redis server using
// go-redis. This is the production backend.
//
// Pipelines map directly onto Redis pipelines: commands are buffered
// client-side and sent in one round trip by Exec. Per-command retries
// and connection management are delegated to go-redis (see
// Config.MaxRetries).
package redis
