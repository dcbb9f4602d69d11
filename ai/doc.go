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


// Package ai defines the abstraction for AI-assisted chat titling.
//
// The single interface, TitleGenerator, turns the opening of a
// transcript into a short title. Persistence never depends on it
// succeeding: a failed or absent generator falls back to a heuristic
// title derived from the first message.
//
// # Implementation Packages
//
//   - ai/openai: production implementation using OpenAI-compatible
//     chat APIs via langchaingo
//   - ai/mock: test doubles for unit testing without external services
//
// Public constructors (openai.NewTitleGenerator) return the interface
// type to enforce abstraction. Mock constructors return concrete types
// so tests can inject behavior and assert call counts.
package ai
