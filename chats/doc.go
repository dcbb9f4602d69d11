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

// Package chats persists chat transcripts and enforces per-user
// ownership over them.
//
// Each chat lives in a hash at "chat:<id>" and each owner has a sorted
// set at "user:v2:chat:<owner>" whose members are chat keys scored by
// save time, so listing is newest-first and re-saving a chat moves it
// to the front.
//
// The error policy is asymmetric. Read and cleanup paths degrade:
// unresolvable identities, unreadable records, and failed ownership
// checks produce empty results (logged) rather than errors, and an
// ownership failure is indistinguishable from the chat not existing.
// Only SaveChat and AdoptAnonymousChats fail loudly, because silently
// dropping a write loses data.
//
// The anonymous identity sentinel is a full citizen: its chats are
// saved and listed like anyone else's, and AdoptAnonymousChats moves
// them under a real account after sign-in.
package chats
