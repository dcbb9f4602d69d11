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

import "errors"

var (
	// ErrNotAuthenticated indicates a save was attempted without a
	// resolvable identity. Reads degrade; saves fail loudly, because
	// silently dropping a transcript is worse than a visible failure.
	ErrNotAuthenticated = errors.New("must be logged in to save a chat")

	// ErrInvalidPoolSize indicates a non-positive worker pool size.
	ErrInvalidPoolSize = errors.New("pool size must be positive")
)
