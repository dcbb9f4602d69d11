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


package ai

import (
	"context"

	"github.com/poiesic/chatvault/core"
)

// TitleGenerator produces a short human-readable title for a chat
// transcript. Implementations must be thread-safe for concurrent use.
type TitleGenerator interface {
	// GenerateTitle summarizes the opening of a conversation into a
	// short title. Returns an error if generation fails; callers are
	// expected to fall back to core.DefaultTitle.
	GenerateTitle(ctx context.Context, messages []core.Message) (string, error)
}
