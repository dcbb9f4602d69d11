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


package core

import (
	"fmt"
	"time"
)

// ValidateChat validates a Chat according to domain rules.
//
// Validation rules:
//   - ID must not be empty
//   - every message must carry a known role
//   - CreatedAt, when set, must not be in the future
//
// NOT validated (populated by the repository on save):
//   - UserID (stamped from the resolved identity)
//   - Title (defaulted from the first message when empty)
//   - SharePath (set only by an explicit share)
func ValidateChat(chat *Chat) error {
	if chat == nil {
		return fmt.Errorf("%w: chat is nil", ErrInvalidChat)
	}

	if chat.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChat, ErrEmptyChatID)
	}

	for i, msg := range chat.Messages {
		if err := ValidateRole(msg.Role); err != nil {
			return fmt.Errorf("%w: message %d: %w", ErrInvalidChat, i, err)
		}
	}

	if !chat.CreatedAt.IsZero() && !IsValidTimestamp(chat.CreatedAt) {
		return fmt.Errorf("%w: %w", ErrInvalidChat, ErrInvalidTimestamp)
	}

	return nil
}

// ValidateRole validates that a Role has a known value.
func ValidateRole(role Role) error {
	switch role {
	case RoleUser, RoleAssistant, RoleSystem, RoleTool:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidRole, role)
}

// IsValidTimestamp checks if a timestamp is valid (not in the future).
func IsValidTimestamp(ts time.Time) bool {
	return !ts.After(time.Now())
}
