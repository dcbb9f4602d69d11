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
	"strings"
	"unicode/utf8"
)

const (
	// PlaceholderTitle is used when no message content is available to
	// derive a title from.
	PlaceholderTitle = "New chat"

	// defaultTitleMaxRunes bounds the length of a derived title.
	defaultTitleMaxRunes = 100
)

// DefaultTitle derives a chat title from the first message with textual
// content, truncated to a display-friendly length. Returns
// PlaceholderTitle if no message has content.
func DefaultTitle(messages []Message) string {
	for _, msg := range messages {
		content := strings.TrimSpace(msg.Content)
		if content == "" {
			continue
		}
		return TruncateTitle(content)
	}
	return PlaceholderTitle
}

// TruncateTitle shortens s to the title length budget on a rune
// boundary, appending an ellipsis when content was cut.
func TruncateTitle(s string) string {
	if utf8.RuneCountInString(s) <= defaultTitleMaxRunes {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:defaultTitleMaxRunes])) + "…"
}
