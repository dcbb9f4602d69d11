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
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/chatvault/core"
)

// Hash field names of a chat record
const (
	fieldID        = "id"
	fieldTitle     = "title"
	fieldMessages  = "messages"
	fieldCreatedAt = "createdAt"
	fieldUserID    = "userId"
	fieldSharePath = "sharePath"
)

// marshalChatFields converts a chat to its stored hash representation.
// The transcript is serialized to a single JSON string field.
func marshalChatFields(chat *core.Chat) (map[string]string, error) {
	messages := chat.Messages
	if messages == nil {
		messages = []core.Message{}
	}
	encoded, err := json.Marshal(messages)
	if err != nil {
		return nil, fmt.Errorf("encoding messages for chat %s: %w", chat.ID, err)
	}

	fields := map[string]string{
		fieldID:        chat.ID,
		fieldTitle:     chat.Title,
		fieldMessages:  string(encoded),
		fieldCreatedAt: chat.CreatedAt.UTC().Format(time.RFC3339),
		fieldUserID:    chat.UserID,
	}
	if chat.SharePath != "" {
		fields[fieldSharePath] = chat.SharePath
	}
	return fields, nil
}

// unmarshalChatFields reconstructs a chat from its stored hash
// representation. A record that fails to parse is degraded, never
// rejected: a partially-corrupt chat must remain viewable and
// deletable rather than becoming permanently inaccessible.
func unmarshalChatFields(fields map[string]string, logger *slog.Logger) *core.Chat {
	chat := &core.Chat{
		ID:        fields[fieldID],
		Title:     fields[fieldTitle],
		UserID:    fields[fieldUserID],
		SharePath: fields[fieldSharePath],
		Messages:  decodeMessages(fields[fieldMessages], fields[fieldID], logger),
	}

	if raw := fields[fieldCreatedAt]; raw != "" {
		createdAt, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			logger.Warn("unparseable createdAt on chat record", "chatID", chat.ID, "value", raw)
		} else {
			chat.CreatedAt = createdAt
		}
	}

	return chat
}

// decodeMessages parses the JSON transcript field. Any parse failure
// degrades to an empty transcript.
func decodeMessages(raw, chatID string, logger *slog.Logger) []core.Message {
	if raw == "" {
		return []core.Message{}
	}

	var messages []core.Message
	if err := json.Unmarshal([]byte(raw), &messages); err != nil {
		logger.Warn("corrupt messages field, degrading to empty transcript", "chatID", chatID, "err", err)
		return []core.Message{}
	}
	if messages == nil {
		return []core.Message{}
	}
	return messages
}
