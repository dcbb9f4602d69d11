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


package openai

import (
	"strings"

	"github.com/poiesic/chatvault/core"
)

const titleSystemPrompt = `You title conversations. Given the opening of a chat transcript, respond with a short title summarizing what the conversation is about.

Rules:
- At most 8 words.
- Plain text only: no quotes, no markdown, no trailing punctuation.
- Use the language the conversation is written in.
- Respond with the title and nothing else. No preamble, no explanation.`

// excerptMaxMessages bounds how much of the transcript is sent to the
// model; the opening exchange is enough to title a conversation.
const excerptMaxMessages = 4

// excerptMaxRunes bounds the length of any single message in the
// excerpt to keep the prompt small.
const excerptMaxRunes = 500

// buildExcerpt renders the opening messages as a labeled transcript.
// Tool and system messages carry no titling signal and are skipped.
func buildExcerpt(messages []core.Message) string {
	var b strings.Builder
	count := 0
	for _, msg := range messages {
		if count >= excerptMaxMessages {
			break
		}
		if msg.Role != core.RoleUser && msg.Role != core.RoleAssistant {
			continue
		}
		content := strings.TrimSpace(msg.Content)
		if content == "" {
			continue
		}
		if runes := []rune(content); len(runes) > excerptMaxRunes {
			content = string(runes[:excerptMaxRunes])
		}

		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(string(msg.Role))
		b.WriteString(": ")
		b.WriteString(content)
		count++
	}
	return b.String()
}
