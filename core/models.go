package core

import (
	"encoding/json"
	"time"
)

// Role identifies the author of a chat message.
type Role string

const (
	// RoleUser is a message written by the human user.
	RoleUser Role = "user"
	// RoleAssistant is a message produced by the AI assistant.
	RoleAssistant Role = "assistant"
	// RoleSystem is an instruction message injected by the host application.
	RoleSystem Role = "system"
	// RoleTool is the result payload of a tool execution.
	RoleTool Role = "tool"
)

// Message is a single entry in a chat transcript.
// The whole transcript is serialized to one JSON string in storage.
type Message struct {
	ID              string           `json:"id,omitempty"`
	Role            Role             `json:"role"`
	Content         string           `json:"content"`
	ToolInvocations []ToolInvocation `json:"toolInvocations,omitempty"`
	Attachments     []Attachment     `json:"experimental_attachments,omitempty"`
}

// ToolInvocation records a tool call made by the assistant during a turn.
// Args and Result are kept as raw JSON; this layer never interprets them.
type ToolInvocation struct {
	ToolCallID string          `json:"toolCallId"`
	ToolName   string          `json:"toolName"`
	State      string          `json:"state,omitempty"`
	Args       json.RawMessage `json:"args,omitempty"`
	Result     json.RawMessage `json:"result,omitempty"`
}

// Attachment is a file or media reference attached to a message.
type Attachment struct {
	Name        string `json:"name,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	URL         string `json:"url"`
}

// Chat is the persisted conversation record.
type Chat struct {
	ID        string    // opaque client-generated identifier, store key suffix
	Title     string    // human-readable label
	Messages  []Message // ordered transcript
	CreatedAt time.Time // captured at first save
	UserID    string    // owning identity key; "anonymous" is a valid sentinel
	SharePath string    // "/share/<id>" once shared, empty otherwise
}

// Shared reports whether the chat has been explicitly shared.
func (c *Chat) Shared() bool {
	return c.SharePath != ""
}

// Clone returns a deep copy of the chat. Callers that build optimistic
// local updates should mutate a clone rather than a record handed out
// by the repository.
func (c *Chat) Clone() *Chat {
	clone := *c
	clone.Messages = make([]Message, len(c.Messages))
	copy(clone.Messages, c.Messages)
	return &clone
}
