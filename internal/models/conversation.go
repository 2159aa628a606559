// ABOUTME: Conversation and Message types for the classification pipeline
// ABOUTME: Conversations are ordered, immutable inputs; messages are role-tagged
package models

import (
	"encoding/json"
	"fmt"
)

// Role identifies the speaker of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Valid reports whether the role is one of the known speaker roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

// Message is a single role-tagged message in a conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Conversation is an ordered, index-addressable sequence of messages.
// It is read-only input to the pipeline; nothing downstream mutates it.
type Conversation []Message

// UnmarshalJSON accepts either a bare message array or an object wrapping
// the array under a "conversation" or "messages" key. Both shapes appear
// in the wild in JSONL conversation dumps.
func (c *Conversation) UnmarshalJSON(data []byte) error {
	var msgs []Message
	if err := json.Unmarshal(data, &msgs); err == nil {
		*c = msgs
		return nil
	}

	var wrapper struct {
		Conversation []Message `json:"conversation"`
		Messages     []Message `json:"messages"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return fmt.Errorf("conversation record is neither a message array nor a wrapper object: %w", err)
	}
	if wrapper.Conversation != nil {
		*c = wrapper.Conversation
		return nil
	}
	*c = wrapper.Messages
	return nil
}
