package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

const ThinkingText = "Thinking..."

// ChatMessage is one visible turn. Text only changes while Streaming is set.
type ChatMessage struct {
	ID        uuid.UUID `json:"id"`
	Role      ChatRole  `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Streaming bool      `json:"streaming"`
}

// NewChatMessage stamps a message with a time-ordered id.
func NewChatMessage(role ChatRole, text string) ChatMessage {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ChatMessage{
		ID:        id,
		Role:      role,
		Text:      text,
		Timestamp: time.Now(),
	}
}

// DisplayText is what a client should render for the message.
func (m ChatMessage) DisplayText() string {
	if m.Streaming && m.Text == "" {
		return ThinkingText
	}
	return m.Text
}

// MarshalJSON adds display_text so clients can render the thinking
// indicator without knowing the streaming rules.
func (m ChatMessage) MarshalJSON() ([]byte, error) {
	type plain ChatMessage
	return json.Marshal(struct {
		plain
		DisplayText string `json:"display_text"`
	}{
		plain:       plain(m),
		DisplayText: m.DisplayText(),
	})
}
