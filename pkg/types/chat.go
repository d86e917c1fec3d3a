// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Role identifies the author of a chat transcript message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one stored turn of a conversation transcript.
type ChatMessage struct {
	SessionID string    `json:"session_id" yaml:"session_id"`
	Role      Role      `json:"role" yaml:"role"`
	Content   string    `json:"content" yaml:"content"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// SessionInfo summarizes one stored conversation.
type SessionInfo struct {
	ID        string    `json:"id" yaml:"id"`
	Messages  int       `json:"messages" yaml:"messages"`
	StartedAt time.Time `json:"started_at" yaml:"started_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}
