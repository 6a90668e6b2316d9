package domain

import (
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

func (r Role) String() string {
	return string(r)
}

// SenderTag is the wire label for a role. The frontend and the stored
// transcripts use "bot" for assistant turns.
func (r Role) SenderTag() string {
	if r == RoleAssistant {
		return "bot"
	}
	return string(r)
}

// Message 核心消息实体
type Message struct {
	ID        string
	SessionID string
	UserID    string
	Role      Role
	Content   string
	CreatedAt time.Time
}

// IsUser checks if the message is from a user
func (m *Message) IsUser() bool {
	return m.Role == RoleUser
}

// Session 会话实体 (Aggregate Root)
type Session struct {
	ID        string
	UserID    string
	Title     string
	Summary   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SetTitle derives a session title from the first message content,
// truncated at maxLen runes.
func (s *Session) SetTitle(content string, maxLen int) {
	runes := []rune(content)
	if len(runes) > maxLen {
		s.Title = string(runes[:maxLen])
	} else {
		s.Title = content
	}
}

type Severity string

const (
	SeverityNone     Severity = ""
	SeverityMedium   Severity = "medium"
	SeverityCritical Severity = "critical"
)

// Alert is an emergency notification request. Critical severity places a
// voice call in addition to the SMS; medium sends the SMS only.
type Alert struct {
	Type     string
	Severity Severity
	Location string
}

// ChatMode selects the system persona for a turn.
type ChatMode string

const (
	ModeGeneral  ChatMode = "general"
	ModeMedGamma ChatMode = "medgamma"
)

// DocumentChunk is a retrieved excerpt from an uploaded document.
type DocumentChunk struct {
	SessionID  string
	Source     string
	Content    string
	Similarity float64
}
