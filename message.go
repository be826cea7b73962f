package horizon

import "github.com/google/uuid"

// Role represents the role of a message sender in a conversation.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message represents a single message in a conversation sent to a backend.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// GenerateMessageID creates a unique message identifier.
func GenerateMessageID() string {
	return "msg-" + uuid.New().String()
}

// GenerateSessionID creates a unique chat session identifier.
func GenerateSessionID() string {
	return "session-" + uuid.New().String()
}

// Completion represents one completed text generation, tagged with the
// backend that produced it.
type Completion struct {
	Text     string   `json:"text"`
	Provider Provider `json:"provider"`
	Model    string   `json:"model"`
}
