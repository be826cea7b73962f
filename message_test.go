package horizon

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleConstants(t *testing.T) {
	assert.Equal(t, Role("user"), RoleUser)
	assert.Equal(t, Role("assistant"), RoleAssistant)
	assert.Equal(t, Role("system"), RoleSystem)
}

func TestProviderConstants(t *testing.T) {
	assert.Equal(t, "gemini", ProviderGemini.String())
	assert.Equal(t, "groq", ProviderGroq.String())
	assert.Equal(t, "anthropic", ProviderAnthropic.String())
}

func TestGenerateMessageID(t *testing.T) {
	id1 := GenerateMessageID()
	id2 := GenerateMessageID()

	assert.True(t, strings.HasPrefix(id1, "msg-"))
	assert.NotEqual(t, id1, id2)
}

func TestGenerateSessionID(t *testing.T) {
	id := GenerateSessionID()
	assert.True(t, strings.HasPrefix(id, "session-"))
}
