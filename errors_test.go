package horizon

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoProviderConfiguredError_Message(t *testing.T) {
	err := &NoProviderConfiguredError{}
	assert.Contains(t, err.Error(), "No AI providers configured")
	assert.True(t, IsNoProviderConfigured(err))
	assert.False(t, IsAllProvidersFailed(err))
}

func TestNoProviderConfiguredError_Wrapped(t *testing.T) {
	err := fmt.Errorf("completion failed: %w", &NoProviderConfiguredError{})
	assert.True(t, IsNoProviderConfigured(err))
}

func TestAllProvidersFailedError_Message(t *testing.T) {
	err := &AllProvidersFailedError{
		Errors: []*ProviderError{
			{Provider: ProviderGemini, Err: errors.New("quota exceeded")},
			{Provider: ProviderGroq, Err: errors.New("connection refused")},
		},
	}

	msg := err.Error()
	assert.Contains(t, msg, "All AI providers failed")
	assert.Contains(t, msg, "gemini: quota exceeded")
	assert.Contains(t, msg, "groq: connection refused")

	// Attempt order is preserved: gemini detail before groq detail.
	assert.Less(t, strings.Index(msg, "gemini:"), strings.Index(msg, "groq:"))

	assert.True(t, IsAllProvidersFailed(err))
	assert.False(t, IsNoProviderConfigured(err))
}

func TestProviderError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &ProviderError{Provider: ProviderGroq, Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "groq: boom", err.Error())
}
