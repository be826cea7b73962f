package horizon

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyInput is returned when a required input is blank.
var ErrEmptyInput = errors.New("empty input")

// ErrTurnInFlight is returned when a chat turn is submitted while a
// previous turn in the same session has not completed.
var ErrTurnInFlight = errors.New("a turn is already in flight for this session")

// NoProviderConfiguredError is returned when a completion is requested
// but no backend credential was supplied at construction time.
//
// The message always contains the substring "No AI providers configured";
// callers match on it through errors.As or IsNoProviderConfigured.
type NoProviderConfiguredError struct{}

// Error returns the fixed configuration-error message.
func (e *NoProviderConfiguredError) Error() string {
	return "No AI providers configured. Please add your API keys in settings."
}

// ProviderError records a single backend's failure during failover.
type ProviderError struct {
	Provider Provider
	Err      error
}

// Error returns the backend identifier and its failure detail.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

// Unwrap returns the underlying backend error.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// AllProvidersFailedError is returned when every initialized backend was
// tried and every attempt failed. Errors holds one entry per backend, in
// attempt order.
type AllProvidersFailedError struct {
	Errors []*ProviderError
}

// Error aggregates every backend's failure, in attempt order.
func (e *AllProvidersFailedError) Error() string {
	var b strings.Builder
	b.WriteString("All AI providers failed:")
	for _, pe := range e.Errors {
		b.WriteString("\n")
		b.WriteString(pe.Error())
	}
	return b.String()
}

// IsNoProviderConfigured reports whether err indicates that no backend
// credential was configured.
func IsNoProviderConfigured(err error) bool {
	var npc *NoProviderConfiguredError
	return errors.As(err, &npc)
}

// IsAllProvidersFailed reports whether err indicates that every
// initialized backend was tried and failed.
func IsAllProvidersFailed(err error) bool {
	var apf *AllProvidersFailedError
	return errors.As(err, &apf)
}
