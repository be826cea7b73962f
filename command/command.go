// Package command classifies one line of free-text input and answers
// data queries without spending a full chat turn on them.
package command

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/horizonview/horizon"
	"github.com/horizonview/horizon/focus"
)

// Kind is the classified intent of an input line.
type Kind string

const (
	// KindSettings opens the settings surface; no backend is called.
	KindSettings Kind = "settings"
	// KindDataQuery answers from the focus snapshot, with AI help when
	// a backend is available.
	KindDataQuery Kind = "data_query"
	// KindChat hands the raw input to the chat surface.
	KindChat Kind = "chat"
)

// settingsPattern matches the whole trimmed line, tolerant of
// pluralization and spacing.
var settingsPattern = regexp.MustCompile(`^(ai\s*settings?|settings?|configure\s*ai|api\s*keys?)$`)

// dataKeywords are matched as case-insensitive substrings, first hit
// wins.
var dataKeywords = []string{
	"project",
	"projects",
	"working on",
	"what am i",
	"focus",
	"focus on",
	"should i focus",
	"what should i focus",
	"what should i focus on",
	"analyze",
	"analysis",
	"overview",
	"status",
}

// Classify buckets input into settings intent, data query, or
// open-ended chat. Unmatched input always falls through to chat.
func Classify(input string) Kind {
	lower := strings.ToLower(strings.TrimSpace(input))
	if settingsPattern.MatchString(lower) {
		return KindSettings
	}
	for _, kw := range dataKeywords {
		if strings.Contains(lower, kw) {
			return KindDataQuery
		}
	}
	return KindChat
}

// Completer is the completion surface the router queries for data
// answers.
type Completer interface {
	GenerateCompletion(ctx context.Context, messages []horizon.Message) (*horizon.Completion, error)
}

// MissionSource supplies the already-loaded mission data the snapshot
// is computed from.
type MissionSource interface {
	Missions() []focus.Mission
}

// MissionSourceFunc adapts a function to MissionSource.
type MissionSourceFunc func() []focus.Mission

func (f MissionSourceFunc) Missions() []focus.Mission { return f() }

// Result is the outcome of dispatching one input line. Answer is set
// only for data queries; Input carries the raw line for the chat
// handoff.
type Result struct {
	Kind   Kind
	Input  string
	Answer string
}

// Router dispatches classified input. A nil completer means no backend
// is configured and data queries answer locally.
type Router struct {
	completer Completer
	source    MissionSource
}

// NewRouter builds a router over the given collaborators.
func NewRouter(completer Completer, source MissionSource) *Router {
	return &Router{completer: completer, source: source}
}

// Dispatch classifies input and, for data queries, computes the answer.
// A completion failure never blocks the user from seeing some answer;
// the deterministic local summary is the last resort.
func (r *Router) Dispatch(ctx context.Context, input string) Result {
	kind := Classify(input)
	result := Result{Kind: kind, Input: input}
	if kind != KindDataQuery {
		return result
	}

	var missions []focus.Mission
	if r.source != nil {
		missions = r.source.Missions()
	}
	result.Answer = r.answerDataQuery(ctx, input, missions)
	return result
}

func (r *Router) answerDataQuery(ctx context.Context, input string, missions []focus.Mission) string {
	if r.completer == nil {
		return focus.LocalSummary(missions)
	}

	messages := []horizon.Message{
		{Role: horizon.RoleSystem, Content: horizon.SystemPrompt + focus.ContextMessage(missions)},
		{Role: horizon.RoleUser, Content: input},
	}
	completion, err := r.completer.GenerateCompletion(ctx, messages)
	if err != nil {
		return focus.LocalSummary(missions)
	}
	return fmt.Sprintf("[%s] %s", completion.Provider, completion.Text)
}
