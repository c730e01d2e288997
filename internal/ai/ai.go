package ai

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrNoModels means the chat backend is reachable but offers no model.
	ErrNoModels = errors.New("pdflabel: no chat models available")

	// ErrChatUnavailable means the chat backend could not be reached.
	ErrChatUnavailable = errors.New("pdflabel: chat backend unavailable")

	ErrModelNotFound   = errors.New("pdflabel: model not available")
	ErrUnknownProvider = errors.New("pdflabel: unknown chat provider")
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is a single synchronous completion. A nil Temperature leaves
// sampling at the backend default.
type ChatRequest struct {
	Model       string
	Messages    []Message
	Temperature *float64
}

// Chatter is the chat-completion collaborator.
type Chatter interface {
	Chat(ctx context.Context, req ChatRequest) (string, error)
	ListModels(ctx context.Context) ([]string, error)
}

// Noop answers every request with an empty string. It lets extraction and
// reporting run without a model.
type Noop struct{}

func (Noop) Chat(ctx context.Context, req ChatRequest) (string, error) { return "", nil }
func (Noop) ListModels(ctx context.Context) ([]string, error)          { return []string{"noop"}, nil }

// ResolveModel checks the configuration precondition that at least one model
// is available and picks the requested one, or the first listed when none is
// requested.
func ResolveModel(ctx context.Context, c Chatter, requested string) (string, error) {
	models, err := c.ListModels(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrChatUnavailable, err)
	}
	if len(models) == 0 {
		return "", ErrNoModels
	}
	if requested == "" {
		return models[0], nil
	}
	if !slices.Contains(models, requested) {
		return "", fmt.Errorf("%w: %s", ErrModelNotFound, requested)
	}
	return requested, nil
}

func Float(v float64) *float64 { return &v }
