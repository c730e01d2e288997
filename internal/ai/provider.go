package ai

import (
	"context"
	"fmt"
	"os"
	"time"
)

// Config selects and configures a chat backend.
type Config struct {
	Provider string
	BaseURL  string
	APIKey   string
	Timeout  time.Duration
}

// New creates the chat backend named by cfg.Provider.
func New(ctx context.Context, cfg Config) (Chatter, error) {
	switch cfg.Provider {
	case "ollama":
		o, err := NewOllama(cfg.BaseURL, cfg.Timeout)
		if err != nil {
			return nil, err
		}
		return o, nil
	case "gemini":
		key := cfg.APIKey
		if key == "" {
			key = os.Getenv("GOOGLE_API_KEY")
		}
		return NewGemini(ctx, key)
	case "noop", "off":
		return Noop{}, nil
	case "":
		return nil, fmt.Errorf("%w: provider not specified", ErrUnknownProvider)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Provider)
	}
}
