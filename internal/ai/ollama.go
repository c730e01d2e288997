package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

const DefaultOllamaURL = "http://localhost:11434"

// ollamaDefaultTemperature is the server's own sampling default. langchaingo
// always sends a temperature, so requests without one ask for this value.
const ollamaDefaultTemperature = 0.8

// Ollama talks to a local Ollama server. Chat goes through langchaingo;
// model listing uses /api/tags directly since langchaingo has no call for it.
type Ollama struct {
	baseURL string
	client  *http.Client
	llm     *ollama.LLM
}

// NewOllama creates a client. A zero timeout waits for as long as the model
// takes to answer.
func NewOllama(baseURL string, timeout time.Duration) (*Ollama, error) {
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	client := &http.Client{Timeout: timeout}
	llm, err := ollama.New(
		ollama.WithServerURL(baseURL),
		ollama.WithHTTPClient(client),
	)
	if err != nil {
		return nil, fmt.Errorf("creating ollama client: %w", err)
	}
	return &Ollama{baseURL: baseURL, client: client, llm: llm}, nil
}

type ollamaTagsResponse struct {
	Models []struct {
		Name  string `json:"name"`
		Model string `json:"model"`
	} `json:"models"`
}

type ollamaError struct {
	Error string `json:"error"`
}

func (o *Ollama) Chat(ctx context.Context, req ChatRequest) (string, error) {
	temperature := ollamaDefaultTemperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}
	resp, err := o.llm.GenerateContent(ctx, toLangchainMessages(req.Messages),
		llms.WithModel(req.Model),
		llms.WithTemperature(temperature),
	)
	if err != nil {
		return "", fmt.Errorf("ollama request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("ollama returned no choices")
	}
	return resp.Choices[0].Content, nil
}

func toLangchainMessages(msgs []Message) []llms.MessageContent {
	out := make([]llms.MessageContent, 0, len(msgs))
	for _, m := range msgs {
		role := llms.ChatMessageTypeHuman
		switch m.Role {
		case RoleSystem:
			role = llms.ChatMessageTypeSystem
		case RoleAssistant:
			role = llms.ChatMessageTypeAI
		}
		out = append(out, llms.TextParts(role, m.Content))
	}
	return out
}

func (o *Ollama) ListModels(ctx context.Context) ([]string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, err
	}
	resp, err := o.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading ollama response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var e ollamaError
		if json.Unmarshal(body, &e) == nil && e.Error != "" {
			return nil, fmt.Errorf("ollama error %d: %s", resp.StatusCode, e.Error)
		}
		return nil, fmt.Errorf("ollama error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var tags ollamaTagsResponse
	if err := json.Unmarshal(body, &tags); err != nil {
		return nil, fmt.Errorf("decoding ollama tags response: %w", err)
	}
	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		name := m.Name
		if name == "" {
			name = m.Model
		}
		names = append(names, name)
	}
	return names, nil
}
