package ai

import (
	"context"
	"errors"
	"slices"
	"strings"

	genai "google.golang.org/genai"
)

type Gemini struct {
	client *genai.Client
}

func NewGemini(ctx context.Context, apiKey string) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("missing GOOGLE_API_KEY")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, err
	}
	return &Gemini{client: c}, nil
}

func (g *Gemini) Chat(ctx context.Context, req ChatRequest) (string, error) {
	contents, system := toGeminiContents(req.Messages)
	cfg := &genai.GenerateContentConfig{}
	if req.Temperature != nil {
		cfg.Temperature = genai.Ptr(float32(*req.Temperature))
	}
	if system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	res, err := g.client.Models.GenerateContent(ctx, req.Model, contents, cfg)
	if err != nil {
		return "", err
	}
	return res.Text(), nil
}

// ListModels returns the models that can generate content, without the
// "models/" prefix.
func (g *Gemini) ListModels(ctx context.Context) ([]string, error) {
	var names []string
	for m, err := range g.client.Models.All(ctx) {
		if err != nil {
			return nil, err
		}
		if len(m.SupportedActions) > 0 && !slices.Contains(m.SupportedActions, "generateContent") {
			continue
		}
		names = append(names, strings.TrimPrefix(m.Name, "models/"))
	}
	return names, nil
}

// toGeminiContents folds system messages into one system instruction and
// maps the rest onto user/model turns.
func toGeminiContents(msgs []Message) ([]*genai.Content, string) {
	var system []string
	var contents []*genai.Content
	for _, m := range msgs {
		switch m.Role {
		case RoleSystem:
			system = append(system, m.Content)
		case RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}
	return contents, strings.Join(system, "\n\n")
}
