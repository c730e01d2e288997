package main

import (
	"context"
	"fmt"
	"os"

	"github.com/phuslu/log"
	"github.com/spf13/cobra"

	"github.com/thywilljoshua/pdf-labeller/internal/ai"
	"github.com/thywilljoshua/pdf-labeller/internal/config"
	"github.com/thywilljoshua/pdf-labeller/internal/label"
	"github.com/thywilljoshua/pdf-labeller/internal/logging"
)

type globalFlags struct {
	configs  []string
	logLevel string
	provider string
	model    string
	baseURL  string
}

// runtime is what every command needs after flags are parsed.
type runtime struct {
	cfg    *config.Config
	logger *log.Logger
}

func (g *globalFlags) load(cmd *cobra.Command) (*runtime, error) {
	cfg, err := config.LoadFromFiles(g.configs...)
	if err != nil {
		return nil, err
	}
	if g.logLevel != "" {
		cfg.Logging.Level = g.logLevel
	}
	if g.provider != "" {
		cfg.Chat.Provider = g.provider
	}
	if g.model != "" {
		cfg.Chat.Model = g.model
	}
	if g.baseURL != "" {
		cfg.Chat.BaseURL = g.baseURL
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &runtime{
		cfg:    cfg,
		logger: logging.New(cfg.Logging.Level, cfg.Logging.Format, cmd.ErrOrStderr()),
	}, nil
}

// chatter connects to the configured backend and settles on a model.
func (rt *runtime) chatter(ctx context.Context) (ai.Chatter, string, error) {
	c, err := ai.New(ctx, rt.cfg.AI())
	if err != nil {
		return nil, "", err
	}
	model, err := ai.ResolveModel(ctx, c, rt.cfg.Chat.Model)
	if err != nil {
		return nil, "", err
	}
	rt.logger.Info().Str("provider", rt.cfg.Chat.Provider).Str("model", model).Msg("chat backend ready")
	return c, model, nil
}

// labeledSession loads pdfPath into a fresh session and labels every page,
// reporting progress on stderr.
func (rt *runtime) labeledSession(cmd *cobra.Command, pdfPath string) (*label.Session, error) {
	ctx := cmd.Context()
	c, model, err := rt.chatter(ctx)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(pdfPath)
	if err != nil {
		return nil, err
	}

	scfg := rt.cfg.Session()
	scfg.Model = model
	errOut := cmd.ErrOrStderr()
	scfg.OnProgress = func(i, total int, page string) {
		fmt.Fprintf(errOut, "🤖 Labeling %s (%d/%d)...\n", page, i, total)
	}
	s := label.NewSession(c, scfg, rt.logger)

	doc, err := s.Load(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", pdfPath, err)
	}
	st := doc.Stats()
	fmt.Fprintf(errOut, "✅ Extracted %d pages (%d images, %d tables)\n", st.Pages, st.Images, st.Tables)

	if _, err := s.Label(ctx); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s, nil
}
