package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           "pdflabel",
		Short:         "Label PDF page content with a local language model",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringArrayVar(&g.configs, "config", nil, "TOML config file (repeatable, later files override earlier)")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level: trace|debug|info|warn|error")
	root.PersistentFlags().StringVar(&g.provider, "provider", "", "chat provider: ollama|gemini|noop")
	root.PersistentFlags().StringVar(&g.model, "model", "", "model name (default: first model the provider lists)")
	root.PersistentFlags().StringVar(&g.baseURL, "base-url", "", "chat endpoint base URL")

	root.AddCommand(
		modelsCmd(g),
		extractCmd(g),
		labelCmd(g),
		askCmd(g),
		sessionCmd(g),
		exportCmd(g),
	)
	return root
}
