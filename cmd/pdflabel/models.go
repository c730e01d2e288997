package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/pdf-labeller/internal/ai"
)

func modelsCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the models the chat backend offers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := g.load(cmd)
			if err != nil {
				return err
			}
			c, err := ai.New(cmd.Context(), rt.cfg.AI())
			if err != nil {
				return err
			}
			models, err := c.ListModels(cmd.Context())
			if err != nil {
				return fmt.Errorf("%w: %v", ai.ErrChatUnavailable, err)
			}
			if len(models) == 0 {
				return ai.ErrNoModels
			}
			for _, m := range models {
				fmt.Fprintln(cmd.OutOrStdout(), m)
			}
			return nil
		},
	}
}
