package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func askCmd(g *globalFlags) *cobra.Command {
	var page string

	cmd := &cobra.Command{
		Use:   "ask <pdf> <question>",
		Short: "Ask one question about a labeled page",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := g.load(cmd)
			if err != nil {
				return err
			}
			s, err := rt.labeledSession(cmd, args[0])
			if err != nil {
				return err
			}
			if page != "" {
				if err := s.Select(page); err != nil {
					return err
				}
			}
			turn, err := s.Ask(cmd.Context(), strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), turn.Answer)
			return nil
		},
	}
	cmd.Flags().StringVar(&page, "page", "", `page label, e.g. "Page 2" (default: first page)`)
	return cmd
}
