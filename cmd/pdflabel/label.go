package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/pdf-labeller/internal/report"
)

func labelCmd(g *globalFlags) *cobra.Command {
	var transcript string

	cmd := &cobra.Command{
		Use:   "label <pdf>",
		Short: "Extract a PDF and label every page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := g.load(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("transcript") {
				rt.cfg.Transcript.Path = transcript
			}
			s, err := rt.labeledSession(cmd, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			failed := 0
			for _, lp := range s.Pages() {
				fmt.Fprintf(out, "=== %s ===\n%s\n\n", lp.Original.Label, report.Decorate(lp.Labeled))
				if lp.Err != nil {
					failed++
				}
			}
			st := s.Document().Stats()
			fmt.Fprintf(out, "Pages: %d  Images: %d  Tables: %d  Failed: %d\n", st.Pages, st.Images, st.Tables, failed)
			return nil
		},
	}
	cmd.Flags().StringVar(&transcript, "transcript", "", "labeling transcript path (empty disables it)")
	return cmd
}
