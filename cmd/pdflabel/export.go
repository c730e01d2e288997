package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/pdf-labeller/internal/report"
)

func exportCmd(g *globalFlags) *cobra.Command {
	var format string
	var out string

	cmd := &cobra.Command{
		Use:   "export <pdf>",
		Short: "Label a PDF and write the result as a report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}
			rt, err := g.load(cmd)
			if err != nil {
				return err
			}
			s, err := rt.labeledSession(cmd, args[0])
			if err != nil {
				return err
			}
			r := report.Build(filepath.Base(args[0]), s.Model, s.Document(), s.Pages())

			if out == "" {
				return report.Write(cmd.OutOrStdout(), r, f)
			}
			file, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := report.Write(file, r, f); err != nil {
				file.Close()
				return err
			}
			if err := file.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "✅ Wrote %s report to %s\n", f, out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "markdown", "report format: json|yaml|markdown|html|pdf")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: stdout)")
	return cmd
}
