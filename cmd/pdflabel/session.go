package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/pdf-labeller/internal/label"
	"github.com/thywilljoshua/pdf-labeller/internal/report"
)

const sessionHelp = `Commands:
  :pages          list labeled pages
  :page <label>   select a page, e.g. ":page Page 2"
  :show           show the selected page's labels
  :history        show questions asked so far
  :help           show this help
  :quit           leave
Anything else is a question about the selected page.`

func sessionCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "session <pdf>",
		Short: "Label a PDF, then ask questions about its pages interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := g.load(cmd)
			if err != nil {
				return err
			}
			s, err := rt.labeledSession(cmd, args[0])
			if err != nil {
				return err
			}
			rt.logger.Debug().Str("session", s.ID).Msg("interactive session started")
			return runREPL(cmd, s, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func runREPL(cmd *cobra.Command, s *label.Session, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, sessionHelp)
	showSelected(s, out)

	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !sc.Scan() {
			fmt.Fprintln(out)
			return sc.Err()
		}
		line := strings.TrimSpace(sc.Text())
		cmdName, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)

		switch cmdName {
		case "":
		case ":quit", ":q", ":exit":
			return nil
		case ":help":
			fmt.Fprintln(out, sessionHelp)
		case ":pages":
			sel, _ := s.Selected()
			for _, lp := range s.Pages() {
				mark := " "
				if lp.Original.Label == sel.Original.Label {
					mark = "*"
				}
				fmt.Fprintf(out, "%s %s\n", mark, lp.Original.Label)
			}
		case ":page":
			if err := s.Select(arg); err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			showSelected(s, out)
		case ":show":
			showSelected(s, out)
		case ":history":
			for i, t := range s.History() {
				fmt.Fprintf(out, "%d. Q: %s\n   A: %s\n", i+1, t.Question, t.Answer)
			}
		default:
			turn, err := s.Ask(cmd.Context(), line)
			if err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			fmt.Fprintln(out, turn.Answer)
		}
		if err := cmd.Context().Err(); err != nil {
			return err
		}
	}
}

func showSelected(s *label.Session, out io.Writer) {
	lp, ok := s.Selected()
	if !ok {
		fmt.Fprintln(out, label.ErrNoPageSelected)
		return
	}
	fmt.Fprintf(out, "=== %s ===\n%s\n", lp.Original.Label, report.Decorate(lp.Labeled))
	for _, img := range lp.Original.Images {
		fmt.Fprintf(out, "🖼️ Image %d (%s)\n", img.Index, img.Size)
	}
}
