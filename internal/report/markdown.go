package report

import (
	"fmt"
	"regexp"
	"strings"
)

type decoration struct {
	prefix string
	format string
}

var decorations = []decoration{
	{"title", "### 🏷️ **%s**"},
	{"header", "#### 📌 **%s**"},
	{"paragraph", "✏️ %s"},
	{"image", "🖼️ %s"},
	{"table", "📊 %s"},
	{"list", "🔢 %s"},
}

// DecorateLine marks up one line of model output by its leading label word,
// compared case-insensitively. Other lines are returned unchanged.
func DecorateLine(line string) string {
	lower := strings.ToLower(line)
	for _, d := range decorations {
		if strings.HasPrefix(lower, d.prefix) {
			return fmt.Sprintf(d.format, line)
		}
	}
	return line
}

func Decorate(labeled string) string {
	lines := strings.Split(labeled, "\n")
	for i, ln := range lines {
		lines[i] = DecorateLine(strings.TrimRight(ln, "\r"))
	}
	return strings.Join(lines, "\n")
}

func Markdown(r *Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Labeled content: %s\n\n", r.Source)
	fmt.Fprintf(&b, "- **Model:** %s\n", r.Model)
	fmt.Fprintf(&b, "- **Pages:** %d of %d\n", r.Stats.Pages, r.PageCount)
	fmt.Fprintf(&b, "- **Images:** %d\n", r.Stats.Images)
	fmt.Fprintf(&b, "- **Tables:** %d\n\n", r.Stats.Tables)

	if len(r.Pages) > 1 {
		for _, p := range r.Pages {
			fmt.Fprintf(&b, "- [%s](#%s)\n", p.Label, slugify(p.Label))
		}
		b.WriteString("\n")
	}

	for _, p := range r.Pages {
		writePage(&b, p)
	}
	return b.String()
}

func writePage(b *strings.Builder, p Page) {
	fmt.Fprintf(b, "## %s\n\n", p.Label)
	if p.Error != "" {
		for _, ln := range strings.Split(strings.TrimRight(p.Labels, "\n"), "\n") {
			b.WriteString(strings.TrimRight("> "+ln, " "))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	} else if labels := strings.TrimSpace(p.Labels); labels != "" {
		// Each label line stands alone, even where the model wrapped.
		for _, ln := range strings.Split(Decorate(labels), "\n") {
			if strings.TrimSpace(ln) == "" {
				continue
			}
			b.WriteString(ln)
			b.WriteString("\n\n")
		}
	}

	if len(p.Images) > 0 {
		b.WriteString("### Images\n\n")
		for _, img := range p.Images {
			fmt.Fprintf(b, "- Image %d (%s)\n", img.Index, img.Size)
		}
		b.WriteString("\n")
	}
	if len(p.Tables) > 0 {
		b.WriteString("### Tables\n\n")
		for i, t := range p.Tables {
			fmt.Fprintf(b, "Table %d:\n\n%s\n\n", i+1, tableMarkdown(t))
		}
	}
}

// tableMarkdown renders a detected table as a Markdown table when every row
// splits into the same number of cells, and as a fenced block otherwise.
func tableMarkdown(table string) string {
	lines := strings.Split(strings.TrimSpace(table), "\n")
	var rows [][]string
	cols := 0
	for _, ln := range lines {
		cells := splitCells(ln)
		if cols == 0 {
			cols = len(cells)
		}
		if len(cells) < 2 || len(cells) != cols {
			return "```\n" + strings.TrimSpace(table) + "\n```"
		}
		rows = append(rows, cells)
	}

	var out []string
	out = append(out, tableRow(rows[0]))
	sep := make([]string, cols)
	for i := range sep {
		sep[i] = "---"
	}
	out = append(out, tableRow(sep))
	for _, row := range rows[1:] {
		out = append(out, tableRow(row))
	}
	return strings.Join(out, "\n")
}

func tableRow(cells []string) string {
	return "| " + strings.Join(cells, " | ") + " |"
}

var cellGap = regexp.MustCompile(`\t+|\s{2,}`)

func splitCells(s string) []string {
	parts := cellGap.Split(strings.TrimSpace(s), -1)
	for i, v := range parts {
		parts[i] = strings.ReplaceAll(strings.TrimSpace(v), "|", `\|`)
	}
	return parts
}

var nonSlug = regexp.MustCompile(`[^a-z0-9\-]+`)

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonSlug.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	return s
}
