package extract

import (
	"fmt"
	"strings"
)

// Describe flattens a page into the text sent to the model. Only non-empty
// sections are emitted and they are separated by a single blank line.
func Describe(p Page) string {
	var sections []string
	if p.Text != "" {
		sections = append(sections, "TEXT CONTENT:\n"+p.Text)
	}
	if len(p.Images) > 0 {
		lines := []string{fmt.Sprintf("IMAGES FOUND: %d images", len(p.Images))}
		for _, img := range p.Images {
			lines = append(lines, fmt.Sprintf("- Image %d: Size %s", img.Index, img.Size))
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}
	if len(p.Tables) > 0 {
		var b strings.Builder
		fmt.Fprintf(&b, "TABLES FOUND: %d tables", len(p.Tables))
		for i, t := range p.Tables {
			fmt.Fprintf(&b, "\n\nTable %d:\n%s", i+1, t)
		}
		sections = append(sections, b.String())
	}
	return strings.Join(sections, "\n\n")
}
