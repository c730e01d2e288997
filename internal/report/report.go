package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/thywilljoshua/pdf-labeller/internal/extract"
	"github.com/thywilljoshua/pdf-labeller/internal/label"
)

var ErrUnknownFormat = errors.New("pdflabel: unknown report format")

type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatPDF      Format = "pdf"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatYAML, FormatMarkdown, FormatHTML, FormatPDF:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Report is the exportable result of one labeling pass.
type Report struct {
	Source      string        `json:"source" yaml:"source"`
	Model       string        `json:"model" yaml:"model"`
	GeneratedAt time.Time     `json:"generated_at" yaml:"generated_at"`
	PageCount   int           `json:"page_count" yaml:"page_count"`
	Stats       extract.Stats `json:"stats" yaml:"stats"`
	Pages       []Page        `json:"pages" yaml:"pages"`
}

type Page struct {
	Label   string                 `json:"label" yaml:"label"`
	Number  int                    `json:"number" yaml:"number"`
	Labels  string                 `json:"labels" yaml:"labels"`
	Error   string                 `json:"error,omitempty" yaml:"error,omitempty"`
	Text    string                 `json:"text" yaml:"text"`
	Images  []Image                `json:"images,omitempty" yaml:"images,omitempty"`
	Tables  []string               `json:"tables,omitempty" yaml:"tables,omitempty"`
	Skipped []extract.ImageOutcome `json:"skipped_images,omitempty" yaml:"skipped_images,omitempty"`
}

// Image omits the encoded pixels; use `pdflabel extract --images-dir` for those.
type Image struct {
	Index int    `json:"index" yaml:"index"`
	Size  string `json:"size" yaml:"size"`
}

// Build joins extraction output and labels into a report, in page order.
func Build(source, model string, doc *extract.Document, labeled []label.LabeledPage) *Report {
	r := &Report{
		Source:      source,
		Model:       model,
		GeneratedAt: time.Now().UTC(),
		Stats:       doc.Stats(),
	}
	if doc != nil {
		r.PageCount = doc.PageCount
	}
	for _, lp := range labeled {
		p := lp.Original
		rp := Page{
			Label:   p.Label,
			Number:  p.Number,
			Labels:  lp.Labeled,
			Text:    p.Text,
			Tables:  p.Tables,
			Skipped: p.Skipped,
		}
		if lp.Err != nil {
			rp.Error = lp.Err.Error()
		}
		for _, img := range p.Images {
			rp.Images = append(rp.Images, Image{Index: img.Index, Size: img.Size})
		}
		r.Pages = append(r.Pages, rp)
	}
	return r
}

// Write renders r in the given format.
func Write(w io.Writer, r *Report, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(r))
		return err
	case FormatHTML:
		return writeHTML(w, r)
	case FormatPDF:
		return writePDF(w, r)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}
