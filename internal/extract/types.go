package extract

import (
	"errors"
	"fmt"
)

// ErrDocument is returned when the uploaded bytes cannot be opened as a PDF.
var ErrDocument = errors.New("pdflabel: document could not be decoded")

type TextMode string

const (
	TextPlain  TextMode = "plain"
	TextLayout TextMode = "layout"
)

type ImageStatus string

const (
	ImageAccepted ImageStatus = "accepted"
	ImageSkipped  ImageStatus = "skipped"
	ImageFailed   ImageStatus = "failed"
)

type ImageRecord struct {
	Index int    `json:"index" yaml:"index"`
	Size  string `json:"size" yaml:"size"`
	Data  string `json:"data,omitempty" yaml:"data,omitempty"`
}

// ImageOutcome records what happened to one enumerated image.
type ImageOutcome struct {
	Index  int         `json:"index" yaml:"index"`
	Status ImageStatus `json:"status" yaml:"status"`
	Reason string      `json:"reason,omitempty" yaml:"reason,omitempty"`
}

type Page struct {
	Label   string         `json:"label" yaml:"label"`
	Number  int            `json:"number" yaml:"number"`
	Text    string         `json:"text" yaml:"text"`
	Images  []ImageRecord  `json:"images" yaml:"images"`
	Tables  []string       `json:"tables" yaml:"tables"`
	Skipped []ImageOutcome `json:"skipped_images,omitempty" yaml:"skipped_images,omitempty"`
}

// Empty reports whether the page carries nothing worth labeling.
func (p Page) Empty() bool {
	return p.Text == "" && len(p.Images) == 0 && len(p.Tables) == 0
}

func PageLabel(n int) string { return fmt.Sprintf("Page %d", n) }

type Stats struct {
	Pages  int `json:"pages" yaml:"pages"`
	Images int `json:"images" yaml:"images"`
	Tables int `json:"tables" yaml:"tables"`
}

// Document holds the non-empty pages of one PDF in physical order.
type Document struct {
	PageCount int    `json:"page_count" yaml:"page_count"`
	Pages     []Page `json:"pages" yaml:"pages"`

	index map[string]int
}

// NewDocument assembles a document from already extracted pages, dropping
// empty ones.
func NewDocument(pages ...Page) *Document {
	d := &Document{}
	for _, p := range pages {
		if p.Number > d.PageCount {
			d.PageCount = p.Number
		}
		if !p.Empty() {
			d.add(p)
		}
	}
	return d
}

func (d *Document) add(p Page) {
	if d.index == nil {
		d.index = map[string]int{}
	}
	d.index[p.Label] = len(d.Pages)
	d.Pages = append(d.Pages, p)
}

func (d *Document) Get(label string) (Page, bool) {
	if d == nil {
		return Page{}, false
	}
	i, ok := d.index[label]
	if !ok {
		return Page{}, false
	}
	return d.Pages[i], true
}

func (d *Document) Labels() []string {
	if d == nil {
		return nil
	}
	out := make([]string, len(d.Pages))
	for i, p := range d.Pages {
		out[i] = p.Label
	}
	return out
}

func (d *Document) Stats() Stats {
	var s Stats
	if d == nil {
		return s
	}
	s.Pages = len(d.Pages)
	for _, p := range d.Pages {
		s.Images += len(p.Images)
		s.Tables += len(p.Tables)
	}
	return s
}

type Options struct {
	TextMode   TextMode
	SkipImages bool
	// TabGap is the horizontal gap, in multiples of the font size, that layout
	// mode renders as a tab between two glyph runs on the same line.
	TabGap float64
}

func (o Options) withDefaults() Options {
	if o.TextMode == "" {
		o.TextMode = TextPlain
	}
	if o.TabGap <= 0 {
		o.TabGap = 1.5
	}
	return o
}
