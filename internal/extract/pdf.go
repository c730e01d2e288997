package extract

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/phuslu/log"
	rpdf "rsc.io/pdf"

	"github.com/thywilljoshua/pdf-labeller/internal/logging"
)

// Extractor turns PDF bytes into per-page records.
type Extractor struct {
	opts   Options
	logger *log.Logger
}

func New(opts Options, logger *log.Logger) *Extractor {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Extractor{opts: opts.withDefaults(), logger: logger}
}

// Extract walks every page of the document. A document that cannot be opened
// yields ErrDocument and no pages; failures below the page level are recorded
// on the page and never abort the pass.
func (e *Extractor) Extract(ctx context.Context, data []byte) (doc *Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("%w: %v", ErrDocument, r)
		}
	}()

	src, err := openText(data, e.opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocument, err)
	}
	images := e.openImages(data)

	doc = &Document{PageCount: src.NumPage()}
	for n := 1; n <= doc.PageCount; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := Page{Label: PageLabel(n), Number: n}
		p.Text = strings.TrimSpace(e.pageText(src, n))
		if images != nil {
			p.Images, p.Skipped = images.page(n, e.logger)
		}
		p.Tables = SegmentTables(strings.Split(p.Text, "\n"))
		if p.Empty() {
			e.logger.Debug().Int("page", n).Msg("page has no content, dropping")
			continue
		}
		doc.add(p)
	}

	st := doc.Stats()
	e.logger.Info().
		Int("page_count", doc.PageCount).
		Int("pages", st.Pages).
		Int("images", st.Images).
		Int("tables", st.Tables).
		Str("text_mode", string(e.opts.TextMode)).
		Msg("extracted PDF content")
	return doc, nil
}

func (e *Extractor) pageText(src textSource, n int) (text string) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn().Int("page", n).Str("panic", fmt.Sprint(r)).Msg("text extraction panicked")
			text = ""
		}
	}()
	t, err := src.PageText(n)
	if err != nil {
		e.logger.Warn().Int("page", n).Err(err).Msg("text extraction failed")
		return ""
	}
	return t
}

type textSource interface {
	NumPage() int
	PageText(n int) (string, error)
}

func openText(data []byte, opts Options) (textSource, error) {
	r := bytes.NewReader(data)
	switch opts.TextMode {
	case TextLayout:
		doc, err := rpdf.NewReader(r, int64(len(data)))
		if err != nil {
			return nil, err
		}
		return layoutSource{r: doc, tabGap: opts.TabGap}, nil
	case TextPlain:
		doc, err := pdf.NewReader(r, int64(len(data)))
		if err != nil {
			return nil, err
		}
		return plainSource{r: doc}, nil
	default:
		return nil, fmt.Errorf("unknown text mode %q", opts.TextMode)
	}
}

type plainSource struct{ r *pdf.Reader }

func (s plainSource) NumPage() int { return s.r.NumPage() }

func (s plainSource) PageText(n int) (string, error) {
	page := s.r.Page(n)
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}

// layoutSource rebuilds lines from positioned glyphs so that wide horizontal
// gaps survive as tabs and word spaces survive as spaces.
type layoutSource struct {
	r      *rpdf.Reader
	tabGap float64
}

func (s layoutSource) NumPage() int { return s.r.NumPage() }

func (s layoutSource) PageText(n int) (string, error) {
	page := s.r.Page(n)
	if page.V.IsNull() {
		return "", nil
	}
	return layoutText(pageGlyphs(page), s.tabGap), nil
}

type glyphLine struct {
	y      float64
	glyphs []rpdf.Text
}

func layoutText(texts []rpdf.Text, tabGap float64) string {
	if len(texts) == 0 {
		return ""
	}
	sorted := append([]rpdf.Text(nil), texts...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var lines []glyphLine
	for _, t := range sorted {
		if n := len(lines); n > 0 && math.Abs(lines[n-1].y-t.Y) <= fontSize(t)/2 {
			lines[n-1].glyphs = append(lines[n-1].glyphs, t)
			continue
		}
		lines = append(lines, glyphLine{y: t.Y, glyphs: []rpdf.Text{t}})
	}

	out := make([]string, 0, len(lines))
	for _, l := range lines {
		sort.SliceStable(l.glyphs, func(i, j int) bool { return l.glyphs[i].X < l.glyphs[j].X })
		var b strings.Builder
		var end float64
		space := false
		for _, g := range l.glyphs {
			if strings.TrimSpace(g.S) == "" {
				space = true
				end = math.Max(end, g.X+g.W)
				continue
			}
			if b.Len() > 0 {
				gap := g.X - end
				switch size := fontSize(g); {
				case gap > tabGap*size:
					b.WriteByte('\t')
				case space || gap > 0.2*size:
					b.WriteByte(' ')
				}
			}
			space = false
			b.WriteString(g.S)
			end = g.X + g.W
		}
		if b.Len() > 0 {
			out = append(out, b.String())
		}
	}
	return strings.Join(out, "\n")
}

func fontSize(t rpdf.Text) float64 { return math.Max(t.FontSize, 1) }
