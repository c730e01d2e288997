package extract

import (
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/font"
	rpdf "rsc.io/pdf"
)

// fallbackGlyphWidth is the advance, in glyph space units, assumed for a code
// whose font carries neither a Widths array nor standard 14 metrics.
const fallbackGlyphWidth = 500

type matrix [3][3]float64

var identity = matrix{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

func translate(tx, ty float64) matrix {
	return matrix{{1, 0, 0}, {0, 1, 0}, {tx, ty, 1}}
}

func (x matrix) mul(y matrix) matrix {
	var z matrix
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				z[i][j] += x[i][k] * y[k][j]
			}
		}
	}
	return z
}

func matrixArgs(args []rpdf.Value) matrix {
	var m matrix
	for i := 0; i < 6; i++ {
		m[i/2][i%2] = args[i].Float64()
	}
	m[2][2] = 1
	return m
}

type textState struct {
	Tc, Tw, Th, Tl float64
	Tfs, Trise     float64
	font           rpdf.Font
	fontName       string
	enc            rpdf.TextEncoding
	Tm, Tlm, CTM   matrix
}

// pageGlyphs walks the page content stream and returns one positioned glyph
// per decoded character. Unlike rpdf.Page.Content, spaces are kept and every
// glyph carries a width, falling back to standard 14 font metrics when the
// font dictionary has no Widths array.
func pageGlyphs(p rpdf.Page) []rpdf.Text {
	g := textState{Th: 1, CTM: identity, enc: plainEncoding{}}
	var stack []textState
	var out []rpdf.Text

	show := func(raw string) {
		if g.font.V.IsNull() {
			return
		}
		decoded := []rune(g.enc.Decode(raw))
		for i, ch := range decoded {
			code := -1
			if i < len(raw) && len(decoded) == len(raw) {
				code = int(raw[i])
			}
			w0 := glyphWidth(g.font, g.fontName, code, ch)
			trm := matrix{{g.Tfs * g.Th, 0, 0}, {0, g.Tfs, 0}, {0, g.Trise, 1}}.mul(g.Tm).mul(g.CTM)
			out = append(out, rpdf.Text{
				Font:     g.fontName,
				FontSize: trm[0][0],
				X:        trm[2][0],
				Y:        trm[2][1],
				W:        w0 / 1000 * trm[0][0],
				S:        string(ch),
			})
			tx := w0/1000*g.Tfs + g.Tc
			if ch == ' ' {
				tx += g.Tw
			}
			g.Tm = translate(tx*g.Th, 0).mul(g.Tm)
		}
	}
	nextLine := func() {
		g.Tlm = translate(0, -g.Tl).mul(g.Tlm)
		g.Tm = g.Tlm
	}

	rpdf.Interpret(p.V.Key("Contents"), func(stk *rpdf.Stack, op string) {
		n := stk.Len()
		args := make([]rpdf.Value, n)
		for i := n - 1; i >= 0; i-- {
			args[i] = stk.Pop()
		}
		switch op {
		case "cm":
			if n == 6 {
				g.CTM = matrixArgs(args).mul(g.CTM)
			}
		case "q":
			stack = append(stack, g)
		case "Q":
			if k := len(stack) - 1; k >= 0 {
				g, stack = stack[k], stack[:k]
			}
		case "BT":
			g.Tm, g.Tlm = identity, identity
		case "T*":
			nextLine()
		case "Tc":
			if n == 1 {
				g.Tc = args[0].Float64()
			}
		case "Tw":
			if n == 1 {
				g.Tw = args[0].Float64()
			}
		case "Tz":
			if n == 1 {
				g.Th = args[0].Float64() / 100
			}
		case "TL":
			if n == 1 {
				g.Tl = args[0].Float64()
			}
		case "Ts":
			if n == 1 {
				g.Trise = args[0].Float64()
			}
		case "TD", "Td":
			if n != 2 {
				return
			}
			if op == "TD" {
				g.Tl = -args[1].Float64()
			}
			g.Tlm = translate(args[0].Float64(), args[1].Float64()).mul(g.Tlm)
			g.Tm = g.Tlm
		case "Tm":
			if n == 6 {
				g.Tm = matrixArgs(args)
				g.Tlm = g.Tm
			}
		case "Tf":
			if n != 2 {
				return
			}
			g.font = p.Font(args[0].Name())
			g.fontName = baseFontName(g.font)
			g.enc = g.font.Encoder()
			if g.enc == nil {
				g.enc = plainEncoding{}
			}
			g.Tfs = args[1].Float64()
		case "Tj":
			if n == 1 {
				show(args[0].RawString())
			}
		case "'":
			if n == 1 {
				nextLine()
				show(args[0].RawString())
			}
		case "\"":
			if n == 3 {
				g.Tw, g.Tc = args[0].Float64(), args[1].Float64()
				nextLine()
				show(args[2].RawString())
			}
		case "TJ":
			if n != 1 {
				return
			}
			v := args[0]
			for i := 0; i < v.Len(); i++ {
				x := v.Index(i)
				if x.Kind() == rpdf.String {
					show(x.RawString())
					continue
				}
				g.Tm = translate(-x.Float64()/1000*g.Tfs*g.Th, 0).mul(g.Tm)
			}
		}
	})
	return out
}

func baseFontName(f rpdf.Font) string {
	name := f.BaseFont()
	if i := strings.Index(name, "+"); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// glyphWidth returns the advance of code in glyph space units. A negative code
// means the raw bytes did not map one to one onto decoded characters.
func glyphWidth(f rpdf.Font, name string, code int, ch rune) float64 {
	if code >= 0 {
		if w := f.Width(code); w > 0 {
			return w
		}
		if font.IsCoreFont(name) {
			return float64(font.CharWidth(name, rune(code)))
		}
	}
	if ch == ' ' {
		return fallbackGlyphWidth / 2
	}
	return fallbackGlyphWidth
}

type plainEncoding struct{}

func (plainEncoding) Decode(raw string) string { return raw }
