package report

import (
	"bytes"
	"fmt"
	"html"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

var markdownHTML = goldmark.New(
	goldmark.WithExtensions(extension.Table, extension.Strikethrough),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

const htmlPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: sans-serif; max-width: 52rem; margin: 2rem auto; line-height: 1.5; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 0.25rem 0.5rem; }
blockquote { color: #a00; }
</style>
</head>
<body>
%s</body>
</html>
`

// writeHTML renders the Markdown report as a standalone page. Raw HTML in
// model output is escaped by goldmark's default renderer.
func writeHTML(w io.Writer, r *Report) error {
	var body bytes.Buffer
	if err := markdownHTML.Convert([]byte(Markdown(r)), &body); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	_, err := fmt.Fprintf(w, htmlPage, html.EscapeString("Labeled content: "+r.Source), body.String())
	return err
}
