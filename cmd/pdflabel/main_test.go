package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thywilljoshua/pdf-labeller/internal/ai"
)

func fakeOllama(t *testing.T, models ...string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			var resp struct {
				Models []map[string]string `json:"models"`
			}
			for _, m := range models {
				resp.Models = append(resp.Models, map[string]string{"name": m})
			}
			json.NewEncoder(w).Encode(resp)
		case "/api/chat":
			var req struct {
				Messages []ai.Message `json:"messages"`
			}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			reply := "Title: Page summary\nParagraph: body text"
			if last := req.Messages[len(req.Messages)-1].Content; strings.HasPrefix(last, "Question: ") {
				reply = "It says: " + strings.TrimPrefix(last, "Question: ")
			}
			json.NewEncoder(w).Encode(map[string]any{
				"message": map[string]string{"role": "assistant", "content": reply},
				"done":    true,
			})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func samplePDF(t *testing.T) string {
	t.Helper()
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetFont("Helvetica", "", 12)
	for _, text := range []string{"Invoice summary", "", "Payment terms"} {
		doc.AddPage()
		if text != "" {
			doc.Text(10, 20, text)
		}
	}
	path := filepath.Join(t.TempDir(), "sample.pdf")
	require.NoError(t, doc.OutputFileAndClose(path))
	return path
}

// run executes the CLI with a clean environment and returns stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	for _, k := range []string{"PDFLABEL_PROVIDER", "PDFLABEL_MODEL", "PDFLABEL_BASE_URL", "OLLAMA_HOST", "PDFLABEL_TIMEOUT", "PDFLABEL_TEXT_MODE", "PDFLABEL_LOG_LEVEL", "PDFLABEL_LOG_FORMAT"} {
		t.Setenv(k, "")
	}
	t.Setenv("PDFLABEL_TRANSCRIPT", filepath.Join(t.TempDir(), "transcript.txt"))

	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestModelsCommand(t *testing.T) {
	srv := fakeOllama(t, "llama3", "mistral")

	out, err := run(t, "", "models", "--base-url", srv.URL)

	require.NoError(t, err)
	assert.Equal(t, "llama3\nmistral\n", out)
}

func TestModelsCommandNoModels(t *testing.T) {
	srv := fakeOllama(t)

	_, err := run(t, "", "models", "--base-url", srv.URL)

	assert.ErrorIs(t, err, ai.ErrNoModels)
}

func TestLabelCommand(t *testing.T) {
	srv := fakeOllama(t, "llama3")

	out, err := run(t, "", "label", samplePDF(t), "--base-url", srv.URL, "--log-level", "error")

	require.NoError(t, err)
	assert.Contains(t, out, "=== Page 1 ===\n### 🏷️ **Title: Page summary**\n✏️ Paragraph: body text\n")
	assert.Contains(t, out, "=== Page 3 ===")
	assert.NotContains(t, out, "Page 2")
	assert.Contains(t, out, "Pages: 2  Images: 0  Tables: 0  Failed: 0")
}

func TestLabelCommandUnknownModel(t *testing.T) {
	srv := fakeOllama(t, "llama3")

	_, err := run(t, "", "label", samplePDF(t), "--base-url", srv.URL, "--model", "gpt-9")

	assert.ErrorIs(t, err, ai.ErrModelNotFound)
}

func TestLabelCommandBadConfig(t *testing.T) {
	_, err := run(t, "", "label", "missing.pdf", "--provider", "carrier-pigeon")

	assert.ErrorContains(t, err, "invalid configuration")
}

func TestAskCommand(t *testing.T) {
	srv := fakeOllama(t, "llama3")

	out, err := run(t, "", "ask", samplePDF(t), "What", "is", "due?", "--page", "Page 3", "--base-url", srv.URL)

	require.NoError(t, err)
	assert.Equal(t, "It says: What is due?\n", out)
}

func TestAskCommandUnknownPage(t *testing.T) {
	srv := fakeOllama(t, "llama3")

	_, err := run(t, "", "ask", samplePDF(t), "Why?", "--page", "Page 2", "--base-url", srv.URL)

	assert.ErrorContains(t, err, "page not found")
}

func TestExtractCommand(t *testing.T) {
	out, err := run(t, "", "extract", samplePDF(t), "--text-mode", "layout")

	require.NoError(t, err)
	var res struct {
		PageCount int `json:"page_count"`
		Pages     []struct {
			Label string `json:"label"`
			Text  string `json:"text"`
		} `json:"pages"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 3, res.PageCount)
	require.Len(t, res.Pages, 2)
	assert.Equal(t, "Page 3", res.Pages[1].Label)
	assert.Contains(t, res.Pages[1].Text, "Payment terms")
}

func TestExportCommand(t *testing.T) {
	srv := fakeOllama(t, "llama3")
	dest := filepath.Join(t.TempDir(), "report.html")

	_, err := run(t, "", "export", samplePDF(t), "--format", "html", "--out", dest, "--base-url", srv.URL)

	require.NoError(t, err)
	html, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(html), `<h2 id="page-3">Page 3</h2>`)
	assert.Contains(t, string(html), "Title: Page summary")
}

func TestExportCommandRejectsFormat(t *testing.T) {
	_, err := run(t, "", "export", "x.pdf", "--format", "docx")

	assert.ErrorContains(t, err, "unknown report format")
}

func TestSessionCommand(t *testing.T) {
	srv := fakeOllama(t, "llama3")
	stdin := strings.Join([]string{
		":pages",
		":page Page 9",
		":page Page 3",
		"Who pays?",
		":history",
		":quit",
		"never reached",
	}, "\n")

	out, err := run(t, stdin, "session", samplePDF(t), "--base-url", srv.URL)

	require.NoError(t, err)
	assert.Contains(t, out, "=== Page 1 ===")
	assert.Contains(t, out, "* Page 1\n  Page 3\n")
	assert.Contains(t, out, "page not found: Page 9")
	assert.Contains(t, out, "=== Page 3 ===")
	assert.Contains(t, out, "It says: Who pays?\n")
	assert.Contains(t, out, "1. Q: Who pays?\n   A: It says: Who pays?\n")
	assert.NotContains(t, out, "never reached")
}
