package label

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thywilljoshua/pdf-labeller/internal/ai"
	"github.com/thywilljoshua/pdf-labeller/internal/extract"
)

// fakeChat replies with a canned label and fails for any request whose
// content mentions a key of failOn.
type fakeChat struct {
	failOn map[string]error
	calls  []ai.ChatRequest
}

func (f *fakeChat) Chat(ctx context.Context, req ai.ChatRequest) (string, error) {
	f.calls = append(f.calls, req)
	for _, m := range req.Messages {
		for key, err := range f.failOn {
			if strings.Contains(m.Content, key) {
				return "", err
			}
		}
	}
	last := req.Messages[len(req.Messages)-1].Content
	return "Title: " + last[strings.LastIndex(last, "\n")+1:], nil
}

func (f *fakeChat) ListModels(ctx context.Context) ([]string, error) { return []string{"tiny"}, nil }

func threePages() *extract.Document {
	return extract.NewDocument(
		extract.Page{Label: "Page 1", Number: 1, Text: "first page"},
		extract.Page{Label: "Page 2", Number: 2, Text: "second page"},
		extract.Page{Label: "Page 3", Number: 3, Text: "third page"},
	)
}

func TestLabelAllContinuesAfterFailure(t *testing.T) {
	chat := &fakeChat{failOn: map[string]error{"second": errors.New("backend exploded")}}
	l := NewLabeler(chat, nil)
	l.Transcript = filepath.Join(t.TempDir(), "log.txt")

	var progress []string
	l.OnProgress = func(i, total int, label string) {
		assert.Equal(t, 3, total)
		progress = append(progress, label)
	}

	got := l.LabelAll(context.Background(), threePages(), "tiny")

	require.Len(t, got, 3)
	assert.Equal(t, []string{"Page 1", "Page 2", "Page 3"}, progress)

	assert.Equal(t, "Title: first page", got[0].Labeled)
	assert.NoError(t, got[0].Err)
	assert.Equal(t, "TEXT CONTENT:\nfirst page", got[0].FullContent)

	assert.Equal(t, "Error labeling page: backend exploded", got[1].Labeled)
	assert.EqualError(t, got[1].Err, "backend exploded")
	assert.Equal(t, "second page", got[1].Original.Text)
	assert.Equal(t, "TEXT CONTENT:\nsecond page", got[1].FullContent)

	assert.Equal(t, "Title: third page", got[2].Labeled)
	assert.NoError(t, got[2].Err)

	for _, req := range chat.calls {
		assert.Equal(t, "tiny", req.Model)
		require.NotNil(t, req.Temperature)
		assert.Equal(t, 0.3, *req.Temperature)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, ai.RoleSystem, req.Messages[0].Role)
		assert.Equal(t, ai.RoleUser, req.Messages[1].Role)
	}

	log, err := os.ReadFile(l.Transcript)
	require.NoError(t, err)
	want := "Page 1\nPROMPT:\n" +
		"Label and categorize this PDF page content:\n\nTEXT CONTENT:\nfirst page\n\n" +
		"Provide clear labels like: Title, Header, Paragraph, Image, Table, List, etc." +
		"\n\nRESPONSE:\nTitle: first page\n\n" +
		"Page 2\nError labeling page: backend exploded\n\n" +
		"Page 3\nPROMPT:\n" +
		"Label and categorize this PDF page content:\n\nTEXT CONTENT:\nthird page\n\n" +
		"Provide clear labels like: Title, Header, Paragraph, Image, Table, List, etc." +
		"\n\nRESPONSE:\nTitle: third page\n\n"
	assert.Equal(t, want, string(log))
}

func TestLabelAllTruncatesTranscript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")
	require.NoError(t, os.WriteFile(path, []byte("stale content from a previous pass\n"), 0o644))

	l := NewLabeler(&fakeChat{}, nil)
	l.Transcript = path
	l.LabelAll(context.Background(), extract.NewDocument(extract.Page{Label: "Page 1", Number: 1, Text: "only"}), "tiny")

	log, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(log), "stale")
	assert.True(t, strings.HasPrefix(string(log), "Page 1\nPROMPT:\n"))
}

func TestLabelAllWithoutTranscript(t *testing.T) {
	l := NewLabeler(&fakeChat{}, nil)
	l.Transcript = filepath.Join(t.TempDir(), "missing-dir", "log.txt")

	got := l.LabelAll(context.Background(), threePages(), "tiny")

	require.Len(t, got, 3)
	assert.Equal(t, "Title: second page", got[1].Labeled)
}

func TestAnswererAsk(t *testing.T) {
	chat := &fakeChat{}
	a := NewAnswerer(chat, nil)

	got := a.Ask(context.Background(), "TEXT CONTENT:\nprices", "What is listed?", "tiny")

	require.Len(t, chat.calls, 1)
	req := chat.calls[0]
	assert.Nil(t, req.Temperature)
	require.Len(t, req.Messages, 3)
	assert.Equal(t, "TEXT CONTENT:\nprices", req.Messages[1].Content)
	assert.Equal(t, "Question: What is listed?", req.Messages[2].Content)
	assert.NotEmpty(t, got)
}

func TestAnswererAskError(t *testing.T) {
	chat := &fakeChat{failOn: map[string]error{"prices": errors.New("connection refused")}}

	got := NewAnswerer(chat, nil).Ask(context.Background(), "TEXT CONTENT:\nprices", "Why?", "tiny")

	assert.Equal(t, "Error: connection refused", got)
}

func TestPrompts(t *testing.T) {
	lp := labelPrompt("CONTENT")
	assert.Equal(t, "Label and categorize this PDF page content:\n\nCONTENT\n\nProvide clear labels like: Title, Header, Paragraph, Image, Table, List, etc.", lp.flat)
	assert.NotContains(t, lp.messages[0].Content, "CONTENT")

	qp := questionPrompt("CONTENT", "Who?")
	assert.Equal(t, "Answer based on this PDF page content:\n\nCONTENT\n\nQuestion: Who?\n\nProvide a clear, specific answer.", qp.flat)
	assert.NotContains(t, qp.messages[0].Content, "Who?")
}
