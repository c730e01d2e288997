package label

import (
	"context"
	"fmt"
	"time"

	"github.com/phuslu/log"

	"github.com/thywilljoshua/pdf-labeller/internal/ai"
	"github.com/thywilljoshua/pdf-labeller/internal/extract"
	"github.com/thywilljoshua/pdf-labeller/internal/logging"
)

const (
	DefaultTranscript  = "output_log.txt"
	DefaultTemperature = 0.3
)

// LabeledPage is the model's labeling of one page. Err is set when the chat
// call failed, in which case Labeled holds the error message shown instead.
type LabeledPage struct {
	Original    extract.Page `json:"original" yaml:"original"`
	Labeled     string       `json:"labeled" yaml:"labeled"`
	FullContent string       `json:"full_content" yaml:"full_content"`
	Err         error        `json:"-" yaml:"-"`
}

// Labeler sends each page's description to the chat backend.
type Labeler struct {
	chatter ai.Chatter
	logger  *log.Logger

	// Transcript is the log file path; empty disables the log.
	Transcript  string
	Temperature float64
	OnProgress  func(i, total int, label string)
}

func NewLabeler(c ai.Chatter, logger *log.Logger) *Labeler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Labeler{
		chatter:     c,
		logger:      logger,
		Transcript:  DefaultTranscript,
		Temperature: DefaultTemperature,
	}
}

// LabelAll labels every page in order. A failed page gets an error label and
// the pass moves on.
func (l *Labeler) LabelAll(ctx context.Context, doc *extract.Document, model string) []LabeledPage {
	tr := l.openTranscript()
	defer func() {
		if err := tr.Close(); err != nil {
			l.logger.Warn().Err(err).Str("path", l.Transcript).Msg("closing transcript failed")
		}
	}()

	out := make([]LabeledPage, 0, len(doc.Pages))
	for i, p := range doc.Pages {
		if l.OnProgress != nil {
			l.OnProgress(i+1, len(doc.Pages), p.Label)
		}
		out = append(out, l.label(ctx, tr, p, model))
	}
	return out
}

func (l *Labeler) openTranscript() *transcript {
	if l.Transcript == "" {
		return nil
	}
	tr, err := openTranscript(l.Transcript)
	if err != nil {
		l.logger.Warn().Err(err).Str("path", l.Transcript).Msg("transcript unavailable, labeling without it")
		return nil
	}
	return tr
}

func (l *Labeler) label(ctx context.Context, tr *transcript, p extract.Page, model string) LabeledPage {
	content := extract.Describe(p)
	pr := labelPrompt(content)
	lp := LabeledPage{Original: p, FullContent: content}

	start := time.Now()
	resp, err := l.chatter.Chat(ctx, ai.ChatRequest{
		Model:       model,
		Messages:    pr.messages,
		Temperature: ai.Float(l.Temperature),
	})
	if err != nil {
		lp.Err = err
		lp.Labeled = fmt.Sprintf("Error labeling page: %v", err)
		l.logger.Warn().Str("page", p.Label).Err(err).Msg("labeling failed")
		l.record(tr.failure(p.Label, lp.Labeled))
		return lp
	}

	lp.Labeled = resp
	l.logger.Info().Str("page", p.Label).Str("model", model).Dur("took", time.Since(start)).Msg("labeled page")
	l.record(tr.page(p.Label, pr.flat, resp))
	return lp
}

func (l *Labeler) record(err error) {
	if err != nil {
		l.logger.Warn().Err(err).Str("path", l.Transcript).Msg("writing transcript failed")
	}
}

// Answerer answers free-form questions about one page.
type Answerer struct {
	chatter ai.Chatter
	logger  *log.Logger
}

func NewAnswerer(c ai.Chatter, logger *log.Logger) *Answerer {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Answerer{chatter: c, logger: logger}
}

// Ask never fails: a chat error comes back as the answer text.
func (a *Answerer) Ask(ctx context.Context, fullContent, question, model string) string {
	pr := questionPrompt(fullContent, question)
	resp, err := a.chatter.Chat(ctx, ai.ChatRequest{Model: model, Messages: pr.messages})
	if err != nil {
		a.logger.Warn().Err(err).Str("model", model).Msg("answering failed")
		return fmt.Sprintf("Error: %v", err)
	}
	return resp
}
