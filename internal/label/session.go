package label

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/phuslu/log"

	"github.com/thywilljoshua/pdf-labeller/internal/ai"
	"github.com/thywilljoshua/pdf-labeller/internal/extract"
	"github.com/thywilljoshua/pdf-labeller/internal/logging"
)

var (
	ErrNoDocument     = errors.New("pdflabel: no document loaded")
	ErrNoContent      = errors.New("pdflabel: no content extracted")
	ErrNoPageSelected = errors.New("pdflabel: no page selected")
	ErrPageNotFound   = errors.New("pdflabel: page not found")
)

type ChatTurn struct {
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
}

type SessionConfig struct {
	Model       string
	Transcript  string
	Temperature *float64 // nil keeps DefaultTemperature
	Extract     extract.Options
	OnProgress  func(i, total int, label string)
}

// Session owns everything one interactive run accumulates: the current
// document, its labels, the selected page and the question history. Loading
// a new document resets all of it except the history. A Session is not safe
// for concurrent use.
type Session struct {
	ID    string
	Model string

	logger    *log.Logger
	extractor *extract.Extractor
	labeler   *Labeler
	answerer  *Answerer

	doc      *extract.Document
	labeled  []LabeledPage
	index    map[string]int
	selected string
	history  []ChatTurn
}

func NewSession(c ai.Chatter, cfg SessionConfig, logger *log.Logger) *Session {
	if logger == nil {
		logger = logging.Discard()
	}
	id := uuid.NewString()
	l := NewLabeler(c, logger)
	l.Transcript = cfg.Transcript
	if cfg.Temperature != nil {
		l.Temperature = *cfg.Temperature
	}
	l.OnProgress = cfg.OnProgress
	return &Session{
		ID:        id,
		Model:     cfg.Model,
		logger:    logger,
		extractor: extract.New(cfg.Extract, logger),
		labeler:   l,
		answerer:  NewAnswerer(c, logger),
	}
}

// Load extracts a new document and discards the previous one.
func (s *Session) Load(ctx context.Context, data []byte) (*extract.Document, error) {
	s.doc, s.labeled, s.index, s.selected = nil, nil, nil, ""

	doc, err := s.extractor.Extract(ctx, data)
	if err != nil {
		return nil, err
	}
	if len(doc.Pages) == 0 {
		return doc, ErrNoContent
	}
	s.doc = doc
	s.logger.Info().Str("session", s.ID).Int("pages", len(doc.Pages)).Msg("document loaded")
	return doc, nil
}

// Label labels every page of the loaded document and selects the first page.
func (s *Session) Label(ctx context.Context) ([]LabeledPage, error) {
	if s.doc == nil {
		return nil, ErrNoDocument
	}
	s.labeled = s.labeler.LabelAll(ctx, s.doc, s.Model)
	s.index = make(map[string]int, len(s.labeled))
	for i, lp := range s.labeled {
		s.index[lp.Original.Label] = i
	}
	if len(s.labeled) > 0 {
		s.selected = s.labeled[0].Original.Label
	}
	return s.Pages(), nil
}

func (s *Session) Document() *extract.Document { return s.doc }

func (s *Session) Pages() []LabeledPage {
	return append([]LabeledPage(nil), s.labeled...)
}

func (s *Session) Page(label string) (LabeledPage, bool) {
	i, ok := s.index[label]
	if !ok {
		return LabeledPage{}, false
	}
	return s.labeled[i], true
}

func (s *Session) Select(label string) error {
	if _, ok := s.index[label]; !ok {
		return fmt.Errorf("%w: %s", ErrPageNotFound, label)
	}
	s.selected = label
	return nil
}

func (s *Session) Selected() (LabeledPage, bool) {
	if s.selected == "" {
		return LabeledPage{}, false
	}
	return s.Page(s.selected)
}

// Ask answers a question about the selected page and appends the turn to the
// history. Chat failures are part of the answer, not the error.
func (s *Session) Ask(ctx context.Context, question string) (ChatTurn, error) {
	page, ok := s.Selected()
	if !ok {
		return ChatTurn{}, ErrNoPageSelected
	}
	turn := ChatTurn{
		Question: question,
		Answer:   s.answerer.Ask(ctx, page.FullContent, question, s.Model),
	}
	s.history = append(s.history, turn)
	s.logger.Debug().Str("session", s.ID).Str("page", page.Original.Label).Int("turns", len(s.history)).Msg("question answered")
	return turn, nil
}

func (s *Session) History() []ChatTurn {
	return append([]ChatTurn(nil), s.history...)
}
