// Package flashquiz defines the hidden-image flashcard game: its data model,
// grid geometry, setup validation and the play-session state machine.
// Nothing here performs I/O; callers own storage and transport.
package flashquiz

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

const (
	MinCards     = 2
	MaxCards     = 20
	DefaultCards = 6

	maxImageSources = 4
	maxVideoSources = 1
)

type QuizKind string

const (
	KindMultipleChoice QuizKind = "multiple-choice"
	KindMedia          QuizKind = "media"
)

type MediaKind string

const (
	MediaVideo  MediaKind = "video"
	MediaImages MediaKind = "images"
)

type Answer struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// Quiz is either *MultipleChoice or *Media. The set is closed: every
// consumer switches over both and panics on anything else.
type Quiz interface {
	Kind() QuizKind
	Prompt() string
	isQuiz()
}

type MultipleChoice struct {
	Question string
	Answers  []Answer
}

func (*MultipleChoice) Kind() QuizKind   { return KindMultipleChoice }
func (q *MultipleChoice) Prompt() string { return q.Question }
func (*MultipleChoice) isQuiz()          {}

// Check reports whether answerID names the correct answer. found is false
// when no answer has that id.
func (q *MultipleChoice) Check(answerID string) (correct, found bool) {
	for _, a := range q.Answers {
		if a.ID == answerID {
			return a.IsCorrect, true
		}
	}
	return false, false
}

type Media struct {
	Question  string
	MediaKind MediaKind
	Sources   []string
}

func (*Media) Kind() QuizKind   { return KindMedia }
func (q *Media) Prompt() string { return q.Question }
func (*Media) isQuiz()          {}

// MaxSources is the number of sources the media kind accepts.
func (q *Media) MaxSources() int {
	if q.MediaKind == MediaVideo {
		return maxVideoSources
	}
	return maxImageSources
}

type Card struct {
	ID    string
	Index int
	Quiz  Quiz
}

type GameConfig struct {
	ImageSource string `json:"imageSource"`
	CardCount   int    `json:"cardCount"`
	Cards       []Card `json:"cards"`
}

// CardAt returns the card whose Index is i.
func (c *GameConfig) CardAt(i int) (Card, bool) {
	for _, card := range c.Cards {
		if card.Index == i {
			return card, true
		}
	}
	return Card{}, false
}

// NewID returns a process-unique identifier for cards, answers and sessions.
func NewID() string {
	return uuid.NewString()
}

// NewGameConfig lays the drafts out as cards in draft order.
func NewGameConfig(imageSource string, drafts []Quiz) GameConfig {
	cards := make([]Card, len(drafts))
	for i, q := range drafts {
		cards[i] = Card{ID: NewID(), Index: i, Quiz: q}
	}
	return GameConfig{
		ImageSource: imageSource,
		CardCount:   len(cards),
		Cards:       cards,
	}
}

// DefaultQuiz is the blank draft offered for a new card: four empty
// answers with the first one marked correct.
func DefaultQuiz() Quiz {
	answers := make([]Answer, 4)
	for i := range answers {
		answers[i] = Answer{ID: NewID(), IsCorrect: i == 0}
	}
	return &MultipleChoice{Answers: answers}
}

// ResizeDrafts keeps the first n drafts and pads with DefaultQuiz.
func ResizeDrafts(drafts []Quiz, n int) []Quiz {
	if n < 0 {
		n = 0
	}
	if n <= len(drafts) {
		return drafts[:n:n]
	}
	out := make([]Quiz, n)
	copy(out, drafts)
	for i := len(drafts); i < n; i++ {
		out[i] = DefaultQuiz()
	}
	return out
}

// QuizDoc is the tagged wire form of a Quiz.
type QuizDoc struct {
	Type         QuizKind  `json:"type"`
	Question     string    `json:"question"`
	Answers      []Answer  `json:"answers,omitempty"`
	MediaType    MediaKind `json:"mediaType,omitempty"`
	MediaSources []string  `json:"mediaSources,omitempty"`
}

func (d QuizDoc) Quiz() (Quiz, error) {
	switch d.Type {
	case KindMultipleChoice:
		return &MultipleChoice{Question: d.Question, Answers: d.Answers}, nil
	case KindMedia:
		return &Media{Question: d.Question, MediaKind: d.MediaType, Sources: d.MediaSources}, nil
	default:
		return nil, fmt.Errorf("unknown quiz type %q", d.Type)
	}
}

func DocOf(q Quiz) QuizDoc {
	switch q := q.(type) {
	case *MultipleChoice:
		return QuizDoc{Type: KindMultipleChoice, Question: q.Question, Answers: q.Answers}
	case *Media:
		return QuizDoc{Type: KindMedia, Question: q.Question, MediaType: q.MediaKind, MediaSources: q.Sources}
	default:
		panic(fmt.Sprintf("flashquiz: unhandled quiz %T", q))
	}
}

// QuizzesFromDocs converts wire drafts, failing on the first unknown type.
func QuizzesFromDocs(docs []QuizDoc) ([]Quiz, error) {
	out := make([]Quiz, len(docs))
	for i, d := range docs {
		q, err := d.Quiz()
		if err != nil {
			return nil, fmt.Errorf("card %d: %w", i+1, err)
		}
		out[i] = q
	}
	return out, nil
}

type cardDoc struct {
	ID    string  `json:"id"`
	Index int     `json:"index"`
	Quiz  QuizDoc `json:"quiz"`
}

func (c Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(cardDoc{ID: c.ID, Index: c.Index, Quiz: DocOf(c.Quiz)})
}

func (c *Card) UnmarshalJSON(data []byte) error {
	var doc cardDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	q, err := doc.Quiz.Quiz()
	if err != nil {
		return err
	}
	*c = Card{ID: doc.ID, Index: doc.Index, Quiz: q}
	return nil
}
