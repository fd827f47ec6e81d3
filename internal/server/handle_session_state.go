package server

import (
	"log/slog"
	"net/http"

	"github.com/playperu/flashcardquiz/internal/flashquiz"
)

type CardView struct {
	Index    int     `json:"index"`
	ID       string  `json:"id"`
	Col      int     `json:"col"`
	Row      int     `json:"row"`
	PercentX float64 `json:"percentX"`
	PercentY float64 `json:"percentY"`
	Revealed bool    `json:"revealed"`
	Active   bool    `json:"active"`
}

type AnswerView struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// QuizView is the active card's quiz without answer correctness.
type QuizView struct {
	Type         flashquiz.QuizKind  `json:"type"`
	Question     string              `json:"question"`
	Answers      []AnswerView        `json:"answers,omitempty"`
	MediaType    flashquiz.MediaKind `json:"mediaType,omitempty"`
	MediaSources []string            `json:"mediaSources,omitempty"`
}

type SessionState struct {
	ID              string          `json:"id"`
	Phase           flashquiz.Phase `json:"phase"`
	ImageSource     string          `json:"imageSource,omitempty"`
	CardCount       int             `json:"cardCount"`
	Grid            flashquiz.Grid  `json:"grid"`
	Cards           []CardView      `json:"cards"`
	RevealedCards   []int           `json:"revealedCards"`
	ActiveCardIndex *int            `json:"activeCardIndex"`
	ActiveQuiz      *QuizView       `json:"activeQuiz,omitempty"`
	CorrectAnswered bool            `json:"correctAnswered"`
	CanAdvance      bool            `json:"canAdvance"`
	Progress        int             `json:"progress"`
	Complete        bool            `json:"complete"`
}

func quizView(q flashquiz.Quiz) *QuizView {
	switch q := q.(type) {
	case *flashquiz.MultipleChoice:
		answers := make([]AnswerView, len(q.Answers))
		for i, a := range q.Answers {
			answers[i] = AnswerView{ID: a.ID, Text: a.Text}
		}
		return &QuizView{Type: flashquiz.KindMultipleChoice, Question: q.Question, Answers: answers}
	case *flashquiz.Media:
		return &QuizView{Type: flashquiz.KindMedia, Question: q.Question, MediaType: q.MediaKind, MediaSources: q.Sources}
	default:
		panic("server: unhandled quiz type")
	}
}

// buildState derives the render inputs for a session.
func buildState(id string, sess *flashquiz.Session) SessionState {
	snap := sess.Snapshot()
	st := SessionState{
		ID:              id,
		Phase:           snap.Phase,
		Cards:           []CardView{},
		RevealedCards:   snap.RevealedCards,
		ActiveCardIndex: snap.ActiveCardIndex,
		CorrectAnswered: snap.CorrectAnswered,
		CanAdvance:      sess.CanAdvance(),
		Progress:        sess.Progress(),
		Complete:        sess.Complete(),
	}
	cfg, ok := sess.Config()
	if !ok {
		return st
	}
	st.ImageSource = cfg.ImageSource
	st.CardCount = cfg.CardCount
	st.Grid = sess.Grid()

	active, hasActive := sess.ActiveIndex()
	for i := 0; i < cfg.CardCount; i++ {
		card, _ := cfg.CardAt(i)
		pos := st.Grid.Position(i)
		st.Cards = append(st.Cards, CardView{
			Index:    i,
			ID:       card.ID,
			Col:      pos.Col,
			Row:      pos.Row,
			PercentX: pos.PercentX,
			PercentY: pos.PercentY,
			Revealed: sess.IsRevealed(i),
			Active:   hasActive && active == i,
		})
	}
	if card, ok := sess.ActiveCard(); ok {
		st.ActiveQuiz = quizView(card.Quiz)
	}
	return st
}

func stateFromSnapshot(id string, snap flashquiz.Snapshot) (SessionState, error) {
	sess, err := flashquiz.Restore(snap)
	if err != nil {
		return SessionState{}, err
	}
	return buildState(id, sess), nil
}

func handleSessionState(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := sessionFrom(r)
		st, err := stateFromSnapshot(rec.ID, rec.Snapshot)
		if err != nil {
			logger.Error("restoring session", "session_id", rec.ID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}
