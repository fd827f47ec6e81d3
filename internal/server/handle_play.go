package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/flashcardquiz/internal/flashquiz"
)

type ActivateResponse struct {
	Changed bool         `json:"changed"`
	State   SessionState `json:"state"`
}

type AnswerRequest struct {
	AnswerID string `json:"answerId"`
}

type AnswerResponse struct {
	IsCorrect bool         `json:"isCorrect"`
	State     SessionState `json:"state"`
}

func handleStart(in *intents) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, ok := in.apply(w, r, func(s *flashquiz.Session) error {
			return s.StartGame()
		})
		if ok {
			writeJSON(w, http.StatusOK, st)
		}
	}
}

// handleActivate selects a card for quizzing. Clicking a revealed card is
// not an error; the response reports changed=false.
func handleActivate(in *intents) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "card index must be an integer")
			return
		}
		var changed bool
		st, ok := in.apply(w, r, func(s *flashquiz.Session) error {
			var err error
			changed, err = s.ActivateCard(index)
			return err
		})
		if ok {
			writeJSON(w, http.StatusOK, ActivateResponse{Changed: changed, State: st})
		}
	}
}

func handleDeactivate(in *intents) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, ok := in.apply(w, r, func(s *flashquiz.Session) error {
			s.DeactivateCard()
			return nil
		})
		if ok {
			writeJSON(w, http.StatusOK, st)
		}
	}
}

// handleAnswer checks a multiple-choice answer. A wrong answer leaves the
// session untouched; the caller shows it as a transient hint.
func handleAnswer(in *intents) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AnswerRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.AnswerID = strings.TrimSpace(req.AnswerID)
		if req.AnswerID == "" {
			writeError(w, http.StatusBadRequest, "answerId is required")
			return
		}

		var correct bool
		st, ok := in.apply(w, r, func(s *flashquiz.Session) error {
			card, ok := s.ActiveCard()
			if !ok {
				return flashquiz.ErrNoActiveCard
			}
			mc, ok := card.Quiz.(*flashquiz.MultipleChoice)
			if !ok {
				return flashquiz.ErrNotMultipleChoice
			}
			isCorrect, found := mc.Check(req.AnswerID)
			if !found {
				return errUnknownAnswer
			}
			correct = isCorrect
			if !correct {
				return nil
			}
			return s.MarkAnswerCorrect()
		})
		if ok {
			writeJSON(w, http.StatusOK, AnswerResponse{IsCorrect: correct, State: st})
		}
	}
}

// handleReveal uncovers the active card once it may advance: always for
// media quizzes, after a correct answer for multiple-choice ones.
func handleReveal(in *intents) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, ok := in.apply(w, r, func(s *flashquiz.Session) error {
			if _, active := s.ActiveIndex(); !active {
				return flashquiz.ErrNoActiveCard
			}
			if !s.CanAdvance() {
				return errAnswerFirst
			}
			return s.RevealActiveCard()
		})
		if ok {
			writeJSON(w, http.StatusOK, st)
		}
	}
}

func handleReset(in *intents) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, ok := in.apply(w, r, func(s *flashquiz.Session) error {
			s.Reset()
			return nil
		})
		if ok {
			writeJSON(w, http.StatusOK, st)
		}
	}
}
