package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/playperu/flashcardquiz/internal/flashquiz"
)

// Image and media sources may arrive as data URLs.
const maxBodyBytes = 32 << 20

type SetupRequest struct {
	ImageSource string              `json:"imageSource"`
	Quizzes     []flashquiz.QuizDoc `json:"quizzes"`
}

type GridResponse struct {
	CardCount int                  `json:"cardCount"`
	Grid      flashquiz.Grid       `json:"grid"`
	Positions []flashquiz.Position `json:"positions"`
}

// checkSetup decodes the drafts and runs the editor shape rules and the
// completeness validator, returning every problem found.
func checkSetup(req SetupRequest) ([]flashquiz.Quiz, []string) {
	quizzes, err := flashquiz.QuizzesFromDocs(req.Quizzes)
	if err != nil {
		return nil, []string{err.Error()}
	}
	assignAnswerIDs(quizzes)
	errs := flashquiz.CheckShape(quizzes)
	errs = append(errs, flashquiz.Validate(req.ImageSource, quizzes)...)
	return quizzes, errs
}

func assignAnswerIDs(quizzes []flashquiz.Quiz) {
	for _, q := range quizzes {
		mc, ok := q.(*flashquiz.MultipleChoice)
		if !ok {
			continue
		}
		for i := range mc.Answers {
			if mc.Answers[i].ID == "" {
				mc.Answers[i].ID = flashquiz.NewID()
			}
		}
	}
}

func handleValidate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SetupRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		_, errs := checkSetup(req)
		if errs == nil {
			errs = []string{}
		}
		writeJSON(w, http.StatusOK, ValidationResponse{Valid: len(errs) == 0, Errors: errs})
	}
}

func handleInstallConfig(in *intents) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SetupRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		quizzes, errs := checkSetup(req)
		if len(errs) > 0 {
			writeValidation(w, errs)
			return
		}

		cfg := flashquiz.NewGameConfig(req.ImageSource, quizzes)
		st, ok := in.apply(w, r, func(s *flashquiz.Session) error {
			return s.InstallConfig(cfg)
		})
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

func cardCountParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("cards")
	if raw == "" {
		return flashquiz.DefaultCards, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < flashquiz.MinCards || n > flashquiz.MaxCards {
		return 0, fmt.Errorf("cards must be between %d and %d", flashquiz.MinCards, flashquiz.MaxCards)
	}
	return n, nil
}

func handleDrafts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := cardCountParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		drafts := flashquiz.ResizeDrafts(nil, n)
		docs := make([]flashquiz.QuizDoc, len(drafts))
		for i, q := range drafts {
			docs[i] = flashquiz.DocOf(q)
		}
		writeJSON(w, http.StatusOK, docs)
	}
}

func handleGrid() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := cardCountParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		g := flashquiz.GridFor(n)
		resp := GridResponse{CardCount: n, Grid: g, Positions: make([]flashquiz.Position, n)}
		for i := range resp.Positions {
			resp.Positions[i] = g.Position(i)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
