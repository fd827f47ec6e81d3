package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/playperu/flashcardquiz/internal/flashquiz"
)

var (
	errAnswerFirst   = errors.New("answer the quiz correctly before revealing the card")
	errUnknownAnswer = errors.New("unknown answer")
)

// intents applies Presentation Layer intents to stored sessions and fans
// committed transitions out to subscribers.
type intents struct {
	store  Store
	broker *Broker
	logger *slog.Logger
}

// apply runs fn on the caller's session and returns the resulting state.
// On failure the error response has already been written.
func (in *intents) apply(w http.ResponseWriter, r *http.Request, fn func(*flashquiz.Session) error) (SessionState, bool) {
	id := sessionFrom(r).ID

	var st SessionState
	_, changes, err := in.store.Update(r.Context(), id, func(s *flashquiz.Session) error {
		if err := fn(s); err != nil {
			return err
		}
		st = buildState(id, s)
		return nil
	})
	if err != nil {
		in.writeError(w, id, err)
		return st, false
	}

	for _, c := range changes {
		in.logger.Debug("session transition",
			"session_id", id,
			"op", c.Op,
			"phase", c.Phase,
			"revealed", c.Revealed,
		)
		in.broker.Publish(id, eventFromChange(c))
	}
	return st, true
}

func (in *intents) writeError(w http.ResponseWriter, id string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, flashquiz.ErrCardOutOfRange),
		errors.Is(err, errUnknownAnswer):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, flashquiz.ErrInvalidConfig):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, flashquiz.ErrNoConfig),
		errors.Is(err, flashquiz.ErrNoActiveCard),
		errors.Is(err, flashquiz.ErrNotMultipleChoice),
		errors.Is(err, errAnswerFirst):
		writeError(w, http.StatusConflict, err.Error())
	default:
		in.logger.Error("applying intent", "session_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
