package server

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"

	"github.com/playperu/flashcardquiz/internal/flashquiz"
)

type CreateSessionResponse struct {
	ID    string       `json:"id"`
	Token string       `json:"token"`
	State SessionState `json:"state"`
}

func newToken() string {
	b := make([]byte, 24)
	rand.Read(b)
	return hex.EncodeToString(b)
}

func handleCreateSession(logger *slog.Logger, store Store, hasher TokenHasher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := flashquiz.NewID()
		token := newToken()

		hash, err := hasher.Hash(token)
		if err != nil {
			logger.Error("hashing session token", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		rec, err := store.CreateSession(r.Context(), id, hash)
		if err != nil {
			logger.Error("creating session", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		st, err := stateFromSnapshot(id, rec.Snapshot)
		if err != nil {
			logger.Error("restoring session", "session_id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		logger.Info("session created", "session_id", id)
		writeJSON(w, http.StatusCreated, CreateSessionResponse{ID: id, Token: token, State: st})
	}
}
