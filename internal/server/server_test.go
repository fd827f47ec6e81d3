package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/playperu/flashcardquiz/internal/database"
	"github.com/playperu/flashcardquiz/internal/flashquiz"
	"github.com/playperu/flashcardquiz/internal/handler/health"
	"github.com/playperu/flashcardquiz/internal/migrations"
)

func setupTestStore(t *testing.T) *DocStore {
	t.Helper()
	db, err := database.Open(context.Background(), database.MemoryPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := migrations.Run(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewDocStore(db)
}

func testHandler(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(logger, Deps{
		Store:     setupTestStore(t),
		Hasher:    TokenHasher{Cost: bcrypt.MinCost},
		Checks:    map[string]health.Checker{},
		PublicURL: "https://quiz.example.com",
	})
}

// do sends a request with an optional JSON body and bearer token.
func do(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d: %s", w.Code, want, w.Body.String())
	}
}

func createSession(t *testing.T, h http.Handler) CreateSessionResponse {
	t.Helper()
	w := do(t, h, http.MethodPost, "/api/sessions", "", nil)
	expectStatus(t, w, http.StatusCreated)
	return decode[CreateSessionResponse](t, w)
}

func mcDoc(question string) flashquiz.QuizDoc {
	return flashquiz.QuizDoc{
		Type:     flashquiz.KindMultipleChoice,
		Question: question,
		Answers: []flashquiz.Answer{
			{ID: "right", Text: "Yes", IsCorrect: true},
			{ID: "wrong", Text: "No"},
		},
	}
}

func mediaDoc(question string) flashquiz.QuizDoc {
	return flashquiz.QuizDoc{
		Type:         flashquiz.KindMedia,
		Question:     question,
		MediaType:    flashquiz.MediaImages,
		MediaSources: []string{"https://example.com/a.png"},
	}
}

// sixCardSetup alternates multiple-choice and media cards.
func sixCardSetup() SetupRequest {
	req := SetupRequest{ImageSource: "https://example.com/hidden.png"}
	for i := 0; i < 6; i++ {
		if i%2 == 0 {
			req.Quizzes = append(req.Quizzes, mcDoc("Is this card even?"))
		} else {
			req.Quizzes = append(req.Quizzes, mediaDoc("Look at this"))
		}
	}
	return req
}

// playingSession returns a session with the six-card setup installed and
// the game started.
func playingSession(t *testing.T, h http.Handler) CreateSessionResponse {
	t.Helper()
	s := createSession(t, h)
	expectStatus(t, do(t, h, http.MethodPut, "/api/sessions/"+s.ID+"/config", s.Token, sixCardSetup()), http.StatusOK)
	expectStatus(t, do(t, h, http.MethodPost, "/api/sessions/"+s.ID+"/start", s.Token, nil), http.StatusOK)
	return s
}
