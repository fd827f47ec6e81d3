package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
	"github.com/swaggest/swgui/v5emb"

	"github.com/playperu/flashcardquiz/internal/flashquiz"
)

type HealthResponse map[string]struct {
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
}

type sessionPath struct {
	ID string `path:"id"`
}

type cardPath struct {
	ID    string `path:"id"`
	Index int    `path:"index"`
}

type cardsQuery struct {
	Cards int `query:"cards" minimum:"2" maximum:"20" default:"6"`
}

type tokenQuery struct {
	ID    string `path:"id"`
	Token string `query:"token"`
}

type setupBody struct {
	ID string `path:"id"`
	SetupRequest
}

type answerBody struct {
	ID string `path:"id"`
	AnswerRequest
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Hidden Image Quiz API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Setup and play API for the hidden-image flashcard quiz.")

	add := func(method, path, summary, description string, req any, resps ...func(openapi.OperationContext)) {
		op, _ := r.NewOperationContext(method, path)
		op.SetSummary(summary)
		op.SetDescription(description)
		if req != nil {
			op.AddReqStructure(req)
		}
		for _, resp := range resps {
			resp(op)
		}
		_ = r.AddOperation(op)
	}
	resp := func(v any, status int, opts ...openapi.ContentOption) func(openapi.OperationContext) {
		return func(op openapi.OperationContext) {
			op.AddRespStructure(v, append([]openapi.ContentOption{openapi.WithHTTPStatus(status)}, opts...)...)
		}
	}
	sessionErrors := []func(openapi.OperationContext){
		resp(ErrorResponse{}, http.StatusUnauthorized),
		resp(ErrorResponse{}, http.StatusNotFound),
	}
	withSession := func(extra ...func(openapi.OperationContext)) []func(openapi.OperationContext) {
		return append(append([]func(openapi.OperationContext){}, extra...), sessionErrors...)
	}

	add(http.MethodGet, "/healthz", "Health check",
		"Returns the health status of backend dependencies.", nil,
		resp(HealthResponse{}, http.StatusOK),
		resp(HealthResponse{}, http.StatusServiceUnavailable))

	add(http.MethodPost, "/api/validate", "Validate setup",
		"Checks an image source and per-card quiz drafts; lists every problem found.", SetupRequest{},
		resp(ValidationResponse{}, http.StatusOK),
		resp(ErrorResponse{}, http.StatusBadRequest))

	add(http.MethodGet, "/api/drafts", "Default drafts",
		"Returns blank quiz drafts for the given card count.", cardsQuery{},
		resp([]flashquiz.QuizDoc{}, http.StatusOK),
		resp(ErrorResponse{}, http.StatusBadRequest))

	add(http.MethodGet, "/api/grid", "Grid geometry",
		"Returns the grid and per-card background offsets for the given card count.", cardsQuery{},
		resp(GridResponse{}, http.StatusOK),
		resp(ErrorResponse{}, http.StatusBadRequest))

	add(http.MethodPost, "/api/sessions", "Create session",
		"Creates a session in the setup phase. The returned token authorizes every session call.", nil,
		resp(CreateSessionResponse{}, http.StatusCreated))

	add(http.MethodGet, "/api/sessions/{id}", "Session state",
		"Returns the render inputs for the session. Requires Bearer token.", sessionPath{},
		withSession(resp(SessionState{}, http.StatusOK))...)

	add(http.MethodPut, "/api/sessions/{id}/config", "Install config",
		"Validates the setup and installs it as the session's game config.", setupBody{},
		withSession(
			resp(SessionState{}, http.StatusOK),
			resp(ValidationResponse{}, http.StatusUnprocessableEntity),
			resp(ErrorResponse{}, http.StatusBadRequest),
		)...)

	add(http.MethodPost, "/api/sessions/{id}/start", "Start game",
		"Starts or restarts play, clearing all reveals.", sessionPath{},
		withSession(resp(SessionState{}, http.StatusOK), resp(ErrorResponse{}, http.StatusConflict))...)

	add(http.MethodPost, "/api/sessions/{id}/cards/{index}/activate", "Activate card",
		"Opens a card's quiz. Activating a revealed card is ignored and reports changed=false.", cardPath{},
		withSession(
			resp(ActivateResponse{}, http.StatusOK),
			resp(ErrorResponse{}, http.StatusBadRequest),
			resp(ErrorResponse{}, http.StatusConflict),
		)...)

	add(http.MethodPost, "/api/sessions/{id}/deactivate", "Deactivate card",
		"Closes the active card's quiz without revealing it.", sessionPath{},
		withSession(resp(SessionState{}, http.StatusOK))...)

	add(http.MethodPost, "/api/sessions/{id}/answer", "Submit answer",
		"Checks a multiple-choice answer for the active card. Wrong answers do not change the session.", answerBody{},
		withSession(
			resp(AnswerResponse{}, http.StatusOK),
			resp(ErrorResponse{}, http.StatusBadRequest),
			resp(ErrorResponse{}, http.StatusConflict),
		)...)

	add(http.MethodPost, "/api/sessions/{id}/reveal", "Reveal card",
		"Reveals the active card once it may advance.", sessionPath{},
		withSession(resp(SessionState{}, http.StatusOK), resp(ErrorResponse{}, http.StatusConflict))...)

	add(http.MethodPost, "/api/sessions/{id}/reset", "Reset session",
		"Drops the config and returns the session to setup.", sessionPath{},
		withSession(resp(SessionState{}, http.StatusOK))...)

	add(http.MethodGet, "/api/sessions/{id}/events", "SSE event stream",
		"Server-Sent Events for each committed transition. Pass token as query parameter.", tokenQuery{},
		withSession(resp(nil, http.StatusOK, openapi.WithContentType("text/event-stream")))...)

	add(http.MethodGet, "/api/sessions/{id}/stream", "WebSocket state stream",
		"Upgrades to a WebSocket that receives the full session state after each transition.", tokenQuery{},
		withSession(resp(nil, http.StatusSwitchingProtocols, openapi.WithContentType("text/plain")))...)

	add(http.MethodGet, "/api/sessions/{id}/qr.png", "Play link QR code",
		"PNG QR code of the play link for this session.", tokenQuery{},
		withSession(resp(nil, http.StatusOK, openapi.WithContentType("image/png")))...)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

func handleSwaggerUI() http.HandlerFunc {
	return v5emb.New("Hidden Image Quiz API", "/openapi.json", "/docs").ServeHTTP
}
