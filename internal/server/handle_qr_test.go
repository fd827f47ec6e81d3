package server

import (
	"bytes"
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPlayURL(t *testing.T) {
	tests := []struct {
		name      string
		publicURL string
		setup     func(r *http.Request)
		want      string
	}{
		{
			name:      "public url wins",
			publicURL: "https://quiz.example.com/",
			want:      "https://quiz.example.com/play/abc?token=t%2B1",
		},
		{
			name: "request host",
			want: "http://example.com/play/abc?token=t%2B1",
		},
		{
			name:  "tls",
			setup: func(r *http.Request) { r.TLS = &tls.ConnectionState{} },
			want:  "https://example.com/play/abc?token=t%2B1",
		},
		{
			name:  "forwarded proto",
			setup: func(r *http.Request) { r.Header.Set("X-Forwarded-Proto", "HTTPS, http") },
			want:  "https://example.com/play/abc?token=t%2B1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.setup != nil {
				tt.setup(r)
			}
			if got := playURL(r, tt.publicURL, "abc", "t+1"); got != tt.want {
				t.Errorf("playURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestQRCode(t *testing.T) {
	h := testHandler(t)
	s := createSession(t, h)

	w := do(t, h, http.MethodGet, "/api/sessions/"+s.ID+"/qr.png", s.Token, nil)
	expectStatus(t, w, http.StatusOK)
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content-type = %q, want image/png", ct)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")) {
		t.Error("body is not a PNG")
	}

	expectStatus(t, do(t, h, http.MethodGet, "/api/sessions/"+s.ID+"/qr.png", "", nil), http.StatusUnauthorized)
}
