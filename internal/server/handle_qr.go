package server

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"
)

const qrSize = 256

// playURL builds the link a second device opens to join the play screen.
// publicURL wins over the request's own scheme and host.
func playURL(r *http.Request, publicURL, id, token string) string {
	base := strings.TrimSuffix(publicURL, "/")
	if base == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0]))
		}
		base = scheme + "://" + r.Host
	}
	return base + "/play/" + url.PathEscape(id) + "?token=" + url.QueryEscape(token)
}

func handleQR(publicURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := sessionFrom(r).ID
		token, _ := tokenFromRequest(r)

		png, err := qrcode.Encode(playURL(r, publicURL, id, token), qrcode.Medium, qrSize)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "qr generation failed")
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)
		w.Write(png)
	}
}
