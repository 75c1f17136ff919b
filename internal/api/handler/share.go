package handler

import (
	"net/http"
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/mcoot/nightshift/internal/api/apierr"
	"github.com/mcoot/nightshift/internal/api/response"
)

// QRSize is the edge length in pixels of generated share codes
const QRSize = 320

// ShareHandler renders QR codes that point players at the game
type ShareHandler struct {
	publicURL string
}

// NewShareHandler creates a share handler. publicURL overrides the
// scheme and host taken from the request when set.
func NewShareHandler(publicURL string) *ShareHandler {
	return &ShareHandler{publicURL: strings.TrimSuffix(publicURL, "/")}
}

// QR handles GET /api/v1/share/qr?path=
func (h *ShareHandler) QR(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		path = "/"
	}
	if !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") {
		WriteError(w, NewInvalidRequestError("path must be an absolute path"))
		return
	}

	png, err := qrcode.Encode(h.baseURL(r)+path, qrcode.Medium, QRSize)
	if err != nil {
		WriteError(w, apierr.NewInternalError())
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=3600")
	response.Bytes(w, http.StatusOK, "image/png", png)
}

// baseURL derives scheme and host, respecting TLS and X-Forwarded-Proto
func (h *ShareHandler) baseURL(r *http.Request) string {
	if h.publicURL != "" {
		return h.publicURL
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host
}
