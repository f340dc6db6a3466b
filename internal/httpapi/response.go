package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/nikolayk812/bookcart/internal/api"
)

// envelope mirrors the backend's response shape so UI code handles both the same way.
type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func (h *Handler) success(w http.ResponseWriter, status int, data any) {
	h.write(w, status, envelope{Status: api.StatusSuccess, Data: data})
}

// fail reports a client-side problem (4xx).
func (h *Handler) fail(w http.ResponseWriter, status int, message string) {
	h.write(w, status, envelope{Status: api.StatusFail, Message: message})
}

// serverError reports a server-side problem (5xx).
func (h *Handler) serverError(w http.ResponseWriter, status int, message string) {
	h.write(w, status, envelope{Status: api.StatusError, Message: message})
}

func (h *Handler) write(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error().Err(err).Msg("write response")
	}
}
