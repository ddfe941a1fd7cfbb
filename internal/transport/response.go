package transport

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/SARVESHVARADKAR123/postbox/internal/observability"
)

// MessageResponse is the acknowledgement body for handled client outcomes.
type MessageResponse struct {
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		observability.Log.Error("failed to encode response", zap.Error(err))
	}
}

// WriteMessage replies 200 with {"message": msg}.
func WriteMessage(w http.ResponseWriter, msg string) {
	WriteJSON(w, http.StatusOK, MessageResponse{Message: msg})
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, map[string]string{
		"error":   code,
		"message": message,
	})
}
