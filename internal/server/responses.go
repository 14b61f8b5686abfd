package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// envelope is the uniform response shape of every JSON endpoint.
type envelope struct {
	Success bool        `json:"success"`
	Count   *int        `json:"count,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func (s *Server) respondData(w http.ResponseWriter, status int, data interface{}, message string) {
	writeJSON(w, status, envelope{Success: true, Data: data, Message: message})
}

func (s *Server) respondList(w http.ResponseWriter, entries interface{}, count int) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Count: &count, Data: entries})
}

func (s *Server) respondMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: true, Message: message})
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Message: message})
}

func (s *Server) respondStorageError(w http.ResponseWriter, r *http.Request, action string, err error) {
	s.logger.Error("storage failure",
		zap.String("action", action),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, envelope{
		Success: false,
		Message: "Failed to " + action + ".",
		Error:   err.Error(),
	})
}
