package httpx

import (
	"encoding/json"
	"net/http"
)

// Response is the uniform JSON envelope for every API outcome. Handlers
// attach payload fields via Data; failures carry only a message so error
// responses never leak internal detail.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
// It sets Content-Type and no-store cache headers; token-bearing responses
// must never be cached by intermediaries.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteSuccess writes a success envelope with optional payload.
func WriteSuccess(w http.ResponseWriter, code int, data any) {
	WriteJSON(w, code, Response{Success: true, Data: data})
}

// WriteError writes a failure envelope with a caller-safe message.
func WriteError(w http.ResponseWriter, code int, message string) {
	WriteJSON(w, code, Response{Success: false, Message: message})
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}
