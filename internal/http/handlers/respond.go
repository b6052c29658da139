package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/smoothbar/studio-backend/internal/square"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeUpstreamError maps a Square client failure to a response. A missing
// access token is the merchant's problem to fix, so it gets a 401 with a
// clear message rather than a generic 502.
func writeUpstreamError(w http.ResponseWriter, err error) {
	if errors.Is(err, square.ErrNotConnected) {
		writeError(w, http.StatusUnauthorized, "No access token found. Please authorize first.")
		return
	}
	writeError(w, http.StatusBadGateway, "upstream request failed")
}
