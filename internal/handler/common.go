package handler

import (
	"encoding/json"
	"net/http"
	"strings"
)

type ErrorResponse struct {
	BaseResponse
	Error   string    `json:"error"`
	Details *[]string `json:"details,omitempty"`
	Code    *string   `json:"error_code,omitempty"`
}

type BaseResponse struct {
	Ok bool `json:"ok"`
}

// Line is one numbered line of generated output
type Line struct {
	Index int    `json:"index"`
	Line  string `json:"line"`
}

// numberLines splits output into 1-based numbered lines
func numberLines(output string) []Line {
	if output == "" {
		return nil
	}
	parts := strings.Split(strings.TrimSuffix(output, "\n"), "\n")
	lines := make([]Line, len(parts))
	for i, p := range parts {
		lines[i] = Line{Index: i + 1, Line: p}
	}
	return lines
}

// respondWithError sends an error response with a message
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{Error: message})
}

// respondWithCode sends an error response carrying a machine readable code
func respondWithCode(w http.ResponseWriter, code int, errCode, message string) {
	respondWithJSON(w, code, ErrorResponse{Error: message, Code: &errCode})
}

// respondWithJSON sends a JSON response
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}
