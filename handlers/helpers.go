package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"clementus360/intent-tracker/types"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, types.ErrorResponse{
		Success: false,
		Error:   message,
	})
}

// queryLimit reads an optional ?limit= parameter. Zero means no limit.
func queryLimit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}
