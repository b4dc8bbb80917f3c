package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/reconlab/wba-recon/internal/api/dto"
)

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError writes an error response with the given status code.
func WriteError(w http.ResponseWriter, status int, err dto.APIError) {
	WriteJSON(w, status, err)
}

// FormInt parses an integer form value, falling back to a default.
func FormInt(r *http.Request, name string, defaultVal int) int {
	val := r.FormValue(name)
	if val == "" {
		return defaultVal
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return parsed
}

// FormFloat parses a float form value, falling back to a default.
func FormFloat(r *http.Request, name string, defaultVal float64) float64 {
	val := r.FormValue(name)
	if val == "" {
		return defaultVal
	}
	parsed, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return defaultVal
	}
	return parsed
}
