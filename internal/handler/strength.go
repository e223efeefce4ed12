package handler

import (
	"net/http"

	"github.com/vaultpass/pwgen/internal/strength"
)

type strengthRequest struct {
	Secret string `json:"secret"`
}

// StrengthResponse carries a rating. Rated is false for an empty secret.
type StrengthResponse struct {
	strength.Rating
	Rated bool `json:"rated"`
}

// HandleStrength handles POST /api/v1/strength requests.
func HandleStrength(w http.ResponseWriter, r *http.Request) {
	var req strengthRequest
	if !decodeBody(w, r, &req) {
		return
	}
	rating, ok := strength.Rate(req.Secret)
	writeJSON(w, http.StatusOK, StrengthResponse{Rating: rating, Rated: ok})
}

// HandleHealth handles GET /health requests.
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
