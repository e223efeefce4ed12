package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"

	"github.com/vaultpass/pwgen/internal/generator"
	"github.com/vaultpass/pwgen/internal/model"
	"github.com/vaultpass/pwgen/internal/service"
	"github.com/vaultpass/pwgen/internal/strength"
)

const maxBodyBytes = 1 << 20 // 1MB

var ErrInvalidSettings = errors.New("invalid settings")

// GenerateResponse mirrors the generation service reply with ratings added.
type GenerateResponse struct {
	Password  *string           `json:"password,omitempty"`
	Passwords []string          `json:"passwords,omitempty"`
	Strength  *strength.Rating  `json:"strength,omitempty"`
	Strengths []strength.Rating `json:"strengths,omitempty"`
}

// GeneratorHandler forwards generation requests to the remote service.
type GeneratorHandler struct {
	client service.GenerationClient
}

// NewGeneratorHandler creates a new GeneratorHandler.
func NewGeneratorHandler(client service.GenerationClient) *GeneratorHandler {
	return &GeneratorHandler{client: client}
}

// HandleGenerate handles POST /api/v1/generate requests. The body is a
// settings object; missing fields keep their defaults.
func (h *GeneratorHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	s := model.DefaultSettings()
	if !decodeBody(w, r, &s) {
		return
	}
	if err := validateSettings(s); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	req := model.NewGenerateRequest(s)
	resp, err := h.client.Generate(r.Context(), req)
	if err != nil {
		slog.Error("upstream generation failed", "type", req.Kind, "error", err)
		switch {
		case errors.Is(err, generator.ErrResponse), errors.Is(err, generator.ErrParse):
			writeJSON(w, http.StatusBadGateway, errorResponse("generation service error"))
		case errors.Is(err, generator.ErrTransport):
			writeJSON(w, http.StatusServiceUnavailable, errorResponse("generation service unavailable"))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusOK, withRatings(resp))
}

func withRatings(resp model.GenerateResponse) GenerateResponse {
	out := GenerateResponse{Password: resp.Password, Passwords: resp.Passwords}
	if resp.Multi() {
		out.Strengths = make([]strength.Rating, 0, len(resp.Passwords))
		for _, p := range resp.Passwords {
			rating, _ := strength.Rate(p)
			out.Strengths = append(out.Strengths, rating)
		}
		return out
	}
	if rating, ok := strength.Rate(resp.Single()); ok {
		out.Strength = &rating
	}
	return out
}

func validateSettings(s model.Settings) error {
	switch {
	case s.Length <= 0:
		return fmt.Errorf("%w: length must be positive", ErrInvalidSettings)
	case s.WordCount <= 0:
		return fmt.Errorf("%w: word count must be positive", ErrInvalidSettings)
	case s.MaxWordLength <= 0:
		return fmt.Errorf("%w: max word length must be positive", ErrInvalidSettings)
	case !slices.Contains(model.Separators, s.Separator):
		return fmt.Errorf("%w: unknown separator %q", ErrInvalidSettings, s.Separator)
	case !slices.Contains(model.Languages, s.Language):
		return fmt.Errorf("%w: unknown language %q", ErrInvalidSettings, s.Language)
	}
	return nil
}

// decodeBody reads a JSON body into v, writing the error response itself
// when decoding fails.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse("request body too large"))
			return false
		}
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func errorResponse(msg string) map[string]string {
	return map[string]string{"error": msg}
}
