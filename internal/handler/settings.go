package handler

import (
	"log/slog"
	"net/http"

	"github.com/vaultpass/pwgen/internal/model"
	"github.com/vaultpass/pwgen/internal/service"
	"github.com/vaultpass/pwgen/internal/settings"
)

// SettingsResponse reports the effective settings and whether they are
// stored in the settings cookie.
type SettingsResponse struct {
	Settings model.Settings `json:"settings"`
	Saved    bool           `json:"saved"`
	Message  string         `json:"message,omitempty"`
}

type updateSettingsRequest struct {
	Settings *model.Settings `json:"settings"`
	Save     bool            `json:"save"`
}

// SettingsHandler reads and writes the settings cookie.
type SettingsHandler struct {
	codec *settings.Codec
	opts  settings.StoreOptions
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(codec *settings.Codec, opts settings.StoreOptions) *SettingsHandler {
	return &SettingsHandler{codec: codec, opts: opts}
}

func (h *SettingsHandler) manager(w http.ResponseWriter, r *http.Request) *settings.Manager {
	return settings.NewManager(h.codec, settings.NewCookieStore(w, r),
		settings.WithStoreOptions(h.opts),
		settings.WithLogger(slog.Default()),
	)
}

// HandleGet handles GET /api/v1/settings requests. A corrupt cookie is
// expired and the defaults are returned.
func (h *SettingsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	s, found := h.manager(w, r).Load(r.Context())
	writeJSON(w, http.StatusOK, SettingsResponse{Settings: s, Saved: found})
}

// HandlePut handles PUT /api/v1/settings requests. save=false expires the
// cookie instead of writing it.
func (h *SettingsHandler) HandlePut(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	s := model.DefaultSettings()
	if req.Settings != nil {
		s = *req.Settings
	}
	if err := validateSettings(s); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	mgr := h.manager(w, r)
	mgr.SetEnabled(req.Save)
	outcome, err := mgr.Persist(r.Context(), s)
	if err != nil {
		slog.Error("persisting settings failed", "outcome", outcome, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	resp := SettingsResponse{Settings: s, Saved: outcome == settings.Saved, Message: service.MsgSettingsCleared}
	if resp.Saved {
		resp.Message = service.MsgSettingsSaved
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleDelete handles DELETE /api/v1/settings requests.
func (h *SettingsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.manager(w, r).Clear(r.Context()); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
