package handlers

import (
	"net/http"

	apierrors "github.com/pribylovaa/news-radar/internal/transport/http/errors"
)

func (h *Handlers) GetSettings(w http.ResponseWriter, r *http.Request) {
	st, err := h.Service.GetSettings(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, settingsFromModel(st))
}

// UpdateSettings применяет частичное обновление и возвращает действующие настройки.
func (h *Handlers) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsUpdate
	if err := decodeStrict(r, &req); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	st, err := h.Service.UpdateSettings(r.Context(), req.ToModel())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, settingsFromModel(st))
}
