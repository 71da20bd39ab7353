package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/pribylovaa/news-radar/internal/transport/http/errors"
)

func (h *Handlers) ListSources(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.ListSources(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	out := make([]Source, 0, len(items))
	for _, s := range items {
		out = append(out, sourceFromModel(s))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) SetSourceActive(w http.ResponseWriter, r *http.Request) {
	var req ToggleRequest
	if err := decodeStrict(r, &req); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	if req.Value == nil {
		apierrors.WriteError(w, r, invalidArgument("value is required"))
		return
	}

	if err := h.Service.SetSourceActive(r.Context(), chi.URLParam(r, "name"), *req.Value); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
