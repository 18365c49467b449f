package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"audiolab/core/catalog"
)

func (h *APIHandler) CreateLabelHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UID         string `json:"uid"`
		Description string `json:"description"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	label, err := h.catalog.CreateLabel(r.Context(), req.UID, req.Description)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, label.AttributeMap())
}

func (h *APIHandler) GetLabelHandler(w http.ResponseWriter, r *http.Request) {
	label, err := h.catalog.GetLabel(r.Context(), mux.Vars(r)["uid"])
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, label.AttributeMap())
}

func (h *APIHandler) ListLabelsHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	labels, err := h.catalog.ListLabels(r.Context(), catalog.LabelListParams{
		CreatedFrom: query.Get("created_from"),
		CreatedTo:   query.Get("created_to"),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, attributeMaps(labels))
}

func (h *APIHandler) DeleteLabelHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteLabel(r.Context(), mux.Vars(r)["uid"]); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
