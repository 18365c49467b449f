package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"audiolab/core/catalog"
)

// CreateParametersHandler registers a standalone preset. An existing
// preset with identical settings is returned instead of creating a
// duplicate.
func (h *APIHandler) CreateParametersHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UID           string   `json:"uid"`
		Samplerate    *int     `json:"samplerate"`
		Channels      *int     `json:"channels"`
		Duration      *float64 `json:"duration"`
		Amplification *float64 `json:"amplification"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	parameters, err := h.catalog.CreateParameters(r.Context(), req.UID, &catalog.ParametersFields{
		Samplerate:    req.Samplerate,
		Channels:      req.Channels,
		Duration:      req.Duration,
		Amplification: req.Amplification,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, parameters.AttributeMap())
}

func (h *APIHandler) GetParametersHandler(w http.ResponseWriter, r *http.Request) {
	parameters, err := h.catalog.GetParameters(r.Context(), mux.Vars(r)["uid"])
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, parameters.AttributeMap())
}

func (h *APIHandler) ListParametersHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	presets, err := h.catalog.ListParameters(r.Context(), catalog.ParametersListParams{
		CreatedFrom:   query.Get("created_from"),
		CreatedTo:     query.Get("created_to"),
		Samplerate:    query["samplerate"],
		Channels:      query["channels"],
		Duration:      query["duration"],
		Amplification: query["amplification"],
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, attributeMaps(presets))
}

func (h *APIHandler) DeleteParametersHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteParameters(r.Context(), mux.Vars(r)["uid"]); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
