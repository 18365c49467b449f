package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"audiolab/core/catalog"
)

// CreateSeriesHandler opens a recording campaign. The parameters field
// is polymorphic: a preset uid, an inline object, or both.
func (h *APIHandler) CreateSeriesHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UID         string          `json:"uid"`
		Description string          `json:"description"`
		RecorderUID string          `json:"recorder_uid"`
		Parameters  json.RawMessage `json:"parameters"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	spec, err := parseParametersSpec(req.Parameters)
	if err != nil {
		respondError(w, r, err)
		return
	}

	series, err := h.catalog.CreateSeries(r.Context(), req.UID, req.Description, req.RecorderUID, spec)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, series.AttributeMap())
}

func (h *APIHandler) GetSeriesHandler(w http.ResponseWriter, r *http.Request) {
	series, err := h.catalog.GetSeries(r.Context(), mux.Vars(r)["uid"])
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, series.AttributeMap())
}

func (h *APIHandler) ListSeriesHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	serieses, err := h.catalog.ListSeries(r.Context(), catalog.SeriesListParams{
		RecorderUIDs:   query["recorder_uid"],
		ParametersUIDs: query["parameters_uid"],
		CreatedFrom:    query.Get("created_from"),
		CreatedTo:      query.Get("created_to"),
		Samplerate:     query["samplerate"],
		Channels:       query["channels"],
		Duration:       query["duration"],
		Amplification:  query["amplification"],
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, attributeMaps(serieses))
}

func (h *APIHandler) UpdateSeriesHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Description *string         `json:"description"`
		RecorderUID *string         `json:"recorder_uid"`
		Parameters  json.RawMessage `json:"parameters"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	spec, err := parseParametersSpec(req.Parameters)
	if err != nil {
		respondError(w, r, err)
		return
	}

	series, err := h.catalog.UpdateSeries(r.Context(), mux.Vars(r)["uid"], catalog.SeriesUpdate{
		Description: req.Description,
		RecorderUID: req.RecorderUID,
		Parameters:  spec,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, series.AttributeMap())
}

func (h *APIHandler) DeleteSeriesHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteSeries(r.Context(), mux.Vars(r)["uid"]); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (h *APIHandler) GetSeriesParametersHandler(w http.ResponseWriter, r *http.Request) {
	parameters, err := h.catalog.GetSeriesParameters(r.Context(), mux.Vars(r)["uid"])
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, parameters.AttributeMap())
}

// UpdateSeriesParametersHandler swaps the series' preset through the
// same resolution protocol as series creation. The whole body is the
// parameters value.
func (h *APIHandler) UpdateSeriesParametersHandler(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if err := decodeBody(r, &raw); err != nil {
		respondError(w, r, err)
		return
	}

	spec, err := parseParametersSpec(raw)
	if err != nil {
		respondError(w, r, err)
		return
	}

	parameters, err := h.catalog.UpdateSeriesParameters(r.Context(), mux.Vars(r)["uid"], spec)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, parameters.AttributeMap())
}
