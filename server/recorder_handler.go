package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"audiolab/core/catalog"
)

// CreateRecorderHandler registers a recorder. The response carries a
// freshly minted recorder key alongside the recorder attributes.
func (h *APIHandler) CreateRecorderHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UID                 string `json:"uid"`
		LocationDescription string `json:"location_description"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	recorder, key, err := h.catalog.CreateRecorder(r.Context(), req.UID, req.LocationDescription)
	if err != nil {
		respondError(w, r, err)
		return
	}

	resp := recorder.AttributeMap()
	resp["recorder_key"] = key
	respondJSON(w, http.StatusCreated, resp)
}

func (h *APIHandler) GetRecorderHandler(w http.ResponseWriter, r *http.Request) {
	recorder, err := h.catalog.GetRecorder(r.Context(), mux.Vars(r)["uid"])
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, recorder.AttributeMap())
}

func (h *APIHandler) ListRecordersHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	recorders, err := h.catalog.ListRecorders(r.Context(), catalog.RecorderListParams{
		SeriesUIDs:  query["series_uid"],
		CreatedFrom: query.Get("created_from"),
		CreatedTo:   query.Get("created_to"),
		Busy:        query.Get("busy"),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, attributeMaps(recorders))
}

func (h *APIHandler) UpdateRecorderHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		LocationDescription string `json:"location_description"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	recorder, err := h.catalog.UpdateRecorder(r.Context(), mux.Vars(r)["uid"], req.LocationDescription)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, recorder.AttributeMap())
}

func (h *APIHandler) DeleteRecorderHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteRecorder(r.Context(), mux.Vars(r)["uid"]); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// GetCurrentSeriesHandler returns the recorder's open campaign, 404
// when none is set.
func (h *APIHandler) GetCurrentSeriesHandler(w http.ResponseWriter, r *http.Request) {
	series, err := h.catalog.GetCurrentSeries(r.Context(), mux.Vars(r)["uid"])
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, series.AttributeMap())
}

// SetCurrentSeriesHandler opens or closes the recorder's campaign.
// With a series_uid query parameter it sets; without one it unsets.
func (h *APIHandler) SetCurrentSeriesHandler(w http.ResponseWriter, r *http.Request) {
	recorderUID := mux.Vars(r)["uid"]
	seriesUID := r.URL.Query().Get("series_uid")

	if seriesUID == "" {
		if err := h.catalog.UnsetCurrentSeries(r.Context(), recorderUID); err != nil {
			respondError(w, r, err)
			return
		}
		respondJSON(w, http.StatusNoContent, nil)
		return
	}

	series, err := h.catalog.SetCurrentSeries(r.Context(), recorderUID, seriesUID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, series.AttributeMap())
}
