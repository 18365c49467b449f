package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"audiolab/apperr"
	"audiolab/core/catalog"
	"audiolab/logger"
)

// CreateRecordHandler registers a capture on behalf of the device that
// authenticated the request.
func (h *APIHandler) CreateRecordHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UID       string          `json:"uid"`
		SeriesUID string          `json:"series_uid"`
		StartTime json.RawMessage `json:"start_time"`
		LabelUID  *string         `json:"label_uid"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if len(req.StartTime) == 0 {
		respondError(w, r, apperr.New(apperr.Consistency, "start_time required"))
		return
	}

	startTime, err := parseTimestamp(req.StartTime)
	if err != nil {
		respondError(w, r, err)
		return
	}

	actor := actorFromContext(r.Context())
	view, err := h.catalog.CreateRecord(r.Context(), actor, req.UID, req.SeriesUID, startTime, req.LabelUID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, view.AttributeMap())
}

func (h *APIHandler) GetRecordHandler(w http.ResponseWriter, r *http.Request) {
	view, err := h.catalog.GetRecord(r.Context(), mux.Vars(r)["uid"])
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, view.AttributeMap())
}

func (h *APIHandler) ListRecordsHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	views, err := h.catalog.ListRecords(r.Context(), catalog.RecordListParams{
		SeriesUIDs:   query["series_uid"],
		LabelUIDs:    query["label"],
		RecordedFrom: query.Get("recorded_from"),
		RecordedTo:   query.Get("recorded_to"),
		Uploaded:     query.Get("uploaded"),
		Labeled:      query.Get("labeled"),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, attributeMaps(views))
}

// SetRecordLabelHandler sets or clears the record's classification.
// Without a label_uid query parameter the label is cleared.
func (h *APIHandler) SetRecordLabelHandler(w http.ResponseWriter, r *http.Request) {
	var labelUID *string
	if value := r.URL.Query().Get("label_uid"); value != "" {
		labelUID = &value
	}

	view, err := h.catalog.SetRecordLabel(r.Context(), mux.Vars(r)["uid"], labelUID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, view.AttributeMap())
}

func (h *APIHandler) GetRecordParametersHandler(w http.ResponseWriter, r *http.Request) {
	view, err := h.catalog.GetRecord(r.Context(), mux.Vars(r)["uid"])
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, view.Parameters.AttributeMap())
}

// UploadRecordHandler stores the payload bytes of a capture. Only the
// recorder that owns the record's series may upload.
func (h *APIHandler) UploadRecordHandler(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, r, apperr.Wrap(apperr.Consistency, err, "failed to read payload"))
		return
	}

	actor := actorFromContext(r.Context())
	view, err := h.catalog.UploadRecord(r.Context(), actor, mux.Vars(r)["uid"], payload)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, view.AttributeMap())
}

// DownloadRecordHandler streams the stored payload. A record without
// an uploaded payload reads as not found.
func (h *APIHandler) DownloadRecordHandler(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["uid"]
	object, err := h.catalog.DownloadRecord(r.Context(), uid)
	if err != nil {
		respondError(w, r, err)
		return
	}
	defer object.Close()

	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+uid+".wav\"")
	if _, err := io.Copy(w, object); err != nil {
		logger.Error("Failed to stream record payload",
			logger.String("record", uid),
			logger.ErrorField(err))
	}
}

func (h *APIHandler) DeleteRecordHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteRecord(r.Context(), mux.Vars(r)["uid"]); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
