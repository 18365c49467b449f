package server

import (
	"encoding/json"
	"net/http"
	"time"

	"audiolab/apperr"
	"audiolab/config"
	"audiolab/core/catalog"
	"audiolab/filter"
	"audiolab/logger"
)

// APIHandler carries the HTTP handlers over the catalog service.
type APIHandler struct {
	catalog *catalog.Service
	cfg     *config.Config
}

// NewAPIHandler creates the API handler set.
func NewAPIHandler(catalogService *catalog.Service, cfg *config.Config) *APIHandler {
	return &APIHandler{catalog: catalogService, cfg: cfg}
}

// respondJSON writes a success payload.
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			logger.Error("Failed to encode response", logger.ErrorField(err))
		}
	}
}

// respondError maps the error taxonomy onto HTTP statuses. Anything
// without a kind is an internal fault: logged, surfaced without detail.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var status int
	switch apperr.KindOf(err) {
	case apperr.NotFound:
		status = http.StatusNotFound
	case apperr.Unauthorized:
		status = http.StatusUnauthorized
	case apperr.Forbidden:
		status = http.StatusForbidden
	case apperr.Conflict, apperr.Consistency, apperr.InvalidFilter:
		status = http.StatusBadRequest
	default:
		logger.Error("Unhandled error",
			logger.String("path", r.URL.Path),
			logger.String("method", r.Method),
			logger.ErrorField(err))
		respondJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"error": "internal server error",
		})
		return
	}

	respondJSON(w, status, map[string]interface{}{
		"error": err.Error(),
	})
}

// decodeBody parses a JSON request body into dst.
func decodeBody(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Wrap(apperr.Consistency, err, "invalid request body")
	}
	return nil
}

// parseTimestamp accepts either epoch seconds or a datetime string in
// one of the accepted formats.
func parseTimestamp(raw json.RawMessage) (time.Time, error) {
	var epoch float64
	if err := json.Unmarshal(raw, &epoch); err == nil {
		sec := int64(epoch)
		nsec := int64((epoch - float64(sec)) * float64(time.Second))
		return time.Unix(sec, nsec).UTC(), nil
	}

	var value string
	if err := json.Unmarshal(raw, &value); err == nil {
		return filter.ParseDatetime(value)
	}

	return time.Time{}, apperr.New(apperr.Consistency, "invalid timestamp")
}

// parseParametersSpec accepts the polymorphic parameters field: a bare
// preset uid string, an inline object, or an object carrying a uid.
func parseParametersSpec(raw json.RawMessage) (*catalog.ParametersSpec, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var uid string
	if err := json.Unmarshal(raw, &uid); err == nil {
		return &catalog.ParametersSpec{UID: uid}, nil
	}

	var inline struct {
		UID           string   `json:"uid"`
		Samplerate    *int     `json:"samplerate"`
		Channels      *int     `json:"channels"`
		Duration      *float64 `json:"duration"`
		Amplification *float64 `json:"amplification"`
	}
	if err := json.Unmarshal(raw, &inline); err != nil {
		return nil, apperr.Wrap(apperr.Consistency, err, "invalid parameters")
	}

	return &catalog.ParametersSpec{
		UID: inline.UID,
		Inline: &catalog.ParametersFields{
			Samplerate:    inline.Samplerate,
			Channels:      inline.Channels,
			Duration:      inline.Duration,
			Amplification: inline.Amplification,
		},
	}, nil
}

// attributeMaps converts a slice of entities into their attribute maps.
func attributeMaps[T interface{ AttributeMap() map[string]interface{} }](items []T) []map[string]interface{} {
	maps := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		maps = append(maps, item.AttributeMap())
	}
	return maps
}
