package server

import (
	"context"
	"net/http"

	"audiolab/model"
)

type contextKey string

const actorContextKey contextKey = "actor"

// requireRecorderKey resolves the recorder_key header to a recorder and
// stores it on the request context. Requests without a resolvable key
// are rejected before the handler runs.
func (h *APIHandler) requireRecorderKey(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recorder, err := h.catalog.ResolveRecorderKey(r.Context(), r.Header.Get("recorder_key"))
		if err != nil {
			respondError(w, r, err)
			return
		}
		ctx := context.WithValue(r.Context(), actorContextKey, recorder)
		next(w, r.WithContext(ctx))
	}
}

// actorFromContext returns the recorder resolved by requireRecorderKey.
func actorFromContext(ctx context.Context) *model.Recorder {
	recorder, _ := ctx.Value(actorContextKey).(*model.Recorder)
	return recorder
}
