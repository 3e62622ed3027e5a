package handlers

import (
	"io"
	"net/http"

	json "github.com/goccy/go-json"

	"platefinder/events"
	"platefinder/models"
)

const maxEventBytes = 64 << 10

// EventsHandler accepts one user interaction event.
func EventsHandler(t *events.Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxEventBytes))
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "unreadable body")
			return
		}

		var ev models.Event
		if err := json.Unmarshal(body, &ev); err != nil {
			writeError(w, r, http.StatusBadRequest, "malformed event")
			return
		}

		if err := t.Track(r.Context(), ev); err != nil {
			if events.IsValidationError(err) {
				writeError(w, r, http.StatusBadRequest, err.Error())
				return
			}
			writeError(w, r, http.StatusInternalServerError, "failed to process event")
			return
		}
		writeJSON(w, r, http.StatusAccepted, map[string]string{"status": "accepted"})
	}
}
