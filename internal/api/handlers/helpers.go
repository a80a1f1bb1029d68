package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"sealed-pack-tracking-service/internal/domain"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// Map engine errors to HTTP statuses. Unknown errors are logged and reported
// as 500 without leaking storage details to the caller.
func writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError

	switch {
	case errors.Is(err, domain.ErrTaskNotFound):
		writeError(w, r, http.StatusNotFound, "task not found")
	case errors.Is(err, domain.ErrTaskLocked):
		writeError(w, r, http.StatusConflict, "task is locked: final delivery already recorded")
	case errors.Is(err, domain.ErrDuplicateEvent):
		writeError(w, r, http.StatusConflict, "event of this type already recorded for task")
	case errors.As(err, &verr):
		writeError(w, r, http.StatusBadRequest, verr.Error())
	default:
		log.Printf("engine call failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
