package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"sealed-pack-tracking-service/internal/api/dto"
)

// TaskHandler exposes read-only task retrieval endpoints.
type TaskHandler struct {
	Engine TrackingService
}

// Get returns one task for display.
// GET /api/tasks/{id}
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "id")

	task, err := h.Engine.GetTask(r.Context(), taskID)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, taskResponse(task))
}

// Timeline returns the audit trail of a task: all recorded events ordered by
// capture time ascending.
// GET /api/tasks/{id}/timeline
func (h *TaskHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "id")

	events, err := h.Engine.GetTaskTimeline(r.Context(), taskID)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}

	res := dto.TimelineResponse{
		TaskID: taskID,
		Events: make([]dto.EventResponse, 0, len(events)),
	}
	for _, e := range events {
		res.Events = append(res.Events, eventResponse(e))
	}

	writeJSON(w, r, http.StatusOK, res)
}
