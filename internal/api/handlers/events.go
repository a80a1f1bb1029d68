package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sealed-pack-tracking-service/internal/api/dto"
	"sealed-pack-tracking-service/internal/domain"
	"sealed-pack-tracking-service/internal/services"
)

// The engine surface the HTTP layer depends on (satisfied by
// *services.TrackingEngine; handlers stay unaware of storage and locking).
type TrackingService interface {
	SubmitEvent(ctx context.Context, sub domain.Submission) (*services.SubmitEventResult, error)
	GetTaskTimeline(ctx context.Context, taskID string) ([]*domain.Event, error)
	GetTask(ctx context.Context, taskID string) (*domain.Task, error)
}

// EventHandler exposes the event-ingestion endpoint.
type EventHandler struct {
	Engine TrackingService
}

// Submit ingests one delivery event for a task.
// POST /api/tasks/{id}/events
func (h *EventHandler) Submit(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "id")

	var req dto.SubmitEventRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	res, err := h.Engine.SubmitEvent(r.Context(), domain.Submission{
		TaskID:     taskID,
		Type:       domain.EventType(req.EventType),
		RecordedAt: req.RecordedAt,
		Location:   domain.Coordinates{Lat: req.Latitude, Lon: req.Longitude},
		RecordedBy: req.RecordedBy,
	})
	if err != nil {
		writeEngineError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.SubmitEventResponse{
		Task:  taskResponse(res.Task),
		Event: eventResponse(res.Event),
	})
}

func taskResponse(t *domain.Task) dto.TaskResponse {
	res := dto.TaskResponse{
		TaskID:               t.ID,
		SealedPackCode:       t.SealedPackCode,
		SourceLocation:       t.SourceLocation,
		DestinationLocation:  t.DestinationLocation,
		GeofenceRadiusMeters: t.GeofenceRadiusMeters,
		AssignedUserID:       t.AssignedUserID,
		ScheduledStart:       t.ScheduledStart,
		ScheduledEnd:         t.ScheduledEnd,
		ExamType:             string(t.ExamType),
		Status:               string(t.Status),
	}
	if t.PickupPoint != nil {
		res.Pickup = &dto.CoordinateResponse{Lat: t.PickupPoint.Lat, Lon: t.PickupPoint.Lon}
	}
	if t.DestinationPoint != nil {
		res.Destination = &dto.CoordinateResponse{Lat: t.DestinationPoint.Lat, Lon: t.DestinationPoint.Lon}
	}
	return res
}

func eventResponse(e *domain.Event) dto.EventResponse {
	return dto.EventResponse{
		EventID:    e.ID,
		TaskID:     e.TaskID,
		EventType:  string(e.Type),
		RecordedAt: e.RecordedAt,
		ReceivedAt: e.ReceivedAt,
		Latitude:   e.Latitude,
		Longitude:  e.Longitude,
		RecordedBy: e.RecordedBy,
		GeofenceOK: e.GeofenceOK,
		OnTime:     e.OnTime,
	}
}
