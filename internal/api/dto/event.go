package dto

import "time"

type SubmitEventRequest struct {
	EventType  string    `json:"event_type"`
	RecordedAt time.Time `json:"recorded_at"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	RecordedBy string    `json:"recorded_by"`
}

type EventResponse struct {
	EventID    string    `json:"event_id"`
	TaskID     string    `json:"task_id"`
	EventType  string    `json:"event_type"`
	RecordedAt time.Time `json:"recorded_at"`
	ReceivedAt time.Time `json:"received_at"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	RecordedBy string    `json:"recorded_by"`
	GeofenceOK bool      `json:"geofence_ok"`
	OnTime     bool      `json:"on_time"`
}

type SubmitEventResponse struct {
	Task  TaskResponse  `json:"task"`
	Event EventResponse `json:"event"`
}
