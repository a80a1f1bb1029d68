package dto

import "time"

type CoordinateResponse struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type TaskResponse struct {
	TaskID               string              `json:"task_id"`
	SealedPackCode       string              `json:"sealed_pack_code"`
	SourceLocation       string              `json:"source_location"`
	DestinationLocation  string              `json:"destination_location"`
	Pickup               *CoordinateResponse `json:"pickup,omitempty"`
	Destination          *CoordinateResponse `json:"destination,omitempty"`
	GeofenceRadiusMeters float64             `json:"geofence_radius_m"`
	AssignedUserID       string              `json:"assigned_user_id"`
	ScheduledStart       time.Time           `json:"scheduled_start"`
	ScheduledEnd         time.Time           `json:"scheduled_end"`
	ExamType             string              `json:"exam_type"`
	Status               string              `json:"status"`
}

type TimelineResponse struct {
	TaskID string          `json:"task_id"`
	Events []EventResponse `json:"events"`
}
