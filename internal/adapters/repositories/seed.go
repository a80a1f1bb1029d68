package repositories

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"sealed-pack-tracking-service/internal/domain"
)

type coordinateSeed struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type taskSeed struct {
	TaskID               string          `json:"task_id"`
	SealedPackCode       string          `json:"sealed_pack_code"`
	SourceLocation       string          `json:"source_location"`
	DestinationLocation  string          `json:"destination_location"`
	Pickup               *coordinateSeed `json:"pickup"`
	Destination          *coordinateSeed `json:"destination"`
	GeofenceRadiusMeters float64         `json:"geofence_radius_m"`
	AssignedUserID       string          `json:"assigned_user_id"`
	ScheduledStart       time.Time       `json:"scheduled_start"`
	ScheduledEnd         time.Time       `json:"scheduled_end"`
	ExamType             string          `json:"exam_type"`
}

// Read and validate task seeds from a JSON file. Tasks always seed in status
// PENDING; defaults (radius 100 m, exam type REGULAR) fill omitted fields the
// way the task-creation workflow would.
func loadTaskSeeds(jsonPath string) ([]*domain.Task, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("seed tasks: read %q: %w", jsonPath, err)
	}

	var data []taskSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("seed tasks: parse json: %w", err)
	}

	now := time.Now().UTC()
	tasks := make([]*domain.Task, 0, len(data))
	for i, item := range data {
		task := &domain.Task{
			ID:                   strings.TrimSpace(item.TaskID),
			SealedPackCode:       strings.TrimSpace(item.SealedPackCode),
			SourceLocation:       strings.TrimSpace(item.SourceLocation),
			DestinationLocation:  strings.TrimSpace(item.DestinationLocation),
			GeofenceRadiusMeters: item.GeofenceRadiusMeters,
			AssignedUserID:       strings.TrimSpace(item.AssignedUserID),
			ScheduledStart:       item.ScheduledStart,
			ScheduledEnd:         item.ScheduledEnd,
			ExamType:             domain.ExamType(item.ExamType),
			Status:               domain.StatusPending,
			CreatedAt:            now,
			UpdatedAt:            now,
		}

		if item.Pickup != nil {
			task.PickupPoint = &domain.Coordinates{Lat: item.Pickup.Lat, Lon: item.Pickup.Lon}
		}
		if item.Destination != nil {
			task.DestinationPoint = &domain.Coordinates{Lat: item.Destination.Lat, Lon: item.Destination.Lon}
		}
		if task.GeofenceRadiusMeters == 0 {
			task.GeofenceRadiusMeters = domain.DefaultGeofenceRadiusMeters
		}
		if task.ExamType == "" {
			task.ExamType = domain.ExamRegular
		}

		if err := domain.ValidateTask(task); err != nil {
			return nil, fmt.Errorf("seed tasks: item at index %d: %w", i, err)
		}
		tasks = append(tasks, task)
	}

	return tasks, nil
}
