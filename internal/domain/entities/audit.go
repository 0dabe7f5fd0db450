package entities

import "time"

// TurnLogEntry records one completed turn.
type TurnLogEntry struct {
	ID         int64          `json:"id"`
	TurnID     string         `json:"turn_id"`
	InstanceID int64          `json:"instance_id"`
	Details    map[string]any `json:"details,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}
