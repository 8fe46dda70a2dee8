// Package events defines the event payloads published through the outbox.
package events

import "time"

// WeightLogged is emitted when a user records a weight entry.
type WeightLogged struct {
	EntryID    string    `json:"entry_id"`
	UserID     string    `json:"user_id"`
	WeightKg   float64   `json:"weight_kg"`
	RecordedAt time.Time `json:"recorded_at"`
}

// GoalCompleted is emitted when an active goal reaches its target.
type GoalCompleted struct {
	GoalID      string    `json:"goal_id"`
	UserID      string    `json:"user_id"`
	GoalType    string    `json:"goal_type"`
	TargetValue float64   `json:"target_value"`
	CompletedAt time.Time `json:"completed_at"`
}
