// Package events defines the payloads published to and consumed from Kafka.
package events

import "time"

// PostCreated is emitted after a post becomes visible.
type PostCreated struct {
	PostID    string    `json:"post_id"`
	Username  string    `json:"username"`
	WorkoutID string    `json:"workout_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// WorkoutRecorded is emitted when a workout is persisted alongside a post.
type WorkoutRecorded struct {
	WorkoutID     string    `json:"workout_id"`
	Username      string    `json:"username"`
	ActivityCount int       `json:"activity_count"`
	StartedAt     time.Time `json:"started_at"`
	EndedAt       time.Time `json:"ended_at"`
}

// ReactionAdded is emitted when a reaction is stored for a post.
type ReactionAdded struct {
	PostID     string    `json:"post_id"`
	Username   string    `json:"username"`
	OccurredAt time.Time `json:"occurred_at"`
}

// FriendshipCreated is emitted after a symmetric friend edge is written.
type FriendshipCreated struct {
	UserA      string    `json:"user_a"`
	UserB      string    `json:"user_b"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ExerciseRenamed is consumed from the exercise catalog's topic. The stored
// exercise names on activities are refreshed asynchronously when it arrives.
type ExerciseRenamed struct {
	ExerciseID string    `json:"exercise_id"`
	Name       string    `json:"name"`
	OccurredAt time.Time `json:"occurred_at"`
}
