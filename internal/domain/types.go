// Package domain defines the business logic for the social fitness backend.
package domain

import "time"

// User is the profile record keyed by username. The username is the
// authorization subject for everything the user owns.
type User struct {
	Username  string
	Name      string
	Surname   string
	Email     string
	Weight    float64
	Height    float64
	CreatedAt time.Time
}

// Workout is an owned training session. Activities are loaded lazily by the
// assemblers, never eagerly embedded by the stores.
type Workout struct {
	ID          string
	Username    string
	StartedAt   time.Time
	EndedAt     time.Time
	Description string
	CreatedAt   time.Time
	Activities  []Activity
}

// Activity is one exercise performed within a workout. ExerciseName is a
// denormalized copy of the catalog name captured at enrichment time; it is
// not guaranteed to track later renames of the referenced exercise.
type Activity struct {
	ID           string
	WorkoutID    string
	ExerciseID   string
	ExerciseName string
	Sets         int
	Reps         int
	WeightKg     float64
}

// Exercise is a read-only catalog entry.
type Exercise struct {
	ID   string
	Name string
}

// Post is a feed entry optionally referencing one workout.
type Post struct {
	ID        string
	Username  string
	Title     string
	Content   string
	CreatedAt time.Time
	Workout   *Workout
}

// Reaction marks that a user reacted to a post. At most one reaction exists
// per (post, user) pair.
type Reaction struct {
	PostID    string
	Username  string
	CreatedAt time.Time
}

// ExercisePeriodCount aggregates how often an exercise was performed by a
// user within a period.
type ExercisePeriodCount struct {
	ExerciseID   string
	ExerciseName string
	Count        int
}

// DailyExerciseCount aggregates activities per calendar day.
type DailyExerciseCount struct {
	Day   time.Time
	Count int
}
