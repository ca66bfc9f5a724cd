package domain

import "errors"

var (
	// ErrPostNotFound is returned when a post cannot be located by id.
	ErrPostNotFound = errors.New("post not found")
	// ErrWorkoutNotFound is returned when a workout cannot be located by id.
	ErrWorkoutNotFound = errors.New("workout not found")
	// ErrUserNotFound is returned when no profile exists for a username.
	ErrUserNotFound = errors.New("user not found")
	// ErrNotWorkoutOwner is returned when a workout reference points at a
	// workout owned by someone other than the acting user.
	ErrNotWorkoutOwner = errors.New("workout belongs to another user")
)
