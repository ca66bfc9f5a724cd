package domain

import (
	"context"
	"time"
)

// TrainingService answers workout history and training statistics queries.
type TrainingService struct {
	workouts  WorkoutRepository
	exercises ExerciseRepository
}

// NewTrainingService constructs a TrainingService.
func NewTrainingService(workouts WorkoutRepository, exercises ExerciseRepository) *TrainingService {
	return &TrainingService{workouts: workouts, exercises: exercises}
}

// FindWorkoutsByUsername returns a user's workouts with activities loaded and
// exercise names overlaid. The enrichment is the same one the feed runs; no
// path returns a partially assembled workout.
func (s *TrainingService) FindWorkoutsByUsername(ctx context.Context, username string) ([]Workout, error) {
	workouts, err := s.workouts.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	for i := range workouts {
		activities, err := s.workouts.FindActivitiesByWorkoutID(ctx, workouts[i].ID)
		if err != nil {
			return nil, err
		}
		if err := enrichActivities(ctx, s.exercises, activities); err != nil {
			return nil, err
		}
		workouts[i].Activities = activities
	}
	return workouts, nil
}

// ExercisesInPeriod aggregates how often each exercise was performed by the
// user between from and to.
func (s *TrainingService) ExercisesInPeriod(ctx context.Context, username string, from, to time.Time) ([]ExercisePeriodCount, error) {
	return s.workouts.ExercisesInPeriod(ctx, username, from, to)
}

// DailyExerciseCounts aggregates activities per calendar day between from and to.
func (s *TrainingService) DailyExerciseCounts(ctx context.Context, username string, from, to time.Time) ([]DailyExerciseCount, error) {
	return s.workouts.DailyExerciseCounts(ctx, username, from, to)
}
