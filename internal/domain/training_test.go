package domain

import (
	"context"
	"testing"
	"time"
)

func TestFindWorkoutsByUsernameEnriches(t *testing.T) {
	workouts := &mockWorkouts{
		byUser: map[string][]Workout{
			"alice": {
				{ID: "workout-1", Username: "alice"},
				{ID: "workout-2", Username: "alice"},
			},
		},
		activities: map[string][]Activity{
			"workout-1": {{ID: "act-1", WorkoutID: "workout-1", ExerciseID: "ex-1"}},
			"workout-2": {{ID: "act-2", WorkoutID: "workout-2", ExerciseID: "gone"}},
		},
	}
	exercises := &mockExercises{byID: map[string]*Exercise{
		"ex-1": {ID: "ex-1", Name: "Pull Up"},
	}}
	service := NewTrainingService(workouts, exercises)

	result, err := service.FindWorkoutsByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("expected 2 workouts got %d", len(result))
	}
	if result[0].Activities[0].ExerciseName != "Pull Up" {
		t.Fatalf("expected enriched name got %q", result[0].Activities[0].ExerciseName)
	}
	if result[1].Activities[0].ExerciseName != "" {
		t.Fatalf("dangling reference must keep an empty name, got %q", result[1].Activities[0].ExerciseName)
	}
}

func TestFindWorkoutsByUsernameEmpty(t *testing.T) {
	service := NewTrainingService(&mockWorkouts{}, &mockExercises{})

	result, err := service.FindWorkoutsByUsername(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 0 {
		t.Fatalf("expected no workouts got %d", len(result))
	}
}

func TestExercisesInPeriodPassthrough(t *testing.T) {
	workouts := &mockWorkouts{periods: []ExercisePeriodCount{
		{ExerciseID: "ex-1", ExerciseName: "Bench Press", Count: 7},
	}}
	service := NewTrainingService(workouts, &mockExercises{})

	from := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	counts, err := service.ExercisesInPeriod(context.Background(), "alice", from, to)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(counts) != 1 || counts[0].Count != 7 {
		t.Fatalf("unexpected counts %+v", counts)
	}
}
