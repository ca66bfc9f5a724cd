package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/simonnxyz/drgym-app/internal/domain"
)

// WorkoutsStore persists workouts, activities and the training aggregates.
type WorkoutsStore struct {
	pool *pgxpool.Pool
}

// NewWorkoutsStore constructs a WorkoutsStore.
func NewWorkoutsStore(pool *pgxpool.Pool) *WorkoutsStore {
	return &WorkoutsStore{pool: pool}
}

// FindByID fetches a workout shell by id. Returns nil without error
// when absent.
func (s *WorkoutsStore) FindByID(ctx context.Context, workoutID string) (*domain.Workout, error) {
	const query = `SELECT workout_id, username, started_at, ended_at, description, created_at
        FROM workouts WHERE workout_id=$1`

	row := s.pool.QueryRow(ctx, query, workoutID)
	var workout domain.Workout
	if err := row.Scan(&workout.ID, &workout.Username, &workout.StartedAt, &workout.EndedAt, &workout.Description, &workout.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &workout, nil
}

// FindByUsername returns a user's workout shells, newest first.
func (s *WorkoutsStore) FindByUsername(ctx context.Context, username string) ([]domain.Workout, error) {
	const query = `SELECT workout_id, username, started_at, ended_at, description, created_at
        FROM workouts WHERE username=$1
        ORDER BY started_at DESC, workout_id DESC`

	rows, err := s.pool.Query(ctx, query, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workouts := make([]domain.Workout, 0)
	for rows.Next() {
		var workout domain.Workout
		if err := rows.Scan(&workout.ID, &workout.Username, &workout.StartedAt, &workout.EndedAt, &workout.Description, &workout.CreatedAt); err != nil {
			return nil, err
		}
		workouts = append(workouts, workout)
	}
	return workouts, rows.Err()
}

// FindActivitiesByWorkoutID returns a workout's activities in submission order.
func (s *WorkoutsStore) FindActivitiesByWorkoutID(ctx context.Context, workoutID string) ([]domain.Activity, error) {
	const query = `SELECT activity_id, workout_id, exercise_id, exercise_name, sets, reps, weight_kg
        FROM activities WHERE workout_id=$1
        ORDER BY position ASC`

	rows, err := s.pool.Query(ctx, query, workoutID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	activities := make([]domain.Activity, 0)
	for rows.Next() {
		var activity domain.Activity
		if err := rows.Scan(&activity.ID, &activity.WorkoutID, &activity.ExerciseID, &activity.ExerciseName,
			&activity.Sets, &activity.Reps, &activity.WeightKg); err != nil {
			return nil, err
		}
		activities = append(activities, activity)
	}
	return activities, rows.Err()
}

// ExercisesInPeriod aggregates performed exercises for a user within a period.
func (s *WorkoutsStore) ExercisesInPeriod(ctx context.Context, username string, from, to time.Time) ([]domain.ExercisePeriodCount, error) {
	const query = `SELECT a.exercise_id, COALESCE(e.name, ''), COUNT(*)
        FROM activities a
        JOIN workouts w ON w.workout_id = a.workout_id
        LEFT JOIN exercises e ON e.exercise_id = a.exercise_id
        WHERE w.username=$1 AND w.started_at >= $2 AND w.started_at < $3
        GROUP BY a.exercise_id, e.name
        ORDER BY COUNT(*) DESC, a.exercise_id ASC`

	rows, err := s.pool.Query(ctx, query, username, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make([]domain.ExercisePeriodCount, 0)
	for rows.Next() {
		var count domain.ExercisePeriodCount
		if err := rows.Scan(&count.ExerciseID, &count.ExerciseName, &count.Count); err != nil {
			return nil, err
		}
		counts = append(counts, count)
	}
	return counts, rows.Err()
}

// DailyExerciseCounts aggregates activities per calendar day within a period.
func (s *WorkoutsStore) DailyExerciseCounts(ctx context.Context, username string, from, to time.Time) ([]domain.DailyExerciseCount, error) {
	const query = `SELECT date_trunc('day', w.started_at) AS day, COUNT(*)
        FROM activities a
        JOIN workouts w ON w.workout_id = a.workout_id
        WHERE w.username=$1 AND w.started_at >= $2 AND w.started_at < $3
        GROUP BY day
        ORDER BY day ASC`

	rows, err := s.pool.Query(ctx, query, username, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make([]domain.DailyExerciseCount, 0)
	for rows.Next() {
		var count domain.DailyExerciseCount
		if err := rows.Scan(&count.Day, &count.Count); err != nil {
			return nil, err
		}
		counts = append(counts, count)
	}
	return counts, rows.Err()
}
