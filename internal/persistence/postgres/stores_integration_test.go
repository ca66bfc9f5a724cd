//go:build integration

package postgres

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/simonnxyz/drgym-app/internal/domain"
)

func TestStoresRoundTrip(t *testing.T) {
	ctx := context.Background()

	pg, err := postgrescontainer.RunContainer(ctx,
		postgrescontainer.WithDatabase("drgym"),
		postgrescontainer.WithUsername("drgym"),
		postgrescontainer.WithPassword("drgym"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, waitForDatabase(ctx, connStr))
	runMigrations(t, ctx, connStr)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	seedUsers(t, ctx, pool, "alice", "bob")
	seedExercise(t, ctx, pool, "ex-1", "Back Squat")

	users := NewUsersStore(pool)
	friendships := NewFriendshipsStore(pool)
	posts := NewPostsStore(pool)
	workouts := NewWorkoutsStore(pool)
	exercises := NewExercisesStore(pool)
	reactions := NewReactionsStore(pool)

	t.Run("user lookup and search", func(t *testing.T) {
		user, err := users.FindByUsername(ctx, "alice")
		require.NoError(t, err)
		require.NotNil(t, user)
		require.Equal(t, "alice", user.Username)

		missing, err := users.FindByUsername(ctx, "ghost")
		require.NoError(t, err)
		require.Nil(t, missing)

		found, err := users.FindBySearch(ctx, "ali")
		require.NoError(t, err)
		require.Equal(t, []string{"alice"}, found)
	})

	t.Run("friendship is symmetric and idempotent", func(t *testing.T) {
		require.NoError(t, friendships.AddFriend(ctx, "bob", "alice"))
		require.NoError(t, friendships.AddFriend(ctx, "alice", "bob"))

		ok, err := friendships.AreFriends(ctx, "alice", "bob")
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = friendships.AreFriends(ctx, "bob", "alice")
		require.NoError(t, err)
		require.True(t, ok)

		var edges int
		require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM friendships`).Scan(&edges))
		require.Equal(t, 1, edges, "re-adding a friendship must not duplicate the edge")
	})

	now := time.Now().UTC().Truncate(time.Microsecond)
	workoutID := uuid.NewString()
	postID := uuid.NewString()

	t.Run("post with workout persists atomically", func(t *testing.T) {
		post := domain.Post{
			ID:        postID,
			Username:  "alice",
			Title:     "squat session",
			Content:   "felt strong",
			CreatedAt: now,
		}
		workout := domain.Workout{
			ID:        workoutID,
			Username:  "alice",
			StartedAt: now.Add(-time.Hour),
			EndedAt:   now,
			CreatedAt: now,
		}
		activities := []domain.Activity{
			{ID: uuid.NewString(), WorkoutID: workoutID, ExerciseID: "ex-1", ExerciseName: "Back Squat", Sets: 5, Reps: 5, WeightKg: 100},
			{ID: uuid.NewString(), WorkoutID: workoutID, ExerciseID: "ex-1", ExerciseName: "Back Squat", Sets: 3, Reps: 8, WeightKg: 80},
		}

		require.NoError(t, posts.CreateWithWorkout(ctx, post, workout, activities))

		stored, err := posts.FindByID(ctx, postID)
		require.NoError(t, err)
		require.NotNil(t, stored)
		require.NotNil(t, stored.Workout)
		require.Equal(t, workoutID, stored.Workout.ID)

		loaded, err := workouts.FindActivitiesByWorkoutID(ctx, workoutID)
		require.NoError(t, err)
		require.Len(t, loaded, 2)
		require.Equal(t, 5, loaded[0].Sets, "activities must come back in submission order")
	})

	t.Run("reaction upsert is idempotent", func(t *testing.T) {
		reaction := domain.Reaction{PostID: postID, Username: "bob", CreatedAt: now}
		require.NoError(t, reactions.Save(ctx, reaction))
		require.NoError(t, reactions.Save(ctx, reaction))

		stored, err := reactions.FindByPostID(ctx, postID)
		require.NoError(t, err)
		require.Len(t, stored, 1)
		require.Equal(t, "bob", stored[0].Username)
	})

	t.Run("rename refresh rewrites activity names", func(t *testing.T) {
		refreshed, err := exercises.RefreshActivityNames(ctx, "ex-1", "Low Bar Squat")
		require.NoError(t, err)
		require.EqualValues(t, 2, refreshed)

		loaded, err := workouts.FindActivitiesByWorkoutID(ctx, workoutID)
		require.NoError(t, err)
		for _, activity := range loaded {
			require.Equal(t, "Low Bar Squat", activity.ExerciseName)
		}
	})

	t.Run("mutations queue outbox events", func(t *testing.T) {
		var pending int
		require.NoError(t, pool.QueryRow(ctx,
			`SELECT COUNT(*) FROM outbox WHERE published_at IS NULL`).Scan(&pending))
		require.GreaterOrEqual(t, pending, 3, "friendship, workout, post and reaction writes must each queue an event")
	})

	t.Run("deleting a user cascades", func(t *testing.T) {
		require.NoError(t, users.Delete(ctx, "alice"))

		stored, err := posts.FindByID(ctx, postID)
		require.NoError(t, err)
		require.Nil(t, stored)

		ok, err := friendships.AreFriends(ctx, "alice", "bob")
		require.NoError(t, err)
		require.False(t, ok)
	})
}

func seedUsers(t *testing.T, ctx context.Context, pool *pgxpool.Pool, usernames ...string) {
	t.Helper()
	for _, username := range usernames {
		_, err := pool.Exec(ctx,
			`INSERT INTO users (username, name, surname, email) VALUES ($1, INITCAP($1), '', $1 || '@example.com')`,
			username)
		require.NoError(t, err)
	}
}

func seedExercise(t *testing.T, ctx context.Context, pool *pgxpool.Pool, id, name string) {
	t.Helper()
	_, err := pool.Exec(ctx, `INSERT INTO exercises (exercise_id, name) VALUES ($1, $2)`, id, name)
	require.NoError(t, err)
}

func runMigrations(t *testing.T, ctx context.Context, connStr string) {
	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	defer pool.Close()

	path := resolvePath(t, "../../../db/postgres/migrations/0001_init.up.sql")
	contents, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = pool.Exec(ctx, string(contents))
	require.NoError(t, err)
}

func resolvePath(t *testing.T, rel string) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(file), rel)
}

func waitForDatabase(ctx context.Context, connStr string) error {
	deadline := time.Now().Add(30 * time.Second)
	for {
		pool, err := pgxpool.New(ctx, connStr)
		if err == nil {
			err = pool.Ping(ctx)
			pool.Close()
			if err == nil {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return err
		}
		time.Sleep(time.Second)
	}
}
