package domain

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFindPostByIDAssemblesWorkout(t *testing.T) {
	posts := &mockPosts{byID: map[string]*Post{
		"post-1": {
			ID:       "post-1",
			Username: "alice",
			Title:    "leg day",
			Workout:  &Workout{ID: "workout-1", Username: "alice"},
		},
	}}
	workouts := &mockWorkouts{activities: map[string][]Activity{
		"workout-1": {
			{ID: "act-1", WorkoutID: "workout-1", ExerciseID: "ex-1", Sets: 4, Reps: 8},
			{ID: "act-2", WorkoutID: "workout-1", ExerciseID: "ex-2", Sets: 3, Reps: 12},
		},
	}}
	exercises := &mockExercises{byID: map[string]*Exercise{
		"ex-1": {ID: "ex-1", Name: "Back Squat"},
		"ex-2": {ID: "ex-2", Name: "Leg Press"},
	}}
	service := NewFeedService(posts, workouts, exercises, &mockReactions{})

	post, err := service.FindPostByID(context.Background(), "post-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if post.Workout == nil {
		t.Fatal("expected assembled workout")
	}
	if len(post.Workout.Activities) != 2 {
		t.Fatalf("expected 2 activities got %d", len(post.Workout.Activities))
	}
	if post.Workout.Activities[0].ExerciseName != "Back Squat" {
		t.Fatalf("expected enriched name got %q", post.Workout.Activities[0].ExerciseName)
	}
	if post.Workout.Activities[1].ExerciseName != "Leg Press" {
		t.Fatalf("expected enriched name got %q", post.Workout.Activities[1].ExerciseName)
	}
}

func TestFindPostByIDMissing(t *testing.T) {
	service := NewFeedService(&mockPosts{}, &mockWorkouts{}, &mockExercises{}, &mockReactions{})

	if _, err := service.FindPostByID(context.Background(), "nope"); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound got %v", err)
	}
}

func TestAssemblyToleratesDanglingExerciseRef(t *testing.T) {
	posts := &mockPosts{byID: map[string]*Post{
		"post-1": {ID: "post-1", Username: "alice", Workout: &Workout{ID: "workout-1"}},
	}}
	workouts := &mockWorkouts{activities: map[string][]Activity{
		"workout-1": {{ID: "act-1", WorkoutID: "workout-1", ExerciseID: "deleted-ex"}},
	}}
	service := NewFeedService(posts, workouts, &mockExercises{}, &mockReactions{})

	post, err := service.FindPostByID(context.Background(), "post-1")
	if err != nil {
		t.Fatalf("a dangling exercise reference must not fail assembly: %v", err)
	}
	if post.Workout.Activities[0].ExerciseName != "" {
		t.Fatalf("expected empty name got %q", post.Workout.Activities[0].ExerciseName)
	}
}

func TestFindPostsByUsernamesEmptyInput(t *testing.T) {
	posts := &mockPosts{}
	service := NewFeedService(posts, &mockWorkouts{}, &mockExercises{}, &mockReactions{})

	result, err := service.FindPostsByUsernames(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil || len(result) != 0 {
		t.Fatalf("expected empty slice got %v", result)
	}
	if posts.listCalls != 0 {
		t.Fatal("empty input must not hit the store")
	}
}

func TestCreatePostAttachesOwnedWorkout(t *testing.T) {
	posts := &mockPosts{}
	workouts := &mockWorkouts{byID: map[string]*Workout{
		"workout-1": {ID: "workout-1", Username: "alice"},
	}}
	service := NewFeedService(posts, workouts, &mockExercises{}, &mockReactions{})

	post, err := service.CreatePost(context.Background(), CreatePostInput{
		Username:  "alice",
		Title:     "pr day",
		WorkoutID: "workout-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if post.ID == "" {
		t.Fatal("expected generated post id")
	}
	if post.Workout == nil || post.Workout.ID != "workout-1" {
		t.Fatal("expected attached workout")
	}
	if posts.created == nil {
		t.Fatal("expected post persisted")
	}
}

func TestCreatePostRejectsUnknownWorkout(t *testing.T) {
	service := NewFeedService(&mockPosts{}, &mockWorkouts{}, &mockExercises{}, &mockReactions{})

	_, err := service.CreatePost(context.Background(), CreatePostInput{
		Username:  "alice",
		Title:     "pr day",
		WorkoutID: "ghost",
	})
	if !errors.Is(err, ErrWorkoutNotFound) {
		t.Fatalf("expected ErrWorkoutNotFound got %v", err)
	}
}

func TestCreatePostRejectsForeignWorkout(t *testing.T) {
	workouts := &mockWorkouts{byID: map[string]*Workout{
		"workout-1": {ID: "workout-1", Username: "bob"},
	}}
	posts := &mockPosts{}
	service := NewFeedService(posts, workouts, &mockExercises{}, &mockReactions{})

	_, err := service.CreatePost(context.Background(), CreatePostInput{
		Username:  "alice",
		Title:     "pr day",
		WorkoutID: "workout-1",
	})
	if !errors.Is(err, ErrNotWorkoutOwner) {
		t.Fatalf("expected ErrNotWorkoutOwner got %v", err)
	}
	if posts.created != nil {
		t.Fatal("rejected post must not be persisted")
	}
}

func TestCreatePostWithWorkoutStampsActivities(t *testing.T) {
	posts := &mockPosts{}
	exercises := &mockExercises{byID: map[string]*Exercise{
		"ex-1": {ID: "ex-1", Name: "Deadlift"},
	}}
	service := NewFeedService(posts, &mockWorkouts{}, exercises, &mockReactions{})

	started := time.Date(2026, time.February, 1, 18, 0, 0, 0, time.UTC)
	post, err := service.CreatePostWithWorkout(context.Background(), CreatePostWorkoutInput{
		Username: "alice",
		Title:    "new pr",
		Workout: &WorkoutInput{
			StartedAt: started,
			EndedAt:   started.Add(time.Hour),
			Activities: []ActivityInput{
				{ExerciseID: "ex-1", Sets: 5, Reps: 5, WeightKg: 120},
			},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if posts.createdWith == nil {
		t.Fatal("expected single-transaction persistence path")
	}
	if len(posts.createdWithActivities) != 1 {
		t.Fatalf("expected 1 activity got %d", len(posts.createdWithActivities))
	}
	activity := posts.createdWithActivities[0]
	if activity.WorkoutID != post.Workout.ID {
		t.Fatalf("activity must reference the new workout, got %q want %q", activity.WorkoutID, post.Workout.ID)
	}
	if activity.ExerciseName != "Deadlift" {
		t.Fatalf("expected enriched name got %q", activity.ExerciseName)
	}
}

func TestCreatePostWithWorkoutWithoutWorkout(t *testing.T) {
	posts := &mockPosts{}
	service := NewFeedService(posts, &mockWorkouts{}, &mockExercises{}, &mockReactions{})

	post, err := service.CreatePostWithWorkout(context.Background(), CreatePostWorkoutInput{
		Username: "alice",
		Title:    "rest day thoughts",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if post.Workout != nil {
		t.Fatal("expected no workout")
	}
	if posts.created == nil {
		t.Fatal("expected plain post persistence path")
	}
	if posts.createdWith != nil {
		t.Fatal("workoutless post must not use the transactional path")
	}
}

func TestUpdatePostRejectsForeignWorkout(t *testing.T) {
	posts := &mockPosts{byID: map[string]*Post{
		"post-1": {ID: "post-1", Username: "alice", Title: "old"},
	}}
	workouts := &mockWorkouts{byID: map[string]*Workout{
		"workout-9": {ID: "workout-9", Username: "bob"},
	}}
	service := NewFeedService(posts, workouts, &mockExercises{}, &mockReactions{})

	_, err := service.UpdatePost(context.Background(), "post-1", UpdatePostInput{
		Title:     "new",
		WorkoutID: "workout-9",
	})
	if !errors.Is(err, ErrNotWorkoutOwner) {
		t.Fatalf("expected ErrNotWorkoutOwner got %v", err)
	}
}

func TestUpdatePostMissing(t *testing.T) {
	service := NewFeedService(&mockPosts{}, &mockWorkouts{}, &mockExercises{}, &mockReactions{})

	_, err := service.UpdatePost(context.Background(), "ghost", UpdatePostInput{Title: "new"})
	if !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound got %v", err)
	}
}

func TestAddReactionRequiresPost(t *testing.T) {
	reactions := &mockReactions{}
	service := NewFeedService(&mockPosts{}, &mockWorkouts{}, &mockExercises{}, reactions)

	err := service.AddReaction(context.Background(), "ghost", "bob")
	if !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound got %v", err)
	}
	if reactions.saved != nil {
		t.Fatal("reaction must not be saved for a missing post")
	}
}

func TestAddReactionPersists(t *testing.T) {
	posts := &mockPosts{byID: map[string]*Post{
		"post-1": {ID: "post-1", Username: "alice"},
	}}
	reactions := &mockReactions{}
	service := NewFeedService(posts, &mockWorkouts{}, &mockExercises{}, reactions)

	if err := service.AddReaction(context.Background(), "post-1", "bob"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reactions.saved == nil || reactions.saved.Username != "bob" {
		t.Fatalf("expected saved reaction for bob, got %+v", reactions.saved)
	}
}

type mockPosts struct {
	byID                  map[string]*Post
	byUser                map[string][]Post
	listCalls             int
	created               *Post
	createdWith           *Post
	createdWithActivities []Activity
	updated               *Post
	deleted               []string
}

func (m *mockPosts) FindByID(_ context.Context, postID string) (*Post, error) {
	post, ok := m.byID[postID]
	if !ok {
		return nil, nil
	}
	copied := *post
	if post.Workout != nil {
		workout := *post.Workout
		copied.Workout = &workout
	}
	return &copied, nil
}

func (m *mockPosts) FindByUsername(_ context.Context, username string) ([]Post, error) {
	m.listCalls++
	return m.byUser[username], nil
}

func (m *mockPosts) FindByUsernames(_ context.Context, usernames []string) ([]Post, error) {
	m.listCalls++
	out := []Post{}
	for _, username := range usernames {
		out = append(out, m.byUser[username]...)
	}
	return out, nil
}

func (m *mockPosts) Create(_ context.Context, post Post) error {
	m.created = &post
	return nil
}

func (m *mockPosts) CreateWithWorkout(_ context.Context, post Post, workout Workout, activities []Activity) error {
	m.createdWith = &post
	m.createdWithActivities = activities
	return nil
}

func (m *mockPosts) Update(_ context.Context, post Post) error {
	m.updated = &post
	return nil
}

func (m *mockPosts) Delete(_ context.Context, postID string) error {
	m.deleted = append(m.deleted, postID)
	return nil
}

type mockWorkouts struct {
	byID       map[string]*Workout
	byUser     map[string][]Workout
	activities map[string][]Activity
	periods    []ExercisePeriodCount
	daily      []DailyExerciseCount
}

func (m *mockWorkouts) FindByID(_ context.Context, workoutID string) (*Workout, error) {
	workout, ok := m.byID[workoutID]
	if !ok {
		return nil, nil
	}
	copied := *workout
	return &copied, nil
}

func (m *mockWorkouts) FindByUsername(_ context.Context, username string) ([]Workout, error) {
	return m.byUser[username], nil
}

func (m *mockWorkouts) FindActivitiesByWorkoutID(_ context.Context, workoutID string) ([]Activity, error) {
	src := m.activities[workoutID]
	out := make([]Activity, len(src))
	copy(out, src)
	return out, nil
}

func (m *mockWorkouts) ExercisesInPeriod(_ context.Context, _ string, _, _ time.Time) ([]ExercisePeriodCount, error) {
	return m.periods, nil
}

func (m *mockWorkouts) DailyExerciseCounts(_ context.Context, _ string, _, _ time.Time) ([]DailyExerciseCount, error) {
	return m.daily, nil
}

type mockExercises struct {
	byID map[string]*Exercise
}

func (m *mockExercises) FindByID(_ context.Context, exerciseID string) (*Exercise, error) {
	return m.byID[exerciseID], nil
}

type mockReactions struct {
	byPost  map[string][]Reaction
	saved   *Reaction
	deleted []string
}

func (m *mockReactions) FindByPostID(_ context.Context, postID string) ([]Reaction, error) {
	return m.byPost[postID], nil
}

func (m *mockReactions) Save(_ context.Context, reaction Reaction) error {
	m.saved = &reaction
	return nil
}

func (m *mockReactions) DeleteByUsernameAndPostID(_ context.Context, username, postID string) error {
	m.deleted = append(m.deleted, username+":"+postID)
	return nil
}
