package domain

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/simonnxyz/drgym-app/internal/observability"
)

// PostRepository captures persistence operations for posts.
type PostRepository interface {
	FindByID(ctx context.Context, postID string) (*Post, error)
	FindByUsername(ctx context.Context, username string) ([]Post, error)
	FindByUsernames(ctx context.Context, usernames []string) ([]Post, error)
	Create(ctx context.Context, post Post) error
	CreateWithWorkout(ctx context.Context, post Post, workout Workout, activities []Activity) error
	Update(ctx context.Context, post Post) error
	Delete(ctx context.Context, postID string) error
}

// WorkoutRepository captures persistence operations for workouts and their activities.
type WorkoutRepository interface {
	FindByID(ctx context.Context, workoutID string) (*Workout, error)
	FindByUsername(ctx context.Context, username string) ([]Workout, error)
	FindActivitiesByWorkoutID(ctx context.Context, workoutID string) ([]Activity, error)
	ExercisesInPeriod(ctx context.Context, username string, from, to time.Time) ([]ExercisePeriodCount, error)
	DailyExerciseCounts(ctx context.Context, username string, from, to time.Time) ([]DailyExerciseCount, error)
}

// ExerciseRepository reads the exercise catalog. FindByID returns nil without
// error when no entry exists so dangling references can degrade gracefully.
type ExerciseRepository interface {
	FindByID(ctx context.Context, exerciseID string) (*Exercise, error)
}

// ReactionRepository captures persistence operations for post reactions.
type ReactionRepository interface {
	FindByPostID(ctx context.Context, postID string) ([]Reaction, error)
	Save(ctx context.Context, reaction Reaction) error
	DeleteByUsernameAndPostID(ctx context.Context, username, postID string) error
}

// FeedService orchestrates post assembly and the post/workout write pipeline.
type FeedService struct {
	posts     PostRepository
	workouts  WorkoutRepository
	exercises ExerciseRepository
	reactions ReactionRepository
}

// NewFeedService constructs a FeedService.
func NewFeedService(posts PostRepository, workouts WorkoutRepository, exercises ExerciseRepository, reactions ReactionRepository) *FeedService {
	return &FeedService{posts: posts, workouts: workouts, exercises: exercises, reactions: reactions}
}

// FindPostByID fetches a post and assembles its workout aggregate.
func (s *FeedService) FindPostByID(ctx context.Context, postID string) (*Post, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	if err := s.assembleWorkout(ctx, post.Workout); err != nil {
		return nil, err
	}
	return post, nil
}

// FindPostsByUsername returns the enriched posts owned by a user. An empty
// result is a valid outcome, not an error.
func (s *FeedService) FindPostsByUsername(ctx context.Context, username string) ([]Post, error) {
	posts, err := s.posts.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.assemblePosts(ctx, posts)
}

// FindPostsByUsernames returns the enriched posts owned by any of the users.
func (s *FeedService) FindPostsByUsernames(ctx context.Context, usernames []string) ([]Post, error) {
	if len(usernames) == 0 {
		return []Post{}, nil
	}
	posts, err := s.posts.FindByUsernames(ctx, usernames)
	if err != nil {
		return nil, err
	}
	return s.assemblePosts(ctx, posts)
}

func (s *FeedService) assemblePosts(ctx context.Context, posts []Post) ([]Post, error) {
	out := make([]Post, 0, len(posts))
	for _, post := range posts {
		if err := s.assembleWorkout(ctx, post.Workout); err != nil {
			return nil, err
		}
		out = append(out, post)
	}
	return out, nil
}

// assembleWorkout loads a workout's activities and overlays each activity's
// exercise name. The same assembly runs on every path that returns a workout.
func (s *FeedService) assembleWorkout(ctx context.Context, workout *Workout) error {
	if workout == nil {
		return nil
	}
	activities, err := s.workouts.FindActivitiesByWorkoutID(ctx, workout.ID)
	if err != nil {
		return err
	}
	if err := enrichActivities(ctx, s.exercises, activities); err != nil {
		return err
	}
	workout.Activities = activities
	return nil
}

// enrichActivities overlays the catalog name onto each activity. A dangling
// exercise reference leaves the name empty rather than failing the assembly.
func enrichActivities(ctx context.Context, exercises ExerciseRepository, activities []Activity) error {
	for i := range activities {
		exercise, err := exercises.FindByID(ctx, activities[i].ExerciseID)
		if err != nil {
			return err
		}
		if exercise == nil {
			observability.RecordDanglingExerciseRef()
			continue
		}
		activities[i].ExerciseName = exercise.Name
	}
	return nil
}

// CreatePostInput captures the payload for a post without a nested workout.
type CreatePostInput struct {
	Username  string
	Title     string
	Content   string
	WorkoutID string
}

// CreatePost builds and persists a post, optionally attaching an existing
// workout owned by the author. The attached workout is re-assembled so the
// stored reference carries current exercise names.
func (s *FeedService) CreatePost(ctx context.Context, input CreatePostInput) (*Post, error) {
	post := Post{
		ID:        uuid.NewString(),
		Username:  input.Username,
		Title:     input.Title,
		Content:   input.Content,
		CreatedAt: time.Now().UTC(),
	}

	if input.WorkoutID != "" {
		workout, err := s.workouts.FindByID(ctx, input.WorkoutID)
		if err != nil {
			return nil, err
		}
		if workout == nil {
			return nil, ErrWorkoutNotFound
		}
		if workout.Username != input.Username {
			return nil, ErrNotWorkoutOwner
		}
		if err := s.assembleWorkout(ctx, workout); err != nil {
			return nil, err
		}
		post.Workout = workout
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return &post, nil
}

// WorkoutInput is the nested workout payload of CreatePostWithWorkout.
type WorkoutInput struct {
	StartedAt   time.Time
	EndedAt     time.Time
	Description string
	Activities  []ActivityInput
}

// ActivityInput is one submitted activity of a nested workout.
type ActivityInput struct {
	ExerciseID string
	Sets       int
	Reps       int
	WeightKg   float64
}

// CreatePostWorkoutInput captures the payload for a post with a nested workout.
type CreatePostWorkoutInput struct {
	Username string
	Title    string
	Content  string
	Workout  *WorkoutInput
}

// CreatePostWithWorkout creates the workout, its activities and the post in a
// single transaction: either the post becomes visible with its fully persisted
// workout, or nothing does. Activities are stamped with the new workout id and
// enriched with catalog names before they are stored.
func (s *FeedService) CreatePostWithWorkout(ctx context.Context, input CreatePostWorkoutInput) (*Post, error) {
	now := time.Now().UTC()
	post := Post{
		ID:        uuid.NewString(),
		Username:  input.Username,
		Title:     input.Title,
		Content:   input.Content,
		CreatedAt: now,
	}

	if input.Workout == nil {
		if err := s.posts.Create(ctx, post); err != nil {
			return nil, err
		}
		return &post, nil
	}

	workout := Workout{
		ID:          uuid.NewString(),
		Username:    input.Username,
		StartedAt:   input.Workout.StartedAt.UTC(),
		EndedAt:     input.Workout.EndedAt.UTC(),
		Description: input.Workout.Description,
		CreatedAt:   now,
	}

	activities := make([]Activity, 0, len(input.Workout.Activities))
	for _, in := range input.Workout.Activities {
		activities = append(activities, Activity{
			ID:         uuid.NewString(),
			WorkoutID:  workout.ID,
			ExerciseID: in.ExerciseID,
			Sets:       in.Sets,
			Reps:       in.Reps,
			WeightKg:   in.WeightKg,
		})
	}
	if err := enrichActivities(ctx, s.exercises, activities); err != nil {
		return nil, err
	}
	workout.Activities = activities
	post.Workout = &workout

	if err := s.posts.CreateWithWorkout(ctx, post, workout, activities); err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdatePostInput captures the mutable fields of a post.
type UpdatePostInput struct {
	Title     string
	Content   string
	WorkoutID string
}

// UpdatePost replaces a post's title and content and optionally re-points its
// workout reference. The new workout must exist and belong to the acting
// user; re-pointing at someone else's workout is rejected.
func (s *FeedService) UpdatePost(ctx context.Context, postID string, input UpdatePostInput) (*Post, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	post.Title = input.Title
	post.Content = input.Content

	if input.WorkoutID != "" {
		workout, err := s.workouts.FindByID(ctx, input.WorkoutID)
		if err != nil {
			return nil, err
		}
		if workout == nil {
			return nil, ErrWorkoutNotFound
		}
		if workout.Username != post.Username {
			return nil, ErrNotWorkoutOwner
		}
		post.Workout = workout
	}

	if err := s.posts.Update(ctx, *post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes a post. Reactions cascade at the store.
func (s *FeedService) DeletePost(ctx context.Context, postID string) error {
	return s.posts.Delete(ctx, postID)
}

// ListReactions returns the reactions recorded for a post. An empty list is a
// valid outcome.
func (s *FeedService) ListReactions(ctx context.Context, postID string) ([]Reaction, error) {
	return s.reactions.FindByPostID(ctx, postID)
}

// AddReaction records a reaction. Re-adding overwrites the existing row, so
// at most one reaction exists per (post, user).
func (s *FeedService) AddReaction(ctx context.Context, postID, username string) error {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}
	return s.reactions.Save(ctx, Reaction{
		PostID:    postID,
		Username:  username,
		CreatedAt: time.Now().UTC(),
	})
}

// RemoveReaction deletes a reaction. Removing a missing reaction is a no-op.
func (s *FeedService) RemoveReaction(ctx context.Context, postID, username string) error {
	return s.reactions.DeleteByUsernameAndPostID(ctx, username, postID)
}
