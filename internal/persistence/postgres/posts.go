package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/simonnxyz/drgym-app/internal/domain"
	"github.com/simonnxyz/drgym-app/internal/events"
	"github.com/simonnxyz/drgym-app/internal/observability"
)

// PostsStore persists posts and the nested post+workout write.
type PostsStore struct {
	pool *pgxpool.Pool
}

// NewPostsStore constructs a PostsStore.
func NewPostsStore(pool *pgxpool.Pool) *PostsStore {
	return &PostsStore{pool: pool}
}

const postColumns = `p.post_id, p.username, p.title, p.content, p.created_at,
        w.workout_id, w.username, w.started_at, w.ended_at, w.description, w.created_at`

const postFrom = ` FROM posts p LEFT JOIN workouts w ON w.workout_id = p.workout_id`

type postRow interface {
	Scan(dest ...interface{}) error
}

// scanPost maps a joined post row, attaching the workout shell when the post
// references one. Activities are left for the assembler to load.
func scanPost(row postRow) (*domain.Post, error) {
	var (
		post         domain.Post
		workoutID    *string
		workoutOwner *string
		startedAt    *time.Time
		endedAt      *time.Time
		description  *string
		createdAt    *time.Time
	)
	if err := row.Scan(&post.ID, &post.Username, &post.Title, &post.Content, &post.CreatedAt,
		&workoutID, &workoutOwner, &startedAt, &endedAt, &description, &createdAt); err != nil {
		return nil, err
	}
	if workoutID != nil {
		post.Workout = &domain.Workout{
			ID:          *workoutID,
			Username:    *workoutOwner,
			StartedAt:   *startedAt,
			EndedAt:     *endedAt,
			Description: *description,
			CreatedAt:   *createdAt,
		}
	}
	return &post, nil
}

// FindByID fetches a post by id. Returns nil without error when absent.
func (s *PostsStore) FindByID(ctx context.Context, postID string) (*domain.Post, error) {
	query := `SELECT ` + postColumns + postFrom + ` WHERE p.post_id=$1`

	post, err := scanPost(s.pool.QueryRow(ctx, query, postID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return post, nil
}

// FindByUsername returns a user's posts, newest first.
func (s *PostsStore) FindByUsername(ctx context.Context, username string) ([]domain.Post, error) {
	query := `SELECT ` + postColumns + postFrom + ` WHERE p.username=$1
        ORDER BY p.created_at DESC, p.post_id DESC`

	return s.queryPosts(ctx, query, username)
}

// FindByUsernames returns posts owned by any of the users, newest first.
func (s *PostsStore) FindByUsernames(ctx context.Context, usernames []string) ([]domain.Post, error) {
	query := `SELECT ` + postColumns + postFrom + ` WHERE p.username = ANY($1)
        ORDER BY p.created_at DESC, p.post_id DESC`

	return s.queryPosts(ctx, query, usernames)
}

func (s *PostsStore) queryPosts(ctx context.Context, query string, args ...interface{}) ([]domain.Post, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]domain.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}
	return posts, rows.Err()
}

// Create persists the post and records the post.created event in a single
// transaction.
func (s *PostsStore) Create(ctx context.Context, post domain.Post) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	if err = insertPost(ctx, tx, post); err != nil {
		return err
	}
	if err = insertPostCreated(ctx, tx, post); err != nil {
		return err
	}

	err = tx.Commit(ctx)
	if err != nil {
		return err
	}
	observability.RecordPostPersisted(post.CreatedAt)
	return nil
}

// CreateWithWorkout persists the workout, its activities, the post and the
// outbox events in one transaction. If any insert fails the post never
// becomes visible.
func (s *PostsStore) CreateWithWorkout(ctx context.Context, post domain.Post, workout domain.Workout, activities []domain.Activity) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	const insertWorkout = `INSERT INTO workouts (workout_id, username, started_at, ended_at, description, created_at)
        VALUES ($1,$2,$3,$4,$5,$6)`

	_, err = tx.Exec(ctx, insertWorkout,
		workout.ID, workout.Username, workout.StartedAt, workout.EndedAt, workout.Description, workout.CreatedAt)
	if err != nil {
		return err
	}

	const insertActivity = `INSERT INTO activities (activity_id, workout_id, exercise_id, exercise_name, sets, reps, weight_kg, position)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`

	for i, activity := range activities {
		_, err = tx.Exec(ctx, insertActivity,
			activity.ID, activity.WorkoutID, activity.ExerciseID, activity.ExerciseName,
			activity.Sets, activity.Reps, activity.WeightKg, i)
		if err != nil {
			return err
		}
	}

	if err = insertPost(ctx, tx, post); err != nil {
		return err
	}

	if err = insertOutbox(ctx, tx, "workout", workout.ID, "workout.recorded", workout.Username, events.WorkoutRecorded{
		WorkoutID:     workout.ID,
		Username:      workout.Username,
		ActivityCount: len(activities),
		StartedAt:     workout.StartedAt,
		EndedAt:       workout.EndedAt,
	}); err != nil {
		return err
	}
	if err = insertPostCreated(ctx, tx, post); err != nil {
		return err
	}

	err = tx.Commit(ctx)
	if err != nil {
		return err
	}
	observability.RecordPostPersisted(post.CreatedAt)
	return nil
}

func insertPost(ctx context.Context, tx pgx.Tx, post domain.Post) error {
	const stmt = `INSERT INTO posts (post_id, username, title, content, workout_id, created_at)
        VALUES ($1,$2,$3,$4,$5,$6)`

	workoutID := ""
	if post.Workout != nil {
		workoutID = post.Workout.ID
	}
	_, err := tx.Exec(ctx, stmt, post.ID, post.Username, post.Title, post.Content, nullIfEmpty(workoutID), post.CreatedAt)
	return err
}

func insertPostCreated(ctx context.Context, tx pgx.Tx, post domain.Post) error {
	workoutID := ""
	if post.Workout != nil {
		workoutID = post.Workout.ID
	}
	return insertOutbox(ctx, tx, "post", post.ID, "post.created", post.Username, events.PostCreated{
		PostID:    post.ID,
		Username:  post.Username,
		WorkoutID: workoutID,
		CreatedAt: post.CreatedAt,
	})
}

// Update replaces a post's title, content and workout reference.
func (s *PostsStore) Update(ctx context.Context, post domain.Post) error {
	const stmt = `UPDATE posts SET title=$2, content=$3, workout_id=$4 WHERE post_id=$1`

	workoutID := ""
	if post.Workout != nil {
		workoutID = post.Workout.ID
	}
	ct, err := s.pool.Exec(ctx, stmt, post.ID, post.Title, post.Content, nullIfEmpty(workoutID))
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

// Delete removes a post. Reactions cascade.
func (s *PostsStore) Delete(ctx context.Context, postID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM posts WHERE post_id=$1`, postID)
	return err
}
