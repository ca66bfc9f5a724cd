package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/simonnxyz/drgym-app/internal/domain"
)

// ExercisesStore reads the exercise catalog and applies rename refreshes to
// the denormalized names on activities.
type ExercisesStore struct {
	pool *pgxpool.Pool
}

// NewExercisesStore constructs an ExercisesStore.
func NewExercisesStore(pool *pgxpool.Pool) *ExercisesStore {
	return &ExercisesStore{pool: pool}
}

// FindByID fetches a catalog entry. Returns nil without error when absent so
// dangling references degrade instead of failing assembly.
func (s *ExercisesStore) FindByID(ctx context.Context, exerciseID string) (*domain.Exercise, error) {
	const query = `SELECT exercise_id, name FROM exercises WHERE exercise_id=$1`

	row := s.pool.QueryRow(ctx, query, exerciseID)
	var exercise domain.Exercise
	if err := row.Scan(&exercise.ID, &exercise.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &exercise, nil
}

// RefreshActivityNames rewrites the denormalized exercise name on every
// activity referencing the exercise, and the catalog entry itself. Returns
// the number of activities touched.
func (s *ExercisesStore) RefreshActivityNames(ctx context.Context, exerciseID, name string) (int64, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, `UPDATE exercises SET name=$2 WHERE exercise_id=$1`, exerciseID, name); err != nil {
		return 0, err
	}

	ct, err := tx.Exec(ctx, `UPDATE activities SET exercise_name=$2 WHERE exercise_id=$1`, exerciseID, name)
	if err != nil {
		return 0, err
	}

	err = tx.Commit(ctx)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}
