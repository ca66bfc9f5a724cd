package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/simonnxyz/drgym-app/internal/domain"
	"github.com/simonnxyz/drgym-app/internal/events"
)

// ReactionsStore persists post reactions.
type ReactionsStore struct {
	pool *pgxpool.Pool
}

// NewReactionsStore constructs a ReactionsStore.
func NewReactionsStore(pool *pgxpool.Pool) *ReactionsStore {
	return &ReactionsStore{pool: pool}
}

// FindByPostID returns a post's reactions, oldest first.
func (s *ReactionsStore) FindByPostID(ctx context.Context, postID string) ([]domain.Reaction, error) {
	const query = `SELECT post_id, username, created_at
        FROM post_reactions WHERE post_id=$1
        ORDER BY created_at ASC`

	rows, err := s.pool.Query(ctx, query, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reactions := make([]domain.Reaction, 0)
	for rows.Next() {
		var reaction domain.Reaction
		if err := rows.Scan(&reaction.PostID, &reaction.Username, &reaction.CreatedAt); err != nil {
			return nil, err
		}
		reactions = append(reactions, reaction)
	}
	return reactions, rows.Err()
}

// Save upserts a reaction and records the reaction event in the same
// transaction. The (post_id, username) primary key keeps at most one row per
// pair; re-adding overwrites instead of duplicating.
func (s *ReactionsStore) Save(ctx context.Context, reaction domain.Reaction) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	const stmt = `INSERT INTO post_reactions (post_id, username, created_at)
        VALUES ($1,$2,$3)
        ON CONFLICT (post_id, username) DO UPDATE SET created_at = EXCLUDED.created_at`

	if _, err = tx.Exec(ctx, stmt, reaction.PostID, reaction.Username, reaction.CreatedAt); err != nil {
		return err
	}

	if err = insertOutbox(ctx, tx, "reaction", reaction.PostID+":"+reaction.Username, "reaction.added", reaction.PostID, events.ReactionAdded{
		PostID:     reaction.PostID,
		Username:   reaction.Username,
		OccurredAt: reaction.CreatedAt,
	}); err != nil {
		return err
	}

	err = tx.Commit(ctx)
	return err
}

// DeleteByUsernameAndPostID removes a reaction. Deleting a missing row is a
// no-op.
func (s *ReactionsStore) DeleteByUsernameAndPostID(ctx context.Context, username, postID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM post_reactions WHERE post_id=$1 AND username=$2`, postID, username)
	return err
}
