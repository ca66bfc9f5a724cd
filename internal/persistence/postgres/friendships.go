package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/simonnxyz/drgym-app/internal/events"
)

// orderPair returns the canonical storage order for a friend edge. Each pair
// is stored exactly once with user_a < user_b, so the relation is symmetric
// by construction and a single write covers both directions.
func orderPair(userA, userB string) (string, string) {
	if userA > userB {
		return userB, userA
	}
	return userA, userB
}

// FriendshipsStore persists the symmetric friend relation.
type FriendshipsStore struct {
	pool *pgxpool.Pool
}

// NewFriendshipsStore constructs a FriendshipsStore.
func NewFriendshipsStore(pool *pgxpool.Pool) *FriendshipsStore {
	return &FriendshipsStore{pool: pool}
}

// AreFriends reports whether a symmetric friend edge exists.
func (s *FriendshipsStore) AreFriends(ctx context.Context, userA, userB string) (bool, error) {
	if userA == userB {
		return false, nil
	}
	first, second := orderPair(userA, userB)

	const query = `SELECT EXISTS (
        SELECT 1 FROM friendships WHERE user_a=$1 AND user_b=$2)`

	var exists bool
	if err := s.pool.QueryRow(ctx, query, first, second).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// AddFriend writes the canonical edge and records a friendship event in the
// same transaction. Re-adding an existing edge is a no-op and emits nothing.
func (s *FriendshipsStore) AddFriend(ctx context.Context, userA, userB string) error {
	if userA == userB {
		return nil
	}
	first, second := orderPair(userA, userB)
	now := time.Now().UTC()

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	const stmt = `INSERT INTO friendships (user_a, user_b, created_at)
        VALUES ($1,$2,$3)
        ON CONFLICT (user_a, user_b) DO NOTHING`

	ct, err := tx.Exec(ctx, stmt, first, second, now)
	if err != nil {
		return err
	}

	if ct.RowsAffected() > 0 {
		if err = insertOutbox(ctx, tx, "friendship", first+":"+second, "friendship.created", first, events.FriendshipCreated{
			UserA:      first,
			UserB:      second,
			OccurredAt: now,
		}); err != nil {
			return err
		}
	}

	err = tx.Commit(ctx)
	return err
}

// RemoveFriend clears the canonical edge. Removing a missing edge is a no-op.
func (s *FriendshipsStore) RemoveFriend(ctx context.Context, userA, userB string) error {
	if userA == userB {
		return nil
	}
	first, second := orderPair(userA, userB)

	_, err := s.pool.Exec(ctx, `DELETE FROM friendships WHERE user_a=$1 AND user_b=$2`, first, second)
	return err
}
