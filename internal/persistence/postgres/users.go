package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/simonnxyz/drgym-app/internal/domain"
)

// UsersStore persists user profiles.
type UsersStore struct {
	pool *pgxpool.Pool
}

// NewUsersStore constructs a UsersStore.
func NewUsersStore(pool *pgxpool.Pool) *UsersStore {
	return &UsersStore{pool: pool}
}

// FindByUsername fetches a profile. Returns nil without error when absent.
func (s *UsersStore) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	const query = `SELECT username, name, surname, email, weight, height, created_at
        FROM users WHERE username=$1`

	row := s.pool.QueryRow(ctx, query, username)
	var user domain.User
	if err := row.Scan(&user.Username, &user.Name, &user.Surname, &user.Email, &user.Weight, &user.Height, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// FindBySearch returns usernames containing the search fragment.
func (s *UsersStore) FindBySearch(ctx context.Context, search string) ([]string, error) {
	const query = `SELECT username FROM users
        WHERE username ILIKE '%' || $1 || '%'
        ORDER BY username ASC`

	rows, err := s.pool.Query(ctx, query, search)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	usernames := make([]string, 0)
	for rows.Next() {
		var username string
		if err := rows.Scan(&username); err != nil {
			return nil, err
		}
		usernames = append(usernames, username)
	}
	return usernames, rows.Err()
}

// Update replaces the mutable profile fields of an existing user.
func (s *UsersStore) Update(ctx context.Context, user domain.User) error {
	const stmt = `UPDATE users SET name=$2, surname=$3, weight=$4, height=$5
        WHERE username=$1`

	ct, err := s.pool.Exec(ctx, stmt, user.Username, user.Name, user.Surname, user.Weight, user.Height)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Delete removes a user. Friendships, posts, workouts and reactions cascade.
func (s *UsersStore) Delete(ctx context.Context, username string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM users WHERE username=$1`, username)
	return err
}
