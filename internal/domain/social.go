package domain

import (
	"context"
	"strings"
)

// UserRepository captures persistence operations for user profiles.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindBySearch(ctx context.Context, search string) ([]string, error)
	Update(ctx context.Context, user User) error
	Delete(ctx context.Context, username string) error
}

// FriendshipRepository stores the symmetric friend relation. Implementations
// write a single canonical edge per pair, so symmetry holds by construction
// and readers never observe a half-written relation.
type FriendshipRepository interface {
	AreFriends(ctx context.Context, userA, userB string) (bool, error)
	AddFriend(ctx context.Context, userA, userB string) error
	RemoveFriend(ctx context.Context, userA, userB string) error
}

// SocialService orchestrates profile and friendship workflows.
type SocialService struct {
	users   UserRepository
	friends FriendshipRepository
}

// NewSocialService constructs a SocialService.
func NewSocialService(users UserRepository, friends FriendshipRepository) *SocialService {
	return &SocialService{users: users, friends: friends}
}

// GetUser fetches a profile by username.
func (s *SocialService) GetUser(ctx context.Context, username string) (*User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// SearchUsers returns the usernames matching a substring.
func (s *SocialService) SearchUsers(ctx context.Context, search string) ([]string, error) {
	search = strings.TrimSpace(search)
	if search == "" {
		return []string{}, nil
	}
	return s.users.FindBySearch(ctx, search)
}

// UpdateUserInput captures the mutable profile fields.
type UpdateUserInput struct {
	Name    string
	Surname string
	Weight  float64
	Height  float64
}

// UpdateUser replaces the profile fields of an existing user.
func (s *SocialService) UpdateUser(ctx context.Context, username string, input UpdateUserInput) (*User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	user.Name = input.Name
	user.Surname = input.Surname
	user.Weight = input.Weight
	user.Height = input.Height

	if err := s.users.Update(ctx, *user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes a profile. Friendships and owned content cascade at the
// store.
func (s *SocialService) DeleteUser(ctx context.Context, username string) error {
	return s.users.Delete(ctx, username)
}

// AreFriends reports symmetric friendship membership.
func (s *SocialService) AreFriends(ctx context.Context, userA, userB string) (bool, error) {
	return s.friends.AreFriends(ctx, userA, userB)
}

// AddFriend creates the symmetric friend edge between two users. Befriending
// oneself is a no-op, as is re-adding an existing friend. The peer must exist.
func (s *SocialService) AddFriend(ctx context.Context, username, friend string) error {
	if username == friend {
		return nil
	}
	peer, err := s.users.FindByUsername(ctx, friend)
	if err != nil {
		return err
	}
	if peer == nil {
		return ErrUserNotFound
	}
	return s.friends.AddFriend(ctx, username, friend)
}

// RemoveFriend clears the symmetric friend edge. Removing a missing edge is a
// no-op.
func (s *SocialService) RemoveFriend(ctx context.Context, username, friend string) error {
	if username == friend {
		return nil
	}
	return s.friends.RemoveFriend(ctx, username, friend)
}
