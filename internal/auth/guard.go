package auth

import (
	"context"
	"log"
	"time"
)

// FriendChecker answers symmetric friendship membership queries.
type FriendChecker interface {
	AreFriends(ctx context.Context, userA, userB string) (bool, error)
}

// Guard combines verified claims with the friendship graph to authorize
// owner-only and owner-or-friend operations. Expiry is re-checked against the
// clock on every call; no authorization state survives between requests.
type Guard struct {
	friends FriendChecker
	now     func() time.Time
}

// NewGuard constructs a Guard backed by the provided friendship source.
func NewGuard(friends FriendChecker) *Guard {
	return &Guard{friends: friends, now: time.Now}
}

// OwnerOnly reports whether the claims identify the resource owner.
func (g *Guard) OwnerOnly(claims *Claims, owner string) bool {
	if claims == nil || owner == "" {
		return false
	}
	if claims.Expired(g.now()) {
		return false
	}
	return claims.Subject == owner
}

// OwnerOrFriend reports whether the claims identify the resource owner or one
// of the owner's friends. A friendship lookup failure denies access.
func (g *Guard) OwnerOrFriend(ctx context.Context, claims *Claims, owner string) bool {
	if claims == nil || owner == "" {
		return false
	}
	if claims.Expired(g.now()) {
		return false
	}
	if claims.Subject == owner {
		return true
	}
	ok, err := g.friends.AreFriends(ctx, claims.Subject, owner)
	if err != nil {
		log.Printf("guard: friendship lookup failed for %s: %v", claims.Subject, err)
		return false
	}
	return ok
}
