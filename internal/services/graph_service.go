package services

import (
	"context"
	"errors"
	"sync"

	"github.com/pixshare/backend/internal/models"
	"github.com/pixshare/backend/internal/repositories"
)

// ErrInvalidTarget is returned when a user tries to follow themselves.
var ErrInvalidTarget = errors.New("invalid follow target")

// FollowResult reports the post-toggle state of the relationship.
type FollowResult struct {
	IsFollowing    bool `json:"isFollowing"`
	FollowersCount int  `json:"followersCount"`
}

// GraphService maintains the follow relationship, which is stored
// redundantly on both user documents: the target's follower set and the
// actor's following set. The store offers no cross-document transaction,
// so each toggle runs under a mutex keyed on the ordered id pair to keep
// the two sequential writes from interleaving with a concurrent toggle
// on the same pair.
type GraphService struct {
	users    repositories.UserRepository
	notifier *NotificationService

	mu    sync.Mutex
	pairs map[string]*pairMutex
}

// pairMutex is reference-counted so entries can be evicted once the last
// toggle on the pair releases it; the map stays bounded by in-flight
// toggles rather than growing with every pair ever seen.
type pairMutex struct {
	sync.Mutex
	refs int
}

// NewGraphService creates a new GraphService
func NewGraphService(users repositories.UserRepository, notifier *NotificationService) *GraphService {
	return &GraphService{
		users:    users,
		notifier: notifier,
		pairs:    make(map[string]*pairMutex),
	}
}

func pairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + ":" + b
}

func (s *GraphService) lockPair(key string) {
	s.mu.Lock()
	lock, ok := s.pairs[key]
	if !ok {
		lock = &pairMutex{}
		s.pairs[key] = lock
	}
	lock.refs++
	s.mu.Unlock()

	lock.Lock()
}

func (s *GraphService) unlockPair(key string) {
	s.mu.Lock()
	lock := s.pairs[key]
	lock.refs--
	if lock.refs == 0 {
		delete(s.pairs, key)
	}
	s.mu.Unlock()

	lock.Unlock()
}

// ToggleFollow flips the follow relationship between actor and target and
// returns the new state. On the transition to following, a follow
// notification is emitted to the target; the graph mutation is persisted
// first and a notification failure never surfaces.
func (s *GraphService) ToggleFollow(ctx context.Context, actorID, targetID string) (*FollowResult, error) {
	if actorID == targetID {
		return nil, ErrInvalidTarget
	}

	key := pairKey(actorID, targetID)
	s.lockPair(key)
	defer s.unlockPair(key)

	target, err := s.users.GetUserByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.GetUserByID(ctx, actorID); err != nil {
		return nil, err
	}

	following := target.HasFollower(actorID)
	if following {
		if err := s.users.RemoveFollower(ctx, targetID, actorID); err != nil {
			return nil, err
		}
		if err := s.users.RemoveFollowing(ctx, actorID, targetID); err != nil {
			return nil, err
		}
		return &FollowResult{IsFollowing: false, FollowersCount: len(target.Followers) - 1}, nil
	}

	if err := s.users.AddFollower(ctx, targetID, actorID); err != nil {
		return nil, err
	}
	if err := s.users.AddFollowing(ctx, actorID, targetID); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, targetID, actorID, models.NotificationTypeFollow, "", "")

	return &FollowResult{IsFollowing: true, FollowersCount: len(target.Followers) + 1}, nil
}
