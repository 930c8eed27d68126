// Package memory keeps activities and accounts in process memory for local
// development and tests.
package memory

import (
	"context"
	"sync"

	"example.com/ecoquest/internal/account"
	"example.com/ecoquest/internal/activity"
	"example.com/ecoquest/internal/events"
	"example.com/ecoquest/internal/gamification"
)

// Repository is an in-memory implementation of domain.ActivityRepository
// and account.UserStore.
type Repository struct {
	mu         sync.RWMutex
	activities []activity.Activity
	users      map[string]account.User
	published  []any
}

// NewRepository constructs an empty Repository.
func NewRepository() *Repository {
	return &Repository{users: make(map[string]account.User)}
}

// Append stores draft with the next sequential ID. The ID is the number of
// activities stored across all users plus one.
func (r *Repository) Append(_ context.Context, draft activity.Activity, unlocked []gamification.AchievementProgress) (activity.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	draft.ID = int64(len(r.activities)) + 1
	r.activities = append(r.activities, draft)

	r.published = append(r.published, events.NewActivityLogged(draft))
	for _, u := range unlocked {
		r.published = append(r.published, events.NewAchievementUnlocked(draft, u))
	}
	return draft, nil
}

// ListByUser returns userID's activities in insertion order.
func (r *Repository) ListByUser(_ context.Context, userID string) ([]activity.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]activity.Activity, 0)
	for _, a := range r.activities {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

// Events returns the event payloads recorded by Append, oldest first.
func (r *Repository) Events() []any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]any, len(r.published))
	copy(out, r.published)
	return out
}

// Create implements account.UserStore.
func (r *Repository) Create(_ context.Context, user account.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.Username]; ok {
		return account.ErrUserExists
	}
	r.users[user.Username] = user
	return nil
}

// Get implements account.UserStore.
func (r *Repository) Get(_ context.Context, username string) (account.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[username]
	if !ok {
		return account.User{}, account.ErrUserNotFound
	}
	return user, nil
}
