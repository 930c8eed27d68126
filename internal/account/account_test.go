package account

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"example.com/ecoquest/internal/auth"
)

var authConfig = auth.Config{Secret: "secret", Issuer: "ecoquest.test", TTL: time.Hour}

type mapStore struct {
	mu    sync.Mutex
	users map[string]User
}

func newMapStore() *mapStore { return &mapStore{users: make(map[string]User)} }

func (m *mapStore) Create(_ context.Context, user User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.Username]; ok {
		return ErrUserExists
	}
	m.users[user.Username] = user
	return nil
}

func (m *mapStore) Get(_ context.Context, username string) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[username]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	store := newMapStore()
	svc := NewService(store, authConfig, bcrypt.MinCost)

	session, err := svc.Register(ctx, " alice ", "hunter2")
	require.NoError(t, err)
	require.Equal(t, "alice", session.Username)
	require.NotEqual(t, []byte("hunter2"), store.users["alice"].PasswordHash)

	claims, err := auth.Parse(session.Token, authConfig)
	require.NoError(t, err)
	require.Equal(t, "alice", claims.Subject)
	require.True(t, claims.HasScope(auth.ScopeActivitiesWrite))

	session, err = svc.Login(ctx, "alice", "hunter2")
	require.NoError(t, err)
	require.NotEmpty(t, session.Token)
}

func TestRegisterDuplicate(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMapStore(), authConfig, bcrypt.MinCost)

	_, err := svc.Register(ctx, "alice", "a")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "alice", "b")
	require.ErrorIs(t, err, ErrUserExists)
	require.Equal(t, "Username 'alice' already exists.", UserMessage(err, "alice"))
}

func TestLoginFailures(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMapStore(), authConfig, bcrypt.MinCost)
	_, err := svc.Register(ctx, "alice", "right")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "alice", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	require.Equal(t, "Invalid username or password.", UserMessage(err, "alice"))

	_, err = svc.Login(ctx, "nobody", "right")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "", "right")
	require.ErrorIs(t, err, ErrMissingCredentials)
	require.Equal(t, "Username and password cannot be empty.", UserMessage(err, ""))
}

func TestRegisterRejectsOverlongPassword(t *testing.T) {
	ctx := context.Background()
	store := newMapStore()
	svc := NewService(store, authConfig, bcrypt.MinCost)

	_, err := svc.Register(ctx, "alice", strings.Repeat("x", MaxPasswordBytes+1))
	require.ErrorIs(t, err, ErrPasswordTooLong)
	require.Equal(t, "Password must be at most 72 bytes.", UserMessage(err, "alice"))
	require.Empty(t, store.users)

	_, err = svc.Register(ctx, "alice", strings.Repeat("x", MaxPasswordBytes))
	require.NoError(t, err)
}
