// Package account registers users and signs them in.
package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"example.com/ecoquest/internal/auth"
)

var (
	// ErrUserExists is returned by UserStore.Create for a taken username.
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound is returned by UserStore.Get for an unknown username.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials covers both unknown users and wrong passwords.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrMissingCredentials is returned when username or password is blank.
	ErrMissingCredentials = errors.New("missing credentials")
	// ErrPasswordTooLong is returned for passwords bcrypt cannot hash.
	ErrPasswordTooLong = errors.New("password too long")
)

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// User is a stored account.
type User struct {
	Username     string
	PasswordHash []byte
	CreatedAt    time.Time
}

// UserStore persists accounts.
type UserStore interface {
	Create(ctx context.Context, user User) error
	Get(ctx context.Context, username string) (User, error)
}

// Session is the result of a successful register or login.
type Session struct {
	Username  string
	Token     string
	ExpiresAt time.Time
}

// Service registers users and issues tokens.
type Service struct {
	store UserStore
	cfg   auth.Config
	cost  int
	clock func() time.Time
}

// NewService constructs a Service. cost is the bcrypt cost; values outside
// bcrypt's range fall back to bcrypt.DefaultCost.
func NewService(store UserStore, cfg auth.Config, cost int) *Service {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Service{store: store, cfg: cfg, cost: cost, clock: time.Now}
}

// Register creates an account and signs the new user in.
func (s *Service) Register(ctx context.Context, username, password string) (Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return Session{}, ErrMissingCredentials
	}
	if len(password) > MaxPasswordBytes {
		return Session{}, ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}

	if err := s.store.Create(ctx, User{Username: username, PasswordHash: hash, CreatedAt: s.clock().UTC()}); err != nil {
		return Session{}, err
	}
	return s.issue(username)
}

// Login checks the password and issues a token.
func (s *Service) Login(ctx context.Context, username, password string) (Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return Session{}, ErrMissingCredentials
	}

	user, err := s.store.Get(ctx, username)
	if errors.Is(err, ErrUserNotFound) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}
	return s.issue(user.Username)
}

func (s *Service) issue(username string) (Session, error) {
	token, expires, err := auth.Issue(username, auth.UserScopes, s.cfg, s.clock())
	if err != nil {
		return Session{}, err
	}
	return Session{Username: username, Token: token, ExpiresAt: expires}, nil
}

// UserMessage renders err the way the sign-in forms report it.
func UserMessage(err error, username string) string {
	switch {
	case errors.Is(err, ErrMissingCredentials):
		return "Username and password cannot be empty."
	case errors.Is(err, ErrUserExists):
		return fmt.Sprintf("Username '%s' already exists.", strings.TrimSpace(username))
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid username or password."
	case errors.Is(err, ErrPasswordTooLong):
		return fmt.Sprintf("Password must be at most %d bytes.", MaxPasswordBytes)
	default:
		return err.Error()
	}
}
