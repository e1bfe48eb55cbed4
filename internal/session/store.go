package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"strings"
	"sync"

	"storefront/internal/domain"
	"storefront/internal/kv"
)

// Login failure messages are user-facing and distinguish a missing account
// from a credential mismatch.
var (
	ErrUserNotFound       = errors.New("User not found")
	ErrInvalidCredentials = errors.New("Invalid Credentials")
)

// Store holds the current authenticated identity. At most one identity
// exists at a time: the kv slot under kv.KeyUser is the single account
// record, and login, signup, and logout all act on that one slot. A signup
// overwrites whatever account was stored before.
type Store struct {
	mu     sync.Mutex
	store  kv.Store
	logger *log.Logger
	user   *domain.User
	err    string
}

// Open builds a Store, restoring the persisted identity if one exists. A
// restored identity is immediately authenticated.
func Open(ctx context.Context, store kv.Store, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	s := &Store{store: store, logger: logger}

	raw, err := store.Get(ctx, kv.KeyUser)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Printf("session store: restore error=%v", err)
		}
		return s
	}
	var u domain.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		logger.Printf("session store: restore unmarshal error=%v", err)
		return s
	}
	s.user = &u
	return s
}

// SignupInput captures the fields expected by signup.
type SignupInput struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password"`
}

// Signup stores a new identity record and activates it as the current
// session. The assigned id is random and not guaranteed unique; there is no
// verification step.
func (s *Store) Signup(ctx context.Context, in SignupInput) (*domain.User, error) {
	if err := validateSignup(in); err != nil {
		return nil, err
	}

	u := domain.User{
		ID:        rand.Int63n(1000),
		Email:     strings.TrimSpace(in.Email),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Password:  in.Password,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &u
	s.err = ""
	s.persist(ctx, u)
	s.logger.Printf("session store: signup id=%d email=%s", u.ID, u.Email)
	return &u, nil
}

// Login compares the candidate credentials against the stored identity
// record. Outcomes: no stored record, field mismatch, or match; only a match
// activates the session. The error string is kept on the store until the
// next successful action.
func (s *Store) Login(ctx context.Context, email, password string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.store.Get(ctx, kv.KeyUser)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.user = nil
			s.err = ErrUserNotFound.Error()
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("read identity record: %w", err)
	}

	var u domain.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, fmt.Errorf("decode identity record: %w", err)
	}

	if u.Email != email || u.Password != password {
		s.user = nil
		s.err = ErrInvalidCredentials.Error()
		return nil, ErrInvalidCredentials
	}

	s.user = &u
	s.err = ""
	s.persist(ctx, u)
	s.logger.Printf("session store: login id=%d email=%s", u.ID, u.Email)
	return &u, nil
}

// Logout clears the current identity and erases the persisted record.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.err = ""
	if err := s.store.Remove(ctx, kv.KeyUser); err != nil {
		s.logger.Printf("session store: logout remove error=%v", err)
	}
}

// Current returns the authenticated identity, if any.
func (s *Store) Current() (domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return domain.User{}, false
	}
	return *s.user, true
}

// IsAuthenticated reports whether an identity is active.
func (s *Store) IsAuthenticated() bool {
	_, ok := s.Current()
	return ok
}

// Err returns the last auth failure message, empty after a success.
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// persist writes the identity record. Caller holds the lock; failures are
// logged, not surfaced, matching the fire-and-forget persistence model.
func (s *Store) persist(ctx context.Context, u domain.User) {
	raw, err := json.Marshal(u)
	if err != nil {
		s.logger.Printf("session store: marshal error=%v", err)
		return
	}
	if err := s.store.Set(ctx, kv.KeyUser, string(raw)); err != nil {
		s.logger.Printf("session store: persist error=%v", err)
	}
}

func validateSignup(in SignupInput) error {
	if strings.TrimSpace(in.Email) == "" {
		return errors.New("email is required")
	}
	if !strings.Contains(in.Email, "@") {
		return errors.New("invalid email")
	}
	if len(strings.TrimSpace(in.FirstName)) < 2 {
		return errors.New("first name must be at least 2 characters")
	}
	if len(strings.TrimSpace(in.LastName)) < 2 {
		return errors.New("last name must be at least 2 characters")
	}
	if len(in.Password) < 6 {
		return errors.New("password must be at least 6 characters")
	}
	return nil
}
