package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sideline-app/client/internal/apiclient"
	"github.com/sideline-app/client/internal/store"
	"github.com/sideline-app/client/types"
)

const (
	keyToken = "token"
	keyID    = "id"
	keyUser  = "user"
)

var (
	// ErrNoSession is returned when no usable session is stored.
	ErrNoSession = errors.New("no session")

	// ErrMissingToken is returned when a login response carries no token.
	ErrMissingToken = errors.New("login response did not include a token")
)

// StateStore defines the durable key/value operations the store needs.
type StateStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// Authenticator defines the remote auth calls.
type Authenticator interface {
	Login(ctx context.Context, creds types.Credentials) (apiclient.AuthResponse, error)
	Signup(ctx context.Context, req types.SignupRequest) (apiclient.AuthResponse, error)
}

type EventKind int

const (
	EventLogin EventKind = iota + 1
	EventLogout
	EventExpired
	EventUpdated
)

func (k EventKind) String() string {
	switch k {
	case EventLogin:
		return "login"
	case EventLogout:
		return "logout"
	case EventExpired:
		return "expired"
	case EventUpdated:
		return "updated"
	default:
		return "unknown"
	}
}

// Event is delivered to subscribers after every session change.
// Session is the zero value for logout and expiry.
type Event struct {
	Kind    EventKind
	Session types.Session
	Reason  string
}

// Store holds the authenticated session in durable client state.
type Store struct {
	state StateStore
	auth  Authenticator
	now   func() time.Time

	mu sync.Mutex

	subsMu sync.Mutex
	subs   map[int]func(Event)
	nextID int
}

func NewStore(state StateStore, auth Authenticator) *Store {
	return &Store{
		state: state,
		auth:  auth,
		now:   time.Now,
		subs:  make(map[int]func(Event)),
	}
}

// Login exchanges credentials for a session and persists it.
func (s *Store) Login(ctx context.Context, creds types.Credentials) (types.Session, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	resp, err := s.auth.Login(ctx, creds)
	if err != nil {
		return types.Session{}, err
	}
	sess, err := sessionFromAuth(resp, creds.Email)
	if err != nil {
		return types.Session{}, err
	}
	if err := s.persist(ctx, sess); err != nil {
		return types.Session{}, err
	}
	slog.Info("logged in", "user_id", sess.UserID)
	s.notify(Event{Kind: EventLogin, Session: sess})
	return sess, nil
}

// Signup creates an account. The returned bool reports whether the
// server issued a token and the user is now logged in.
func (s *Store) Signup(ctx context.Context, req types.SignupRequest) (types.Session, bool, error) {
	req.Email = strings.TrimSpace(req.Email)
	resp, err := s.auth.Signup(ctx, req)
	if err != nil {
		return types.Session{}, false, err
	}
	if resp.BearerToken() == "" {
		return types.Session{}, false, nil
	}
	sess, err := sessionFromAuth(resp, req.Email)
	if err != nil {
		return types.Session{}, false, err
	}
	if err := s.persist(ctx, sess); err != nil {
		return types.Session{}, false, err
	}
	s.notify(Event{Kind: EventLogin, Session: sess})
	return sess, true, nil
}

// Logout removes the stored session.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	err := s.clear(ctx)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.notify(Event{Kind: EventLogout})
	return nil
}

// Invalidate clears the session after the server rejected its token.
func (s *Store) Invalidate(ctx context.Context, reason string) error {
	s.mu.Lock()
	err := s.clear(ctx)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	slog.Warn("session invalidated", "reason", reason)
	s.notify(Event{Kind: EventExpired, Reason: reason})
	return nil
}

// Current returns the stored session or ErrNoSession. Unreadable or
// expired entries are cleared.
func (s *Store) Current(ctx context.Context) (types.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// UpdateUser applies fn to the cached user snapshot and stores it.
func (s *Store) UpdateUser(ctx context.Context, fn func(*types.User)) (types.Session, error) {
	s.mu.Lock()
	sess, err := s.load(ctx)
	if err != nil {
		s.mu.Unlock()
		return types.Session{}, err
	}
	fn(&sess.User)
	sess.User.Email = sess.Email
	err = s.writeUser(ctx, sess.User)
	s.mu.Unlock()
	if err != nil {
		return types.Session{}, err
	}
	s.notify(Event{Kind: EventUpdated, Session: sess})
	return sess, nil
}

// Subscribe registers fn for session events and returns a function that
// removes it.
func (s *Store) Subscribe(fn func(Event)) func() {
	s.subsMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subsMu.Lock()
			delete(s.subs, id)
			s.subsMu.Unlock()
		})
	}
}

func (s *Store) notify(ev Event) {
	s.subsMu.Lock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subsMu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

func (s *Store) persist(ctx context.Context, sess types.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writeUser(ctx, sess.User); err != nil {
		return err
	}
	if err := s.state.Set(ctx, keyID, strconv.FormatInt(sess.UserID, 10)); err != nil {
		_ = s.clear(ctx)
		return fmt.Errorf("store session id: %w", err)
	}
	if err := s.state.Set(ctx, keyToken, sess.Token); err != nil {
		_ = s.clear(ctx)
		return fmt.Errorf("store session token: %w", err)
	}
	return nil
}

func (s *Store) writeUser(ctx context.Context, user types.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	if err := s.state.Set(ctx, keyUser, string(data)); err != nil {
		return fmt.Errorf("store session user: %w", err)
	}
	return nil
}

func (s *Store) load(ctx context.Context) (types.Session, error) {
	token, err := s.get(ctx, keyToken)
	if err != nil {
		return types.Session{}, err
	}
	if token == "" {
		return types.Session{}, ErrNoSession
	}

	rawID, err := s.get(ctx, keyID)
	if err != nil && !errors.Is(err, ErrNoSession) {
		return types.Session{}, err
	}
	id, convErr := strconv.ParseInt(strings.TrimSpace(rawID), 10, 64)
	if convErr != nil || id == 0 {
		slog.Warn("discarding session without user id")
		return types.Session{}, s.discard(ctx)
	}

	var user types.User
	rawUser, err := s.get(ctx, keyUser)
	switch {
	case errors.Is(err, ErrNoSession):
	case err != nil:
		return types.Session{}, err
	default:
		if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
			slog.Warn("discarding corrupt session user", "error", err)
			return types.Session{}, s.discard(ctx)
		}
	}

	if tokenExpired(token, s.now()) {
		slog.Info("discarding expired session token", "user_id", id)
		return types.Session{}, s.discard(ctx)
	}

	return types.Session{
		UserID: id,
		Email:  strings.TrimSpace(user.Email),
		Token:  token,
		User:   user,
	}, nil
}

func (s *Store) get(ctx context.Context, key string) (string, error) {
	value, err := s.state.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return "", ErrNoSession
	}
	return value, err
}

// discard clears the keys and reports ErrNoSession.
func (s *Store) discard(ctx context.Context) error {
	if err := s.clear(ctx); err != nil {
		return err
	}
	return ErrNoSession
}

func (s *Store) clear(ctx context.Context) error {
	if err := s.state.Delete(ctx, keyToken, keyID, keyUser); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func sessionFromAuth(resp apiclient.AuthResponse, email string) (types.Session, error) {
	token := resp.BearerToken()
	if token == "" {
		return types.Session{}, ErrMissingToken
	}
	user := resp.User
	if user.Email == "" {
		user.Email = email
	}
	if user.ID == 0 {
		return types.Session{}, fmt.Errorf("login response did not include a user id")
	}
	return types.Session{
		UserID: user.ID,
		Email:  user.Email,
		Token:  token,
		User:   user,
	}, nil
}

// tokenExpired reports whether token is a JWT whose exp claim has
// passed. The signature is not checked and opaque tokens never expire.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.After(now)
}
