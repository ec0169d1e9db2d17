package shell

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/sideline-app/client/internal/session"
	"github.com/sideline-app/client/types"
)

// SessionSource is the part of the session store the shell reads.
type SessionSource interface {
	Current(ctx context.Context) (types.Session, error)
	Logout(ctx context.Context) error
	Subscribe(fn func(session.Event)) func()
}

// MenuItem is one header link.
type MenuItem struct {
	Label string
	Route string
}

// Shell is the persistent header: session-aware links and the search box.
type Shell struct {
	sessions SessionSource
	nav      Navigator

	mu          sync.Mutex
	user        *types.User
	search      string
	unsubscribe func()
}

func New(ctx context.Context, sessions SessionSource, nav Navigator) *Shell {
	s := &Shell{sessions: sessions, nav: nav}
	if sess, err := sessions.Current(ctx); err == nil {
		user := sess.User
		s.user = &user
	} else if !errors.Is(err, session.ErrNoSession) {
		slog.Warn("failed to read session", "error", err)
	}
	s.unsubscribe = sessions.Subscribe(s.handle)
	return s
}

func (s *Shell) handle(ev session.Event) {
	s.mu.Lock()
	switch ev.Kind {
	case session.EventLogin, session.EventUpdated:
		user := ev.Session.User
		s.user = &user
	case session.EventLogout, session.EventExpired:
		s.user = nil
	}
	s.mu.Unlock()

	if ev.Kind == session.EventExpired {
		s.nav.Navigate(RouteLogin, ev.Reason)
	}
}

// LoggedIn reports whether a session is present.
func (s *Shell) LoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil
}

// User returns the cached user snapshot, if logged in.
func (s *Shell) User() (types.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return types.User{}, false
	}
	return *s.user, true
}

// Menu returns the header links for the current session state.
func (s *Shell) Menu() []MenuItem {
	items := []MenuItem{
		{Label: "Explore", Route: RouteExplore},
		{Label: "Find Work", Route: RouteFindWork},
	}
	if !s.LoggedIn() {
		return append(items,
			MenuItem{Label: "Log In", Route: RouteLogin},
			MenuItem{Label: "Sign Up", Route: RouteSignup},
		)
	}
	return append(items,
		MenuItem{Label: "Post a Job", Route: RoutePostJob},
		MenuItem{Label: "Profile", Route: RouteProfile},
		MenuItem{Label: "Log Out", Route: RouteLogin},
	)
}

func (s *Shell) SetSearch(value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.search = value
}

func (s *Shell) Search() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.search
}

// SubmitSearch navigates to the results for the search box value and
// clears the box. Blank input does nothing.
func (s *Shell) SubmitSearch() bool {
	s.mu.Lock()
	query := strings.TrimSpace(s.search)
	if query == "" {
		s.mu.Unlock()
		return false
	}
	s.search = ""
	s.mu.Unlock()

	s.nav.Navigate(ExploreRoute(query), nil)
	return true
}

// Logout ends the session and returns to the login screen.
func (s *Shell) Logout(ctx context.Context) error {
	if err := s.sessions.Logout(ctx); err != nil {
		return err
	}
	s.nav.Navigate(RouteLogin, nil)
	return nil
}

// Close stops following session changes.
func (s *Shell) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}
