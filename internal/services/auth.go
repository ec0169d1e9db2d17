package services

import (
	"context"
	"net/mail"
	"strings"

	"github.com/sideline-app/client/internal/shell"
	"github.com/sideline-app/client/types"
)

// Authenticator is implemented by the session store.
type Authenticator interface {
	Login(ctx context.Context, creds types.Credentials) (types.Session, error)
	Signup(ctx context.Context, req types.SignupRequest) (types.Session, bool, error)
}

// AuthService validates the login and signup forms before handing them to
// the session store.
type AuthService struct {
	auth Authenticator
	nav  shell.Navigator
}

func NewAuthService(auth Authenticator, nav shell.Navigator) *AuthService {
	return &AuthService{auth: auth, nav: nav}
}

// Login authenticates. Navigation after a successful login is driven by
// the login-success overlay.
func (s *AuthService) Login(ctx context.Context, creds types.Credentials) (types.Session, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	if creds.Email == "" || creds.Password == "" {
		return types.Session{}, invalid("Email and password are required.")
	}
	sess, err := s.auth.Login(ctx, creds)
	if err != nil {
		return types.Session{}, fromServer(err, "Login failed. Please try again.")
	}
	return sess, nil
}

// Signup creates an account. Without an issued token the user is sent to
// the login screen.
func (s *AuthService) Signup(ctx context.Context, req types.SignupRequest) (types.Session, bool, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)

	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Password == "" {
		return types.Session{}, false, invalid("Please fill in all required fields.")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return types.Session{}, false, invalid("Please enter a valid email address.")
	}

	sess, loggedIn, err := s.auth.Signup(ctx, req)
	if err != nil {
		return types.Session{}, false, fromServer(err, "Signup failed. Please try again.")
	}
	if loggedIn {
		s.nav.Navigate(shell.RouteFindWork, nil)
	} else {
		s.nav.Navigate(shell.RouteLogin, nil)
	}
	return sess, loggedIn, nil
}
