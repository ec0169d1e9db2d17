package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sideline-app/client/internal/apiclient"
	"github.com/sideline-app/client/internal/session"
	"github.com/sideline-app/client/types"
)

type Kind int

const (
	// KindInvalid is a local validation failure. No request was sent.
	KindInvalid Kind = iota + 1
	// KindAuth means the user must log in (again).
	KindAuth
	// KindServer carries the server's error text verbatim.
	KindServer
	// KindConflict is a duplicate application.
	KindConflict
	// KindUnavailable is a generic failure with no usable server text.
	KindUnavailable
)

// Error is a user-facing controller error. Message is safe to display.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

var (
	// ErrLoginRequired is wrapped by every error raised because no session
	// is available.
	ErrLoginRequired = errors.New("login required")

	// ErrSessionExpired is wrapped when the server rejected the token.
	ErrSessionExpired = errors.New("session expired")
)

// KindOf returns the Kind of err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func invalid(message string) *Error {
	return &Error{Kind: KindInvalid, Message: message}
}

func loginRequired() *Error {
	return &Error{Kind: KindAuth, Message: "Please log in to continue.", Err: ErrLoginRequired}
}

// fromServer surfaces the server's message verbatim, or fallback when the
// response carried none (transport failure, HTML page).
func fromServer(err error, fallback string) *Error {
	if msg := apiclient.ServerMessage(err); msg != "" {
		return &Error{Kind: KindServer, Message: msg, Err: err}
	}
	return &Error{Kind: KindUnavailable, Message: fallback, Err: err}
}

// SessionStore is the part of the session store controllers use.
type SessionStore interface {
	Current(ctx context.Context) (types.Session, error)
	Invalidate(ctx context.Context, reason string) error
	UpdateUser(ctx context.Context, fn func(*types.User)) (types.Session, error)
}

// requireSession returns the current session or a KindAuth error.
func requireSession(ctx context.Context, sessions SessionStore) (types.Session, error) {
	sess, err := sessions.Current(ctx)
	if err != nil {
		if !errors.Is(err, session.ErrNoSession) {
			slog.Warn("failed to read session", "error", err)
		}
		return types.Session{}, loginRequired()
	}
	return sess, nil
}

// expireOnUnauthorized invalidates the session when err is a 401/403 and
// returns the KindAuth error to report. It returns nil for other errors.
func expireOnUnauthorized(ctx context.Context, sessions SessionStore, err error) error {
	if !errors.Is(err, apiclient.ErrUnauthorized) {
		return nil
	}
	if invErr := sessions.Invalidate(ctx, err.Error()); invErr != nil {
		slog.Error("failed to clear session", "error", invErr)
	}
	return &Error{
		Kind:    KindAuth,
		Message: "Your session has expired. Please log in again.",
		Err:     errors.Join(ErrSessionExpired, err),
	}
}
