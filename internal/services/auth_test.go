package services

import (
	"context"
	"testing"

	"github.com/sideline-app/client/internal/apiclient"
	"github.com/sideline-app/client/internal/shell"
	"github.com/sideline-app/client/types"
)

type fakeAuthenticator struct {
	loggedIn bool
	err      error
	calls    int
}

func (f *fakeAuthenticator) Login(ctx context.Context, creds types.Credentials) (types.Session, error) {
	f.calls++
	if f.err != nil {
		return types.Session{}, f.err
	}
	return types.Session{UserID: 5, Email: creds.Email, Token: "t"}, nil
}

func (f *fakeAuthenticator) Signup(ctx context.Context, req types.SignupRequest) (types.Session, bool, error) {
	f.calls++
	if f.err != nil {
		return types.Session{}, false, f.err
	}
	if !f.loggedIn {
		return types.Session{}, false, nil
	}
	return types.Session{UserID: 5, Email: req.Email, Token: "t"}, true, nil
}

func TestAuthLogin(t *testing.T) {
	tests := []struct {
		name      string
		creds     types.Credentials
		err       error
		wantMsg   string
		wantCalls int
	}{
		{"ok", types.Credentials{Email: "a@b.com", Password: "pw"}, nil, "", 1},
		{"missing password", types.Credentials{Email: "a@b.com"}, nil, "Email and password are required.", 0},
		{"server message", types.Credentials{Email: "a@b.com", Password: "x"}, &apiclient.APIError{StatusCode: 401, Message: "Invalid credentials"}, "Invalid credentials", 1},
		{"no message", types.Credentials{Email: "a@b.com", Password: "x"}, &apiclient.APIError{StatusCode: 500}, "Login failed. Please try again.", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &fakeAuthenticator{err: tt.err}
			svc := NewAuthService(auth, shell.NewHistory())

			_, err := svc.Login(context.Background(), tt.creds)
			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("Login() error = %v", err)
				}
			} else if err == nil || err.Error() != tt.wantMsg {
				t.Errorf("Login() error = %v, want %q", err, tt.wantMsg)
			}
			if auth.calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", auth.calls, tt.wantCalls)
			}
		})
	}
}

func TestAuthSignupNavigation(t *testing.T) {
	tests := []struct {
		name      string
		loggedIn  bool
		wantRoute string
	}{
		{"token issued", true, shell.RouteFindWork},
		{"no token", false, shell.RouteLogin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			history := shell.NewHistory()
			svc := NewAuthService(&fakeAuthenticator{loggedIn: tt.loggedIn}, history)

			req := types.SignupRequest{FirstName: "Ana", LastName: "Reyes", Email: "ana@b.com", Password: "pw"}
			if _, _, err := svc.Signup(context.Background(), req); err != nil {
				t.Fatalf("Signup() error = %v", err)
			}
			if got := lastRoute(t, history); got != tt.wantRoute {
				t.Errorf("route = %q, want %q", got, tt.wantRoute)
			}
		})
	}
}

func TestAuthSignupValidation(t *testing.T) {
	auth := &fakeAuthenticator{}
	svc := NewAuthService(auth, shell.NewHistory())

	for _, req := range []types.SignupRequest{
		{FirstName: "Ana", Email: "ana@b.com", Password: "pw"},
		{FirstName: "Ana", LastName: "Reyes", Email: "not-an-email", Password: "pw"},
	} {
		if _, _, err := svc.Signup(context.Background(), req); KindOf(err) != KindInvalid {
			t.Errorf("Signup(%+v) error = %v, want KindInvalid", req, err)
		}
	}
	if auth.calls != 0 {
		t.Errorf("calls = %d, want 0", auth.calls)
	}
}

func TestPasswordReset(t *testing.T) {
	api := &fakeAPI{}
	history := shell.NewHistory()
	svc := NewPasswordService(api, history)
	ctx := context.Background()

	if err := svc.SendOTP(ctx, " "); KindOf(err) != KindInvalid {
		t.Errorf("SendOTP(blank) error = %v, want KindInvalid", err)
	}
	if err := svc.SendOTP(ctx, "a@b.com"); err != nil {
		t.Fatalf("SendOTP() error = %v", err)
	}

	api.resetErr = &apiclient.APIError{StatusCode: 400, Message: "Invalid or expired OTP"}
	if err := svc.ResetPassword(ctx, "a@b.com", "123456", "new"); err == nil || err.Error() != "Invalid or expired OTP" {
		t.Errorf("ResetPassword() error = %v, want server message", err)
	}
	if _, ok := history.Current(); ok {
		t.Error("failed reset should not navigate")
	}

	api.resetErr = nil
	if err := svc.ResetPassword(ctx, "a@b.com", "123456", "new"); err != nil {
		t.Fatalf("ResetPassword() error = %v", err)
	}
	if got := lastRoute(t, history); got != shell.RouteLogin {
		t.Errorf("route = %q, want %q", got, shell.RouteLogin)
	}
}
