package services

import (
	"context"
	"strings"

	"github.com/sideline-app/client/internal/shell"
)

// PasswordAPI defines the password reset calls.
type PasswordAPI interface {
	SendPasswordOTP(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, otp, newPassword string) error
}

type PasswordService struct {
	api PasswordAPI
	nav shell.Navigator
}

func NewPasswordService(api PasswordAPI, nav shell.Navigator) *PasswordService {
	return &PasswordService{api: api, nav: nav}
}

// SendOTP asks the server to email a one-time password to email.
func (s *PasswordService) SendOTP(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return invalid("Please enter your email address.")
	}
	if err := s.api.SendPasswordOTP(ctx, email); err != nil {
		return fromServer(err, "Failed to send OTP.")
	}
	return nil
}

// ResetPassword sets a new password and returns to the login screen.
func (s *PasswordService) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	email = strings.TrimSpace(email)
	otp = strings.TrimSpace(otp)
	if email == "" || otp == "" || newPassword == "" {
		return invalid("Email, OTP and new password are required.")
	}
	if err := s.api.ResetPassword(ctx, email, otp, newPassword); err != nil {
		return fromServer(err, "Failed to reset password.")
	}
	s.nav.Navigate(shell.RouteLogin, nil)
	return nil
}
