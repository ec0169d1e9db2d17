package apiclient

import (
	"context"
	"net/http"
	"strings"

	"github.com/sideline-app/client/types"
)

// AuthResponse is returned by the login and signup endpoints.
type AuthResponse struct {
	User        types.User `json:"user"`
	Token       string     `json:"token"`
	AccessToken string     `json:"accessToken"`
}

// BearerToken returns the issued token, whichever field carried it.
func (r AuthResponse) BearerToken() string {
	if token := strings.TrimSpace(r.Token); token != "" {
		return token
	}
	return strings.TrimSpace(r.AccessToken)
}

type otpRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp,omitempty"`
	NewPassword string `json:"newPassword,omitempty"`
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, creds types.Credentials) (AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/login", "", creds, &resp); err != nil {
		return AuthResponse{}, err
	}
	return resp, nil
}

// Signup creates an account. Depending on the server version the
// response may or may not include a token.
func (c *Client) Signup(ctx context.Context, req types.SignupRequest) (AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/signup", "", req, &resp); err != nil {
		return AuthResponse{}, err
	}
	return resp, nil
}

// SendPasswordOTP asks the server to email a one-time password.
func (c *Client) SendPasswordOTP(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/api/applicants/forgot-password/send-otp", "", otpRequest{Email: email}, nil)
}

// ResetPassword verifies the one-time password and sets a new password.
func (c *Client) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	req := otpRequest{Email: email, OTP: otp, NewPassword: newPassword}
	return c.do(ctx, http.MethodPost, "/api/applicants/forgot-password/verify-otp", "", req, nil)
}
