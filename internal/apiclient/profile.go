package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/sideline-app/client/types"
)

// ProfileUpdate is the partial update accepted by the profile endpoint.
// Email identifies the profile and is not changed.
type ProfileUpdate struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

// userEnvelope accepts both {"user": {...}} and a bare user object.
type userEnvelope struct {
	User *types.User `json:"user"`
}

func decodeUser(data json.RawMessage) (types.User, bool, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return types.User{}, false, nil
	}
	var env userEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return types.User{}, false, err
	}
	if env.User != nil {
		return *env.User, true, nil
	}
	var user types.User
	if err := json.Unmarshal(data, &user); err != nil {
		return types.User{}, false, err
	}
	return user, user.ID != 0 || user.Email != "", nil
}

// GetProfile fetches the profile identified by email.
func (c *Client) GetProfile(ctx context.Context, email string) (types.User, error) {
	var raw json.RawMessage
	path := "/api/profile?email=" + url.QueryEscape(email)
	if err := c.do(ctx, http.MethodGet, path, "", nil, &raw); err != nil {
		return types.User{}, err
	}
	user, ok, err := decodeUser(raw)
	if err != nil {
		return types.User{}, fmt.Errorf("%w: profile: %v", ErrUnexpectedResponse, err)
	}
	if !ok {
		return types.User{}, fmt.Errorf("%w: profile: missing user", ErrUnexpectedResponse)
	}
	return user, nil
}

// UpdateProfile saves the editable profile fields. The returned bool is
// false when the server confirmed without echoing the user.
func (c *Client) UpdateProfile(ctx context.Context, token string, update ProfileUpdate) (types.User, bool, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPut, "/api/profile/update", token, update, &raw); err != nil {
		return types.User{}, false, err
	}
	user, ok, err := decodeUser(raw)
	if err != nil {
		slog.Debug("profile update echo not decoded", "error", err, "body_bytes", len(raw))
		return types.User{}, false, nil
	}
	return user, ok, nil
}
