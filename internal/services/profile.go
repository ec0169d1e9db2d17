package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sideline-app/client/internal/apiclient"
	"github.com/sideline-app/client/types"
)

// ProfileAPI defines the remote calls used by ProfileService.
type ProfileAPI interface {
	GetProfile(ctx context.Context, email string) (types.User, error)
	UpdateProfile(ctx context.Context, token string, update apiclient.ProfileUpdate) (types.User, bool, error)
	UserApplications(ctx context.Context, token string, userID int64) ([]types.Application, error)
	SetEmailSent(ctx context.Context, token string, userID int64, sent bool) error
}

// ProfilePatch holds the editable profile fields. Email cannot be changed.
type ProfilePatch struct {
	FirstName string
	LastName  string
	Phone     string
}

// ProfileService loads and saves the logged-in user's profile.
type ProfileService struct {
	api      ProfileAPI
	sessions SessionStore
}

func NewProfileService(api ProfileAPI, sessions SessionStore) *ProfileService {
	return &ProfileService{api: api, sessions: sessions}
}

// Load fetches the profile and derives the verification flags from the
// user's latest applicant record. A failed applications read leaves the
// profile unverified.
func (s *ProfileService) Load(ctx context.Context) (types.UserProfile, error) {
	sess, err := requireSession(ctx, s.sessions)
	if err != nil {
		return types.UserProfile{}, err
	}
	if sess.UserID == 0 || sess.Email == "" {
		return types.UserProfile{}, loginRequired()
	}

	user, err := s.api.GetProfile(ctx, sess.Email)
	if err != nil {
		return types.UserProfile{}, fromServer(err, "Failed to load profile.")
	}
	if user.ID == 0 {
		user.ID = sess.UserID
	}
	profile := types.UserProfile{User: user}

	apps, err := s.api.UserApplications(ctx, sess.Token, sess.UserID)
	if err != nil {
		if authErr := expireOnUnauthorized(ctx, s.sessions, err); authErr != nil {
			return types.UserProfile{}, authErr
		}
		slog.Warn("failed to load applications for verification", "user_id", sess.UserID, "error", err)
		apps = nil
	}
	profile.DeriveVerification(apps)
	return profile, nil
}

// Save sends the patch and refreshes the session's cached user.
func (s *ProfileService) Save(ctx context.Context, profile types.UserProfile, patch ProfilePatch) (types.UserProfile, error) {
	sess, err := requireSession(ctx, s.sessions)
	if err != nil {
		return types.UserProfile{}, err
	}
	if !sess.Authenticated() || sess.Email == "" {
		return types.UserProfile{}, loginRequired()
	}

	patch.FirstName = strings.TrimSpace(patch.FirstName)
	patch.LastName = strings.TrimSpace(patch.LastName)
	patch.Phone = strings.TrimSpace(patch.Phone)
	if patch.FirstName == "" || patch.LastName == "" {
		return types.UserProfile{}, invalid("First and last name are required.")
	}

	update := apiclient.ProfileUpdate{
		Email:     sess.Email,
		FirstName: patch.FirstName,
		LastName:  patch.LastName,
		Phone:     patch.Phone,
	}
	saved, echoed, err := s.api.UpdateProfile(ctx, sess.Token, update)
	if err != nil {
		if authErr := expireOnUnauthorized(ctx, s.sessions, err); authErr != nil {
			return types.UserProfile{}, authErr
		}
		return types.UserProfile{}, fromServer(err, "Failed to update profile.")
	}

	if echoed {
		profile.User = saved
	} else {
		profile.FirstName = patch.FirstName
		profile.LastName = patch.LastName
		profile.Phone = patch.Phone
	}
	profile.Email = sess.Email
	if profile.ID == 0 {
		profile.ID = sess.UserID
	}

	_, err = s.sessions.UpdateUser(ctx, func(u *types.User) {
		u.FirstName = profile.FirstName
		u.LastName = profile.LastName
		u.Phone = profile.Phone
	})
	if err != nil {
		slog.Warn("failed to refresh session user", "error", err)
	}
	return profile, nil
}

// SetEmailSent records whether the user sent the verification email.
func (s *ProfileService) SetEmailSent(ctx context.Context, sent bool) error {
	sess, err := requireSession(ctx, s.sessions)
	if err != nil {
		return err
	}
	if err := s.api.SetEmailSent(ctx, sess.Token, sess.UserID, sent); err != nil {
		if authErr := expireOnUnauthorized(ctx, s.sessions, err); authErr != nil {
			return authErr
		}
		return fromServer(err, "Failed to update email status.")
	}
	return nil
}
