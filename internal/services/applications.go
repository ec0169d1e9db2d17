package services

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/sideline-app/client/internal/apiclient"
	"github.com/sideline-app/client/internal/shell"
	"github.com/sideline-app/client/types"
)

const (
	EventApplicationSubmitted     = "application.submitted"
	EventApplicationStatusChanged = "application.status_changed"

	duplicateApplicationMarker = "already applied"
)

// ApplicationsAPI defines the remote calls used by ApplicationService.
type ApplicationsAPI interface {
	Apply(ctx context.Context, token string, req types.ApplicationRequest) (types.Application, error)
	JobApplicants(ctx context.Context, token string, jobID int64) ([]types.Application, error)
	UserApplications(ctx context.Context, token string, userID int64) ([]types.Application, error)
	UpdateApplicationStatus(ctx context.Context, token string, applicationID int64, status types.ApplicationStatus) (types.ApplicationStatus, error)
}

// ResumeUploader stores a resume file and returns its public URL.
type ResumeUploader interface {
	UploadResume(ctx context.Context, userID int64, name string, r io.Reader, size int64) (string, error)
	RemoveResume(ctx context.Context, url string) error
}

// EventPublisher announces client activity.
type EventPublisher interface {
	Publish(ctx context.Context, kind string, payload any) error
}

// Resume is a file attached to an application.
type Resume struct {
	Name string
	Body io.Reader
	Size int64
}

// ApplyOptions holds the optional parts of an application.
type ApplyOptions struct {
	CoverLetter string
	Experience  string
	Location    string
	Skills      []string
	Resume      *Resume
}

// ApplyResult is handed to the confirmation screen.
type ApplyResult struct {
	Application types.Application
	Job         types.JobPosting
}

// ApplicantList is the employer's view of one job's applications.
type ApplicantList struct {
	JobID int64

	mu   sync.Mutex
	apps []types.Application
}

func NewApplicantList(jobID int64, apps []types.Application) *ApplicantList {
	return &ApplicantList{JobID: jobID, apps: append([]types.Application(nil), apps...)}
}

// Applicants returns a copy of the visible applications.
func (l *ApplicantList) Applicants() []types.Application {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]types.Application(nil), l.apps...)
}

func (l *ApplicantList) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.apps)
}

func (l *ApplicantList) setStatus(applicationID int64, status types.ApplicationStatus) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.apps {
		if l.apps[i].ApplicationID == applicationID {
			l.apps[i].Status = status
			return
		}
	}
}

// ApplicationService submits and reviews applications.
type ApplicationService struct {
	api      ApplicationsAPI
	sessions SessionStore
	nav      shell.Navigator
	resumes  ResumeUploader
	events   EventPublisher
}

// NewApplicationService constructs the service. resumes and events may
// be nil when no storage or broker is configured.
func NewApplicationService(api ApplicationsAPI, sessions SessionStore, nav shell.Navigator, resumes ResumeUploader, events EventPublisher) *ApplicationService {
	return &ApplicationService{
		api:      api,
		sessions: sessions,
		nav:      nav,
		resumes:  resumes,
		events:   events,
	}
}

// Apply submits an application for job. Without a session it sends the
// user to the login screen and makes no request.
func (s *ApplicationService) Apply(ctx context.Context, job types.JobPosting, opts ApplyOptions) (ApplyResult, error) {
	sess, err := s.sessions.Current(ctx)
	if err != nil || !sess.Authenticated() {
		s.nav.Navigate(shell.RouteLogin, nil)
		return ApplyResult{}, &Error{
			Kind:    KindAuth,
			Message: "You must be logged in to apply for this job.",
			Err:     ErrLoginRequired,
		}
	}

	req := types.ApplicationRequest{
		JobID:       job.ID,
		UserID:      sess.UserID,
		Position:    "Applicant",
		Experience:  optional(opts.Experience),
		Location:    optional(opts.Location),
		CoverLetter: optional(opts.CoverLetter),
		Skills:      uniqueTrimmed(opts.Skills),
	}

	if opts.Resume != nil {
		if s.resumes == nil {
			return ApplyResult{}, invalid("Resume uploads are not configured.")
		}
		url, err := s.resumes.UploadResume(ctx, sess.UserID, opts.Resume.Name, opts.Resume.Body, opts.Resume.Size)
		if err != nil {
			return ApplyResult{}, &Error{Kind: KindUnavailable, Message: "Failed to upload resume.", Err: err}
		}
		req.ResumeURL = &url
	}

	app, err := s.api.Apply(ctx, sess.Token, req)
	if err != nil {
		if req.ResumeURL != nil {
			if rmErr := s.resumes.RemoveResume(ctx, *req.ResumeURL); rmErr != nil {
				slog.Warn("orphaned resume not removed", "url", *req.ResumeURL, "error", rmErr)
			}
		}
		return ApplyResult{}, s.applyError(ctx, err)
	}
	if app.JobID == 0 {
		app.JobID = job.ID
	}
	if app.UserID == 0 {
		app.UserID = sess.UserID
	}

	result := ApplyResult{Application: app, Job: job}
	s.publish(ctx, EventApplicationSubmitted, app)
	s.nav.Navigate(shell.RouteYouApplied, result.Job)
	return result, nil
}

// applyError maps a failed submission to the message shown to the user.
// On 401/403 the session store's expiry event moves the shell to login.
func (s *ApplicationService) applyError(ctx context.Context, err error) error {
	if authErr := expireOnUnauthorized(ctx, s.sessions, err); authErr != nil {
		return authErr
	}
	if isDuplicateApplication(err) {
		return &Error{Kind: KindConflict, Message: "You have already applied for this job.", Err: err}
	}
	return &Error{Kind: KindUnavailable, Message: "Failed to apply for this job.", Err: err}
}

// isDuplicateApplication matches the server's duplicate-application text.
// The server does not send a structured code for it.
func isDuplicateApplication(err error) bool {
	msg := apiclient.ServerMessage(err)
	return strings.Contains(strings.ToLower(msg), duplicateApplicationMarker)
}

// ListApplications lists the jobs a user applied to. A zero userID means
// the logged-in user.
func (s *ApplicationService) ListApplications(ctx context.Context, userID int64) ([]types.Application, error) {
	sess, err := requireSession(ctx, s.sessions)
	if err != nil {
		return nil, err
	}
	if userID == 0 {
		userID = sess.UserID
	}

	apps, err := s.api.UserApplications(ctx, sess.Token, userID)
	if err != nil {
		if authErr := expireOnUnauthorized(ctx, s.sessions, err); authErr != nil {
			return nil, authErr
		}
		return nil, fromServer(err, "Failed to load applications.")
	}
	return apps, nil
}

// ListApplicants lists the applications received for one of the user's jobs.
func (s *ApplicationService) ListApplicants(ctx context.Context, jobID int64) (*ApplicantList, error) {
	sess, err := requireSession(ctx, s.sessions)
	if err != nil {
		return nil, err
	}

	apps, err := s.api.JobApplicants(ctx, sess.Token, jobID)
	if err != nil {
		if authErr := expireOnUnauthorized(ctx, s.sessions, err); authErr != nil {
			return nil, authErr
		}
		return nil, fromServer(err, "Failed to load applicants.")
	}
	return NewApplicantList(jobID, apps), nil
}

// UpdateStatus requests a status transition. The local copy changes only
// after the server confirms, and takes the status the server echoed.
func (s *ApplicationService) UpdateStatus(ctx context.Context, list *ApplicantList, applicationID int64, status string) (types.ApplicationStatus, error) {
	requested, err := types.ParseApplicationStatus(status)
	if err != nil {
		return "", invalid("Status must be one of pending, reviewed, accepted or rejected.")
	}
	sess, err := requireSession(ctx, s.sessions)
	if err != nil {
		return "", err
	}

	confirmed, err := s.api.UpdateApplicationStatus(ctx, sess.Token, applicationID, requested)
	if err != nil {
		if authErr := expireOnUnauthorized(ctx, s.sessions, err); authErr != nil {
			return "", authErr
		}
		return "", fromServer(err, "Failed to update status.")
	}
	if list != nil {
		list.setStatus(applicationID, confirmed)
	}
	s.publish(ctx, EventApplicationStatusChanged, map[string]any{
		"application_id": applicationID,
		"status":         confirmed,
	})
	return confirmed, nil
}

func (s *ApplicationService) publish(ctx context.Context, kind string, payload any) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, kind, payload); err != nil {
		slog.Warn("failed to publish activity event", "kind", kind, "error", err)
	}
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
