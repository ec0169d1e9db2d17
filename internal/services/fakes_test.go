package services

import (
	"context"
	"io"
	"testing"

	"github.com/sideline-app/client/internal/apiclient"
	"github.com/sideline-app/client/internal/session"
	"github.com/sideline-app/client/internal/shell"
	"github.com/sideline-app/client/internal/tests/testutil"
	"github.com/sideline-app/client/types"
)

// fakeAPI records every call and serves canned responses.
type fakeAPI struct {
	calls []string

	jobs      []types.JobPosting
	listErr   error
	searchErr error
	lastQuery string
	job       types.JobPosting
	getErr    error
	myJobs    []types.JobPosting
	myJobsErr error
	created   types.JobPosting
	createErr error
	lastDraft types.JobDraft
	deleteErr error

	profile     types.User
	profileErr  error
	apps        []types.Application
	appsErr     error
	updated     types.User
	echoed      bool
	updateErr   error
	lastUpdate  apiclient.ProfileUpdate
	sentErr     error
	lastSentArg bool

	applied    types.Application
	applyErr   error
	lastApply  types.ApplicationRequest
	applicants []types.Application
	statusEcho types.ApplicationStatus
	statusErr  error

	otpErr   error
	resetErr error
}

func (f *fakeAPI) ListJobs(ctx context.Context, location string) ([]types.JobPosting, error) {
	f.calls = append(f.calls, "ListJobs")
	return f.jobs, f.listErr
}

func (f *fakeAPI) SearchJobs(ctx context.Context, query string) ([]types.JobPosting, error) {
	f.calls = append(f.calls, "SearchJobs")
	f.lastQuery = query
	return f.jobs, f.searchErr
}

func (f *fakeAPI) GetJob(ctx context.Context, id int64) (types.JobPosting, error) {
	f.calls = append(f.calls, "GetJob")
	return f.job, f.getErr
}

func (f *fakeAPI) MyJobs(ctx context.Context, token string) ([]types.JobPosting, error) {
	f.calls = append(f.calls, "MyJobs")
	return f.myJobs, f.myJobsErr
}

func (f *fakeAPI) CreateJob(ctx context.Context, token string, draft types.JobDraft) (types.JobPosting, error) {
	f.calls = append(f.calls, "CreateJob")
	f.lastDraft = draft
	return f.created, f.createErr
}

func (f *fakeAPI) DeleteJob(ctx context.Context, token string, id int64) error {
	f.calls = append(f.calls, "DeleteJob")
	return f.deleteErr
}

func (f *fakeAPI) GetProfile(ctx context.Context, email string) (types.User, error) {
	f.calls = append(f.calls, "GetProfile")
	return f.profile, f.profileErr
}

func (f *fakeAPI) UpdateProfile(ctx context.Context, token string, update apiclient.ProfileUpdate) (types.User, bool, error) {
	f.calls = append(f.calls, "UpdateProfile")
	f.lastUpdate = update
	return f.updated, f.echoed, f.updateErr
}

func (f *fakeAPI) UserApplications(ctx context.Context, token string, userID int64) ([]types.Application, error) {
	f.calls = append(f.calls, "UserApplications")
	return f.apps, f.appsErr
}

func (f *fakeAPI) SetEmailSent(ctx context.Context, token string, userID int64, sent bool) error {
	f.calls = append(f.calls, "SetEmailSent")
	f.lastSentArg = sent
	return f.sentErr
}

func (f *fakeAPI) Apply(ctx context.Context, token string, req types.ApplicationRequest) (types.Application, error) {
	f.calls = append(f.calls, "Apply")
	f.lastApply = req
	return f.applied, f.applyErr
}

func (f *fakeAPI) JobApplicants(ctx context.Context, token string, jobID int64) ([]types.Application, error) {
	f.calls = append(f.calls, "JobApplicants")
	return f.applicants, nil
}

func (f *fakeAPI) UpdateApplicationStatus(ctx context.Context, token string, applicationID int64, status types.ApplicationStatus) (types.ApplicationStatus, error) {
	f.calls = append(f.calls, "UpdateApplicationStatus")
	if f.statusErr != nil {
		return "", f.statusErr
	}
	if f.statusEcho != "" {
		return f.statusEcho, nil
	}
	return status, nil
}

func (f *fakeAPI) SendPasswordOTP(ctx context.Context, email string) error {
	f.calls = append(f.calls, "SendPasswordOTP")
	return f.otpErr
}

func (f *fakeAPI) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	f.calls = append(f.calls, "ResetPassword")
	return f.resetErr
}

type fakeEvents struct {
	kinds []string
}

func (f *fakeEvents) Publish(ctx context.Context, kind string, payload any) error {
	f.kinds = append(f.kinds, kind)
	return nil
}

type fakeUploader struct {
	name    string
	body    string
	removed []string
}

func (f *fakeUploader) RemoveResume(ctx context.Context, url string) error {
	f.removed = append(f.removed, url)
	return nil
}

func (f *fakeUploader) UploadResume(ctx context.Context, userID int64, name string, r io.Reader, size int64) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.name = name
	f.body = string(data)
	return "https://files.example.com/resumes/5/cv.pdf", nil
}

// newSessions returns a session store backed by a temp SQLite file,
// seeded with values.
func newSessions(t *testing.T, values map[string]string) *session.Store {
	t.Helper()
	repo := testutil.NewStateRepository(t)
	for k, v := range values {
		if err := repo.Set(context.Background(), k, v); err != nil {
			t.Fatalf("seed %s: %v", k, err)
		}
	}
	return session.NewStore(repo, nil)
}

// storedSession is the session left behind by a successful login.
func storedSession() map[string]string {
	return map[string]string{
		"token": "t",
		"id":    "5",
		"user":  `{"email":"a@b.com"}`,
	}
}

func lastRoute(t *testing.T, h *shell.History) string {
	t.Helper()
	entry, ok := h.Current()
	if !ok {
		return ""
	}
	return entry.Route
}

func unauthorized() error {
	return &apiclient.APIError{StatusCode: 401, Message: "invalid token"}
}
