package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sideline-app/client/internal/apiclient"
	"github.com/sideline-app/client/internal/shell"
	"github.com/sideline-app/client/types"
)

func TestApplyWithoutSession(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]string
	}{
		{"nothing stored", nil},
		{"token without id", map[string]string{"token": "t"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{}
			history := shell.NewHistory()
			svc := NewApplicationService(api, newSessions(t, tt.values), history, nil, nil)

			_, err := svc.Apply(context.Background(), types.JobPosting{ID: 1}, ApplyOptions{})
			if KindOf(err) != KindAuth {
				t.Fatalf("Apply() error = %v, want KindAuth", err)
			}
			if len(api.calls) != 0 {
				t.Errorf("calls = %v, want none", api.calls)
			}
			if got := lastRoute(t, history); got != shell.RouteLogin {
				t.Errorf("route = %q, want %q", got, shell.RouteLogin)
			}
		})
	}
}

func TestApplyFailureMessages(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind Kind
		wantMsg  string
	}{
		{"already applied", &apiclient.APIError{StatusCode: 400, Message: "You have already applied to this job"}, KindConflict, "You have already applied for this job."},
		{"already applied uppercase", &apiclient.APIError{StatusCode: 409, Message: "User ALREADY APPLIED"}, KindConflict, "You have already applied for this job."},
		{"other server error", &apiclient.APIError{StatusCode: 400, Message: "Job is closed"}, KindUnavailable, "Failed to apply for this job."},
		{"html page", &apiclient.APIError{StatusCode: 502}, KindUnavailable, "Failed to apply for this job."},
		{"transport", errors.New("dial tcp: connection refused"), KindUnavailable, "Failed to apply for this job."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{applyErr: tt.err}
			history := shell.NewHistory()
			svc := NewApplicationService(api, newSessions(t, storedSession()), history, nil, nil)

			_, err := svc.Apply(context.Background(), types.JobPosting{ID: 1}, ApplyOptions{})
			var svcErr *Error
			if !errors.As(err, &svcErr) {
				t.Fatalf("Apply() error = %v, want *Error", err)
			}
			if svcErr.Kind != tt.wantKind || svcErr.Message != tt.wantMsg {
				t.Errorf("error = %v/%q, want %v/%q", svcErr.Kind, svcErr.Message, tt.wantKind, tt.wantMsg)
			}
			if _, ok := history.Current(); ok {
				t.Error("failed application should not navigate")
			}
		})
	}
}

func TestApplyUnauthorized(t *testing.T) {
	api := &fakeAPI{applyErr: unauthorized()}
	history := shell.NewHistory()
	sessions := newSessions(t, storedSession())
	sh := shell.New(context.Background(), sessions, history)
	defer sh.Close()
	svc := NewApplicationService(api, sessions, history, nil, nil)

	_, err := svc.Apply(context.Background(), types.JobPosting{ID: 1}, ApplyOptions{})
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("Apply() error = %v, want ErrSessionExpired", err)
	}
	entries := history.Entries()
	if len(entries) != 1 || entries[0].Route != shell.RouteLogin {
		t.Errorf("navigations = %+v, want a single %q", entries, shell.RouteLogin)
	}
	if _, err := sessions.Current(context.Background()); err == nil {
		t.Error("expected session to be cleared")
	}
}

func TestApplySuccess(t *testing.T) {
	api := &fakeAPI{applied: types.Application{ApplicationID: 31, Status: types.StatusPending}}
	history := shell.NewHistory()
	events := &fakeEvents{}
	uploader := &fakeUploader{}
	svc := NewApplicationService(api, newSessions(t, storedSession()), history, uploader, events)

	job := types.JobPosting{ID: 4, Title: "Barista", Company: "Kape"}
	result, err := svc.Apply(context.Background(), job, ApplyOptions{
		CoverLetter: "Hello",
		Skills:      []string{"coffee", " coffee "},
		Resume:      &Resume{Name: "cv.pdf", Body: strings.NewReader("%PDF"), Size: 4},
	})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	req := api.lastApply
	if req.JobID != 4 || req.UserID != 5 || req.Position != "Applicant" {
		t.Errorf("request = %+v", req)
	}
	if req.CoverLetter == nil || *req.CoverLetter != "Hello" {
		t.Errorf("cover letter = %v", req.CoverLetter)
	}
	if req.Experience != nil || req.Location != nil {
		t.Error("blank optional fields should be sent as null")
	}
	if req.ResumeURL == nil || !strings.HasSuffix(*req.ResumeURL, "cv.pdf") {
		t.Errorf("resume url = %v", req.ResumeURL)
	}
	if uploader.body != "%PDF" {
		t.Errorf("uploaded body = %q", uploader.body)
	}
	if len(req.Skills) != 1 {
		t.Errorf("skills = %v", req.Skills)
	}

	if result.Application.JobID != 4 || result.Job.Title != "Barista" {
		t.Errorf("result = %+v", result)
	}
	entry, ok := history.Current()
	if !ok || entry.Route != shell.RouteYouApplied {
		t.Fatalf("route = %q, want %q", entry.Route, shell.RouteYouApplied)
	}
	if carried, ok := entry.State.(types.JobPosting); !ok || carried.Company != "Kape" {
		t.Errorf("navigation state = %#v, want the job record", entry.State)
	}
	if len(events.kinds) != 1 || events.kinds[0] != EventApplicationSubmitted {
		t.Errorf("events = %v", events.kinds)
	}
	if got := len(api.calls); got != 1 {
		t.Errorf("calls = %v, want only Apply", api.calls)
	}
}

func TestApplyFailureRemovesUploadedResume(t *testing.T) {
	api := &fakeAPI{applyErr: &apiclient.APIError{StatusCode: 500}}
	uploader := &fakeUploader{}
	svc := NewApplicationService(api, newSessions(t, storedSession()), shell.NewHistory(), uploader, nil)

	_, err := svc.Apply(context.Background(), types.JobPosting{ID: 4}, ApplyOptions{
		Resume: &Resume{Name: "cv.pdf", Body: strings.NewReader("%PDF"), Size: 4},
	})
	if KindOf(err) != KindUnavailable {
		t.Fatalf("Apply() error = %v, want KindUnavailable", err)
	}
	if len(uploader.removed) != 1 || uploader.removed[0] != "https://files.example.com/resumes/5/cv.pdf" {
		t.Errorf("removed = %v", uploader.removed)
	}
}

func TestApplyResumeWithoutStorage(t *testing.T) {
	api := &fakeAPI{}
	svc := NewApplicationService(api, newSessions(t, storedSession()), shell.NewHistory(), nil, nil)

	_, err := svc.Apply(context.Background(), types.JobPosting{ID: 1}, ApplyOptions{
		Resume: &Resume{Name: "cv.pdf", Body: strings.NewReader("x"), Size: 1},
	})
	if KindOf(err) != KindInvalid {
		t.Fatalf("Apply() error = %v, want KindInvalid", err)
	}
	if len(api.calls) != 0 {
		t.Errorf("calls = %v, want none", api.calls)
	}
}

func TestUpdateStatus(t *testing.T) {
	apps := []types.Application{
		{ApplicationID: 1, Status: types.StatusPending},
		{ApplicationID: 2, Status: types.StatusPending},
	}
	tests := []struct {
		name       string
		status     string
		echo       types.ApplicationStatus
		statusErr  error
		wantStatus types.ApplicationStatus
		wantKind   Kind
		wantCalls  int
	}{
		{"accepted", "accepted", "", nil, types.StatusAccepted, 0, 1},
		{"case insensitive", " Reviewed ", "", nil, types.StatusReviewed, 0, 1},
		{"server echo wins", "accepted", types.StatusReviewed, nil, types.StatusReviewed, 0, 1},
		{"outside enumeration", "approved", "", nil, types.StatusPending, KindInvalid, 0},
		{"unknown", "hired", "", nil, types.StatusPending, KindInvalid, 0},
		{"server failure", "rejected", "", &apiclient.APIError{StatusCode: 500, Message: "db down"}, types.StatusPending, KindServer, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{statusEcho: tt.echo, statusErr: tt.statusErr}
			events := &fakeEvents{}
			svc := NewApplicationService(api, newSessions(t, storedSession()), shell.NewHistory(), nil, events)
			list := NewApplicantList(9, apps)

			_, err := svc.UpdateStatus(context.Background(), list, 2, tt.status)
			if KindOf(err) != tt.wantKind {
				t.Fatalf("UpdateStatus() error = %v, want kind %v", err, tt.wantKind)
			}
			if len(api.calls) != tt.wantCalls {
				t.Errorf("calls = %v, want %d", api.calls, tt.wantCalls)
			}
			got := list.Applicants()
			if got[1].Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", got[1].Status, tt.wantStatus)
			}
			if got[0].Status != types.StatusPending {
				t.Errorf("other applicant changed to %q", got[0].Status)
			}
			if wantEvents := tt.wantKind == 0; wantEvents != (len(events.kinds) == 1) {
				t.Errorf("events = %v", events.kinds)
			}
		})
	}
}

func TestListApplicationsDefaultsToSessionUser(t *testing.T) {
	api := &fakeAPI{apps: []types.Application{{ApplicationID: 1, Title: "Barista"}}}
	svc := NewApplicationService(api, newSessions(t, storedSession()), shell.NewHistory(), nil, nil)

	apps, err := svc.ListApplications(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListApplications() error = %v", err)
	}
	if len(apps) != 1 {
		t.Errorf("apps = %+v", apps)
	}

	list, err := svc.ListApplicants(context.Background(), 3)
	if err != nil {
		t.Fatalf("ListApplicants() error = %v", err)
	}
	if list.JobID != 3 || list.Len() != 0 {
		t.Errorf("list = %+v", list)
	}
}
