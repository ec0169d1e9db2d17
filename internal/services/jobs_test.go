package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sideline-app/client/internal/apiclient"
	"github.com/sideline-app/client/internal/shell"
	"github.com/sideline-app/client/types"
)

func TestSearchEndpoints(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantPath  string
		wantQuery string
	}{
		{"empty", "", "/api/jobs", ""},
		{"whitespace", "   ", "/api/jobs", ""},
		{"query", "cebu", "/api/jobs/search", "q=cebu"},
		{"query encoded", "cebu city", "/api/jobs/search", "q=cebu+city"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath, gotQuery string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotQuery = r.URL.RawQuery
				io.WriteString(w, `[{"id":1,"title":"Barista"}]`)
			}))
			defer srv.Close()

			svc := NewJobService(apiclient.New(srv.URL, 5*time.Second), newSessions(t, nil), shell.NewHistory())
			jobs := svc.Search(context.Background(), tt.query)

			if gotPath != tt.wantPath || gotQuery != tt.wantQuery {
				t.Errorf("request = %s?%s, want %s?%s", gotPath, gotQuery, tt.wantPath, tt.wantQuery)
			}
			if len(jobs) != 1 {
				t.Errorf("len(jobs) = %d, want 1", len(jobs))
			}
		})
	}
}

func TestSearchNeverFails(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
	}{
		{"object instead of array", `{"jobs":[]}`, http.StatusOK},
		{"html error page", `<html>oops</html>`, http.StatusInternalServerError},
		{"html success page", `<html>maintenance</html>`, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			svc := NewJobService(apiclient.New(srv.URL, 5*time.Second), newSessions(t, nil), shell.NewHistory())
			for _, q := range []string{"", "cebu"} {
				jobs := svc.Search(context.Background(), q)
				if jobs == nil || len(jobs) != 0 {
					t.Errorf("Search(%q) = %v, want empty non-nil slice", q, jobs)
				}
			}
		})
	}
}

func TestBrowseFiltersCategory(t *testing.T) {
	api := &fakeAPI{jobs: []types.JobPosting{
		{ID: 1, Category: "Design"},
		{ID: 2, Category: "design "},
		{ID: 3, Category: "Writing"},
	}}
	svc := NewJobService(api, newSessions(t, nil), shell.NewHistory())

	tests := []struct {
		category string
		want     int
	}{
		{"", 3},
		{"All", 3},
		{"Design", 2},
		{"Cooking", 0},
	}
	for _, tt := range tests {
		jobs, err := svc.Browse(context.Background(), JobFilter{Category: tt.category})
		if err != nil {
			t.Fatalf("Browse(%q) error = %v", tt.category, err)
		}
		if len(jobs) != tt.want {
			t.Errorf("Browse(%q) = %d jobs, want %d", tt.category, len(jobs), tt.want)
		}
	}
}

func TestGetJobMessages(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{"not found", &apiclient.APIError{StatusCode: 404, Message: "Job not found"}, "Job not found."},
		{"server error", &apiclient.APIError{StatusCode: 500}, "Failed to fetch job."},
		{"unexpected body", apiclient.ErrUnexpectedResponse, "Failed to fetch job."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewJobService(&fakeAPI{getErr: tt.err}, newSessions(t, nil), shell.NewHistory())
			_, err := svc.Get(context.Background(), 7)
			if err == nil || err.Error() != tt.wantMsg {
				t.Errorf("Get() error = %v, want %q", err, tt.wantMsg)
			}
		})
	}
}

func TestListMine(t *testing.T) {
	all := []types.JobPosting{
		{ID: 1, ContactEmail: "A@B.com"},
		{ID: 2, ContactEmail: "other@b.com"},
		{ID: 3, ContactEmail: "a@b.com"},
	}
	tests := []struct {
		name      string
		myJobs    []types.JobPosting
		myJobsErr error
		wantIDs   []int64
		wantErr   bool
		wantCalls []string
	}{
		{"dedicated endpoint", []types.JobPosting{{ID: 9}}, nil, []int64{9}, false, []string{"MyJobs"}},
		{"endpoint missing", nil, &apiclient.APIError{StatusCode: 404}, []int64{1, 3}, false, []string{"MyJobs", "ListJobs"}},
		{"method not allowed", nil, &apiclient.APIError{StatusCode: 405}, []int64{1, 3}, false, []string{"MyJobs", "ListJobs"}},
		{"server error", nil, &apiclient.APIError{StatusCode: 500}, nil, true, []string{"MyJobs"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{jobs: all, myJobs: tt.myJobs, myJobsErr: tt.myJobsErr}
			svc := NewJobService(api, newSessions(t, storedSession()), shell.NewHistory())

			list, err := svc.ListMine(context.Background())
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
			} else {
				if err != nil {
					t.Fatalf("ListMine() error = %v", err)
				}
				jobs := list.Jobs()
				if len(jobs) != len(tt.wantIDs) {
					t.Fatalf("jobs = %+v, want ids %v", jobs, tt.wantIDs)
				}
				for i, id := range tt.wantIDs {
					if jobs[i].ID != id {
						t.Errorf("jobs[%d].ID = %d, want %d", i, jobs[i].ID, id)
					}
				}
			}
			if len(api.calls) != len(tt.wantCalls) {
				t.Errorf("calls = %v, want %v", api.calls, tt.wantCalls)
			}
		})
	}
}

func TestListMineRequiresToken(t *testing.T) {
	api := &fakeAPI{}
	svc := NewJobService(api, newSessions(t, nil), shell.NewHistory())

	if _, err := svc.ListMine(context.Background()); !errors.Is(err, ErrLoginRequired) {
		t.Fatalf("ListMine() error = %v, want ErrLoginRequired", err)
	}
	if len(api.calls) != 0 {
		t.Errorf("calls = %v, want none", api.calls)
	}
}

func TestDeleteJob(t *testing.T) {
	jobs := []types.JobPosting{{ID: 1}, {ID: 2}, {ID: 3}}
	tests := []struct {
		name      string
		deleteErr error
		wantLen   int
		wantMsg   string
	}{
		{"confirmed", nil, 2, ""},
		{"server refuses", &apiclient.APIError{StatusCode: 409, Message: "Job has active applicants"}, 3, "Job has active applicants"},
		{"transport failure", errors.New("connection refused"), 3, "Failed to delete job."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{deleteErr: tt.deleteErr}
			svc := NewJobService(api, newSessions(t, storedSession()), shell.NewHistory())
			list := NewJobList(jobs)

			err := svc.Delete(context.Background(), list, 2)
			if list.Len() != tt.wantLen {
				t.Errorf("Len() = %d, want %d", list.Len(), tt.wantLen)
			}
			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("Delete() error = %v", err)
				}
				for _, job := range list.Jobs() {
					if job.ID == 2 {
						t.Error("deleted job still listed")
					}
				}
				return
			}
			if err == nil || err.Error() != tt.wantMsg {
				t.Errorf("Delete() error = %v, want %q", err, tt.wantMsg)
			}
		})
	}
}

func TestDeleteJobUnauthorizedClearsSession(t *testing.T) {
	api := &fakeAPI{deleteErr: unauthorized()}
	sessions := newSessions(t, storedSession())
	svc := NewJobService(api, sessions, shell.NewHistory())
	list := NewJobList([]types.JobPosting{{ID: 2}})

	err := svc.Delete(context.Background(), list, 2)
	if KindOf(err) != KindAuth {
		t.Fatalf("Delete() error = %v, want KindAuth", err)
	}
	if list.Len() != 1 {
		t.Errorf("Len() = %d, want 1", list.Len())
	}
	if _, err := sessions.Current(context.Background()); err == nil {
		t.Error("expected session to be cleared")
	}
}

func TestFormatSalary(t *testing.T) {
	tests := []struct {
		name string
		job  types.JobPosting
		want string
	}{
		{"range", types.JobPosting{MinBudget: types.NewAmount(100), MaxBudget: types.NewAmount(250.5)}, "$100 – $250.5"},
		{"min only", types.JobPosting{MinBudget: types.NewAmount(100)}, "From $100"},
		{"max only", types.JobPosting{MaxBudget: types.NewAmount(300)}, "Negotiable"},
		{"zero min", types.JobPosting{MinBudget: types.NewAmount(0), MaxBudget: types.NewAmount(300)}, "Negotiable"},
		{"unset", types.JobPosting{}, "Negotiable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatSalary(tt.job); got != tt.want {
				t.Errorf("FormatSalary() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPostJob(t *testing.T) {
	neg := -1.0
	low, high := 100.0, 50.0
	tests := []struct {
		name      string
		values    map[string]string
		draft     types.JobDraft
		wantKind  Kind
		wantCalls int
	}{
		{"terms not accepted", storedSession(), types.JobDraft{Title: "T", Description: "D"}, KindInvalid, 0},
		{"no session", nil, types.JobDraft{Title: "T", Description: "D", TermsAccepted: true}, KindAuth, 0},
		{"missing title", storedSession(), types.JobDraft{Description: "D", TermsAccepted: true}, KindInvalid, 0},
		{"negative budget", storedSession(), types.JobDraft{Title: "T", Description: "D", MinBudget: &neg, TermsAccepted: true}, KindInvalid, 0},
		{"min above max", storedSession(), types.JobDraft{Title: "T", Description: "D", MinBudget: &low, MaxBudget: &high, TermsAccepted: true}, KindInvalid, 0},
		{"valid", storedSession(), types.JobDraft{Title: " T ", Description: "D", Skills: []string{"go", " go", "", "sql"}, TermsAccepted: true}, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{created: types.JobPosting{ID: 77, Title: "T"}}
			history := shell.NewHistory()
			svc := NewJobService(api, newSessions(t, tt.values), history)

			job, err := svc.Post(context.Background(), tt.draft)
			if KindOf(err) != tt.wantKind {
				t.Fatalf("Post() error = %v, want kind %v", err, tt.wantKind)
			}
			if len(api.calls) != tt.wantCalls {
				t.Errorf("calls = %v, want %d", api.calls, tt.wantCalls)
			}
			if tt.wantKind != 0 {
				return
			}
			if job.ID != 77 {
				t.Errorf("job = %+v", job)
			}
			if api.lastDraft.Title != "T" || api.lastDraft.ContactEmail != "a@b.com" {
				t.Errorf("draft = %+v", api.lastDraft)
			}
			if len(api.lastDraft.Skills) != 2 {
				t.Errorf("skills = %v, want [go sql]", api.lastDraft.Skills)
			}
			if got := lastRoute(t, history); got != shell.RouteFindWork {
				t.Errorf("route = %q, want %q", got, shell.RouteFindWork)
			}
		})
	}
}
