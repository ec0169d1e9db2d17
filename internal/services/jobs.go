package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/sideline-app/client/internal/apiclient"
	"github.com/sideline-app/client/internal/shell"
	"github.com/sideline-app/client/types"
)

// JobsAPI defines the remote calls used by JobService.
type JobsAPI interface {
	ListJobs(ctx context.Context, location string) ([]types.JobPosting, error)
	SearchJobs(ctx context.Context, query string) ([]types.JobPosting, error)
	GetJob(ctx context.Context, id int64) (types.JobPosting, error)
	MyJobs(ctx context.Context, token string) ([]types.JobPosting, error)
	CreateJob(ctx context.Context, token string, draft types.JobDraft) (types.JobPosting, error)
	DeleteJob(ctx context.Context, token string, id int64) error
}

// JobFilter narrows the find-work listing. Empty fields and the "All"
// category match everything.
type JobFilter struct {
	Location string
	Category string
}

// JobList is the visible list of an employer's postings.
type JobList struct {
	mu   sync.Mutex
	jobs []types.JobPosting
}

func NewJobList(jobs []types.JobPosting) *JobList {
	return &JobList{jobs: append([]types.JobPosting(nil), jobs...)}
}

// Jobs returns a copy of the visible postings.
func (l *JobList) Jobs() []types.JobPosting {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]types.JobPosting(nil), l.jobs...)
}

func (l *JobList) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.jobs)
}

func (l *JobList) remove(id int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, job := range l.jobs {
		if job.ID == id {
			l.jobs = append(l.jobs[:i:i], l.jobs[i+1:]...)
			return true
		}
	}
	return false
}

// JobService fetches and manages job postings.
type JobService struct {
	api      JobsAPI
	sessions SessionStore
	nav      shell.Navigator
}

func NewJobService(api JobsAPI, sessions SessionStore, nav shell.Navigator) *JobService {
	return &JobService{api: api, sessions: sessions, nav: nav}
}

// Search runs a free-text search, or lists every posting when query is
// blank. Failures are logged and yield an empty list.
func (s *JobService) Search(ctx context.Context, query string) []types.JobPosting {
	query = strings.TrimSpace(query)

	var (
		jobs []types.JobPosting
		err  error
	)
	if query == "" {
		jobs, err = s.api.ListJobs(ctx, "")
	} else {
		jobs, err = s.api.SearchJobs(ctx, query)
	}
	if err != nil {
		slog.Warn("job search failed", "query", query, "error", err)
		return []types.JobPosting{}
	}
	if jobs == nil {
		return []types.JobPosting{}
	}
	return jobs
}

// Browse lists postings for the find-work page.
func (s *JobService) Browse(ctx context.Context, filter JobFilter) ([]types.JobPosting, error) {
	jobs, err := s.api.ListJobs(ctx, filter.Location)
	if err != nil {
		return nil, fromServer(err, "Failed to load jobs.")
	}

	category := strings.TrimSpace(filter.Category)
	if category == "" || strings.EqualFold(category, "All") {
		return jobs, nil
	}
	filtered := make([]types.JobPosting, 0, len(jobs))
	for _, job := range jobs {
		if strings.EqualFold(strings.TrimSpace(job.Category), category) {
			filtered = append(filtered, job)
		}
	}
	return filtered, nil
}

// Get fetches one posting.
func (s *JobService) Get(ctx context.Context, id int64) (types.JobPosting, error) {
	if id <= 0 {
		return types.JobPosting{}, invalid("Job not found.")
	}
	job, err := s.api.GetJob(ctx, id)
	if err != nil {
		if errors.Is(err, apiclient.ErrNotFound) {
			return types.JobPosting{}, &Error{Kind: KindServer, Message: "Job not found.", Err: err}
		}
		return types.JobPosting{}, &Error{Kind: KindUnavailable, Message: "Failed to fetch job.", Err: err}
	}
	return job, nil
}

// ListMine lists the postings owned by the logged-in user. Filtering all
// postings by contact email is used only when the server lacks the
// dedicated endpoint.
func (s *JobService) ListMine(ctx context.Context) (*JobList, error) {
	sess, err := requireSession(ctx, s.sessions)
	if err != nil {
		return nil, err
	}
	if !sess.Authenticated() {
		return nil, loginRequired()
	}

	jobs, err := s.api.MyJobs(ctx, sess.Token)
	if err == nil {
		return NewJobList(jobs), nil
	}
	if authErr := expireOnUnauthorized(ctx, s.sessions, err); authErr != nil {
		return nil, authErr
	}
	if !endpointMissing(err) || sess.Email == "" {
		return nil, fromServer(err, "Failed to load your jobs.")
	}

	slog.Warn("my-jobs endpoint unavailable, filtering by contact email", "status", apiclient.StatusCode(err))
	all, err := s.api.ListJobs(ctx, "")
	if err != nil {
		return nil, fromServer(err, "Failed to load your jobs.")
	}
	mine := make([]types.JobPosting, 0, len(all))
	for _, job := range all {
		if strings.EqualFold(strings.TrimSpace(job.ContactEmail), sess.Email) {
			mine = append(mine, job)
		}
	}
	return NewJobList(mine), nil
}

func endpointMissing(err error) bool {
	switch apiclient.StatusCode(err) {
	case http.StatusNotFound, http.StatusMethodNotAllowed, http.StatusNotImplemented:
		return true
	}
	return false
}

// Delete removes a posting. The job leaves list only once the server has
// confirmed the deletion.
func (s *JobService) Delete(ctx context.Context, list *JobList, jobID int64) error {
	sess, err := requireSession(ctx, s.sessions)
	if err != nil {
		return err
	}
	if !sess.Authenticated() {
		return loginRequired()
	}

	if err := s.api.DeleteJob(ctx, sess.Token, jobID); err != nil {
		if authErr := expireOnUnauthorized(ctx, s.sessions, err); authErr != nil {
			return authErr
		}
		return fromServer(err, "Failed to delete job.")
	}
	if list != nil && !list.remove(jobID) {
		slog.Debug("deleted job was not in the visible list", "job_id", jobID)
	}
	return nil
}

// FormatSalary renders the budget range of a posting.
func FormatSalary(job types.JobPosting) string {
	switch {
	case !job.MinBudget.IsZero() && !job.MaxBudget.IsZero():
		return fmt.Sprintf("$%s – $%s", job.MinBudget, job.MaxBudget)
	case !job.MinBudget.IsZero():
		return fmt.Sprintf("From $%s", job.MinBudget)
	default:
		return "Negotiable"
	}
}
