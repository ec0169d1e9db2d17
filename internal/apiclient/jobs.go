package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sideline-app/client/types"
)

// ListJobs returns all postings, optionally narrowed to a location.
func (c *Client) ListJobs(ctx context.Context, location string) ([]types.JobPosting, error) {
	path := "/api/jobs"
	if location = strings.TrimSpace(location); location != "" {
		q := url.Values{}
		q.Set("location", location)
		path += "?" + q.Encode()
	}
	return doList[types.JobPosting](ctx, c, http.MethodGet, path, "")
}

// SearchJobs runs a free-text search.
func (c *Client) SearchJobs(ctx context.Context, query string) ([]types.JobPosting, error) {
	path := "/api/jobs/search?q=" + url.QueryEscape(query)
	return doList[types.JobPosting](ctx, c, http.MethodGet, path, "")
}

// GetJob fetches one posting.
func (c *Client) GetJob(ctx context.Context, id int64) (types.JobPosting, error) {
	var job types.JobPosting
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/jobs/%d", id), "", nil, &job); err != nil {
		return types.JobPosting{}, err
	}
	return job, nil
}

// MyJobs lists the postings owned by the token's user.
func (c *Client) MyJobs(ctx context.Context, token string) ([]types.JobPosting, error) {
	return doList[types.JobPosting](ctx, c, http.MethodGet, "/api/jobs/user/me", token)
}

// CreateJob posts a new job.
func (c *Client) CreateJob(ctx context.Context, token string, draft types.JobDraft) (types.JobPosting, error) {
	var job types.JobPosting
	if err := c.do(ctx, http.MethodPost, "/api/jobs", token, draft, &job); err != nil {
		return types.JobPosting{}, err
	}
	return job, nil
}

// DeleteJob removes a posting owned by the token's user.
func (c *Client) DeleteJob(ctx context.Context, token string, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/jobs/%d", id), token, nil, nil)
}
