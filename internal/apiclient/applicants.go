package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sideline-app/client/types"
)

type statusUpdate struct {
	Status types.ApplicationStatus `json:"status"`
}

type sentEmailUpdate struct {
	SentEmail bool `json:"sent_email"`
}

// Apply submits an application.
func (c *Client) Apply(ctx context.Context, token string, req types.ApplicationRequest) (types.Application, error) {
	var app types.Application
	if err := c.do(ctx, http.MethodPost, "/api/applicants", token, req, &app); err != nil {
		return types.Application{}, err
	}
	return app, nil
}

// JobApplicants lists the applications received for a job.
func (c *Client) JobApplicants(ctx context.Context, token string, jobID int64) ([]types.Application, error) {
	path := fmt.Sprintf("/api/applicants/jobs/%d/applicants", jobID)
	return doList[types.Application](ctx, c, http.MethodGet, path, token)
}

// UserApplications lists the applications submitted by a user, latest
// first as ordered by the server.
func (c *Client) UserApplications(ctx context.Context, token string, userID int64) ([]types.Application, error) {
	path := fmt.Sprintf("/api/applicants/user/%d/applications", userID)
	return doList[types.Application](ctx, c, http.MethodGet, path, token)
}

// UpdateApplicationStatus requests a status transition. The returned
// status is the one echoed by the server, or the requested one when the
// response carries none.
func (c *Client) UpdateApplicationStatus(ctx context.Context, token string, applicationID int64, status types.ApplicationStatus) (types.ApplicationStatus, error) {
	path := fmt.Sprintf("/api/applicants/%d", applicationID)
	data, err := c.send(ctx, http.MethodPut, path, token, statusUpdate{Status: status})
	if err != nil {
		return "", err
	}
	var resp types.Application
	if err := json.Unmarshal(data, &resp); err != nil || resp.Status == "" {
		return status, nil
	}
	return resp.Status, nil
}

// SetEmailSent records whether the user sent the verification email.
func (c *Client) SetEmailSent(ctx context.Context, token string, userID int64, sent bool) error {
	path := fmt.Sprintf("/api/applicants/%d/sent-email", userID)
	return c.do(ctx, http.MethodPut, path, token, sentEmailUpdate{SentEmail: sent}, nil)
}
