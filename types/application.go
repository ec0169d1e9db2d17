package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ApplicationStatus is the review state of an application as set by the
// employer. Transitions are decided by the server.
type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "pending"
	StatusReviewed ApplicationStatus = "reviewed"
	StatusAccepted ApplicationStatus = "accepted"
	StatusRejected ApplicationStatus = "rejected"

	// StatusApproved is set by the platform when an applicant account is
	// verified. Employers cannot request it.
	StatusApproved ApplicationStatus = "approved"
)

// ApplicationStatuses lists the statuses an employer may request.
var ApplicationStatuses = []ApplicationStatus{
	StatusPending,
	StatusReviewed,
	StatusAccepted,
	StatusRejected,
}

// ParseApplicationStatus validates an employer-requested status.
func ParseApplicationStatus(raw string) (ApplicationStatus, error) {
	status := ApplicationStatus(strings.ToLower(strings.TrimSpace(raw)))
	for _, allowed := range ApplicationStatuses {
		if status == allowed {
			return status, nil
		}
	}
	return "", fmt.Errorf("invalid application status %q", raw)
}

// Application represents one user's application to one job. The same
// shape is returned by the applicant listing of a job and by the
// applied-jobs listing of a user, each filling a different subset of the
// display fields.
type Application struct {
	// ApplicationID is the unique identifier of the applicant record.
	// Older responses only carry it as "id".
	ApplicationID int64 `json:"application_id"`

	// JobID references the posting applied to.
	JobID int64 `json:"job_id"`

	// UserID references the applying user.
	UserID int64 `json:"user_id"`

	// Status is the current review state.
	Status ApplicationStatus `json:"status"`

	// Position is the role label the applicant applied as.
	Position string `json:"position"`

	CoverLetter string `json:"cover_letter,omitempty"`
	ResumeURL   string `json:"resume_url,omitempty"`
	Skills      Skills `json:"skills,omitempty"`

	// EmailSent records whether the applicant reported sending the
	// verification email.
	EmailSent Flag `json:"email_sent"`

	// AppliedAt is the submission time; unset when the server omits it.
	AppliedAt Timestamp `json:"applied_at,omitzero"`

	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Location   string `json:"location,omitempty"`
	Experience string `json:"experience,omitempty"`

	Title        string `json:"title,omitempty"`
	Company      string `json:"company,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`
}

func (a *Application) UnmarshalJSON(data []byte) error {
	type alias Application
	aux := struct {
		*alias
		ID int64 `json:"id"`
	}{alias: (*alias)(a)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if a.ApplicationID == 0 {
		a.ApplicationID = aux.ID
	}
	return nil
}

// ApplicantName returns the applicant's display name.
func (a Application) ApplicantName() string {
	name := strings.TrimSpace(a.FirstName + " " + a.LastName)
	if name == "" {
		return "Unknown Applicant"
	}
	return name
}

// ApplicationRequest is the payload sent when applying to a job.
type ApplicationRequest struct {
	JobID       int64    `json:"job_id"`
	UserID      int64    `json:"user_id"`
	Position    string   `json:"position"`
	Experience  *string  `json:"experience"`
	Location    *string  `json:"location"`
	CoverLetter *string  `json:"cover_letter"`
	ResumeURL   *string  `json:"resume_url"`
	Skills      []string `json:"skills"`
}
