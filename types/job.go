package types

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// JobPosting represents a job offered on the marketplace.
// The client treats postings as read-only except through explicit
// create and delete calls.
type JobPosting struct {
	// ID is the unique identifier of the posting.
	ID int64 `json:"id"`

	// Title is the short name of the job.
	Title string `json:"title"`

	// Description is the full job description.
	Description string `json:"description"`

	// Company is the employer's display name.
	Company string `json:"company"`

	// Location is a free-form place (city, province, country) or "Remote".
	Location string `json:"location"`

	// JobType is the work arrangement (e.g., "remote", "onsite").
	// The API has used "job_type", "jobtype" and "jobType" for it.
	JobType string `json:"job_type"`

	// MinBudget and MaxBudget bound the offered pay. Either may be unset.
	MinBudget Amount `json:"min_budget"`
	MaxBudget Amount `json:"max_budget"`

	// Category groups postings for client-side filtering.
	Category string `json:"category"`

	// Skills lists the skills asked for by the employer.
	Skills Skills `json:"skills"`

	// ContactEmail is the employer's contact address. Older API versions
	// used it to decide ownership.
	ContactEmail string `json:"contact_email"`

	Duration           string   `json:"duration,omitempty"`
	StartDate          string   `json:"start_date,omitempty"`
	PaymentType        string   `json:"payment_type,omitempty"`
	Currency           string   `json:"currency,omitempty"`
	Deadline           string   `json:"deadline,omitempty"`
	ScreeningQuestions []string `json:"screening_questions,omitempty"`

	// CreatedAt is the timestamp at which the posting was created. It is
	// unset when the server sends no usable value.
	CreatedAt Timestamp `json:"created_at"`
}

func (j *JobPosting) UnmarshalJSON(data []byte) error {
	type alias JobPosting
	aux := struct {
		*alias
		JobTypeLegacy string `json:"jobtype"`
		JobTypeCamel  string `json:"jobType"`
	}{alias: (*alias)(j)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if j.JobType == "" {
		j.JobType = aux.JobTypeLegacy
	}
	if j.JobType == "" {
		j.JobType = aux.JobTypeCamel
	}
	return nil
}

// JobDraft is the payload sent when an employer posts a job.
// Field names follow the post-job form.
type JobDraft struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Category           string   `json:"category"`
	Skills             []string `json:"skills"`
	JobType            string   `json:"jobType"`
	Location           string   `json:"location"`
	Duration           string   `json:"duration"`
	StartDate          string   `json:"startDate"`
	PaymentType        string   `json:"paymentType"`
	MinBudget          *float64 `json:"minBudget,omitempty"`
	MaxBudget          *float64 `json:"maxBudget,omitempty"`
	Currency           string   `json:"currency"`
	ContactEmail       string   `json:"contact_email"`
	Deadline           string   `json:"deadline"`
	ScreeningQuestions []string `json:"screeningQuestions"`
	TermsAccepted      bool     `json:"termsAccepted"`
}

// Amount is an optional money value. The API sends budgets as numbers,
// numeric strings or null.
type Amount struct {
	Value float64
	Valid bool
}

// NewAmount returns a set Amount.
func NewAmount(v float64) Amount {
	return Amount{Value: v, Valid: true}
}

// IsZero reports whether the amount is unset or zero.
func (a Amount) IsZero() bool {
	return !a.Valid || a.Value == 0
}

func (a Amount) String() string {
	if !a.Valid {
		return ""
	}
	return strconv.FormatFloat(a.Value, 'f', -1, 64)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(a.Value, 'f', -1, 64)), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	*a = Amount{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			return nil
		}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		// Free text such as "negotiable" is treated as unset.
		return nil
	}
	*a = NewAmount(v)
	return nil
}

// Skills is a list of skill names. It decodes a JSON array, a string
// holding a JSON array, or a comma separated string.
type Skills []string

func (s *Skills) UnmarshalJSON(data []byte) error {
	*s = nil
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '[' {
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*s = cleanSkills(list)
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = ParseSkills(raw)
	return nil
}

// ParseSkills decodes a skills value that arrived as text.
func ParseSkills(raw string) Skills {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err == nil {
		return cleanSkills(list)
	}
	var single string
	if err := json.Unmarshal([]byte(raw), &single); err == nil {
		return cleanSkills([]string{single})
	}
	return cleanSkills(strings.Split(raw, ","))
}

func cleanSkills(list []string) Skills {
	out := make(Skills, 0, len(list))
	for _, item := range list {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
