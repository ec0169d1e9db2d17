package services

import (
	"context"
	"strings"

	"github.com/sideline-app/client/internal/shell"
	"github.com/sideline-app/client/types"
)

// Post publishes a new job for the logged-in employer and moves on to the
// find-work page.
func (s *JobService) Post(ctx context.Context, draft types.JobDraft) (types.JobPosting, error) {
	if !draft.TermsAccepted {
		return types.JobPosting{}, invalid("Please accept the Terms of Service.")
	}
	sess, err := requireSession(ctx, s.sessions)
	if err != nil || !sess.Authenticated() {
		return types.JobPosting{}, &Error{Kind: KindAuth, Message: "Please log in to post a job.", Err: ErrLoginRequired}
	}

	draft, err = normalizeDraft(draft)
	if err != nil {
		return types.JobPosting{}, err
	}
	if draft.ContactEmail == "" {
		draft.ContactEmail = sess.Email
	}

	job, err := s.api.CreateJob(ctx, sess.Token, draft)
	if err != nil {
		if authErr := expireOnUnauthorized(ctx, s.sessions, err); authErr != nil {
			return types.JobPosting{}, authErr
		}
		return types.JobPosting{}, fromServer(err, "Failed to post job.")
	}
	s.nav.Navigate(shell.RouteFindWork, job)
	return job, nil
}

func normalizeDraft(draft types.JobDraft) (types.JobDraft, error) {
	draft.Title = strings.TrimSpace(draft.Title)
	draft.Description = strings.TrimSpace(draft.Description)
	draft.Category = strings.TrimSpace(draft.Category)
	draft.Location = strings.TrimSpace(draft.Location)
	draft.ContactEmail = strings.TrimSpace(draft.ContactEmail)

	if draft.Title == "" {
		return draft, invalid("Job title is required.")
	}
	if draft.Description == "" {
		return draft, invalid("Job description is required.")
	}
	if (draft.MinBudget != nil && *draft.MinBudget < 0) || (draft.MaxBudget != nil && *draft.MaxBudget < 0) {
		return draft, invalid("Budget cannot be negative.")
	}
	if draft.MinBudget != nil && draft.MaxBudget != nil && *draft.MinBudget > *draft.MaxBudget {
		return draft, invalid("Minimum budget cannot exceed maximum budget.")
	}

	draft.Skills = uniqueTrimmed(draft.Skills)
	draft.ScreeningQuestions = uniqueTrimmed(draft.ScreeningQuestions)
	return draft, nil
}

// uniqueTrimmed drops blank and repeated entries, keeping first-seen order.
func uniqueTrimmed(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
