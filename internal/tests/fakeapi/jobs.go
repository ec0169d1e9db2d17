package fakeapi

import (
	"cmp"
	"encoding/json"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/sideline-app/client/types"
)

// AddJob stores a posting owned by ownerID and returns it with its id.
func (s *Server) AddJob(ownerID int64, job types.JobPosting) types.JobPosting {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job.ID == 0 {
		job.ID = s.id()
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = types.NewTimestamp(time.Now().UTC())
	}
	s.jobs[job.ID] = job
	s.owners[job.ID] = ownerID
	return job
}

// Job returns the stored posting with id.
func (s *Server) Job(id int64) (types.JobPosting, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	return job, ok
}

// sortedJobs returns the postings accepted by keep, newest first.
// The caller must hold s.mu.
func (s *Server) sortedJobs(keep func(types.JobPosting) bool) []types.JobPosting {
	jobs := make([]types.JobPosting, 0, len(s.jobs))
	for _, job := range s.jobs {
		if keep(job) {
			jobs = append(jobs, job)
		}
	}
	slices.SortFunc(jobs, func(a, b types.JobPosting) int {
		return cmp.Compare(b.ID, a.ID)
	})
	return jobs
}

func (s *Server) listJobs(w http.ResponseWriter, r *http.Request) {
	location := strings.TrimSpace(r.URL.Query().Get("location"))

	s.mu.Lock()
	jobs := s.sortedJobs(func(job types.JobPosting) bool {
		return location == "" || strings.Contains(strings.ToLower(job.Location), strings.ToLower(location))
	})
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, jobs)
}

func (s *Server) searchJobs(w http.ResponseWriter, r *http.Request) {
	query := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))

	s.mu.Lock()
	jobs := s.sortedJobs(func(job types.JobPosting) bool {
		if query == "" {
			return true
		}
		fields := []string{job.Title, job.Description, job.Location, strings.Join(job.Skills, " ")}
		for _, field := range fields {
			if strings.Contains(strings.ToLower(field), query) {
				return true
			}
		}
		return false
	})
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, jobs)
}

func (s *Server) myJobs(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	s.mu.Lock()
	jobs := s.sortedJobs(func(job types.JobPosting) bool {
		return s.owners[job.ID] == userID
	})
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, jobs)
}

func (s *Server) getJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid job id")
		return
	}
	job, ok := s.Job(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Job not found")
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) createJob(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var draft types.JobDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if strings.TrimSpace(draft.Title) == "" {
		writeError(w, http.StatusBadRequest, "Title is required")
		return
	}

	job := types.JobPosting{
		Title:              draft.Title,
		Description:        draft.Description,
		Location:           draft.Location,
		JobType:            draft.JobType,
		Category:           draft.Category,
		Skills:             types.Skills(draft.Skills),
		ContactEmail:       draft.ContactEmail,
		Duration:           draft.Duration,
		StartDate:          draft.StartDate,
		PaymentType:        draft.PaymentType,
		Currency:           draft.Currency,
		Deadline:           draft.Deadline,
		ScreeningQuestions: draft.ScreeningQuestions,
	}
	if draft.MinBudget != nil {
		job.MinBudget = types.NewAmount(*draft.MinBudget)
	}
	if draft.MaxBudget != nil {
		job.MaxBudget = types.NewAmount(*draft.MaxBudget)
	}
	writeJSON(w, http.StatusCreated, s.AddJob(userID, job))
}

func (s *Server) deleteJob(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid job id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[id]; !ok {
		writeError(w, http.StatusNotFound, "Job not found")
		return
	}
	if s.owners[id] != userID {
		writeError(w, http.StatusBadRequest, "You can only delete your own jobs")
		return
	}
	delete(s.jobs, id)
	delete(s.owners, id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Job deleted"})
}
