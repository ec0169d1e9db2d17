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

const duplicateApplicationMessage = "You have already applied to this job"

type statusRequest struct {
	Status string `json:"status"`
}

type sentEmailRequest struct {
	SentEmail bool `json:"sent_email"`
}

// AddApplication stores an applicant record and returns it with its id.
func (s *Server) AddApplication(app types.Application) types.Application {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addApplication(app)
}

func (s *Server) addApplication(app types.Application) types.Application {
	if app.ApplicationID == 0 {
		app.ApplicationID = s.id()
	}
	if app.Status == "" {
		app.Status = types.StatusPending
	}
	if app.AppliedAt.IsZero() {
		app.AppliedAt = types.NewTimestamp(time.Now().UTC())
	}
	s.applications[app.ApplicationID] = app
	return app
}

// Application returns the stored applicant record with id.
func (s *Server) Application(id int64) (types.Application, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.applications[id]
	return app, ok
}

// sortedApplications returns the records accepted by keep, latest first.
// The caller must hold s.mu.
func (s *Server) sortedApplications(keep func(types.Application) bool) []types.Application {
	apps := make([]types.Application, 0)
	for _, app := range s.applications {
		if keep(app) {
			apps = append(apps, app)
		}
	}
	slices.SortFunc(apps, func(a, b types.Application) int {
		return cmp.Compare(b.ApplicationID, a.ApplicationID)
	})
	return apps
}

func (s *Server) apply(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req types.ApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[req.JobID]
	if !ok {
		writeError(w, http.StatusNotFound, "Job not found")
		return
	}
	for _, app := range s.applications {
		if app.JobID == req.JobID && app.UserID == userID {
			writeError(w, http.StatusBadRequest, duplicateApplicationMessage)
			return
		}
	}

	app := types.Application{
		JobID:        req.JobID,
		UserID:       userID,
		Position:     req.Position,
		Skills:       types.Skills(req.Skills),
		Title:        job.Title,
		Company:      job.Company,
		ContactEmail: job.ContactEmail,
		CoverLetter:  deref(req.CoverLetter),
		ResumeURL:    deref(req.ResumeURL),
		Location:     deref(req.Location),
		Experience:   deref(req.Experience),
	}
	if acc, ok := s.accounts[userID]; ok {
		app.FirstName = acc.user.FirstName
		app.LastName = acc.user.LastName
		app.Email = acc.user.Email
		app.Phone = acc.user.Phone
	}
	writeJSON(w, http.StatusCreated, s.addApplication(app))
}

func (s *Server) jobApplicants(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathID(r, "jobId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid job id")
		return
	}

	s.mu.Lock()
	apps := s.sortedApplications(func(app types.Application) bool {
		return app.JobID == jobID
	})
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, apps)
}

func (s *Server) userApplications(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	s.mu.Lock()
	apps := s.sortedApplications(func(app types.Application) bool {
		return app.UserID == userID
	})
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, apps)
}

func (s *Server) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid application id")
		return
	}
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	status, err := types.ParseApplicationStatus(req.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.applications[id]
	if !ok {
		writeError(w, http.StatusNotFound, "Applicant not found")
		return
	}
	app.Status = status
	s.applications[id] = app
	writeJSON(w, http.StatusOK, app)
}

func (s *Server) sentEmail(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	var req sentEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	updated := 0
	for id, app := range s.applications {
		if app.UserID == userID {
			app.EmailSent = types.Flag(req.SentEmail)
			s.applications[id] = app
			updated++
		}
	}
	if updated == 0 {
		writeError(w, http.StatusNotFound, "No applications for user")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Email status updated"})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
