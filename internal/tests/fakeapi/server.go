package fakeapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sideline-app/client/types"
)

const defaultSecret = "fakeapi-secret"

// Request is one call received by the fake backend.
type Request struct {
	Method string
	Path   string
	Query  string
	Auth   string
}

type account struct {
	user         types.User
	passwordHash []byte
}

// Server is an in-memory stand-in for the marketplace REST API.
type Server struct {
	secret   []byte
	tokenTTL time.Duration
	router   *chi.Mux

	mu           sync.Mutex
	accounts     map[int64]*account
	jobs         map[int64]types.JobPosting
	owners       map[int64]int64
	applications map[int64]types.Application
	otps         map[string]string
	nextID       int64
	requests     []Request
	overrides    map[string]http.HandlerFunc
	noMyJobs     bool
}

func New() *Server {
	s := &Server{
		secret:       []byte(defaultSecret),
		tokenTTL:     time.Hour,
		accounts:     make(map[int64]*account),
		jobs:         make(map[int64]types.JobPosting),
		owners:       make(map[int64]int64),
		applications: make(map[int64]types.Application),
		otps:         make(map[string]string),
		overrides:    make(map[string]http.HandlerFunc),
		nextID:       100,
	}
	s.router = s.routes()
	return s
}

// Start serves s on a local port until the test ends and returns the
// base URL.
func Start(t *testing.T) (*Server, string) {
	t.Helper()
	s := New()
	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)
	return s, srv.URL
}

func (s *Server) routes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer, s.record)

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", s.login)
		r.Post("/signup", s.signup)
		r.Post("/applicants/forgot-password/send-otp", s.sendOTP)
		r.Post("/applicants/forgot-password/verify-otp", s.verifyOTP)

		r.Get("/jobs", s.listJobs)
		r.Get("/jobs/search", s.searchJobs)
		r.With(s.requireAuth).Get("/jobs/user/me", s.myJobs)
		r.Get("/jobs/{id}", s.getJob)
		r.With(s.requireAuth).Post("/jobs", s.createJob)
		r.With(s.requireAuth).Delete("/jobs/{id}", s.deleteJob)

		r.Get("/profile", s.getProfile)
		r.With(s.requireAuth).Put("/profile/update", s.updateProfile)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/applicants", s.apply)
			r.Get("/applicants/jobs/{jobId}/applicants", s.jobApplicants)
			r.Get("/applicants/user/{userId}/applications", s.userApplications)
			r.Put("/applicants/{id}", s.updateStatus)
			r.Put("/applicants/{id}/sent-email", s.sentEmail)
		})
	})
	return r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// record logs the request and serves an override when one is registered
// for the method and path.
func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Auth:   r.Header.Get("Authorization"),
		})
		override := s.overrides[r.Method+" "+r.URL.Path]
		noMyJobs := s.noMyJobs
		s.mu.Unlock()

		if override != nil {
			override(w, r)
			return
		}
		if noMyJobs && r.URL.Path == "/api/jobs/user/me" {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Requests returns every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// RequestCount counts requests whose path starts with prefix.
func (s *Server) RequestCount(prefix string) int {
	n := 0
	for _, req := range s.Requests() {
		if strings.HasPrefix(req.Path, prefix) {
			n++
		}
	}
	return n
}

// Override replaces the response for one method and exact path.
func (s *Server) Override(method, path string, fn http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[method+" "+path] = fn
}

// DisableMyJobs makes the my-jobs endpoint answer 404, as older servers do.
func (s *Server) DisableMyJobs() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.noMyJobs = true
}

// OTP returns the last one-time password issued for email.
func (s *Server) OTP(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.otps[strings.ToLower(email)]
}

func (s *Server) id() int64 {
	s.nextID++
	return s.nextID
}
