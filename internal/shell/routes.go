package shell

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
)

const (
	RouteExplore        = "/explore"
	RouteFindWork       = "/find-work"
	RouteLogin          = "/login"
	RouteSignup         = "/signup"
	RouteProfile        = "/profile"
	RoutePostJob        = "/post-job"
	RouteJob            = "/job/{id}"
	RouteYouApplied     = "/you-applied"
	RouteForgotPassword = "/forgot-password"
)

// Navigator moves the application to another screen. state carries data
// handed to the next screen without re-fetching it.
type Navigator interface {
	Navigate(route string, state any)
}

// ExploreRoute returns the search results location for query.
func ExploreRoute(query string) string {
	q := url.Values{}
	q.Set("search", query)
	return RouteExplore + "?" + q.Encode()
}

// JobRoute returns the detail location of one job.
func JobRoute(id int64) string {
	return "/job/" + strconv.FormatInt(id, 10)
}

// Match is a resolved location.
type Match struct {
	Pattern string
	Params  map[string]string
	Query   url.Values
}

var router = newRouter()

func newRouter() *chi.Mux {
	r := chi.NewRouter()
	noop := func(http.ResponseWriter, *http.Request) {}
	for _, pattern := range []string{
		RouteExplore,
		RouteFindWork,
		RouteLogin,
		RouteSignup,
		RouteProfile,
		RoutePostJob,
		RouteJob,
		RouteYouApplied,
		RouteForgotPassword,
	} {
		r.Get(pattern, noop)
	}
	return r
}

// Resolve matches location against the known screens.
func Resolve(location string) (Match, bool) {
	u, err := url.Parse(location)
	if err != nil {
		return Match{}, false
	}
	rctx := chi.NewRouteContext()
	if !router.Match(rctx, http.MethodGet, u.Path) {
		return Match{}, false
	}
	params := make(map[string]string, len(rctx.URLParams.Keys))
	for i, key := range rctx.URLParams.Keys {
		params[key] = rctx.URLParams.Values[i]
	}
	return Match{
		Pattern: rctx.RoutePattern(),
		Params:  params,
		Query:   u.Query(),
	}, true
}
