// Package toplevel builds two small applications showing a query-token
// guard attached once, either to a route group or to the whole app.
package toplevel

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/apiapp/internal/querytoken"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Mode string

const (
	// ModeGroup guards only the /users/ group; "/" stays public.
	ModeGroup Mode = "group"
	// ModeGlobal guards every route of the application.
	ModeGlobal Mode = "global"
)

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(data)
}

func hello(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"message": "Hello World"})
}

func listUsers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, []string{"rick", "morty"})
}

// usersRouter is the users group with no guard of its own.
func usersRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/", listUsers)
	return r
}

// NewGroupApp attaches the guard to the users group only.
func NewGroupApp(token string) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)

	r.Get("/", hello)
	r.Group(func(r chi.Router) {
		r.Use(querytoken.Guard(token))
		r.Mount("/users", usersRouter())
	})
	return r
}

// NewGlobalApp attaches the guard to the whole application.
func NewGlobalApp(token string) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(querytoken.Guard(token))

	r.Get("/", hello)
	r.Mount("/users", usersRouter())
	return r
}

// New returns the application for mode, or false for an unknown mode.
func New(mode Mode, token string) (http.Handler, bool) {
	switch mode {
	case ModeGroup:
		return NewGroupApp(token), true
	case ModeGlobal:
		return NewGlobalApp(token), true
	default:
		return nil, false
	}
}
