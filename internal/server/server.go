// Package server assembles the reference notes service router.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"example.com/notesin/internal/auth"
	"example.com/notesin/internal/httpx"
	"example.com/notesin/internal/notes"
)

// Deps are the stores the service runs on.
type Deps struct {
	Users auth.UserRepo
	Notes notes.Store
	Log   zerolog.Logger

	// HashCost overrides the bcrypt cost; zero keeps the default.
	HashCost int
}

func New(d Deps) http.Handler {
	var opts []auth.Option
	if d.HashCost > 0 {
		opts = append(opts, auth.WithHashCost(d.HashCost))
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(httpx.RequestLogger(d.Log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Mount("/api/auth", auth.NewHandlers(auth.New(d.Users, opts...), d.Log).Routes())
	r.Mount("/api/note", notes.NewHandlers(d.Notes, d.Log).Routes())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteMessage(w, http.StatusNotFound, "Route not found")
	})
	return r
}
