// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// ToyBox catalog. Read routes are open; form submissions additionally go
// through the per-IP rate limiter.
package router

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"toybox/internal/handlers"
	"toybox/internal/middleware"
)

// New creates and returns the configured Chi router. static is served
// under /static/; limiter may be nil to disable rate limiting.
func New(catalog *handlers.Catalog, limiter *middleware.RateLimiter, static fs.FS, devMode bool) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders(devMode))

	r.Get("/health", healthHandler)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	// Pages.
	r.Get("/", catalog.Home)
	r.Get("/category/{id}", catalog.ViewCategory)
	r.Get("/toy/{id}", catalog.ViewToy)
	r.Get("/add-toy", catalog.AddToyForm)
	r.Get("/edit-toy/{id}", catalog.EditToyForm)
	r.Get("/add-category", catalog.AddCategoryForm)
	r.Get("/edit-category/{id}", catalog.EditCategoryForm)

	// Form submissions.
	r.Group(func(r chi.Router) {
		if limiter != nil {
			r.Use(limiter.Middleware)
		}
		r.Post("/add-toy", catalog.CreateToy)
		r.Post("/update-toy", catalog.UpdateToy)
		r.Post("/delete-toy/{id}", catalog.DeleteToy)
		r.Post("/add-category", catalog.CreateCategory)
		r.Post("/update-category/{id}", catalog.UpdateCategory)
		r.Post("/delete-category/{id}", catalog.DeleteCategory)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
