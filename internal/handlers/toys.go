// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"toybox/internal/flash"
	"toybox/internal/models"
	"toybox/internal/render"
	"toybox/internal/store"
)

// AddToyForm renders the new toy form with the category selector.
func (c *Catalog) AddToyForm(w http.ResponseWriter, r *http.Request) {
	categories, err := c.categories.List(r.Context())
	if err != nil {
		slog.Error("list categories failed", "error", err)
		http.Error(w, "Failed to load data.", http.StatusInternalServerError)
		return
	}

	c.renderer.Page(w, r, "toy_form", &render.PageData{
		Title:   "Add toy",
		Flashes: c.popFlashes(r),
		Data:    map[string]any{"Categories": categories},
	})
}

// CreateToy validates the submitted toy, stores it and bumps its
// category's counter. The two writes are not atomic: if the increment
// fails the toy is kept and the counter is left one short. Cached pages
// are dropped as soon as the toy is stored.
func (c *Catalog) CreateToy(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form.", http.StatusBadRequest)
		return
	}
	if violations := validateToy(r.PostForm); len(violations) > 0 {
		writeViolations(w, violations)
		return
	}

	ctx := r.Context()
	created, err := c.toys.Create(ctx, toyFromForm(r.PostForm))
	if err != nil {
		if c.writeValidationError(w, err) {
			return
		}
		slog.Error("create toy failed", "error", err)
		http.Error(w, "Failed to add toy.", http.StatusInternalServerError)
		return
	}
	c.invalidate(ctx)

	if err := c.categories.IncrementToys(ctx, created.CategoryID, 1); err != nil {
		slog.Error("increment toy counter failed", "error", err, "toy_id", created.ID, "category_id", created.CategoryID)
		http.Error(w, "Failed to add toy.", http.StatusInternalServerError)
		return
	}

	c.addFlash(w, r, flash.Success("Toy added."))
	redirectHome(w, r)
}

// EditToyForm renders the edit form for an existing toy.
func (c *Catalog) EditToyForm(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	toy, err := c.toys.FindByID(ctx, id)
	if err != nil {
		slog.Error("find toy failed", "error", err, "id", id)
		http.Error(w, "Failed to load data.", http.StatusInternalServerError)
		return
	}
	if toy == nil {
		http.Error(w, "Toy not found.", http.StatusNotFound)
		return
	}

	categories, err := c.categories.List(ctx)
	if err != nil {
		slog.Error("list categories failed", "error", err)
		http.Error(w, "Failed to load data.", http.StatusInternalServerError)
		return
	}

	c.renderer.Page(w, r, "toy_form", &render.PageData{
		Title:   "Edit toy",
		Flashes: c.popFlashes(r),
		Data:    map[string]any{"Toy": toy, "Categories": categories},
	})
}

// UpdateToy overwrites a toy from the submitted form. The toy id travels
// in the body. When the category changes, the old category's counter is
// decremented and the new one's incremented.
func (c *Catalog) UpdateToy(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form.", http.StatusBadRequest)
		return
	}
	id, err := uuid.Parse(strings.TrimSpace(r.PostForm.Get("id")))
	if err != nil {
		http.Error(w, "Toy not found.", http.StatusNotFound)
		return
	}
	if violations := validateToy(r.PostForm); len(violations) > 0 {
		writeViolations(w, violations)
		return
	}

	ctx := r.Context()
	existing, err := c.toys.FindByID(ctx, id)
	if err != nil {
		slog.Error("find toy failed", "error", err, "id", id)
		http.Error(w, "Failed to update toy.", http.StatusInternalServerError)
		return
	}
	if existing == nil {
		http.Error(w, "Toy not found.", http.StatusNotFound)
		return
	}

	updated := toyFromForm(r.PostForm)
	updated.ID = id
	if err := c.toys.Update(ctx, updated); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "Toy not found.", http.StatusNotFound)
			return
		}
		if c.writeValidationError(w, err) {
			return
		}
		slog.Error("update toy failed", "error", err, "id", id)
		http.Error(w, "Failed to update toy.", http.StatusInternalServerError)
		return
	}
	c.invalidate(ctx)

	if existing.CategoryID != updated.CategoryID {
		if err := c.moveToy(r, existing.CategoryID, updated.CategoryID); err != nil {
			slog.Error("move toy counter failed", "error", err, "id", id)
			http.Error(w, "Failed to update toy.", http.StatusInternalServerError)
			return
		}
	}

	c.addFlash(w, r, flash.Success("Toy updated."))
	redirectHome(w, r)
}

// moveToy shifts one toy from the from category's counter to to's.
func (c *Catalog) moveToy(r *http.Request, from, to uuid.UUID) error {
	if err := c.categories.IncrementToys(r.Context(), from, -1); err != nil {
		return err
	}
	return c.categories.IncrementToys(r.Context(), to, 1)
}

// DeleteToy removes a toy and decrements its category's counter.
func (c *Catalog) DeleteToy(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	deleted, err := c.toys.Delete(ctx, id)
	if err != nil {
		slog.Error("delete toy failed", "error", err, "id", id)
		http.Error(w, "Failed to delete toy.", http.StatusInternalServerError)
		return
	}
	if deleted == nil {
		http.Error(w, "Toy not found.", http.StatusNotFound)
		return
	}
	c.invalidate(ctx)

	if err := c.categories.IncrementToys(ctx, deleted.CategoryID, -1); err != nil {
		slog.Error("decrement toy counter failed", "error", err, "id", id, "category_id", deleted.CategoryID)
		http.Error(w, "Failed to delete toy.", http.StatusInternalServerError)
		return
	}

	c.addFlash(w, r, flash.Success("Toy deleted."))
	redirectHome(w, r)
}

// writeValidationError writes a 400 when err carries field violations and
// reports whether it did.
func (c *Catalog) writeValidationError(w http.ResponseWriter, err error) bool {
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		return false
	}
	writeViolations(w, verr.Violations)
	return true
}
