// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"toybox/internal/flash"
	"toybox/internal/models"
	"toybox/internal/render"
	"toybox/internal/store"
)

// AddCategoryForm renders the new category form.
func (c *Catalog) AddCategoryForm(w http.ResponseWriter, r *http.Request) {
	c.renderer.Page(w, r, "category_form", &render.PageData{
		Title:   "Add category",
		Flashes: c.popFlashes(r),
	})
}

// CreateCategory stores a new category with a zero toy counter.
func (c *Catalog) CreateCategory(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form.", http.StatusBadRequest)
		return
	}
	if violations := validateCategory(r.PostForm); len(violations) > 0 {
		writeViolations(w, violations)
		return
	}

	ctx := r.Context()
	cat := &models.Category{Name: strings.TrimSpace(r.PostForm.Get("name"))}
	if _, err := c.categories.Create(ctx, cat); err != nil {
		if c.writeValidationError(w, err) {
			return
		}
		slog.Error("create category failed", "error", err)
		http.Error(w, "Failed to add category.", http.StatusInternalServerError)
		return
	}

	c.invalidate(ctx)
	c.addFlash(w, r, flash.Success("Category added."))
	redirectHome(w, r)
}

// EditCategoryForm renders the edit form for an existing category.
func (c *Catalog) EditCategoryForm(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	cat, err := c.categories.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("find category failed", "error", err, "id", id)
		http.Error(w, "Failed to load data.", http.StatusInternalServerError)
		return
	}
	if cat == nil {
		http.Error(w, "Category not found.", http.StatusNotFound)
		return
	}

	c.renderer.Page(w, r, "category_form", &render.PageData{
		Title:   "Edit category",
		Flashes: c.popFlashes(r),
		Data:    map[string]any{"Category": cat},
	})
}

// UpdateCategory renames a category. Its toy counter is left alone.
func (c *Catalog) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form.", http.StatusBadRequest)
		return
	}
	if violations := validateCategory(r.PostForm); len(violations) > 0 {
		writeViolations(w, violations)
		return
	}

	ctx := r.Context()
	cat := &models.Category{ID: id, Name: strings.TrimSpace(r.PostForm.Get("name"))}
	if err := c.categories.Update(ctx, cat); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "Category not found.", http.StatusNotFound)
			return
		}
		if c.writeValidationError(w, err) {
			return
		}
		slog.Error("update category failed", "error", err, "id", id)
		http.Error(w, "Failed to update category.", http.StatusInternalServerError)
		return
	}

	c.invalidate(ctx)
	c.addFlash(w, r, flash.Success("Category updated."))
	redirectHome(w, r)
}

// DeleteCategory removes a category together with all of its toys. A
// missing category is not an error: any toys still referencing the id are
// removed regardless and the redirect carries an error flash.
func (c *Catalog) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	deleted, err := c.categories.Delete(ctx, id)
	if err != nil {
		slog.Error("delete category failed", "error", err, "id", id)
		http.Error(w, "Failed to delete category.", http.StatusInternalServerError)
		return
	}
	c.invalidate(ctx)
	if deleted == nil {
		c.addFlash(w, r, flash.Error("Category not found."))
		redirectHome(w, r)
		return
	}

	slog.Info("category deleted", "id", id, "name", deleted.Name)
	c.addFlash(w, r, flash.Success("Category deleted."))
	redirectHome(w, r)
}
