// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the ToyBox catalog.
// Handlers receive their dependencies through the Catalog struct and talk
// to storage only through the small interfaces declared here.
package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"toybox/internal/cache"
	"toybox/internal/flash"
	"toybox/internal/models"
	"toybox/internal/render"
)

// recentToysLimit is how many toys the home page lists as recently added.
const recentToysLimit = 2

// countConcurrency bounds the per-category count queries issued by Home.
const countConcurrency = 4

// CategoryRepository is the category persistence used by the handlers.
type CategoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	Create(ctx context.Context, c *models.Category) (*models.Category, error)
	Update(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, id uuid.UUID) (*models.Category, error)
	IncrementToys(ctx context.Context, id uuid.UUID, delta int) error
}

// ToyRepository is the toy persistence used by the handlers.
type ToyRepository interface {
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Toy, error)
	Recent(ctx context.Context, limit int) ([]models.Toy, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Toy, error)
	Count(ctx context.Context) (int, error)
	CountByCategory(ctx context.Context, categoryID uuid.UUID) (int, error)
	Create(ctx context.Context, t *models.Toy) (*models.Toy, error)
	Update(ctx context.Context, t *models.Toy) error
	Delete(ctx context.Context, id uuid.UUID) (*models.Toy, error)
}

// PageCache stores rendered pages. Implemented by *cache.PageCache.
type PageCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, html []byte)
	InvalidateAll(ctx context.Context)
}

// Flasher queues one-time messages between a redirect and the next page.
// Implemented by *flash.Store.
type Flasher interface {
	Add(ctx context.Context, w http.ResponseWriter, r *http.Request, msg flash.Message) error
	Pop(ctx context.Context, r *http.Request) ([]flash.Message, error)
	Pending(ctx context.Context, r *http.Request) (bool, error)
}

// Catalog groups all catalog HTTP handlers and their dependencies.
type Catalog struct {
	renderer   *render.Renderer
	categories CategoryRepository
	toys       ToyRepository
	pages      PageCache // may be nil
	flashes    Flasher   // may be nil
}

// NewCatalog creates a new Catalog handler group. pages and flashes may be
// nil, which disables page caching and flash messages respectively.
func NewCatalog(renderer *render.Renderer, categories CategoryRepository, toys ToyRepository, pages PageCache, flashes Flasher) *Catalog {
	return &Catalog{
		renderer:   renderer,
		categories: categories,
		toys:       toys,
		pages:      pages,
		flashes:    flashes,
	}
}

// Home renders the catalog overview: every category with its live toy
// count, the most recently added toys and the total toy count.
func (c *Catalog) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		categories []models.Category
		recent     []models.Toy
		total      int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		categories, err = c.categories.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = c.toys.Recent(gctx, recentToysLimit)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = c.toys.Count(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		slog.Error("load home page failed", "error", err)
		http.Error(w, "Failed to load data.", http.StatusInternalServerError)
		return
	}

	counts, gctx := errgroup.WithContext(ctx)
	counts.SetLimit(countConcurrency)
	for i := range categories {
		cat := &categories[i]
		counts.Go(func() error {
			n, err := c.toys.CountByCategory(gctx, cat.ID)
			if err != nil {
				return err
			}
			cat.LiveToys = n
			return nil
		})
	}
	if err := counts.Wait(); err != nil {
		slog.Error("count toys per category failed", "error", err)
		http.Error(w, "Failed to load data.", http.StatusInternalServerError)
		return
	}

	for _, cat := range categories {
		if cat.LiveToys != cat.NumToys {
			slog.Warn("category toy counter drift",
				"category_id", cat.ID, "stored", cat.NumToys, "live", cat.LiveToys)
		}
	}

	c.renderer.Page(w, r, "index", &render.PageData{
		Title:   "Catalog",
		Flashes: c.popFlashes(r),
		Data: map[string]any{
			"Categories": categories,
			"RecentToys": recent,
			"TotalToys":  total,
		},
	})
}

// ViewCategory renders a category with the toys it contains.
func (c *Catalog) ViewCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	c.cachedPage(w, r, cache.CategoryKey(id), "category", func() (*render.PageData, int) {
		cat, err := c.categories.FindByID(ctx, id)
		if err != nil {
			slog.Error("find category failed", "error", err, "id", id)
			return nil, http.StatusInternalServerError
		}
		if cat == nil {
			return nil, http.StatusNotFound
		}

		toys, err := c.toys.ListByCategory(ctx, id)
		if err != nil {
			slog.Error("list toys by category failed", "error", err, "id", id)
			return nil, http.StatusInternalServerError
		}

		return &render.PageData{
			Title: cat.Name,
			Data:  map[string]any{"Category": cat, "Toys": toys},
		}, http.StatusOK
	})
}

// ViewToy renders a single toy.
func (c *Catalog) ViewToy(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	c.cachedPage(w, r, cache.ToyKey(id), "toy", func() (*render.PageData, int) {
		toy, err := c.toys.FindByID(ctx, id)
		if err != nil {
			slog.Error("find toy failed", "error", err, "id", id)
			return nil, http.StatusInternalServerError
		}
		if toy == nil {
			return nil, http.StatusNotFound
		}

		return &render.PageData{
			Title: toy.Title,
			Data:  map[string]any{"Toy": toy},
		}, http.StatusOK
	})
}

// cachedPage serves a cacheable page. The cache is bypassed for HTMX
// partials and whenever flash messages are pending, since neither belongs
// in the shared copy. load returns the page data or a failure status;
// flashes are only consumed once the page is known to render.
func (c *Catalog) cachedPage(w http.ResponseWriter, r *http.Request, key, name string, load func() (*render.PageData, int)) {
	ctx := r.Context()
	partial := render.IsHTMX(r)
	cacheable := c.pages != nil && !partial && !c.flashesPending(r)

	if cacheable {
		if cached, ok := c.pages.Get(ctx, key); ok {
			render.Write(w, cached)
			return
		}
	}

	data, status := load()
	switch status {
	case http.StatusOK:
	case http.StatusNotFound:
		http.Error(w, notFoundMessage(name), http.StatusNotFound)
		return
	default:
		http.Error(w, "Failed to load data.", http.StatusInternalServerError)
		return
	}

	data.Flashes = c.popFlashes(r)
	if len(data.Flashes) > 0 {
		cacheable = false
	}
	body, err := c.renderer.Render(name, data, partial)
	if err != nil {
		slog.Error("render page failed", "error", err, "template", name)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}

	if cacheable {
		c.pages.Set(ctx, key, body)
	}
	render.Write(w, body)
}

// notFoundMessage returns the 404 text for a page template.
func notFoundMessage(name string) string {
	switch name {
	case "category", "category_form":
		return "Category not found."
	default:
		return "Toy not found."
	}
}

// parseID reads the {id} URL parameter. Malformed ids cannot match any
// record, so they answer 404 directly.
func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Not found.", http.StatusNotFound)
		return uuid.Nil, false
	}
	return id, true
}

// popFlashes returns pending flash messages. Failures are logged and
// yield no messages.
func (c *Catalog) popFlashes(r *http.Request) []flash.Message {
	if c.flashes == nil {
		return nil
	}
	msgs, err := c.flashes.Pop(r.Context(), r)
	if err != nil {
		slog.Warn("pop flash messages failed", "error", err)
		return nil
	}
	return msgs
}

// flashesPending reports whether the requester has unread flash messages.
// A failed lookup counts as pending so the shared cache is skipped.
func (c *Catalog) flashesPending(r *http.Request) bool {
	if c.flashes == nil {
		return false
	}
	pending, err := c.flashes.Pending(r.Context(), r)
	if err != nil {
		slog.Warn("check flash messages failed", "error", err)
		return true
	}
	return pending
}

// addFlash queues a message for the next page. Failures are logged.
func (c *Catalog) addFlash(w http.ResponseWriter, r *http.Request, msg flash.Message) {
	if c.flashes == nil {
		return
	}
	if err := c.flashes.Add(r.Context(), w, r, msg); err != nil {
		slog.Warn("add flash message failed", "error", err)
	}
}

// invalidate clears every cached page after a mutation.
func (c *Catalog) invalidate(ctx context.Context) {
	if c.pages != nil {
		c.pages.InvalidateAll(ctx)
	}
}

// redirectHome finishes a successful mutation. HTMX requests get an
// HX-Redirect header instead of a 303.
func redirectHome(w http.ResponseWriter, r *http.Request) {
	if render.IsHTMX(r) {
		w.Header().Set("HX-Redirect", "/")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
