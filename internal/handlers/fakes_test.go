// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"toybox/internal/flash"
	"toybox/internal/models"
	"toybox/internal/store"
)

// memCatalog is an in-memory catalog that backs both repository fakes so
// cascades and counters behave like the real stores.
type memCatalog struct {
	mu         sync.Mutex
	categories []models.Category
	toys       []models.Toy
	clock      time.Time

	// err, when set, is returned by every repository call.
	err error
	// incrementErr, when set, is returned by IncrementToys only.
	incrementErr error
}

func newMemCatalog() *memCatalog {
	return &memCatalog{clock: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (m *memCatalog) addCategory(name string, numToys int) models.Category {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := models.Category{ID: uuid.New(), Name: name, NumToys: numToys}
	m.categories = append(m.categories, c)
	return c
}

func (m *memCatalog) addToy(categoryID uuid.UUID, title string) models.Toy {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock = m.clock.Add(time.Minute)
	t := models.Toy{ID: uuid.New(), Title: title, CategoryID: categoryID, Age: 3, Description: title, DateAdded: m.clock}
	m.toys = append(m.toys, t)
	return t
}

func (m *memCatalog) category(id uuid.UUID) *models.Category {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.categories {
		if m.categories[i].ID == id {
			c := m.categories[i]
			return &c
		}
	}
	return nil
}

func (m *memCatalog) toy(id uuid.UUID) *models.Toy {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.toys {
		if m.toys[i].ID == id {
			t := m.toys[i]
			return &t
		}
	}
	return nil
}

func (m *memCatalog) toyCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.toys)
}

// fakeCategories implements CategoryRepository over a memCatalog.
type fakeCategories struct{ m *memCatalog }

func (f fakeCategories) List(_ context.Context) ([]models.Category, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if f.m.err != nil {
		return nil, f.m.err
	}
	return append([]models.Category(nil), f.m.categories...), nil
}

func (f fakeCategories) FindByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	if f.m.err != nil {
		return nil, f.m.err
	}
	return f.m.category(id), nil
}

func (f fakeCategories) Create(_ context.Context, c *models.Category) (*models.Category, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if f.m.err != nil {
		return nil, f.m.err
	}
	created := f.m.addCategory(c.Name, 0)
	return &created, nil
}

func (f fakeCategories) Update(_ context.Context, c *models.Category) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if f.m.err != nil {
		return f.m.err
	}
	for i := range f.m.categories {
		if f.m.categories[i].ID == c.ID {
			f.m.categories[i].Name = c.Name
			return nil
		}
	}
	return fmt.Errorf("update category: %w", store.ErrNotFound)
}

func (f fakeCategories) Delete(_ context.Context, id uuid.UUID) (*models.Category, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if f.m.err != nil {
		return nil, f.m.err
	}
	var deleted *models.Category
	kept := f.m.categories[:0]
	for _, c := range f.m.categories {
		if c.ID == id {
			c := c
			deleted = &c
			continue
		}
		kept = append(kept, c)
	}
	f.m.categories = kept

	toys := f.m.toys[:0]
	for _, t := range f.m.toys {
		if t.CategoryID != id {
			toys = append(toys, t)
		}
	}
	f.m.toys = toys
	return deleted, nil
}

func (f fakeCategories) IncrementToys(_ context.Context, id uuid.UUID, delta int) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if f.m.err != nil {
		return f.m.err
	}
	if f.m.incrementErr != nil {
		return f.m.incrementErr
	}
	for i := range f.m.categories {
		if f.m.categories[i].ID == id {
			f.m.categories[i].NumToys = max(f.m.categories[i].NumToys+delta, 0)
		}
	}
	return nil
}

// fakeToys implements ToyRepository over a memCatalog.
type fakeToys struct{ m *memCatalog }

func (f fakeToys) ListByCategory(_ context.Context, categoryID uuid.UUID) ([]models.Toy, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if f.m.err != nil {
		return nil, f.m.err
	}
	var out []models.Toy
	for _, t := range f.m.toys {
		if t.CategoryID == categoryID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f fakeToys) Recent(_ context.Context, limit int) ([]models.Toy, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if f.m.err != nil {
		return nil, f.m.err
	}
	out := append([]models.Toy(nil), f.m.toys...)
	sort.Slice(out, func(i, j int) bool { return out[i].DateAdded.After(out[j].DateAdded) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f fakeToys) FindByID(_ context.Context, id uuid.UUID) (*models.Toy, error) {
	if f.m.err != nil {
		return nil, f.m.err
	}
	return f.m.toy(id), nil
}

func (f fakeToys) Count(_ context.Context) (int, error) {
	if f.m.err != nil {
		return 0, f.m.err
	}
	return f.m.toyCount(), nil
}

func (f fakeToys) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int, error) {
	toys, err := f.ListByCategory(ctx, categoryID)
	return len(toys), err
}

func (f fakeToys) Create(_ context.Context, t *models.Toy) (*models.Toy, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if f.m.err != nil {
		return nil, f.m.err
	}
	created := f.m.addToy(t.CategoryID, t.Title)
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	for i := range f.m.toys {
		if f.m.toys[i].ID == created.ID {
			f.m.toys[i].Price = t.Price
			f.m.toys[i].Age = t.Age
			f.m.toys[i].Description = t.Description
			created = f.m.toys[i]
		}
	}
	return &created, nil
}

func (f fakeToys) Update(_ context.Context, t *models.Toy) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if f.m.err != nil {
		return f.m.err
	}
	for i := range f.m.toys {
		if f.m.toys[i].ID == t.ID {
			added := f.m.toys[i].DateAdded
			f.m.toys[i] = *t
			f.m.toys[i].DateAdded = added
			return nil
		}
	}
	return fmt.Errorf("update toy: %w", store.ErrNotFound)
}

func (f fakeToys) Delete(_ context.Context, id uuid.UUID) (*models.Toy, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if f.m.err != nil {
		return nil, f.m.err
	}
	for i, t := range f.m.toys {
		if t.ID == id {
			f.m.toys = append(f.m.toys[:i], f.m.toys[i+1:]...)
			return &t, nil
		}
	}
	return nil, nil
}

// fakePages is a map-backed PageCache.
type fakePages struct {
	mu          sync.Mutex
	pages       map[string][]byte
	invalidated int
}

func newFakePages() *fakePages {
	return &fakePages{pages: make(map[string][]byte)}
}

func (p *fakePages) Get(_ context.Context, key string) ([]byte, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	b, ok := p.pages[key]
	return b, ok
}

func (p *fakePages) Set(_ context.Context, key string, html []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pages[key] = html
}

func (p *fakePages) InvalidateAll(_ context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pages = make(map[string][]byte)
	p.invalidated++
}

// fakeFlashes keeps a single global queue, ignoring cookies.
type fakeFlashes struct {
	mu   sync.Mutex
	msgs []flash.Message
}

func (f *fakeFlashes) Add(_ context.Context, _ http.ResponseWriter, _ *http.Request, msg flash.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, msg)
	return nil
}

func (f *fakeFlashes) Pop(_ context.Context, _ *http.Request) ([]flash.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	msgs := f.msgs
	f.msgs = nil
	return msgs, nil
}

func (f *fakeFlashes) Pending(_ context.Context, _ *http.Request) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.msgs) > 0, nil
}
