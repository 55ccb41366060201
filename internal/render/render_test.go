package render

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"toybox/internal/flash"
	"toybox/internal/models"
)

// --------------------------------------------------------------------------
// TestNew: verify renderer creation in dev mode and prod mode
// --------------------------------------------------------------------------

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		devMode bool
	}{
		{"dev mode", true},
		{"prod mode", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rn, err := New(tt.devMode)
			if err != nil {
				t.Fatalf("New(devMode=%v) returned error: %v", tt.devMode, err)
			}
			if rn == nil {
				t.Fatal("New() returned nil renderer")
			}

			for _, name := range []string{"index", "category", "toy", "toy_form", "category_form"} {
				if _, ok := rn.templates[name]; !ok {
					t.Errorf("expected template %q to be parsed", name)
				}
			}

			// base.html should NOT appear as a standalone template key.
			if _, ok := rn.templates["base"]; ok {
				t.Error("base.html should not be registered as a separate template")
			}
		})
	}
}

func TestAssetsByMode(t *testing.T) {
	tests := []struct {
		devMode bool
		want    string
		notWant string
	}{
		{true, "cdn.tailwindcss.com", "/static/css/app.css"},
		{false, "/static/css/app.css", "cdn.tailwindcss.com"},
	}

	for _, tt := range tests {
		rn, err := New(tt.devMode)
		if err != nil {
			t.Fatalf("New(%v) error: %v", tt.devMode, err)
		}

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/add-category", nil)
		rn.Page(w, req, "category_form", &PageData{Title: "Add category"})

		body := w.Body.String()
		if !strings.Contains(body, tt.want) {
			t.Errorf("devMode=%v: expected %q in output", tt.devMode, tt.want)
		}
		if strings.Contains(body, tt.notWant) {
			t.Errorf("devMode=%v: unexpected %q in output", tt.devMode, tt.notWant)
		}
	}
}

// --------------------------------------------------------------------------
// TestPageRendering: full page render of the home page
// --------------------------------------------------------------------------

func TestPageRendering(t *testing.T) {
	rn, err := New(true)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	catID := uuid.New()
	toyID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	rn.Page(w, req, "index", &PageData{
		Title:   "Catalog",
		Flashes: []flash.Message{flash.Success("Toy added.")},
		Data: map[string]any{
			"Categories": []models.Category{{ID: catID, Name: "Blocks", LiveToys: 3}},
			"RecentToys": []models.Toy{{
				ID: toyID, Title: "Red Block", Price: decimal.RequireFromString("4.5"),
				DateAdded: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			}},
			"TotalToys": 3,
		},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	body := w.Body.String()
	for _, want := range []string{
		"<!DOCTYPE html>",
		"Blocks",
		"/category/" + catID.String(),
		"/toy/" + toyID.String(),
		"4.50",
		"Mar 1, 2026",
		"Toy added.",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("full page render should contain %q", want)
		}
	}

	ct := w.Header().Get("Content-Type")
	if ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type: got %q, want %q", ct, "text/html; charset=utf-8")
	}
}

// --------------------------------------------------------------------------
// TestHTMXPartialRendering: HTMX requests only render the content block
// --------------------------------------------------------------------------

func TestHTMXPartialRendering(t *testing.T) {
	rn, err := New(true)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("HX-Request", "true")

	w := httptest.NewRecorder()
	rn.Page(w, req, "index", &PageData{
		Title: "Catalog",
		Data:  map[string]any{"TotalToys": 0},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	body := w.Body.String()
	if strings.Contains(body, "<!DOCTYPE html>") {
		t.Error("HTMX partial should NOT contain <!DOCTYPE html>")
	}
	if !strings.Contains(body, "No categories yet.") {
		t.Error("HTMX partial should contain the index content block")
	}
}

func TestToyFormSelectsCategory(t *testing.T) {
	rn, err := New(false)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	blocks := models.Category{ID: uuid.New(), Name: "Blocks"}
	plush := models.Category{ID: uuid.New(), Name: "Plush"}
	toy := &models.Toy{ID: uuid.New(), Title: "Bear", CategoryID: plush.ID, Price: decimal.NewFromInt(12), Age: 2, Description: "Soft"}

	body, err := rn.Render("toy_form", &PageData{
		Title: "Edit toy",
		Data:  map[string]any{"Toy": toy, "Categories": []models.Category{blocks, plush}},
	}, true)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	out := string(body)
	if !strings.Contains(out, `value="`+plush.ID.String()+`" selected`) {
		t.Error("the toy's category should be preselected")
	}
	if strings.Contains(out, `value="`+blocks.ID.String()+`" selected`) {
		t.Error("other categories should not be preselected")
	}
	if !strings.Contains(out, `action="/update-toy"`) {
		t.Error("edit form should post to /update-toy")
	}
	if !strings.Contains(out, `name="id" value="`+toy.ID.String()+`"`) {
		t.Error("edit form should carry the toy id")
	}
}

func TestToyFormAddMode(t *testing.T) {
	rn, err := New(false)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	body, err := rn.Render("toy_form", &PageData{
		Title: "Add toy",
		Data:  map[string]any{"Categories": []models.Category{{ID: uuid.New(), Name: "Blocks"}}},
	}, true)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !strings.Contains(string(body), `action="/add-toy"`) {
		t.Error("add form should post to /add-toy")
	}
	if strings.Contains(string(body), "selected") {
		t.Error("add form should not preselect a category")
	}
}

// --------------------------------------------------------------------------
// TestMissingTemplate: Page() with nonexistent template returns 500
// --------------------------------------------------------------------------

func TestMissingTemplate(t *testing.T) {
	rn, err := New(true)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/nonexistent", nil)
	w := httptest.NewRecorder()

	rn.Page(w, req, "nonexistent_template", &PageData{Title: "Not Found"})

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "not found") {
		t.Error("error response should mention template not found")
	}

	if _, err := rn.Render("nonexistent_template", &PageData{}, false); err == nil {
		t.Error("Render() should fail for an unknown template")
	}
}

// --------------------------------------------------------------------------
// TestIsHTMXHelper: helper detects HX-Request header
// --------------------------------------------------------------------------

func TestIsHTMXHelper(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expected bool
	}{
		{"no header", "", false},
		{"header true", "true", true},
		{"header false", "false", false},
		{"header random", "yes", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("HX-Request", tt.header)
			}
			if got := IsHTMX(req); got != tt.expected {
				t.Errorf("IsHTMX(): got %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestToyDescriptionMarkdown(t *testing.T) {
	rn, err := New(false)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	body, err := rn.Render("toy", &PageData{
		Title: "Bear",
		Data: map[string]any{"Toy": &models.Toy{
			ID: uuid.New(), Title: "Bear", Description: "A **soft** bear <b>raw</b>",
		}},
	}, true)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	out := string(body)
	if !strings.Contains(out, "<strong>soft</strong>") {
		t.Error("description should be rendered as Markdown")
	}
	if strings.Contains(out, "<b>raw</b>") {
		t.Error("raw HTML in descriptions should be dropped")
	}
}
