// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"toybox/internal/models"
)

// validateToy checks the toy form fields and returns every violation, in
// form order. An empty result means the form can be converted with toyFromForm.
func validateToy(form url.Values) []models.Violation {
	var v models.Violations

	v.Require("title", form.Get("title"), "Title is required.")

	category := strings.TrimSpace(form.Get("category"))
	if category == "" {
		v.Add("category", "Category is required.", form.Get("category"))
	} else if _, err := uuid.Parse(category); err != nil {
		v.Add("category", "Category is invalid.", category)
	}

	price := strings.TrimSpace(form.Get("price"))
	if _, err := decimal.NewFromString(price); err != nil {
		v.Add("price", "Price must be a number.", form.Get("price"))
	}

	age := strings.TrimSpace(form.Get("age"))
	if _, err := parseAge(age); err != nil {
		if errors.Is(err, strconv.ErrRange) {
			v.Add("age", "Age is out of range.", form.Get("age"))
		} else {
			v.Add("age", "Age must be an integer.", form.Get("age"))
		}
	}

	v.Require("description", form.Get("description"), "Description is required.")

	return v
}

// toyFromForm converts a form that passed validateToy into a Toy.
func toyFromForm(form url.Values) *models.Toy {
	categoryID, _ := uuid.Parse(strings.TrimSpace(form.Get("category")))
	price, _ := decimal.NewFromString(strings.TrimSpace(form.Get("price")))
	age, _ := parseAge(strings.TrimSpace(form.Get("age")))

	return &models.Toy{
		Title:       strings.TrimSpace(form.Get("title")),
		CategoryID:  categoryID,
		Price:       price,
		Age:         age,
		Description: strings.TrimSpace(form.Get("description")),
	}
}

// parseAge parses a base-10 age that fits the 32-bit age column.
func parseAge(s string) (int, error) {
	n, err := strconv.ParseInt(s, 10, 32)
	return int(n), err
}

// validateCategory checks the category form fields.
func validateCategory(form url.Values) []models.Violation {
	var v models.Violations
	v.Require("name", form.Get("name"), "Name is required.")
	return v
}

// violationResponse is the JSON body sent with a 400.
type violationResponse struct {
	Errors []models.Violation `json:"errors"`
}

// writeViolations responds 400 with the violation list as JSON.
func writeViolations(w http.ResponseWriter, violations []models.Violation) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	if err := json.NewEncoder(w).Encode(violationResponse{Errors: violations}); err != nil {
		slog.Error("encode violations failed", "error", err)
	}
}
