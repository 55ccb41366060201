// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Toy is a catalog item belonging to exactly one category.
type Toy struct {
	ID          uuid.UUID       `json:"id"`
	Title       string          `json:"title"`
	CategoryID  uuid.UUID       `json:"category_id"`
	Price       decimal.Decimal `json:"price"`
	Age         int             `json:"age"`
	Description string          `json:"description"`
	DateAdded   time.Time       `json:"date_added"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Validate reports every required field missing from t. Price and age are
// typed, so only the category reference and the text fields can be absent.
func (t *Toy) Validate() error {
	var v Violations
	v.Require("title", t.Title, "Title is required.")
	if t.CategoryID == uuid.Nil {
		v.Add("category", "Category is required.", "")
	}
	v.Require("description", t.Description, "Description is required.")
	return v.Err()
}
