// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Category groups toys. NumToys is a denormalized counter kept in step with
// the toys table by increment/decrement on toy create, move and delete.
type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	NumToys   int       `json:"num_toys"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// LiveToys is the count recomputed from the toys table on the home page.
	LiveToys int `json:"live_toys"`
}

// Validate reports the required fields missing from c.
func (c *Category) Validate() error {
	var v Violations
	v.Require("name", c.Name, "Name is required.")
	return v.Err()
}
