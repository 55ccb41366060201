// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// seedCatalog is the development catalog inserted into an empty database.
var seedCatalog = []struct {
	category string
	toys     []seedToy
}{
	{"Blocks", []seedToy{
		{"Red Block", "9.99", 3, "Wooden block painted red."},
		{"Castle Set", "34.50", 5, "Forty pieces for building a small castle."},
	}},
	{"Puzzles", []seedToy{
		{"Jungle Puzzle", "12.00", 4, "Twenty-four piece floor puzzle."},
	}},
	{"Plush", nil},
}

type seedToy struct {
	title       string
	price       string
	age         int
	description string
}

// Seed populates the database with a small development catalog. It is a
// no-op when any category already exists. Counters are written together
// with the toys so the seeded data starts consistent.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	var toys int
	for _, c := range seedCatalog {
		var id string
		err := tx.QueryRow(
			`INSERT INTO categories (name, num_toys) VALUES ($1, $2) RETURNING id`,
			c.category, len(c.toys),
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("seed insert category %q: %w", c.category, err)
		}

		for _, t := range c.toys {
			_, err := tx.Exec(`
				INSERT INTO toys (title, category_id, price, age, description)
				VALUES ($1, $2, $3, $4, $5)
			`, t.title, id, t.price, t.age, t.description)
			if err != nil {
				return fmt.Errorf("seed insert toy %q: %w", t.title, err)
			}
			toys++
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with development catalog",
		"categories", len(seedCatalog),
		"toys", toys,
	)
	return nil
}
