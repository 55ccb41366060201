// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"toybox/internal/models"
)

// ToyStore handles all toy-related database operations.
type ToyStore struct {
	db *sql.DB
}

// NewToyStore creates a new ToyStore with the given database connection.
func NewToyStore(db *sql.DB) *ToyStore {
	return &ToyStore{db: db}
}

const toyColumns = `id, title, category_id, price, age, description, date_added, updated_at`

func scanToy(s scanner) (*models.Toy, error) {
	var t models.Toy
	err := s.Scan(
		&t.ID, &t.Title, &t.CategoryID, &t.Price,
		&t.Age, &t.Description, &t.DateAdded, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// queryToys runs a SELECT returning toyColumns and collects the rows.
func (s *ToyStore) queryToys(ctx context.Context, op, query string, args ...any) ([]models.Toy, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var items []models.Toy
	for rows.Next() {
		t, err := scanToy(rows)
		if err != nil {
			return nil, fmt.Errorf("scan toy: %w", err)
		}
		items = append(items, *t)
	}
	return items, rows.Err()
}

// List returns all toys in insertion order.
func (s *ToyStore) List(ctx context.Context) ([]models.Toy, error) {
	return s.queryToys(ctx, "list toys",
		`SELECT `+toyColumns+` FROM toys ORDER BY date_added, id`)
}

// ListByCategory returns the toys referencing a category, in insertion order.
func (s *ToyStore) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Toy, error) {
	return s.queryToys(ctx, "list toys by category",
		`SELECT `+toyColumns+` FROM toys WHERE category_id = $1 ORDER BY date_added, id`,
		categoryID)
}

// Recent returns at most limit toys, newest first.
func (s *ToyStore) Recent(ctx context.Context, limit int) ([]models.Toy, error) {
	return s.queryToys(ctx, "list recent toys",
		`SELECT `+toyColumns+` FROM toys ORDER BY date_added DESC, id DESC LIMIT $1`,
		limit)
}

// FindByID retrieves a toy by its UUID. Returns nil if not found.
func (s *ToyStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Toy, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+toyColumns+` FROM toys WHERE id = $1`, id)
	t, err := scanToy(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find toy by id: %w", err)
	}
	return t, nil
}

// Count returns the total number of toys.
func (s *ToyStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM toys`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count toys: %w", err)
	}
	return n, nil
}

// CountByCategory returns the number of toys referencing a category.
func (s *ToyStore) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM toys WHERE category_id = $1`, categoryID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count toys by category: %w", err)
	}
	return n, nil
}

// Create inserts a new toy stamped with the current time and returns it.
// It does not touch the category counter; callers pair it with
// CategoryStore.IncrementToys.
func (s *ToyStore) Create(ctx context.Context, t *models.Toy) (*models.Toy, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	// Postgres keeps microseconds; truncate so the returned value round-trips.
	added := time.Now().UTC().Truncate(time.Microsecond)

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO toys (title, category_id, price, age, description, date_added, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING `+toyColumns,
		t.Title, t.CategoryID, t.Price, t.Age, t.Description, added,
	)
	created, err := scanToy(row)
	if err != nil {
		return nil, fmt.Errorf("create toy: %w", err)
	}
	return created, nil
}

// Update overwrites every editable field of the toy. DateAdded is kept.
func (s *ToyStore) Update(ctx context.Context, t *models.Toy) error {
	if err := t.Validate(); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE toys SET
			title = $1, category_id = $2, price = $3, age = $4,
			description = $5, updated_at = NOW()
		WHERE id = $6
	`, t.Title, t.CategoryID, t.Price, t.Age, t.Description, t.ID)
	if err != nil {
		return fmt.Errorf("update toy: %w", err)
	}
	return requireAffected(res, "update toy")
}

// Delete removes a toy and returns the removed record, or nil if none
// matched. Callers use the returned CategoryID to adjust the counter.
func (s *ToyStore) Delete(ctx context.Context, id uuid.UUID) (*models.Toy, error) {
	row := s.db.QueryRowContext(ctx, `DELETE FROM toys WHERE id = $1 RETURNING `+toyColumns, id)
	t, err := scanToy(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("delete toy: %w", err)
	}
	return t, nil
}
