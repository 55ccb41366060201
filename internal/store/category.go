// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"toybox/internal/models"
)

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, num_toys, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(s scanner) (*models.Category, error) {
	var c models.Category
	if err := s.Scan(&c.ID, &c.Name, &c.NumToys, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all categories in insertion order.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// Count returns the total number of categories.
func (s *CategoryStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return n, nil
}

// Create inserts a new category with a zero toy counter and returns it.
func (s *CategoryStore) Create(ctx context.Context, c *models.Category) (*models.Category, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO categories (name, num_toys)
		VALUES ($1, 0)
		RETURNING `+categoryColumns,
		c.Name,
	)
	created, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return created, nil
}

// Update overwrites the category's name. The toy counter is left alone.
func (s *CategoryStore) Update(ctx context.Context, c *models.Category) error {
	if err := c.Validate(); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE categories SET name = $1, updated_at = NOW()
		WHERE id = $2
	`, c.Name, c.ID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return requireAffected(res, "update category")
}

// Delete removes a category and every toy referencing it in one transaction.
// It returns the removed category, or nil if none matched. Toys are removed
// even when the category row is already gone.
func (s *CategoryStore) Delete(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`DELETE FROM categories WHERE id = $1 RETURNING `+categoryColumns, id)
	deleted, err := scanCategory(row)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("delete category: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM toys WHERE category_id = $1`, id); err != nil {
		return nil, fmt.Errorf("delete toys of category %s: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit delete category: %w", err)
	}
	return deleted, nil
}

// IncrementToys atomically adds delta to the category's toy counter. The
// single UPDATE statement makes concurrent increments on the same row safe.
// The counter never drops below zero. A missing category is a no-op.
func (s *CategoryStore) IncrementToys(ctx context.Context, id uuid.UUID, delta int) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE categories SET num_toys = GREATEST(num_toys + $1, 0), updated_at = NOW()
		WHERE id = $2
	`, delta, id)
	if err != nil {
		return fmt.Errorf("increment toy counter for %s: %w", id, err)
	}
	return nil
}

// requireAffected returns ErrNotFound when res touched no rows.
func requireAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}
