package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"catalog-sync/internal/shared"
)

// defaultCategoryID is the seeded top-level category every deployment gets.
const defaultCategoryID = 1

// CategoryRepository reads and creates course categories. Categories are
// never deleted by the sync.
type CategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// ByID returns the category with the given id, or shared.ErrNotFound.
func (r *CategoryRepository) ByID(ctx context.Context, id int64) (*Category, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		"SELECT id, idnumber, name, parent FROM categories WHERE id = ?", id))
}

// ByIDNumber returns the category with the given id-number, or
// shared.ErrNotFound. Empty id-numbers never match.
func (r *CategoryRepository) ByIDNumber(ctx context.Context, idNumber string) (*Category, error) {
	if idNumber == "" {
		return nil, shared.ErrNotFound
	}
	return r.scanOne(r.db.QueryRowContext(ctx,
		"SELECT id, idnumber, name, parent FROM categories WHERE idnumber = ?", idNumber))
}

// Default returns the seeded top-level category.
func (r *CategoryRepository) Default(ctx context.Context) (*Category, error) {
	return r.ByID(ctx, defaultCategoryID)
}

// Create inserts a category under the given parent and returns it.
func (r *CategoryRepository) Create(ctx context.Context, idNumber, name string, parent int64) (*Category, error) {
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO categories (idnumber, name, parent) VALUES (?, ?, ?)",
		idNumber, name, parent)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create category %q: %v", shared.ErrStoreWrite, idNumber, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrStoreWrite, err)
	}

	return &Category{ID: id, IDNumber: idNumber, Name: name, Parent: parent}, nil
}

func (r *CategoryRepository) scanOne(row *sql.Row) (*Category, error) {
	var category Category
	err := row.Scan(&category.ID, &category.IDNumber, &category.Name, &category.Parent)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read category: %w", err)
	}
	return &category, nil
}
