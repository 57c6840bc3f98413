package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"catalog-sync/internal/shared"
)

// ModuleRepository reads and writes course content modules. Module
// id-numbers are only unique within their owning course.
type ModuleRepository struct {
	db *sql.DB
}

func NewModuleRepository(db *sql.DB) *ModuleRepository {
	return &ModuleRepository{db: db}
}

// ByIDNumber returns the module with the given id-number inside a course,
// or shared.ErrNotFound.
func (r *ModuleRepository) ByIDNumber(ctx context.Context, courseID int64, idNumber string) (*Module, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, course, idnumber, name, intro, content, completeexternally
		 FROM modules WHERE course = ? AND idnumber = ?`, courseID, idNumber)

	var module Module
	err := row.Scan(&module.ID, &module.Course, &module.IDNumber, &module.Name,
		&module.Intro, &module.Content, &module.CompleteExternally)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read module: %w", err)
	}
	return &module, nil
}

// Create inserts a module and returns its id.
func (r *ModuleRepository) Create(ctx context.Context, module *Module) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO modules (course, idnumber, name, intro, content, completeexternally)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		module.Course, module.IDNumber, module.Name, NormalizeHTML(module.Intro),
		NormalizeHTML(module.Content), module.CompleteExternally)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to create module %q: %v", shared.ErrStoreWrite, module.IDNumber, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", shared.ErrStoreWrite, err)
	}
	return id, nil
}

// Update rewrites all mutable fields of an existing module.
func (r *ModuleRepository) Update(ctx context.Context, module *Module) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE modules
		 SET name = ?, intro = ?, content = ?, completeexternally = ?,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		module.Name, NormalizeHTML(module.Intro), NormalizeHTML(module.Content),
		module.CompleteExternally, module.ID)
	if err != nil {
		return fmt.Errorf("%w: failed to update module %q: %v", shared.ErrStoreWrite, module.IDNumber, err)
	}
	return nil
}
