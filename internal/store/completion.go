package store

import (
	"context"
	"database/sql"
	"fmt"

	"catalog-sync/internal/shared"
)

// aggregationTypes are the criterion scopes a course aggregation policy
// covers. The empty scope is the overall policy.
var aggregationTypes = []string{"", "activity", "course", "role"}

const aggregationAll = "all"

// CompletionRepository registers modules as course completion criteria and
// maintains the course-level aggregation policy.
type CompletionRepository struct {
	db *sql.DB
}

func NewCompletionRepository(db *sql.DB) *CompletionRepository {
	return &CompletionRepository{db: db}
}

// HasCriterion reports whether a module is already registered as a
// completion criterion for a course.
func (r *CompletionRepository) HasCriterion(ctx context.Context, courseID, moduleID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM completion_criteria WHERE course = ? AND module = ?)",
		courseID, moduleID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check completion criterion: %w", err)
	}
	return exists, nil
}

// EnsureCriterion registers a module as a completion criterion for a course.
// Registering the same pair twice is a no-op.
func (r *CompletionRepository) EnsureCriterion(ctx context.Context, courseID, moduleID int64) error {
	exists, err := r.HasCriterion(ctx, courseID, moduleID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	_, err = r.db.ExecContext(ctx,
		"INSERT INTO completion_criteria (course, module) VALUES (?, ?)",
		courseID, moduleID)
	if err != nil {
		return fmt.Errorf("%w: failed to register completion criterion: %v", shared.ErrStoreWrite, err)
	}
	return nil
}

// EnsureAggregation establishes the "all criteria must complete" policy for
// a course across every aggregation scope. Existing rows are left alone.
func (r *CompletionRepository) EnsureAggregation(ctx context.Context, courseID int64) error {
	for _, criteriaType := range aggregationTypes {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO completion_aggregations (course, criteriatype, method)
			 SELECT ?, ?, ?
			 WHERE NOT EXISTS (
			     SELECT 1 FROM completion_aggregations WHERE course = ? AND criteriatype = ?
			 )`,
			courseID, criteriaType, aggregationAll, courseID, criteriaType)
		if err != nil {
			return fmt.Errorf("%w: failed to set aggregation policy: %v", shared.ErrStoreWrite, err)
		}
	}
	return nil
}

// AggregationCount returns how many aggregation rows a course has. Used by
// diagnostics and tests.
func (r *CompletionRepository) AggregationCount(ctx context.Context, courseID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM completion_aggregations WHERE course = ?", courseID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count aggregations: %w", err)
	}
	return count, nil
}
