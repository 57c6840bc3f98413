package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"catalog-sync/internal/shared"
)

// CourseRepository reads and writes synced courses. HTML fields pass through
// NormalizeHTML on every write; tags are stored as a JSON array.
type CourseRepository struct {
	db *sql.DB
}

func NewCourseRepository(db *sql.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// ByIDNumber returns the course with the given external id-number, or
// shared.ErrNotFound.
func (r *CourseRepository) ByIDNumber(ctx context.Context, idNumber string) (*Course, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, idnumber, shortname, fullname, summary, tags, visible, thumbnail, category
		 FROM courses WHERE idnumber = ?`, idNumber)

	var (
		course  Course
		rawTags string
	)
	err := row.Scan(&course.ID, &course.IDNumber, &course.ShortName, &course.FullName,
		&course.Summary, &rawTags, &course.Visible, &course.Thumbnail, &course.Category)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read course: %w", err)
	}

	if err := json.Unmarshal([]byte(rawTags), &course.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags for course %s: %w", course.IDNumber, err)
	}

	return &course, nil
}

// Create inserts a course and returns its id.
func (r *CourseRepository) Create(ctx context.Context, course *Course) (int64, error) {
	tags, err := encodeTags(course.Tags)
	if err != nil {
		return 0, err
	}

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO courses (idnumber, shortname, fullname, summary, tags, visible, thumbnail, category)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		course.IDNumber, course.ShortName, course.FullName, NormalizeHTML(course.Summary),
		tags, course.Visible, course.Thumbnail, course.Category)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to create course %q: %v", shared.ErrStoreWrite, course.IDNumber, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", shared.ErrStoreWrite, err)
	}
	return id, nil
}

// Update rewrites all mutable fields of an existing course.
func (r *CourseRepository) Update(ctx context.Context, course *Course) error {
	tags, err := encodeTags(course.Tags)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`UPDATE courses
		 SET shortname = ?, fullname = ?, summary = ?, tags = ?, visible = ?,
		     thumbnail = ?, category = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		course.ShortName, course.FullName, NormalizeHTML(course.Summary), tags,
		course.Visible, course.Thumbnail, course.Category, course.ID)
	if err != nil {
		return fmt.Errorf("%w: failed to update course %q: %v", shared.ErrStoreWrite, course.IDNumber, err)
	}
	return nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	encoded, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("%w: failed to encode tags: %v", shared.ErrStoreWrite, err)
	}
	return string(encoded), nil
}
