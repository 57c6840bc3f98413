package mapper

import (
	"fmt"
	"strings"

	"catalog-sync/internal/shared"
)

// CourseImport holds the course-level fields of a normalized import.
type CourseImport struct {
	ExternalID   string
	ShortName    string
	FullName     string
	Summary      string
	Tags         []string
	Visible      bool
	ThumbnailURL string

	// Derived leaf category; both empty when no derivation applies, in
	// which case the course lands under the configured parent category.
	CategoryIDNumber string
	CategoryName     string
}

// ModuleImport holds the single activity created inside an imported course.
type ModuleImport struct {
	Name                   string
	Intro                  string
	Content                string
	MarkCompleteExternally bool
}

// ImportRecord is the normalized, validated unit of work handed to the
// reconciler: one course plus its single content module.
type ImportRecord struct {
	Kind   Kind
	Course CourseImport
	Module ModuleImport
}

// Validate enforces the mandatory-field invariant. A record missing any of
// the six required fields is rejected before reconciliation writes anything.
func (r *ImportRecord) Validate() error {
	var missing []string

	if r.Course.ExternalID == "" {
		missing = append(missing, "external_id")
	}
	if r.Course.ShortName == "" {
		missing = append(missing, "short_name")
	}
	if r.Course.FullName == "" {
		missing = append(missing, "full_name")
	}
	if r.Module.Name == "" {
		missing = append(missing, "module.name")
	}
	if r.Module.Intro == "" {
		missing = append(missing, "module.intro")
	}
	if r.Module.Content == "" {
		missing = append(missing, "module.content")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", shared.ErrInvalidImportRecord, strings.Join(missing, ", "))
	}
	return nil
}
