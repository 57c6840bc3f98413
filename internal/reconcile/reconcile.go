// package reconcile applies normalized import records to the store: it
// resolves categories, diffs against existing rows and writes only what
// changed. Every failure is item-scoped; a run never aborts on one record.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/log"

	"catalog-sync/internal/mapper"
	"catalog-sync/internal/shared"
	"catalog-sync/internal/store"
)

// Entity statuses reported in an Outcome.
const (
	StatusCreated    = "created"
	StatusUpdated    = "updated"
	StatusNotUpdated = "not updated"
)

// CategoryStore is the category access the reconciler needs.
type CategoryStore interface {
	ByID(ctx context.Context, id int64) (*store.Category, error)
	ByIDNumber(ctx context.Context, idNumber string) (*store.Category, error)
	Default(ctx context.Context) (*store.Category, error)
	Create(ctx context.Context, idNumber, name string, parent int64) (*store.Category, error)
}

// CourseStore is the course access the reconciler needs.
type CourseStore interface {
	ByIDNumber(ctx context.Context, idNumber string) (*store.Course, error)
	Create(ctx context.Context, course *store.Course) (int64, error)
	Update(ctx context.Context, course *store.Course) error
}

// ModuleStore is the module access the reconciler needs.
type ModuleStore interface {
	ByIDNumber(ctx context.Context, courseID int64, idNumber string) (*store.Module, error)
	Create(ctx context.Context, module *store.Module) (int64, error)
	Update(ctx context.Context, module *store.Module) error
}

// CompletionStore registers completion criteria and aggregation policies.
type CompletionStore interface {
	EnsureCriterion(ctx context.Context, courseID, moduleID int64) error
	EnsureAggregation(ctx context.Context, courseID int64) error
}

// Outcome is the per-record result of an Apply call.
type Outcome struct {
	Success      bool
	CourseID     int64
	ModuleID     int64
	CourseStatus string
	ModuleStatus string
	Message      string
}

// Reconciler applies import records against the store.
type Reconciler struct {
	categories CategoryStore
	courses    CourseStore
	modules    ModuleStore
	completion CompletionStore
	logger     *log.Logger

	// parent is the configured parent category reference: empty for the
	// store default, a numeric id, or a category id-number.
	parent string
}

// Config wires a Reconciler.
type Config struct {
	Categories     CategoryStore
	Courses        CourseStore
	Modules        ModuleStore
	Completion     CompletionStore
	ParentCategory string
	Logger         *log.Logger
}

func New(cfg Config) *Reconciler {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Reconciler{
		categories: cfg.Categories,
		courses:    cfg.Courses,
		modules:    cfg.Modules,
		completion: cfg.Completion,
		parent:     cfg.ParentCategory,
		logger:     logger,
	}
}

// Apply reconciles one import record. Category resolution runs first so a
// derived category can be created even when the record itself is rejected;
// course and module writes happen only for valid records. Every error is
// converted into a failed Outcome.
func (r *Reconciler) Apply(ctx context.Context, record *mapper.ImportRecord) Outcome {
	parentID, err := r.resolveParent(ctx)
	if err != nil {
		return failed(err)
	}

	categoryID, err := r.resolveLeafCategory(ctx, record, parentID)
	if err != nil {
		return failed(err)
	}

	if err := record.Validate(); err != nil {
		r.logger.Warn("rejected import record", "external_id", record.Course.ExternalID, "error", err)
		return Outcome{Success: false, Message: shared.ErrInvalidImportRecord.Error()}
	}

	desired := &store.Course{
		IDNumber:  record.Course.ExternalID,
		ShortName: record.Course.ShortName,
		FullName:  record.Course.FullName,
		Summary:   record.Course.Summary,
		Tags:      record.Course.Tags,
		Visible:   record.Course.Visible,
		Thumbnail: record.Course.ThumbnailURL,
		Category:  categoryID,
	}

	outcome := Outcome{Success: true}

	existing, err := r.courses.ByIDNumber(ctx, record.Course.ExternalID)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		id, err := r.courses.Create(ctx, desired)
		if err != nil {
			return failed(err)
		}
		outcome.CourseID = id
		outcome.CourseStatus = StatusCreated
	case err != nil:
		return failed(err)
	default:
		outcome.CourseID = existing.ID
		desired.ID = existing.ID

		if changes := diffCourse(existing, desired); changes.Empty() {
			outcome.CourseStatus = StatusNotUpdated
		} else {
			r.logger.Debug("updating course",
				"external_id", record.Course.ExternalID, "fields", changes.String())
			if err := r.courses.Update(ctx, desired); err != nil {
				return failed(err)
			}
			outcome.CourseStatus = StatusUpdated
		}
	}

	moduleStatus, moduleID, err := r.applyModule(ctx, outcome.CourseID, record)
	if err != nil {
		return failed(err)
	}
	outcome.ModuleID = moduleID
	outcome.ModuleStatus = moduleStatus

	return outcome
}

// applyModule reconciles the course's single content module and keeps the
// completion criterion and aggregation policy in place.
func (r *Reconciler) applyModule(ctx context.Context, courseID int64, record *mapper.ImportRecord) (string, int64, error) {
	desired := &store.Module{
		Course:             courseID,
		IDNumber:           record.Course.ExternalID,
		Name:               record.Module.Name,
		Intro:              record.Module.Intro,
		Content:            record.Module.Content,
		CompleteExternally: record.Module.MarkCompleteExternally,
	}

	status := StatusNotUpdated

	existing, err := r.modules.ByIDNumber(ctx, courseID, record.Course.ExternalID)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		id, err := r.modules.Create(ctx, desired)
		if err != nil {
			return "", 0, err
		}
		desired.ID = id
		status = StatusCreated
	case err != nil:
		return "", 0, err
	default:
		desired.ID = existing.ID
		if changes := diffModule(existing, desired); !changes.Empty() {
			r.logger.Debug("updating module",
				"external_id", record.Course.ExternalID, "fields", changes.String())
			if err := r.modules.Update(ctx, desired); err != nil {
				return "", 0, err
			}
			status = StatusUpdated
		}
	}

	if err := r.completion.EnsureCriterion(ctx, courseID, desired.ID); err != nil {
		return "", 0, err
	}
	if err := r.completion.EnsureAggregation(ctx, courseID); err != nil {
		return "", 0, err
	}

	return status, desired.ID, nil
}

// resolveParent turns the configured parent reference into a category id.
// Empty resolves to the store default; a numeric reference must exist; any
// other string is looked up as an id-number.
func (r *Reconciler) resolveParent(ctx context.Context) (int64, error) {
	if r.parent == "" {
		category, err := r.categories.Default(ctx)
		if err != nil {
			return 0, fmt.Errorf("%w: no default category: %v", shared.ErrInvalidCategory, err)
		}
		return category.ID, nil
	}

	if id, err := strconv.ParseInt(r.parent, 10, 64); err == nil {
		category, err := r.categories.ByID(ctx, id)
		if err != nil {
			return 0, fmt.Errorf("%w: category id %d does not exist", shared.ErrInvalidCategory, id)
		}
		return category.ID, nil
	}

	category, err := r.categories.ByIDNumber(ctx, r.parent)
	if err != nil {
		return 0, fmt.Errorf("%w: no category with id-number %q", shared.ErrInvalidCategory, r.parent)
	}
	return category.ID, nil
}

// resolveLeafCategory finds or creates the record's derived category under
// the parent. Records without a derived id-number, or with an id-number but
// no derived name, fall back to the parent itself.
func (r *Reconciler) resolveLeafCategory(ctx context.Context, record *mapper.ImportRecord, parentID int64) (int64, error) {
	idNumber := record.Course.CategoryIDNumber
	if idNumber == "" {
		return parentID, nil
	}

	category, err := r.categories.ByIDNumber(ctx, idNumber)
	if err == nil {
		return category.ID, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return 0, err
	}

	if record.Course.CategoryName == "" {
		return parentID, nil
	}

	created, err := r.categories.Create(ctx, idNumber, record.Course.CategoryName, parentID)
	if err != nil {
		return 0, err
	}
	r.logger.Debug("created category", "idnumber", idNumber, "id", created.ID)
	return created.ID, nil
}

func failed(err error) Outcome {
	return Outcome{Success: false, Message: err.Error()}
}
