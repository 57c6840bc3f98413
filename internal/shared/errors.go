package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig   = fmt.Errorf("configuration not found")
	ErrInvalidConfig   = fmt.Errorf("invalid configuration")
	ErrMissingBaseURL  = fmt.Errorf("missing catalog base URL")
	ErrMissingOrgID    = fmt.Errorf("missing organization id")
	ErrMissingBearer   = fmt.Errorf("missing bearer token")
	ErrMissingCategory = fmt.Errorf("missing parent category")

	// Item-scoped sync errors, counted per item and never fatal to a run
	ErrInvalidImportRecord = fmt.Errorf("invalid import record")
	ErrInvalidCategory     = fmt.Errorf("invalid category")
	ErrStoreWrite          = fmt.Errorf("store write failed")

	// Store lookup errors
	ErrNotFound = fmt.Errorf("record not found")

	// Input validation errors
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
