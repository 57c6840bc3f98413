// package catalog implements the client for the learning-content catalog API.
//
// The API serves pages of assets via cursor-based pagination: the first page
// of a query issues an opaque paging request id which callers pass back for
// every subsequent page, and the x-total-count response header reports how
// many assets the query matches in total.
package catalog

import "net/http"

// Response headers carrying pagination state.
const (
	HeaderTotalCount      = "x-total-count"
	HeaderPagingRequestID = "x-paging-request-id"
)

// DefaultPageSize is the page size used when a request does not set one.
const DefaultPageSize = 1000

// CatalogPage is one page of a catalog-content query.
type CatalogPage struct {
	Assets          []Asset
	TotalCount      int    // From x-total-count; 0 when the header is absent
	PagingRequestID string // Continuation handle issued on the first page
}

// PageRequest identifies one page of a catalog-content query.
type PageRequest struct {
	Offset          int
	Max             int
	UpdatedSince    string // ISO8601 watermark; empty fetches the full catalog
	PagingRequestID string
}

// Response is the uniform result envelope for a catalog API call.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Asset is one catalog item: a course, video, book, channel, journey etc.
type Asset struct {
	ID                 string       `json:"id"`
	Title              string       `json:"title"`
	Description        string       `json:"description"`
	LocaleCodes        []string     `json:"localeCodes"`
	ContentType        AssetType    `json:"contentType"`
	Lifecycle          Lifecycle    `json:"lifecycle"`
	Duration           string       `json:"duration"` // ISO8601 duration, may be empty
	ImageURL           string       `json:"imageUrl"`
	Link               string       `json:"link"`
	Keywords           []string     `json:"keywords"`
	Associations       Associations `json:"associations"`
	Authors            []string     `json:"by"`
	LearningObjectives []string     `json:"learningObjectives"`
}

// AssetType describes the kind of content an asset holds.
type AssetType struct {
	Type         string `json:"type"`
	DisplayLabel string `json:"displayLabel"`
}

// Lifecycle carries the publication status of an asset (ACTIVE, RETIRED, ...).
type Lifecycle struct {
	Status string `json:"status"`
}

// Associations link an asset to the containers and taxonomies it belongs to.
type Associations struct {
	Channels []AssociatedAsset `json:"channels"`
	Journeys []AssociatedAsset `json:"journeys"`
	Areas    []string          `json:"areas"`
	Subjects []string          `json:"subjects"`
}

// AssociatedAsset is a reference to a container asset.
type AssociatedAsset struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// PrimaryLocale returns the asset's first locale code, or empty when the
// asset carries none.
func (a *Asset) PrimaryLocale() string {
	if len(a.LocaleCodes) == 0 {
		return ""
	}
	return a.LocaleCodes[0]
}

// FirstChannel returns the first associated channel, or nil.
func (a *Asset) FirstChannel() *AssociatedAsset {
	if len(a.Associations.Channels) == 0 {
		return nil
	}
	return &a.Associations.Channels[0]
}
