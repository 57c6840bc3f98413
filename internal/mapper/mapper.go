// package mapper transforms raw catalog assets into normalized import
// records. The transform is pure: any remote work such as thumbnail
// downloads belongs to collaborators, not here.
package mapper

import (
	"fmt"
	"strings"

	"catalog-sync/internal/catalog"
	"catalog-sync/internal/render"
	"catalog-sync/internal/shared"
)

const (
	maxTagLength       = 50
	maxShortNameLength = 215
	maxFullNameLength  = 255
)

const activeStatus = "ACTIVE"

// Renderer produces description HTML from a view model.
type Renderer interface {
	Render(render.ViewModel) (string, error)
}

// Mapper builds import records from catalog assets.
type Mapper struct {
	renderer   Renderer
	thumbnails bool
}

// New creates a Mapper. When thumbnails is false the mapped records carry no
// thumbnail URL and rendered descriptions omit the image.
func New(renderer Renderer, thumbnails bool) *Mapper {
	return &Mapper{renderer: renderer, thumbnails: thumbnails}
}

// Map normalizes one asset. Malformed optional fields (duration, locale)
// degrade to empty strings; only a render failure returns an error. Missing
// mandatory fields surface later through [ImportRecord.Validate].
func (m *Mapper) Map(asset *catalog.Asset) (*ImportRecord, error) {
	kind := ParseKind(asset.ContentType.Type)
	locale := asset.PrimaryLocale()
	language, region := shared.LocaleNames(locale)

	view := render.ViewModel{
		Title:       asset.Title,
		Description: asset.Description,
		Type:        asset.ContentType.DisplayLabel,
		Locale:      locale,
		Language:    language,
		Region:      region,
		Duration:    shared.FormatISODuration(asset.Duration),
		Authors:     asset.Authors,
		Objectives:  asset.LearningObjectives,
		ImageURL:    shared.SanitizeURL(asset.ImageURL),
		LaunchURL:   asset.Link,
	}

	summary, err := m.renderer.Render(view)
	if err != nil {
		return nil, fmt.Errorf("failed to render summary for %s: %w", asset.ID, err)
	}

	view.ShowThumbnail = m.thumbnails
	view.ShowLaunch = true
	content, err := m.renderer.Render(view)
	if err != nil {
		return nil, fmt.Errorf("failed to render content for %s: %w", asset.ID, err)
	}

	record := &ImportRecord{
		Kind: kind,
		Course: CourseImport{
			ExternalID: asset.ID,
			Summary:    summary,
			Tags:       deriveTags(kind, asset),
			Visible:    strings.EqualFold(asset.Lifecycle.Status, activeStatus),
		},
		Module: ModuleImport{
			Intro:                  summary,
			Content:                content,
			MarkCompleteExternally: kind != KindChannel,
		},
	}

	// An asset without a title yields empty name fields so the record
	// fails validation instead of importing under a fabricated name.
	if asset.Title != "" {
		record.Course.ShortName = truncate(asset.Title, maxShortNameLength) + " (" + asset.ID + ")"
		record.Course.FullName = truncate(asset.Title, maxFullNameLength)
		record.Module.Name = truncate(asset.Title, maxFullNameLength)
	}

	if m.thumbnails {
		record.Course.ThumbnailURL = shared.SanitizeURL(asset.ImageURL)
	}

	record.Course.CategoryIDNumber, record.Course.CategoryName = deriveCategory(kind, asset, locale)

	return record, nil
}

// deriveCategory picks the category source per kind: containers categorize
// under themselves, leaves under their first associated channel, unknown
// kinds not at all. Both results are empty when no id or title is available.
func deriveCategory(kind Kind, asset *catalog.Asset, locale string) (idNumber string, name string) {
	var id, title string

	switch {
	case kind.Container():
		id, title = asset.ID, asset.Title
	case kind.Leaf():
		if channel := asset.FirstChannel(); channel != nil {
			id, title = channel.ID, channel.Title
		}
	}

	if id != "" {
		idNumber = id + "_" + locale
	}
	if title != "" {
		name = title + " [" + locale + "]"
	}
	return idNumber, name
}

// deriveTags builds the ordered tag set: display label, then container
// titles, then keywords, areas and subjects. Tags are trimmed, truncated
// and de-duplicated case-insensitively, keeping the first occurrence.
func deriveTags(kind Kind, asset *catalog.Asset) []string {
	candidates := []string{asset.ContentType.DisplayLabel}

	if kind.Container() {
		candidates = append(candidates, asset.Title)
	} else {
		for _, channel := range asset.Associations.Channels {
			candidates = append(candidates, channel.Title)
		}
		for _, journey := range asset.Associations.Journeys {
			candidates = append(candidates, journey.Title)
		}
	}

	candidates = append(candidates, asset.Keywords...)
	candidates = append(candidates, asset.Associations.Areas...)
	candidates = append(candidates, asset.Associations.Subjects...)

	seen := make(map[string]bool, len(candidates))
	tags := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		tag := truncate(strings.TrimSpace(candidate), maxTagLength)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if seen[key] {
			continue
		}
		seen[key] = true
		tags = append(tags, tag)
	}
	return tags
}

// truncate limits a string to max runes, never splitting a rune.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
