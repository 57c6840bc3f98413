package mapper

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"catalog-sync/internal/catalog"
	"catalog-sync/internal/render"
	"catalog-sync/internal/shared"
)

// stubRenderer records every view model it is asked to render.
type stubRenderer struct {
	views []render.ViewModel
	err   error
}

func (s *stubRenderer) Render(view render.ViewModel) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.views = append(s.views, view)
	if view.ShowLaunch {
		return "<p>content for " + view.Title + "</p>", nil
	}
	return "<p>summary for " + view.Title + "</p>", nil
}

func courseAsset() *catalog.Asset {
	return &catalog.Asset{
		ID:          "abc123",
		Title:       "My Course",
		Description: "About the course.",
		LocaleCodes: []string{"en-US"},
		ContentType: catalog.AssetType{Type: "COURSE", DisplayLabel: "Course"},
		Lifecycle:   catalog.Lifecycle{Status: "ACTIVE"},
		Duration:    "PT1H30M",
		Keywords:    []string{"k1"},
		Associations: catalog.Associations{
			Channels: []catalog.AssociatedAsset{{ID: "C1", Title: "Channel One"}},
		},
	}
}

func TestMapper_Map(t *testing.T) {
	renderer := &stubRenderer{}
	m := New(renderer, true)

	record, err := m.Map(courseAsset())
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}

	if record.Kind != KindCourse {
		t.Errorf("Kind = %v, want KindCourse", record.Kind)
	}
	if record.Course.ExternalID != "abc123" {
		t.Errorf("ExternalID = %q", record.Course.ExternalID)
	}
	if record.Course.ShortName != "My Course (abc123)" {
		t.Errorf("ShortName = %q", record.Course.ShortName)
	}
	if record.Course.FullName != "My Course" {
		t.Errorf("FullName = %q", record.Course.FullName)
	}
	if record.Course.CategoryIDNumber != "C1_en-US" {
		t.Errorf("CategoryIDNumber = %q, want C1_en-US", record.Course.CategoryIDNumber)
	}
	if record.Course.CategoryName != "Channel One [en-US]" {
		t.Errorf("CategoryName = %q", record.Course.CategoryName)
	}
	if !record.Course.Visible {
		t.Error("expected active asset to be visible")
	}
	if !record.Module.MarkCompleteExternally {
		t.Error("course modules should be externally completable")
	}

	wantTags := []string{"Course", "Channel One", "k1"}
	if !reflect.DeepEqual(record.Course.Tags, wantTags) {
		t.Errorf("Tags = %v, want %v", record.Course.Tags, wantTags)
	}

	if record.Course.Summary != "<p>summary for My Course</p>" {
		t.Errorf("Summary = %q", record.Course.Summary)
	}
	if record.Module.Intro != record.Course.Summary {
		t.Error("module intro should reuse the summary render")
	}
	if record.Module.Content != "<p>content for My Course</p>" {
		t.Errorf("Content = %q", record.Module.Content)
	}

	if err := record.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestMapper_Map_RenderFlags(t *testing.T) {
	renderer := &stubRenderer{}
	if _, err := New(renderer, true).Map(courseAsset()); err != nil {
		t.Fatalf("Map() error = %v", err)
	}

	if len(renderer.views) != 2 {
		t.Fatalf("expected 2 renders, got %d", len(renderer.views))
	}

	summary, content := renderer.views[0], renderer.views[1]
	if summary.ShowThumbnail || summary.ShowLaunch {
		t.Error("summary render should disable thumbnail and launch")
	}
	if !content.ShowThumbnail || !content.ShowLaunch {
		t.Error("content render should enable thumbnail and launch")
	}
	if content.Duration != "01:30:00" {
		t.Errorf("Duration = %q, want 01:30:00", content.Duration)
	}
	if content.Language != "English" || content.Region != "United States" {
		t.Errorf("Language/Region = %q/%q", content.Language, content.Region)
	}
}

func TestMapper_Map_Channel(t *testing.T) {
	asset := &catalog.Asset{
		ID:          "chan9",
		Title:       "Leadership",
		LocaleCodes: []string{"fr-FR"},
		ContentType: catalog.AssetType{Type: "CHANNEL", DisplayLabel: "Channel"},
		Lifecycle:   catalog.Lifecycle{Status: "RETIRED"},
	}

	record, err := New(&stubRenderer{}, true).Map(asset)
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}

	if record.Course.CategoryIDNumber != "chan9_fr-FR" {
		t.Errorf("CategoryIDNumber = %q, want chan9_fr-FR", record.Course.CategoryIDNumber)
	}
	if record.Course.CategoryName != "Leadership [fr-FR]" {
		t.Errorf("CategoryName = %q", record.Course.CategoryName)
	}
	if record.Course.Visible {
		t.Error("retired asset should not be visible")
	}
	if record.Module.MarkCompleteExternally {
		t.Error("channel modules are never externally completable")
	}

	wantTags := []string{"Channel", "Leadership"}
	if !reflect.DeepEqual(record.Course.Tags, wantTags) {
		t.Errorf("Tags = %v, want %v", record.Course.Tags, wantTags)
	}
}

func TestMapper_Map_UnknownKindNoCategory(t *testing.T) {
	asset := courseAsset()
	asset.ContentType.Type = "PODCAST"

	record, err := New(&stubRenderer{}, true).Map(asset)
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}

	if record.Kind != KindUnknown {
		t.Errorf("Kind = %v, want KindUnknown", record.Kind)
	}
	if record.Course.CategoryIDNumber != "" || record.Course.CategoryName != "" {
		t.Errorf("unknown kind should derive no category, got %q / %q",
			record.Course.CategoryIDNumber, record.Course.CategoryName)
	}
}

func TestMapper_Map_MissingTitle(t *testing.T) {
	asset := courseAsset()
	asset.Title = ""

	record, err := New(&stubRenderer{}, true).Map(asset)
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}

	if record.Course.ShortName != "" || record.Course.FullName != "" || record.Module.Name != "" {
		t.Error("missing title should leave all name fields empty")
	}
	if err := record.Validate(); !errors.Is(err, shared.ErrInvalidImportRecord) {
		t.Errorf("Validate() error = %v, want ErrInvalidImportRecord", err)
	}
}

func TestMapper_Map_TagNormalization(t *testing.T) {
	asset := courseAsset()
	asset.Keywords = []string{"  k1  ", "K1", strings.Repeat("x", 60), ""}
	asset.Associations.Areas = []string{"channel one"}
	asset.Associations.Subjects = []string{"Go"}

	record, err := New(&stubRenderer{}, true).Map(asset)
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}

	wantTags := []string{"Course", "Channel One", "k1", strings.Repeat("x", 50), "Go"}
	if !reflect.DeepEqual(record.Course.Tags, wantTags) {
		t.Errorf("Tags = %v, want %v", record.Course.Tags, wantTags)
	}
}

func TestMapper_Map_ThumbnailsDisabled(t *testing.T) {
	asset := courseAsset()
	asset.ImageURL = "https://cdn.example.com/a%2520b.png"

	record, err := New(&stubRenderer{}, false).Map(asset)
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}
	if record.Course.ThumbnailURL != "" {
		t.Errorf("ThumbnailURL = %q, want empty when thumbnails disabled", record.Course.ThumbnailURL)
	}

	record, err = New(&stubRenderer{}, true).Map(asset)
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}
	if record.Course.ThumbnailURL != "https://cdn.example.com/a%20b.png" {
		t.Errorf("ThumbnailURL = %q, want sanitized URL", record.Course.ThumbnailURL)
	}
}

func TestMapper_Map_RenderFailure(t *testing.T) {
	renderer := &stubRenderer{err: errors.New("template broken")}
	if _, err := New(renderer, true).Map(courseAsset()); err == nil {
		t.Error("Map() expected error from failing renderer")
	}
}

func TestMapper_Map_LongTitleTruncation(t *testing.T) {
	asset := courseAsset()
	asset.Title = strings.Repeat("t", 300)

	record, err := New(&stubRenderer{}, true).Map(asset)
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}

	if want := strings.Repeat("t", 215) + " (abc123)"; record.Course.ShortName != want {
		t.Errorf("ShortName length = %d, want 215-rune title plus id suffix", len(record.Course.ShortName))
	}
	if len([]rune(record.Course.FullName)) != 255 {
		t.Errorf("FullName rune length = %d, want 255", len([]rune(record.Course.FullName)))
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		input string
		want  Kind
	}{
		{"COURSE", KindCourse},
		{"video", KindVideo},
		{"Book", KindBook},
		{"AUDIOBOOK", KindAudiobook},
		{"LINKED_CONTENT", KindLinkedContent},
		{"CHANNEL", KindChannel},
		{"JOURNEY", KindJourney},
		{"  journey  ", KindJourney},
		{"PODCAST", KindUnknown},
		{"", KindUnknown},
	}

	for _, tt := range tests {
		if got := ParseKind(tt.input); got != tt.want {
			t.Errorf("ParseKind(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestImportRecord_Validate(t *testing.T) {
	valid := ImportRecord{
		Course: CourseImport{ExternalID: "id", ShortName: "s", FullName: "f"},
		Module: ModuleImport{Name: "n", Intro: "i", Content: "c"},
	}

	tests := []struct {
		name    string
		mutate  func(*ImportRecord)
		wantErr bool
	}{
		{"all fields present", func(r *ImportRecord) {}, false},
		{"missing external id", func(r *ImportRecord) { r.Course.ExternalID = "" }, true},
		{"missing short name", func(r *ImportRecord) { r.Course.ShortName = "" }, true},
		{"missing full name", func(r *ImportRecord) { r.Course.FullName = "" }, true},
		{"missing module name", func(r *ImportRecord) { r.Module.Name = "" }, true},
		{"missing module intro", func(r *ImportRecord) { r.Module.Intro = "" }, true},
		{"missing module content", func(r *ImportRecord) { r.Module.Content = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := valid
			tt.mutate(&record)

			err := record.Validate()
			if tt.wantErr && !errors.Is(err, shared.ErrInvalidImportRecord) {
				t.Errorf("Validate() error = %v, want ErrInvalidImportRecord", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() error = %v", err)
			}
		})
	}
}
