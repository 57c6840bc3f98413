// package render produces course description HTML from catalog asset data.
//
// Descriptions are built from a mustache template so deployments can replace
// the layout without code changes. The default template is embedded; a custom
// template file can be configured instead.
package render

import (
	"embed"
	"fmt"
	"os"

	"github.com/cbroglie/mustache"
)

//go:embed templates/*.mustache
var templateFS embed.FS

const defaultTemplate = "templates/content.mustache"

// ViewModel carries everything a description template can reference.
type ViewModel struct {
	Title       string
	Description string
	Type        string
	Locale      string
	Language    string
	Region      string
	Duration    string
	Authors     []string
	Objectives  []string
	ImageURL    string
	LaunchURL   string

	// Rendering flags. Summary renders disable both so listings stay
	// compact; the full content body enables them.
	ShowThumbnail bool
	ShowLaunch    bool
}

// Renderer renders course descriptions from a parsed mustache template.
type Renderer struct {
	template *mustache.Template
}

// New creates a Renderer. An empty path uses the embedded default template;
// otherwise the template is read from the given file.
func New(path string) (*Renderer, error) {
	var (
		raw []byte
		err error
	)

	if path == "" {
		raw, err = templateFS.ReadFile(defaultTemplate)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load description template: %w", err)
	}

	template, err := mustache.ParseString(string(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse description template: %w", err)
	}

	return &Renderer{template: template}, nil
}

// Render produces the description HTML for one asset view.
func (r *Renderer) Render(view ViewModel) (string, error) {
	out, err := r.template.Render(view.context())
	if err != nil {
		return "", fmt.Errorf("failed to render description: %w", err)
	}
	return out, nil
}

// context flattens the view into the primitive map the template consumes.
// List sections get a has* flag so templates can guard their headings.
func (v ViewModel) context() map[string]any {
	return map[string]any{
		"title":         v.Title,
		"description":   v.Description,
		"type":          v.Type,
		"locale":        v.Locale,
		"language":      v.Language,
		"region":        v.Region,
		"duration":      v.Duration,
		"authors":       v.Authors,
		"objectives":    v.Objectives,
		"imageurl":      v.ImageURL,
		"launchurl":     v.LaunchURL,
		"hasauthors":    len(v.Authors) > 0,
		"hasobjectives": len(v.Objectives) > 0,
		"hasduration":   v.Duration != "",
		"haslanguage":   v.Language != "",
		"hasregion":     v.Region != "",
		"showthumbnail": v.ShowThumbnail && v.ImageURL != "",
		"showlaunch":    v.ShowLaunch && v.LaunchURL != "",
	}
}
