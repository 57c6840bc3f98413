package reconcile

import (
	"sort"
	"strings"

	"catalog-sync/internal/store"
)

// Changeset lists the fields an update would touch. An empty changeset
// means the stored entity already matches the import and no write happens.
type Changeset struct {
	fields []string
}

func (c *Changeset) add(field string) {
	c.fields = append(c.fields, field)
}

// Empty reports whether nothing changed.
func (c Changeset) Empty() bool { return len(c.fields) == 0 }

// Fields returns the changed field names in comparison order.
func (c Changeset) Fields() []string { return c.fields }

func (c Changeset) String() string { return strings.Join(c.fields, ",") }

// diffCourse compares a stored course against the desired state. Summaries
// are compared after store normalization and tag sets order-insensitively,
// so re-imported content does not read as changed.
func diffCourse(existing, desired *store.Course) Changeset {
	var changes Changeset

	if existing.ShortName != desired.ShortName {
		changes.add("shortname")
	}
	if existing.FullName != desired.FullName {
		changes.add("fullname")
	}
	if store.NormalizeHTML(existing.Summary) != store.NormalizeHTML(desired.Summary) {
		changes.add("summary")
	}
	if !sameTags(existing.Tags, desired.Tags) {
		changes.add("tags")
	}
	if existing.Visible != desired.Visible {
		changes.add("visible")
	}
	if existing.Thumbnail != desired.Thumbnail {
		changes.add("thumbnail")
	}
	if existing.Category != desired.Category {
		changes.add("category")
	}

	return changes
}

// diffModule compares a stored module against the desired state.
func diffModule(existing, desired *store.Module) Changeset {
	var changes Changeset

	if existing.Name != desired.Name {
		changes.add("name")
	}
	if store.NormalizeHTML(existing.Intro) != store.NormalizeHTML(desired.Intro) {
		changes.add("intro")
	}
	if store.NormalizeHTML(existing.Content) != store.NormalizeHTML(desired.Content) {
		changes.add("content")
	}
	if existing.CompleteExternally != desired.CompleteExternally {
		changes.add("completeexternally")
	}

	return changes
}

func sameTags(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}
