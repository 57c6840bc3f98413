package mapper

import "strings"

// Kind classifies a catalog asset's content type. The set is closed: types
// the catalog adds later map to KindUnknown and get no category derivation.
type Kind int

const (
	KindUnknown Kind = iota
	KindVideo
	KindBook
	KindAudiobook
	KindCourse
	KindLinkedContent
	KindChannel
	KindJourney
)

// ParseKind maps a raw content-type string onto a Kind, case-insensitively.
func ParseKind(value string) Kind {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "video":
		return KindVideo
	case "book":
		return KindBook
	case "audiobook":
		return KindAudiobook
	case "course":
		return KindCourse
	case "linked_content", "linkedcontent":
		return KindLinkedContent
	case "channel":
		return KindChannel
	case "journey":
		return KindJourney
	default:
		return KindUnknown
	}
}

func (k Kind) String() string {
	switch k {
	case KindVideo:
		return "video"
	case KindBook:
		return "book"
	case KindAudiobook:
		return "audiobook"
	case KindCourse:
		return "course"
	case KindLinkedContent:
		return "linked_content"
	case KindChannel:
		return "channel"
	case KindJourney:
		return "journey"
	default:
		return "unknown"
	}
}

// Container reports whether the kind groups other assets. Containers derive
// their category from themselves and are never externally completable.
func (k Kind) Container() bool {
	return k == KindChannel || k == KindJourney
}

// Leaf reports whether the kind is playable content that derives its
// category from its first associated channel.
func (k Kind) Leaf() bool {
	switch k {
	case KindVideo, KindBook, KindAudiobook, KindCourse, KindLinkedContent:
		return true
	default:
		return false
	}
}
