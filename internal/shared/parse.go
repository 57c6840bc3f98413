package shared

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// isoDuration matches an ISO8601 duration such as PT1H30M45S or P1DT2H.
var isoDuration = regexp.MustCompile(`^P(?:(\d+)Y)?(?:(\d+)M)?(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)(?:\.\d+)?S)?)?$`)

// FormatISODuration converts an ISO8601 duration into HH:MM:SS.
// Returns the empty string for empty or unparseable input; the year, month
// and day components do not contribute to the hour field.
func FormatISODuration(value string) string {
	if value == "" {
		return ""
	}

	match := isoDuration.FindStringSubmatch(value)
	if match == nil {
		return ""
	}

	any := false
	for _, group := range match[1:] {
		if group != "" {
			any = true
			break
		}
	}
	if !any {
		return ""
	}

	hours, _ := strconv.Atoi(zeroIfEmpty(match[4]))
	minutes, _ := strconv.Atoi(zeroIfEmpty(match[5]))
	seconds, _ := strconv.Atoi(zeroIfEmpty(match[6]))

	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

func zeroIfEmpty(s string) string {
	if s == "" {
		return "0"
	}
	return s
}

// LocaleNames resolves an RFC5646 locale code such as "en-US" into
// human-readable language and region names. Both are empty when the code
// cannot be parsed; the region is empty when the code carries no region
// subtag.
func LocaleNames(code string) (lang string, region string) {
	if code == "" {
		return "", ""
	}

	tag, err := language.Parse(code)
	if err != nil {
		return "", ""
	}

	d := display.English

	if base, conf := tag.Base(); conf > language.No {
		lang = d.Languages().Name(base)
	}
	if reg, conf := tag.Region(); conf == language.Exact {
		region = d.Regions().Name(reg)
	}

	return lang, region
}

// SanitizeURL re-encodes the path of a URL so inconsistently or
// double-encoded segments normalize to a single encoding. The input is
// returned verbatim when scheme or host do not parse; query, fragment and
// userinfo are preserved as-is.
func SanitizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return raw
	}

	// u.Path already decoded one layer; decoding each segment once more
	// collapses double-encoded input before re-encoding.
	parts := strings.Split(u.Path, "/")
	for i, part := range parts {
		if decoded, err := url.PathUnescape(part); err == nil {
			part = decoded
		}
		parts[i] = url.PathEscape(part)
	}

	sanitized := u.Scheme + "://"
	if u.User != nil {
		sanitized += u.User.String() + "@"
	}
	sanitized += u.Host + strings.Join(parts, "/")
	if u.RawQuery != "" {
		sanitized += "?" + u.RawQuery
	}
	if u.Fragment != "" {
		sanitized += "#" + u.Fragment
	}
	return sanitized
}
