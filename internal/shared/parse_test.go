package shared

import "testing"

func TestFormatISODuration(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"hours minutes seconds", "PT1H30M45S", "01:30:45"},
		{"minutes only", "PT9M", "00:09:00"},
		{"seconds only", "PT42S", "00:00:42"},
		{"hours only", "PT12H", "12:00:00"},
		{"fractional seconds floored", "PT1M30.5S", "00:01:30"},
		{"date components ignored in time fields", "P1DT2H", "02:00:00"},
		{"empty", "", ""},
		{"garbage", "ninety minutes", ""},
		{"bare designator", "P", ""},
		{"bare time designator", "PT", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatISODuration(tt.input); got != tt.want {
				t.Errorf("FormatISODuration(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLocaleNames(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantLang   string
		wantRegion string
	}{
		{"language and region", "en-US", "English", "United States"},
		{"language only", "fr", "French", ""},
		{"german", "de-DE", "German", "Germany"},
		{"empty", "", "", ""},
		{"unparseable", "not a locale!", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lang, region := LocaleNames(tt.input)
			if lang != tt.wantLang {
				t.Errorf("LocaleNames(%q) lang = %q, want %q", tt.input, lang, tt.wantLang)
			}
			if region != tt.wantRegion {
				t.Errorf("LocaleNames(%q) region = %q, want %q", tt.input, region, tt.wantRegion)
			}
		})
	}
}

func TestSanitizeURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			"plain url unchanged",
			"https://cdn.example.com/images/thumb.jpg",
			"https://cdn.example.com/images/thumb.jpg",
		},
		{
			"space encoded",
			"https://cdn.example.com/my images/thumb.jpg",
			"https://cdn.example.com/my%20images/thumb.jpg",
		},
		{
			"double encoding collapsed",
			"https://cdn.example.com/my%2520images/thumb.jpg",
			"https://cdn.example.com/my%20images/thumb.jpg",
		},
		{
			"query preserved verbatim",
			"https://cdn.example.com/thumb.jpg?w=320&h=180",
			"https://cdn.example.com/thumb.jpg?w=320&h=180",
		},
		{
			"no scheme returned as-is",
			"cdn.example.com/thumb.jpg",
			"cdn.example.com/thumb.jpg",
		},
		{
			"empty returned as-is",
			"",
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeURL(tt.input); got != tt.want {
				t.Errorf("SanitizeURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
