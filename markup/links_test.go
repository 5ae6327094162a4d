package markup_test

import (
	"reflect"
	"strings"
	"testing"

	"themecheck/markup"
)

const page = `<!doctype html>
<html>
<head>
  <meta charset="utf-8">
  <link rel="preconnect" href="https://fonts.gstatic.com" crossorigin>
  <link rel="stylesheet" href="https://fonts.googleapis.com/css2?family=Roboto:wght@700&display=swap">
  <link rel="stylesheet" href="styles.css">
  <link rel="icon" type="image/png" href="favicons/favicon-32x32.png"/>
  <link rel="apple-touch-icon" href="favicons/apple-touch-icon.png">
</head>
<body><canvas id="grain"></canvas></body>
</html>`

func TestFontLink(t *testing.T) {
	link, err := markup.FontLink(strings.NewReader(page), markup.DefaultFontDomain)
	if err != nil {
		t.Fatalf("FontLink() error = %v", err)
	}
	if !strings.Contains(link, "Roboto") {
		t.Errorf("font link %q does not mention Roboto", link)
	}
	if strings.Contains(link, "DM+Serif+Display") {
		t.Errorf("font link %q still references DM Serif Display", link)
	}
}

func TestFontLink_None(t *testing.T) {
	link, err := markup.FontLink(strings.NewReader(`<html><head><link rel="stylesheet" href="a.css"></head></html>`), markup.DefaultFontDomain)
	if err != nil {
		t.Fatalf("FontLink() error = %v", err)
	}
	if link != "" {
		t.Errorf("expected no font link, got %q", link)
	}
}

func TestMatchesDomain(t *testing.T) {
	tests := []struct {
		href string
		want bool
	}{
		{"https://fonts.googleapis.com/css2?family=Roboto", true},
		{"https://FONTS.googleapis.com/css2", true},
		{"https://cdn.fonts.googleapis.com/x", true},
		{"https://fonts.gstatic.com", false},
		{"https://evilfonts.googleapis.com.example.org/", false},
		{"styles.css", false},
	}
	for _, tt := range tests {
		if got := markup.MatchesDomain(tt.href, markup.DefaultFontDomain); got != tt.want {
			t.Errorf("MatchesDomain(%q) = %v, want %v", tt.href, got, tt.want)
		}
	}
}

func TestFamilies(t *testing.T) {
	tests := []struct {
		href string
		want []string
	}{
		{"https://fonts.googleapis.com/css2?family=Roboto:wght@700", []string{"Roboto"}},
		{"https://fonts.googleapis.com/css2?family=DM+Serif+Display&family=Inter:wght@400;600&display=swap", []string{"DM Serif Display", "Inter"}},
		{"https://fonts.googleapis.com/css2?display=swap", nil},
	}
	for _, tt := range tests {
		if got := markup.Families(tt.href); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Families(%q) = %v, want %v", tt.href, got, tt.want)
		}
	}
}

func TestIconLinks(t *testing.T) {
	icons, err := markup.IconLinks(strings.NewReader(page))
	if err != nil {
		t.Fatalf("IconLinks() error = %v", err)
	}
	want := []string{"favicons/favicon-32x32.png", "favicons/apple-touch-icon.png"}
	if !reflect.DeepEqual(icons, want) {
		t.Errorf("IconLinks() = %v, want %v", icons, want)
	}
}
