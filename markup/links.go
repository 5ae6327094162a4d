// Package markup pulls resource links out of the site's HTML.
package markup

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// DefaultFontDomain is the web font host the site loads its families from.
const DefaultFontDomain = "fonts.googleapis.com"

// Link is a single <link> element.
type Link struct {
	Rel  []string
	Href string
}

// HasRel reports whether link has the given relation (case insensitive).
func (l Link) HasRel(rel string) bool {
	for _, r := range l.Rel {
		if strings.EqualFold(r, rel) {
			return true
		}
	}
	return false
}

// Links returns all <link> elements with non-empty href in document order.
func Links(r io.Reader) ([]Link, error) {
	var links []Link

	z := html.NewTokenizer(r)
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return links, fmt.Errorf("unable to tokenize markup: %w", err)
			}
			return links, nil
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if tok.Data != "link" {
				continue
			}
			var l Link
			for _, a := range tok.Attr {
				switch strings.ToLower(a.Key) {
				case "href":
					l.Href = strings.TrimSpace(a.Val)
				case "rel":
					l.Rel = strings.Fields(a.Val)
				}
			}
			if l.Href != "" {
				links = append(links, l)
			}
		}
	}
}

// MatchesDomain reports whether href points to domain or one of its
// subdomains.
func MatchesDomain(href, domain string) bool {
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	domain = strings.ToLower(domain)
	return host == domain || strings.HasSuffix(host, "."+domain)
}

// FontLinks returns hrefs of <link> elements pointing at the font domain.
func FontLinks(r io.Reader, domain string) ([]string, error) {
	links, err := Links(r)
	if err != nil {
		return nil, err
	}
	var found []string
	for _, l := range links {
		if MatchesDomain(l.Href, domain) {
			found = append(found, l.Href)
		}
	}
	return found, nil
}

// FontLink returns the first font link or empty string when markup has none.
func FontLink(r io.Reader, domain string) (string, error) {
	found, err := FontLinks(r, domain)
	if err != nil || len(found) == 0 {
		return "", err
	}
	return found[0], nil
}

// Families decodes "family" query parameters of a font URL into
// human-readable names, "DM+Serif+Display:ital@0;1" becomes "DM Serif Display".
func Families(href string) []string {
	u, err := url.Parse(href)
	if err != nil {
		return nil
	}
	q, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		// ";" inside axis specs upsets ParseQuery, values parsed so far are fine
		q = parseQueryLenient(u.RawQuery)
	}

	var families []string
	for _, v := range q["family"] {
		name, _, _ := strings.Cut(v, ":")
		if name = strings.TrimSpace(name); name != "" {
			families = append(families, name)
		}
	}
	return families
}

func parseQueryLenient(raw string) url.Values {
	q := make(url.Values)
	for part := range strings.SplitSeq(raw, "&") {
		key, value, _ := strings.Cut(part, "=")
		k, err := url.QueryUnescape(key)
		if err != nil {
			continue
		}
		v, err := url.QueryUnescape(value)
		if err != nil {
			continue
		}
		q[k] = append(q[k], v)
	}
	return q
}

// IconLinks returns hrefs of icon links ("icon", "shortcut icon",
// "apple-touch-icon").
func IconLinks(r io.Reader) ([]string, error) {
	links, err := Links(r)
	if err != nil {
		return nil, err
	}
	var found []string
	for _, l := range links {
		if l.HasRel("icon") || l.HasRel("apple-touch-icon") {
			found = append(found, l.Href)
		}
	}
	return found, nil
}
