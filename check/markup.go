package check

import (
	"bytes"
	"net/url"
	"path/filepath"
	"slices"
	"strings"

	"github.com/h2non/filetype"
	"github.com/srwiley/oksvg"
	"go.uber.org/zap"

	"themecheck/archive"
	"themecheck/markup"
)

func (s *Suite) fonts(page string) Results {
	const linkName = "font link"

	hrefs, err := markup.FontLinks(strings.NewReader(page), s.opts.FontDomain)
	if err != nil {
		return Results{fail(GroupFonts, linkName, "unable to read markup: %v", err)}
	}
	if len(hrefs) == 0 {
		return Results{fail(GroupFonts, linkName, "no <link> to %s", s.opts.FontDomain)}
	}

	var families []string
	for _, href := range hrefs {
		families = append(families, markup.Families(href)...)
	}
	s.log.Debug("Font links found", zap.Strings("hrefs", hrefs), zap.Strings("families", families))

	results := Results{pass(GroupFonts, linkName, "%s", strings.Join(hrefs, " "))}
	for _, family := range s.opts.Expect {
		name := family + " loaded"
		if containsFold(families, family) {
			results = append(results, pass(GroupFonts, name, "family requested"))
		} else {
			results = append(results, fail(GroupFonts, name, "family not requested, have: %s", strings.Join(families, ", ")))
		}
	}
	for _, family := range s.opts.Forbid {
		name := family + " not loaded"
		if containsFold(families, family) {
			results = append(results, fail(GroupFonts, name, "family still requested"))
		} else {
			results = append(results, pass(GroupFonts, name, "family not requested"))
		}
	}
	return results
}

func containsFold(list []string, s string) bool {
	return slices.ContainsFunc(list, func(v string) bool { return strings.EqualFold(v, s) })
}

func (s *Suite) icons(page, dir string) Results {
	hrefs, err := markup.IconLinks(strings.NewReader(page))
	if err != nil {
		return Results{fail(GroupIcons, "icon links", "unable to read markup: %v", err)}
	}

	var results Results
	for _, href := range hrefs {
		u, err := url.Parse(href)
		if err != nil {
			results = append(results, fail(GroupIcons, href, "malformed reference: %v", err))
			continue
		}
		if u.Scheme != "" || u.Host != "" {
			// remote and data URLs are not ours to verify
			s.log.Debug("Skipping icon reference", zap.String("href", href))
			continue
		}
		results = append(results, checkIcon(href, filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(u.Path, "/")))))
	}
	return results
}

func checkIcon(name, path string) Result {
	data, err := archive.ReadFile(path)
	if err != nil {
		return fail(GroupIcons, name, "unable to read %s: %v", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".svg") {
		icon, err := oksvg.ReadIconStream(bytes.NewReader(data), oksvg.StrictErrorMode)
		if err != nil {
			return fail(GroupIcons, name, "%s is not an SVG document: %v", path, err)
		}
		// text without any <svg> element decodes without error
		if icon.ViewBox.W <= 0 || icon.ViewBox.H <= 0 {
			return fail(GroupIcons, name, "%s has no size", path)
		}
		return pass(GroupIcons, name, "image/svg+xml %gx%g", icon.ViewBox.W, icon.ViewBox.H)
	}

	kind, err := filetype.Match(data)
	if err != nil || !filetype.IsImage(data) {
		return fail(GroupIcons, name, "%s is not an image", path)
	}
	return pass(GroupIcons, name, "%s", kind.MIME.Value)
}
