package css

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// MediaFeature is a single "(name: value)" condition of a media query.
type MediaFeature struct {
	Name  string // Feature name (e.g., "prefers-color-scheme")
	Value string // Feature value (e.g., "dark"), empty for boolean features
}

// MediaQuery represents a parsed @media query condition.
type MediaQuery struct {
	Raw      string         // Prelude as returned by the tokenizer
	Type     string         // Media type (e.g., "screen"), empty when only features are given
	Negated  bool           // true if "not" modifier was used on main type
	Features []MediaFeature // Parenthesised conditions joined with "and"
}

// Feature returns the value of the named feature.
func (mq MediaQuery) Feature(name string) (string, bool) {
	for _, f := range mq.Features {
		if strings.EqualFold(f.Name, name) {
			return f.Value, true
		}
	}
	return "", false
}

// String renders the query in canonical form, "(name: value)" for every
// feature, so normalized output can be searched by the block scanner.
func (mq MediaQuery) String() string {
	var parts []string
	if mq.Negated {
		parts = append(parts, "not")
	}
	if mq.Type != "" {
		parts = append(parts, mq.Type)
	}
	for _, f := range mq.Features {
		if len(parts) > 0 && (len(parts) > 1 || !mq.Negated) {
			parts = append(parts, "and")
		}
		if f.Value == "" {
			parts = append(parts, "("+f.Name+")")
		} else {
			parts = append(parts, "("+f.Name+": "+f.Value+")")
		}
	}
	if len(parts) == 0 {
		return mq.Raw
	}
	return strings.Join(parts, " ")
}

// ColorScheme returns the prefers-color-scheme value the query is keyed on,
// or empty string.
func (mq MediaQuery) ColorScheme() string {
	v, _ := mq.Feature("prefers-color-scheme")
	return strings.ToLower(v)
}

// Rule is a single ruleset with its declarations split into regular and custom
// properties.
type Rule struct {
	Selector     string            // Selector text, one per rule (grouped selectors are split)
	Declarations map[string]string // Regular property name -> raw value
	Custom       PropertyMap       // Custom properties in source order
}

// StylesheetItem is a single top-level item in a stylesheet.
// Exactly one of Rule or MediaBlock is non-nil.
type StylesheetItem struct {
	Rule       *Rule
	MediaBlock *MediaBlock
}

// MediaBlock represents a @media block with its query and nested rules.
type MediaBlock struct {
	Query MediaQuery
	Rules []Rule
}

// Stylesheet is a tokenizer level view of a stylesheet.
type Stylesheet struct {
	Items    []StylesheetItem // All top-level items in source order
	Warnings []string         // Things that were skipped
}

// RulesBySelector returns all top-level rules matching the given selector.
func (s *Stylesheet) RulesBySelector(selector string) []Rule {
	var matches []Rule
	for _, item := range s.Items {
		if item.Rule != nil && item.Rule.Selector == selector {
			matches = append(matches, *item.Rule)
		}
	}
	return matches
}

// MediaBlocks returns all @media blocks in source order.
func (s *Stylesheet) MediaBlocks() []MediaBlock {
	var blocks []MediaBlock
	for _, item := range s.Items {
		if item.MediaBlock != nil {
			blocks = append(blocks, *item.MediaBlock)
		}
	}
	return blocks
}

// Schemes returns prefers-color-scheme values which have @media blocks, in
// order of first appearance.
func (s *Stylesheet) Schemes() []string {
	var schemes []string
	seen := make(map[string]bool)
	for _, mb := range s.MediaBlocks() {
		scheme := mb.Query.ColorScheme()
		if scheme == "" || seen[scheme] {
			continue
		}
		seen[scheme] = true
		schemes = append(schemes, scheme)
	}
	return schemes
}

// RootProperties merges custom properties of every top-level rule for
// selector. Later rules override earlier ones, as the cascade would.
func (s *Stylesheet) RootProperties(selector string) PropertyMap {
	props := NewPropertyMap()
	for _, r := range s.RulesBySelector(selector) {
		mergeInto(&props, r.Custom)
	}
	return props
}

// SchemeRules returns selector rules nested in @media blocks keyed on the
// given color scheme.
func (s *Stylesheet) SchemeRules(scheme, selector string) []Rule {
	var matches []Rule
	for _, mb := range s.MediaBlocks() {
		if mb.Query.ColorScheme() != strings.ToLower(scheme) {
			continue
		}
		for _, r := range mb.Rules {
			if r.Selector == selector {
				matches = append(matches, r)
			}
		}
	}
	return matches
}

// SchemeProperties merges custom properties of SchemeRules.
func (s *Stylesheet) SchemeProperties(scheme, selector string) PropertyMap {
	props := NewPropertyMap()
	for _, r := range s.SchemeRules(scheme, selector) {
		mergeInto(&props, r.Custom)
	}
	return props
}

func mergeInto(dst *PropertyMap, src PropertyMap) {
	for _, name := range src.names {
		dst.Set(name, src.values[name])
	}
}

// WriteTo writes normalized stylesheet to w, implementing io.WriterTo.
// Custom properties keep source order, regular ones are sorted.
func (s *Stylesheet) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for i, item := range s.Items {
		var (
			n   int
			err error
		)
		switch {
		case item.MediaBlock != nil:
			n, err = writeMediaBlock(w, item.MediaBlock)
		case item.Rule != nil:
			n, err = writeRule(w, item.Rule, "")
		}
		total += int64(n)
		if err != nil {
			return total, err
		}

		if i < len(s.Items)-1 {
			n, err = fmt.Fprint(w, "\n")
			total += int64(n)
			if err != nil {
				return total, err
			}
		}
	}
	return total, nil
}

// String returns the normalized CSS text of the stylesheet.
func (s *Stylesheet) String() string {
	var sb strings.Builder
	s.WriteTo(&sb) //nolint:errcheck
	return sb.String()
}

func writeRule(w io.Writer, rule *Rule, indent string) (int, error) {
	var total int
	n, err := fmt.Fprintf(w, "%s%s {\n", indent, rule.Selector)
	total += n
	if err != nil {
		return total, err
	}

	for _, name := range rule.Custom.names {
		n, err = fmt.Fprintf(w, "%s  %s: %s;\n", indent, name, rule.Custom.values[name])
		total += n
		if err != nil {
			return total, err
		}
	}

	names := make([]string, 0, len(rule.Declarations))
	for name := range rule.Declarations {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		n, err = fmt.Fprintf(w, "%s  %s: %s;\n", indent, name, rule.Declarations[name])
		total += n
		if err != nil {
			return total, err
		}
	}

	n, err = fmt.Fprintf(w, "%s}\n", indent)
	total += n
	return total, err
}

func writeMediaBlock(w io.Writer, mb *MediaBlock) (int, error) {
	var total int
	n, err := fmt.Fprintf(w, "@media %s {\n", mb.Query)
	total += n
	if err != nil {
		return total, err
	}

	for i := range mb.Rules {
		n, err = writeRule(w, &mb.Rules[i], "  ")
		total += n
		if err != nil {
			return total, err
		}
		if i < len(mb.Rules)-1 {
			n, err = fmt.Fprint(w, "\n")
			total += n
			if err != nil {
				return total, err
			}
		}
	}

	n, err = fmt.Fprint(w, "}\n")
	total += n
	return total, err
}
